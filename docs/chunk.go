package docs

import (
	"strings"
)

const (
	defaultCharChunkSize  = 2048
	defaultCharThreshold  = 256
	defaultTokenChunkSize = 1024
	defaultTokenThreshold = 128
)

// ChunkByChars splits text into chunks of approximately chunkSize
// characters. overlap is the fraction of chunkSize shared between
// neighboring chunks (half on each side). A trailing remainder shorter
// than threshold is merged into the previous chunk instead of forming
// one of its own.
func ChunkByChars(text string, chunkSize int, overlap float64, threshold int) []string {
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = defaultCharChunkSize
	}
	if threshold < 0 {
		threshold = defaultCharThreshold
	}

	runes := []rune(text)
	nChunks := (len(runes) + chunkSize - 1) / chunkSize
	overlapSize := int(float64(chunkSize) * overlap / 2)

	switch {
	case nChunks <= 1:
		return []string{text}
	case nChunks == 2:
		return chunkTwoParts(runes, chunkSize, overlapSize, threshold)
	default:
		return chunkMultipleParts(runes, chunkSize, overlapSize, nChunks, threshold)
	}
}

func chunkTwoParts(runes []rune, chunkSize, overlapSize, threshold int) []string {
	first := string(runes[:clamp(chunkSize+overlapSize, len(runes))])
	if len(runes)-chunkSize > threshold {
		return []string{first, string(runes[chunkSize-overlapSize:])}
	}
	return []string{string(runes)}
}

func chunkMultipleParts(runes []rune, chunkSize, overlapSize, nChunks, threshold int) []string {
	chunks := []string{string(runes[:clamp(chunkSize+overlapSize, len(runes))])}

	for i := 1; i < nChunks-1; i++ {
		start := chunkSize*i - overlapSize
		end := clamp(chunkSize*(i+1)+overlapSize, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}

	lastStart := chunkSize*(nChunks-1) - overlapSize
	if len(runes)-lastStart > threshold {
		chunks = append(chunks, string(runes[lastStart:]))
	} else {
		tail := clamp(chunkSize*(nChunks-1)+overlapSize, len(runes))
		chunks[len(chunks)-1] += string(runes[tail:])
	}
	return chunks
}

// ChunkByTokens splits a token sequence the same way ChunkByChars
// splits characters, rejoining each chunk with single spaces.
func ChunkByTokens(tokens []string, chunkSize int, overlap float64, threshold int) []string {
	if len(tokens) == 0 {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = defaultTokenChunkSize
	}
	if threshold < 0 {
		threshold = defaultTokenThreshold
	}

	nChunks := (len(tokens) + chunkSize - 1) / chunkSize
	overlapSize := int(overlap * float64(chunkSize) / 2)
	residue := len(tokens) % chunkSize

	switch {
	case nChunks <= 1:
		return []string{joinTokens(tokens)}
	case nChunks == 2:
		if residue > threshold {
			return []string{
				joinTokens(tokens[:clamp(chunkSize+overlapSize, len(tokens))]),
				joinTokens(tokens[chunkSize-overlapSize:]),
			}
		}
		return []string{joinTokens(tokens)}
	default:
		return chunkTokensMultipleParts(tokens, chunkSize, overlapSize, nChunks, threshold, residue)
	}
}

func chunkTokensMultipleParts(tokens []string, chunkSize, overlapSize, nChunks, threshold, residue int) []string {
	groups := [][]string{tokens[:clamp(chunkSize+overlapSize, len(tokens))]}

	for i := 1; i < nChunks-1; i++ {
		start := chunkSize*i - overlapSize
		end := clamp(chunkSize*(i+1)+overlapSize, len(tokens))
		groups = append(groups, tokens[start:end])
	}

	lastStart := chunkSize*(nChunks-1) - overlapSize
	if len(tokens)-lastStart > threshold {
		groups = append(groups, tokens[lastStart:])
	} else if residue > 0 {
		last := groups[len(groups)-1]
		merged := make([]string, 0, len(last)+residue)
		merged = append(merged, last...)
		merged = append(merged, tokens[len(tokens)-residue:]...)
		groups[len(groups)-1] = merged
	}

	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = joinTokens(g)
	}
	return out
}

// ChunkWords is ChunkByTokens over whitespace-separated words.
func ChunkWords(text string, chunkSize int, overlap float64, threshold int) []string {
	return ChunkByTokens(strings.Fields(text), chunkSize, overlap, threshold)
}

// ChunkDocument splits a document and stamps each piece with chunk
// provenance metadata.
func ChunkDocument(doc *Document, chunkSize int, overlap float64, threshold int) []*Document {
	chunks := ChunkByChars(doc.Text, chunkSize, overlap, threshold)

	out := make([]*Document, 0, len(chunks))
	for i, chunk := range chunks {
		piece := &Document{Text: chunk, Metadata: make(map[string]any, len(doc.Metadata)+3)}
		for k, v := range doc.Metadata {
			piece.Metadata[k] = v
		}
		piece.Metadata["chunk_id"] = i + 1
		piece.Metadata["total_chunks"] = len(chunks)
		piece.Metadata["chunk_size"] = len(chunk)
		out = append(out, piece)
	}
	return out
}

func joinTokens(tokens []string) string {
	return strings.TrimSpace(strings.Join(tokens, " "))
}

func clamp(n, max int) int {
	if n > max {
		return max
	}
	return n
}
