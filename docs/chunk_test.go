package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkByChars_SingleChunk(t *testing.T) {
	chunks := ChunkByChars("short text", 2048, 0, 256)
	assert.Equal(t, []string{"short text"}, chunks)
}

func TestChunkByChars_Empty(t *testing.T) {
	assert.Nil(t, ChunkByChars("", 100, 0, 10))
}

func TestChunkByChars_WithOverlap(t *testing.T) {
	text := "This is a sample text for chunking."
	chunks := ChunkByChars(text, 10, 0.2, 5)

	require.Len(t, chunks, 4)
	assert.Equal(t, "This is a s", chunks[0])
	// Interior chunks extend one overlap character on both sides.
	assert.Equal(t, " sample text", chunks[1])
	assert.Equal(t, "xt for chunk", chunks[2])
	assert.Equal(t, "nking.", chunks[3])
}

func TestChunkByChars_TailMergedUnderThreshold(t *testing.T) {
	// 25 characters with chunkSize 10: the 5-char remainder is below
	// the threshold, so it folds into the second chunk.
	text := strings.Repeat("a", 25)
	chunks := ChunkByChars(text, 10, 0, 6)

	require.Len(t, chunks, 2)
	assert.Equal(t, 10, len(chunks[0]))
	assert.Equal(t, 15, len(chunks[1]))
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestChunkByChars_TailKeptOverThreshold(t *testing.T) {
	text := strings.Repeat("a", 25)
	chunks := ChunkByChars(text, 10, 0, 3)

	require.Len(t, chunks, 3)
	assert.Equal(t, 5, len(chunks[2]))
}

func TestChunkByChars_TwoParts(t *testing.T) {
	text := strings.Repeat("x", 15)

	// Remainder above threshold: two chunks.
	chunks := ChunkByChars(text, 10, 0, 3)
	require.Len(t, chunks, 2)

	// Remainder below threshold: single chunk.
	chunks = ChunkByChars(text, 10, 0, 8)
	assert.Equal(t, []string{text}, chunks)
}

func TestChunkByChars_CoversAllInput(t *testing.T) {
	text := strings.Repeat("abcdefghij", 53)
	chunks := ChunkByChars(text, 100, 0.1, 20)

	require.NotEmpty(t, chunks)
	// Without overlap trimming, concatenation must contain every
	// character; with overlap, total length is at least the input.
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(text))
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestChunkByTokens_SingleChunk(t *testing.T) {
	chunks := ChunkByTokens([]string{"only", "a", "few", "words"}, 1024, 0, 128)
	assert.Equal(t, []string{"only a few words"}, chunks)
}

func TestChunkByTokens_Empty(t *testing.T) {
	assert.Nil(t, ChunkByTokens(nil, 10, 0, 2))
}

func TestChunkByTokens_WithOverlap(t *testing.T) {
	tokens := []string{"This", "is", "a", "sample", "text", "for", "chunking."}
	chunks := ChunkByTokens(tokens, 3, 0.8, 1)

	require.Len(t, chunks, 3)
	assert.Equal(t, "This is a sample", chunks[0])
	assert.Equal(t, "a sample text for chunking.", chunks[1])
	assert.Equal(t, "for chunking.", chunks[2])
}

func TestChunkByTokens_TailMergedUnderThreshold(t *testing.T) {
	tokens := strings.Fields(strings.Repeat("w ", 22))
	chunks := ChunkByTokens(tokens, 10, 0, 5)

	require.Len(t, chunks, 2)
	assert.Equal(t, 10, len(strings.Fields(chunks[0])))
	assert.Equal(t, 12, len(strings.Fields(chunks[1])))
}

func TestChunkWords(t *testing.T) {
	text := "one two three four five six seven"
	chunks := ChunkWords(text, 4, 0, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, "one two three four", chunks[0])
	assert.Equal(t, "five six seven", chunks[1])
}

func TestChunkWords_ExactMultipleCollapses(t *testing.T) {
	// A token count that divides evenly leaves no residue, so the
	// two-part case folds back into a single chunk.
	chunks := ChunkWords("one two three four five six", 3, 0, 0)
	assert.Equal(t, []string{"one two three four five six"}, chunks)
}

func TestChunkDocument_Metadata(t *testing.T) {
	doc := NewDocument(strings.Repeat("a", 25))
	doc.SetMeta("source", "test.txt")

	pieces := ChunkDocument(doc, 10, 0, 3)
	require.Len(t, pieces, 3)

	assert.Equal(t, "test.txt", pieces[0].Metadata["source"])
	assert.Equal(t, 1, pieces[0].Metadata["chunk_id"])
	assert.Equal(t, 3, pieces[0].Metadata["total_chunks"])
	assert.Equal(t, 10, pieces[0].Metadata["chunk_size"])
	assert.Equal(t, 3, pieces[2].Metadata["chunk_id"])
}

func TestChunkByChars_Unicode(t *testing.T) {
	// Multibyte runes must not be split.
	text := strings.Repeat("日本語テキスト", 5) // 35 runes
	chunks := ChunkByChars(text, 10, 0, 3)

	require.Len(t, chunks, 4)
	for _, c := range chunks {
		assert.True(t, strings.ContainsRune("日本語テキスト", []rune(c)[0]))
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}
