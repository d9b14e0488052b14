package docs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// Document is a piece of loadable text with provenance metadata.
type Document struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewDocument creates a document from raw text.
func NewDocument(text string) *Document {
	return &Document{Text: text}
}

// SetMeta sets a metadata key, allocating the map on first use.
func (d *Document) SetMeta(key string, value any) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]any)
	}
	d.Metadata[key] = value
}

// LoadText reads a plain-text document from r.
func LoadText(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return NewDocument(string(data)), nil
}

// LoadTextFile reads a plain-text document from a file, recording the
// path in metadata.
func LoadTextFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := LoadText(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}
	doc.SetMeta("path", path)
	return doc, nil
}

// LoadMarkdown parses Markdown and keeps only the textual content:
// headings, paragraphs, list items and code blocks, separated by
// newlines.
func LoadMarkdown(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	root := p.Parse(data)

	var sb strings.Builder
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if !entering {
				sb.WriteString("\n")
			}
		}
		return ast.GoToNext
	})

	return NewDocument(normalizeWhitespace(sb.String())), nil
}

// LoadHTML sanitizes HTML and extracts its visible text. Scripts,
// styles and event handlers are dropped before extraction.
func LoadHTML(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	sanitized := bluemonday.UGCPolicy().SanitizeBytes(data)

	gq, err := goquery.NewDocumentFromReader(strings.NewReader(string(sanitized)))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	gq.Find("script, style, noscript").Remove()

	return NewDocument(normalizeWhitespace(gq.Text())), nil
}

// normalizeWhitespace collapses runs of blank lines and trims each
// line, so extracted text chunks cleanly.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
