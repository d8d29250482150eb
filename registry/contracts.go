package registry

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/docbridge/docbridge/ast"
)

// Parser is the contract every format parser implements: decode one input
// into the shared AST. Inputs arrive as streams; use ParseFile and
// ParseBytes for path and buffer entry points.
type Parser interface {
	// Parse reads the input and builds a Document.
	Parse(r io.Reader) (*ast.Document, error)

	// ExtractMetadata returns format-level metadata for an already-parsed
	// document (title, author, date, keywords, custom keys).
	ExtractMetadata(doc *ast.Document) ast.Metadata
}

// Renderer is the contract every format renderer implements: encode the
// shared AST into one output format.
type Renderer interface {
	// Render writes the document to w.
	Render(doc *ast.Document, w io.Writer) error
}

// ContentDetector performs bounded deeper inspection of an input to decide
// whether a format applies, for cases where extensions and magic bytes are
// ambiguous (e.g. listing a ZIP archive's entries without decompressing
// them). Implementations only ever see the bounded detection prefix.
type ContentDetector interface {
	// Match reports whether the format applies to the given prefix.
	Match(prefix []byte) bool
}

// ContentDetectorFunc adapts a function to the ContentDetector interface.
type ContentDetectorFunc func(prefix []byte) bool

// Match implements ContentDetector.
func (f ContentDetectorFunc) Match(prefix []byte) bool { return f(prefix) }

// ParserFactory constructs a Parser. Factories are registered under a name
// at plugin-registration time and looked up when a metadata entry
// references its parser by name instead of by direct handle.
type ParserFactory func() Parser

// RendererFactory constructs a Renderer.
type RendererFactory func() Renderer

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) (*ast.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	return p.Parse(f)
}

// ParseBytes parses an in-memory buffer with p.
func ParseBytes(p Parser, data []byte) (*ast.Document, error) {
	return p.Parse(bytes.NewReader(data))
}

// RenderString renders doc with r and returns the output as a string.
func RenderString(r Renderer, doc *ast.Document) (string, error) {
	var sb strings.Builder
	if err := r.Render(doc, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// RenderFile renders doc with r into a file at path, creating or
// truncating it.
func RenderFile(r Renderer, doc *ast.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Render(doc, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
