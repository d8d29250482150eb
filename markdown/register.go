package markdown

import (
	"github.com/docbridge/docbridge/registry"
)

// FormatName is the registered format name of the Markdown converter.
const FormatName = "markdown"

// Metadata builds a fresh converter metadata entry for Markdown.
func Metadata() *registry.ConverterMetadata {
	return &registry.ConverterMetadata{
		FormatName:  FormatName,
		Extensions:  []string{".md", ".markdown", ".mdown"},
		MIMETypes:   []string{"text/markdown", "text/x-markdown"},
		Parser:      NewParser(),
		Renderer:    NewRenderer(),
		Description: "GitHub-flavored Markdown with YAML front matter",
	}
}

// Plugin registers the Markdown converter, for applications composing
// their own registry via Discover.
type Plugin struct{}

// Name implements registry.Plugin.
func (Plugin) Name() string { return FormatName }

// Register implements registry.Plugin.
func (Plugin) Register(r *registry.Registry) error {
	return r.Register(Metadata())
}

func init() {
	// Metadata is statically valid, so registration cannot fail.
	_ = registry.Default().Register(Metadata())
}
