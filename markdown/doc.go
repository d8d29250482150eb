// Package markdown is the reference converter: a goldmark-backed parser
// from GitHub-flavored Markdown into the shared AST, and a renderer back
// out. YAML front matter becomes document metadata.
//
// Importing the package registers the converter with the default registry:
//
//	import _ "github.com/docbridge/docbridge/markdown"
//
// Applications composing their own registry can register explicitly via
// the exported Plugin.
package markdown
