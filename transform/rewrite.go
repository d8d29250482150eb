package transform

import "github.com/docbridge/docbridge/ast"

// RewriteFunc maps a node to its replacement nodes: return the node itself
// to keep it, multiple nodes to splice, or nil to remove it.
type RewriteFunc func(n ast.Node) []ast.Node

// Keep is the identity replacement for RewriteFunc implementations.
func Keep(n ast.Node) []ast.Node { return []ast.Node{n} }

// Rewrite applies fn to every node in the document's child slices,
// bottom-up, rebuilding each slice from the replacements. Structural
// members of typed containers (list items, table rows and cells,
// definition entries) are not themselves replaced; fn sees their contents.
func Rewrite(doc *ast.Document, fn RewriteFunc) {
	doc.Children = rewriteSlice(doc.Children, fn)
}

func rewriteSlice(nodes []ast.Node, fn RewriteFunc) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		rewriteChildren(n, fn)
		out = append(out, fn(n)...)
	}
	return out
}

// rewriteChildren descends into n's containers. The switch is exhaustive
// over the sealed variant set; leaf variants need no case.
func rewriteChildren(n ast.Node, fn RewriteFunc) {
	switch v := n.(type) {
	case *ast.Document:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Heading:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Paragraph:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Strong:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Emphasis:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.List:
		for _, item := range v.Items {
			item.Children = rewriteSlice(item.Children, fn)
		}
	case *ast.ListItem:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Table:
		if v.Header != nil {
			rewriteRow(v.Header, fn)
		}
		for _, row := range v.Rows {
			rewriteRow(row, fn)
		}
	case *ast.TableRow:
		rewriteRow(v, fn)
	case *ast.TableCell:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Link:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.BlockQuote:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.DefinitionList:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.DefinitionTerm:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.DefinitionDescription:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Strikethrough:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Underline:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Superscript:
		v.Children = rewriteSlice(v.Children, fn)
	case *ast.Subscript:
		v.Children = rewriteSlice(v.Children, fn)
	}
}

func rewriteRow(row *ast.TableRow, fn RewriteFunc) {
	for _, cell := range row.Cells {
		cell.Children = rewriteSlice(cell.Children, fn)
	}
}
