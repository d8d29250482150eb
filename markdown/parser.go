package markdown

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/docbridge/docbridge/ast"
)

// Parser parses GitHub-flavored Markdown into the shared AST. A Parser is
// safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Markdown parser with the GFM extensions (tables,
// strikethrough, autolinks, task lists).
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Parse reads Markdown from r and builds a Document. A leading YAML front
// matter block becomes the document metadata.
func (p *Parser) Parse(r io.Reader) (*ast.Document, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitFrontMatter(source)
	if err != nil {
		return nil, err
	}

	root := p.md.Parser().Parse(text.NewReader(body))
	doc := &ast.Document{Meta: meta}
	doc.Children = convertChildren(root, body)
	return doc, nil
}

// ExtractMetadata implements the parser contract.
func (p *Parser) ExtractMetadata(doc *ast.Document) ast.Metadata {
	return doc.Meta
}

func convertChildren(n gast.Node, source []byte) []ast.Node {
	var out []ast.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		out = append(out, convertNode(c, source)...)
	}
	return out
}

// convertNode maps one goldmark node to zero or more AST nodes. Raw HTML
// has no AST representation and is dropped.
func convertNode(n gast.Node, source []byte) []ast.Node {
	switch n := n.(type) {
	case *gast.Heading:
		level := n.Level
		if level > 6 {
			level = 6
		}
		return []ast.Node{&ast.Heading{Level: level, Children: convertChildren(n, source)}}

	case *gast.Paragraph:
		return []ast.Node{&ast.Paragraph{Children: convertChildren(n, source)}}

	case *gast.TextBlock:
		// Tight list item content parses as a text block.
		return []ast.Node{&ast.Paragraph{Children: convertChildren(n, source)}}

	case *gast.Text:
		value := string(n.Segment.Value(source))
		switch {
		case n.HardLineBreak():
			value += "\n"
		case n.SoftLineBreak():
			value += " "
		}
		return []ast.Node{&ast.Text{Value: value}}

	case *gast.String:
		return []ast.Node{&ast.Text{Value: string(n.Value)}}

	case *gast.Emphasis:
		if n.Level == 2 {
			return []ast.Node{&ast.Strong{Children: convertChildren(n, source)}}
		}
		return []ast.Node{&ast.Emphasis{Children: convertChildren(n, source)}}

	case *gast.CodeSpan:
		return []ast.Node{&ast.Code{Value: flattenText(n, source)}}

	case *gast.FencedCodeBlock:
		return []ast.Node{&ast.CodeBlock{
			Language: string(n.Language(source)),
			Value:    blockLines(n, source),
		}}

	case *gast.CodeBlock:
		return []ast.Node{&ast.CodeBlock{Value: blockLines(n, source)}}

	case *gast.List:
		list := &ast.List{Ordered: n.IsOrdered(), Start: n.Start}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			list.Items = append(list.Items, &ast.ListItem{
				Children: convertChildren(item, source),
			})
		}
		return []ast.Node{list}

	case *gast.Link:
		return []ast.Node{&ast.Link{
			Destination: string(n.Destination),
			Title:       string(n.Title),
			Children:    convertChildren(n, source),
		}}

	case *gast.AutoLink:
		url := string(n.URL(source))
		return []ast.Node{&ast.Link{
			Destination: url,
			Children:    []ast.Node{&ast.Text{Value: string(n.Label(source))}},
		}}

	case *gast.Image:
		return []ast.Node{&ast.Image{
			Destination: string(n.Destination),
			Title:       string(n.Title),
			Alt:         flattenText(n, source),
		}}

	case *gast.Blockquote:
		return []ast.Node{&ast.BlockQuote{Children: convertChildren(n, source)}}

	case *gast.ThematicBreak:
		return []ast.Node{&ast.ThematicBreak{}}

	case *gast.HTMLBlock, *gast.RawHTML:
		return nil

	case *extast.Table:
		return []ast.Node{convertTable(n, source)}

	case *extast.Strikethrough:
		return []ast.Node{&ast.Strikethrough{Children: convertChildren(n, source)}}

	case *extast.TaskCheckBox:
		if n.IsChecked {
			return []ast.Node{&ast.Text{Value: "[x] "}}
		}
		return []ast.Node{&ast.Text{Value: "[ ] "}}

	default:
		// Unknown container nodes contribute their children in place.
		return convertChildren(n, source)
	}
}

func convertTable(n *extast.Table, source []byte) *ast.Table {
	table := &ast.Table{}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		row := &ast.TableRow{}
		for cell := c.FirstChild(); cell != nil; cell = cell.NextSibling() {
			row.Cells = append(row.Cells, &ast.TableCell{
				Children: convertChildren(cell, source),
			})
		}
		if _, ok := c.(*extast.TableHeader); ok {
			table.Header = row
		} else {
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}

// blockLines joins a code block's line segments.
func blockLines(n gast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

// flattenText collects the literal text under an inline node.
func flattenText(n gast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *gast.Text:
			sb.Write(c.Segment.Value(source))
		case *gast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(flattenText(c, source))
		}
	}
	return sb.String()
}
