package markdown

import (
	"fmt"
	"io"
	"strings"

	yaml "go.yaml.in/yaml/v4"

	"github.com/docbridge/docbridge/ast"
)

// Renderer writes the shared AST back out as GitHub-flavored Markdown.
// Document metadata becomes a YAML front matter block.
type Renderer struct{}

// NewRenderer creates a Markdown renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Render implements the renderer contract.
func (r *Renderer) Render(doc *ast.Document, w io.Writer) error {
	var sb strings.Builder

	if len(doc.Meta) > 0 {
		fm, err := yaml.Marshal(map[string]any(doc.Meta))
		if err != nil {
			return err
		}
		sb.WriteString("---\n")
		sb.Write(fm)
		sb.WriteString("---\n\n")
	}

	sb.WriteString(renderBlocks(doc.Children))
	out := sb.String()
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err := io.WriteString(w, out)
	return err
}

func renderBlocks(nodes []ast.Node) string {
	var blocks []string
	for _, n := range nodes {
		if b := renderBlock(n); b != "" {
			blocks = append(blocks, b)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func renderBlock(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Heading:
		return strings.Repeat("#", n.Level) + " " + renderInlines(n.Children)

	case *ast.Paragraph:
		return renderInlines(n.Children)

	case *ast.CodeBlock:
		value := n.Value
		if value != "" && !strings.HasSuffix(value, "\n") {
			value += "\n"
		}
		return "```" + n.Language + "\n" + value + "```"

	case *ast.List:
		return renderList(n)

	case *ast.BlockQuote:
		return prefixLines(renderBlocks(n.Children), "> ")

	case *ast.ThematicBreak:
		return "---"

	case *ast.Table:
		return renderTable(n)

	case *ast.MathBlock:
		return "$$\n" + n.Value + "\n$$"

	case *ast.DefinitionList:
		return renderDefinitionList(n)

	default:
		// Inline content at block level renders as a bare paragraph.
		return renderInline(n)
	}
}

func renderList(l *ast.List) string {
	var lines []string
	for i, item := range l.Items {
		marker := "- "
		if l.Ordered {
			start := l.Start
			if start == 0 {
				start = 1
			}
			marker = fmt.Sprintf("%d. ", start+i)
		}
		indent := strings.Repeat(" ", len(marker))
		for j, line := range strings.Split(renderBlocks(item.Children), "\n") {
			switch {
			case j == 0:
				lines = append(lines, marker+line)
			case line == "":
				lines = append(lines, "")
			default:
				lines = append(lines, indent+line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func renderTable(t *ast.Table) string {
	width := 0
	if t.Header != nil {
		width = len(t.Header.Cells)
	}
	for _, row := range t.Rows {
		if len(row.Cells) > width {
			width = len(row.Cells)
		}
	}
	if width == 0 {
		return ""
	}

	// Pipe tables require a header row; a headerless table gets an empty
	// one.
	header := t.Header
	if header == nil {
		header = &ast.TableRow{}
	}

	lines := []string{renderTableRow(header, width)}
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(sep, " | ")+" |")
	for _, row := range t.Rows {
		lines = append(lines, renderTableRow(row, width))
	}
	return strings.Join(lines, "\n")
}

func renderTableRow(row *ast.TableRow, width int) string {
	cells := make([]string, width)
	for i := 0; i < width && i < len(row.Cells); i++ {
		cells[i] = renderInlines(row.Cells[i].Children)
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func renderDefinitionList(dl *ast.DefinitionList) string {
	var lines []string
	for _, child := range dl.Children {
		switch child := child.(type) {
		case *ast.DefinitionTerm:
			lines = append(lines, renderInlines(child.Children))
		case *ast.DefinitionDescription:
			lines = append(lines, ": "+renderInlines(child.Children))
		}
	}
	return strings.Join(lines, "\n")
}

func renderInlines(nodes []ast.Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(renderInline(n))
	}
	return sb.String()
}

func renderInline(n ast.Node) string {
	switch n := n.(type) {
	case *ast.Text:
		return n.Value
	case *ast.Strong:
		return "**" + renderInlines(n.Children) + "**"
	case *ast.Emphasis:
		return "*" + renderInlines(n.Children) + "*"
	case *ast.Code:
		return "`" + n.Value + "`"
	case *ast.Strikethrough:
		return "~~" + renderInlines(n.Children) + "~~"
	case *ast.Underline:
		// No Markdown syntax; the content survives unadorned.
		return renderInlines(n.Children)
	case *ast.Superscript:
		return "^" + renderInlines(n.Children) + "^"
	case *ast.Subscript:
		return "~" + renderInlines(n.Children) + "~"
	case *ast.Link:
		if n.Title != "" {
			return fmt.Sprintf("[%s](%s %q)", renderInlines(n.Children), n.Destination, n.Title)
		}
		return fmt.Sprintf("[%s](%s)", renderInlines(n.Children), n.Destination)
	case *ast.Image:
		if n.Title != "" {
			return fmt.Sprintf("![%s](%s %q)", n.Alt, n.Destination, n.Title)
		}
		return fmt.Sprintf("![%s](%s)", n.Alt, n.Destination)
	case *ast.MathInline:
		return "$" + n.Value + "$"
	default:
		return ast.TextContent(n)
	}
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
