package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge/docbridge/ast"
	"github.com/docbridge/docbridge/registry"
)

func render(t *testing.T, doc *ast.Document) string {
	t.Helper()
	out, err := registry.RenderString(NewRenderer(), doc)
	require.NoError(t, err)
	return out
}

func TestRender_Blocks(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Heading{Level: 2, Children: []ast.Node{&ast.Text{Value: "Usage"}}},
		&ast.Paragraph{Children: []ast.Node{
			&ast.Text{Value: "run "},
			&ast.Code{Value: "make"},
		}},
		&ast.CodeBlock{Language: "sh", Value: "make build\n"},
		&ast.ThematicBreak{},
	}}

	out := render(t, doc)
	assert.Equal(t, "## Usage\n\nrun `make`\n\n```sh\nmake build\n```\n\n---\n", out)
}

func TestRender_Inline(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{
			&ast.Strong{Children: []ast.Node{&ast.Text{Value: "bold"}}},
			&ast.Text{Value: " and "},
			&ast.Emphasis{Children: []ast.Node{&ast.Text{Value: "italic"}}},
			&ast.Text{Value: " and "},
			&ast.Strikethrough{Children: []ast.Node{&ast.Text{Value: "gone"}}},
		}},
	}}

	assert.Equal(t, "**bold** and *italic* and ~~gone~~\n", render(t, doc))
}

func TestRender_LinkAndImage(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{
			&ast.Link{
				Destination: "https://example.com",
				Title:       "Example",
				Children:    []ast.Node{&ast.Text{Value: "home"}},
			},
			&ast.Text{Value: " "},
			&ast.Image{Destination: "logo.png", Alt: "logo"},
		}},
	}}

	assert.Equal(t, "[home](https://example.com \"Example\") ![logo](logo.png)\n", render(t, doc))
}

func TestRender_Lists(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.List{Ordered: true, Start: 3, Items: []*ast.ListItem{
			{Children: []ast.Node{&ast.Paragraph{Children: []ast.Node{&ast.Text{Value: "three"}}}}},
			{Children: []ast.Node{&ast.Paragraph{Children: []ast.Node{&ast.Text{Value: "four"}}}}},
		}},
	}}

	assert.Equal(t, "3. three\n4. four\n", render(t, doc))
}

func TestRender_Blockquote(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.BlockQuote{Children: []ast.Node{
			&ast.Paragraph{Children: []ast.Node{&ast.Text{Value: "first"}}},
			&ast.Paragraph{Children: []ast.Node{&ast.Text{Value: "second"}}},
		}},
	}}

	assert.Equal(t, "> first\n>\n> second\n", render(t, doc))
}

func TestRender_Table(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Table{
			Header: &ast.TableRow{Cells: []*ast.TableCell{
				{Children: []ast.Node{&ast.Text{Value: "Name"}}},
				{Children: []ast.Node{&ast.Text{Value: "Role"}}},
			}},
			Rows: []*ast.TableRow{
				{Cells: []*ast.TableCell{
					{Children: []ast.Node{&ast.Text{Value: "Ada"}}},
					{Children: []ast.Node{&ast.Text{Value: "Engineer"}}},
				}},
			},
		},
	}}

	assert.Equal(t,
		"| Name | Role |\n| --- | --- |\n| Ada | Engineer |\n",
		render(t, doc))
}

func TestRender_FrontMatter(t *testing.T) {
	doc := &ast.Document{
		Meta:     ast.Metadata{ast.MetaTitle: "My Doc"},
		Children: []ast.Node{&ast.Paragraph{Children: []ast.Node{&ast.Text{Value: "body"}}}},
	}

	out := render(t, doc)
	assert.True(t, strings.HasPrefix(out, "---\ntitle: My Doc\n---\n\n"))
	assert.Contains(t, out, "body")
}

func TestRender_Math(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{&ast.MathInline{Value: "e=mc^2"}}},
		&ast.MathBlock{Value: "\\int_0^1 x\\,dx"},
	}}

	assert.Equal(t, "$e=mc^2$\n\n$$\n\\int_0^1 x\\,dx\n$$\n", render(t, doc))
}

func TestRoundTrip_PreservesStructure(t *testing.T) {
	input := `# Title

Some **bold** and *italic* text with [a link](https://example.com).

- alpha
- beta

` + "```go\nfmt.Println(\"hi\")\n```" + `

| A | B |
| --- | --- |
| 1 | 2 |
`
	first := parse(t, input)
	second := parse(t, render(t, first))

	assert.Equal(t, ast.Types(first), ast.Types(second))
	assert.Equal(t, ast.TextContent(first), ast.TextContent(second))
}

func TestDefaultRegistration(t *testing.T) {
	meta, err := registry.Default().Get(FormatName)
	require.NoError(t, err)
	assert.Contains(t, meta.Extensions, ".md")

	detected, err := registry.Default().DetectBytes([]byte("# hi\n"), "readme.md")
	require.NoError(t, err)
	assert.Equal(t, FormatName, detected.FormatName)
}

func TestPlugin_Register(t *testing.T) {
	r := registry.New(nil)
	errs := r.Discover(Plugin{})
	require.Empty(t, errs)

	_, err := r.Get(FormatName)
	assert.NoError(t, err)
}
