package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge/docbridge/ast"
)

func builtinRegistry(t *testing.T) *Registry {
	t.Helper()
	r := New(nil)
	r.InstallBuiltins()
	return r
}

func apply(t *testing.T, r *Registry, name string, params map[string]any, doc *ast.Document) *ast.Document {
	t.Helper()
	tr, err := r.GetTransform(name, params)
	require.NoError(t, err)
	out, err := tr.Transform(doc)
	require.NoError(t, err)
	return out
}

func TestStripImages_KeepAlt(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{
			&ast.Text{Value: "see "},
			&ast.Image{Destination: "fig.png", Alt: "the figure"},
		}},
	}}

	out := apply(t, r, "strip-images", nil, doc)

	assert.Zero(t, ast.Count(out, ast.TypeImage))
	assert.Equal(t, "see the figure", ast.TextContent(out))
}

func TestStripImages_DropAlt(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{
			&ast.Text{Value: "see"},
			&ast.Image{Destination: "fig.png", Alt: "the figure"},
		}},
	}}

	out := apply(t, r, "strip-images", map[string]any{"keep_alt": false}, doc)

	assert.Zero(t, ast.Count(out, ast.TypeImage))
	assert.Equal(t, "see", ast.TextContent(out))
}

func TestStripImages_InsideListItem(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.List{Items: []*ast.ListItem{
			{Children: []ast.Node{&ast.Paragraph{Children: []ast.Node{
				&ast.Image{Destination: "x.png", Alt: "alt"},
			}}}},
		}},
	}}

	out := apply(t, r, "strip-images", nil, doc)
	assert.Zero(t, ast.Count(out, ast.TypeImage))
	assert.Equal(t, "alt", ast.TextContent(out))
}

func TestStripFormatting(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{
			&ast.Strong{Children: []ast.Node{
				&ast.Emphasis{Children: []ast.Node{&ast.Text{Value: "both"}}},
			}},
			&ast.Strikethrough{Children: []ast.Node{&ast.Text{Value: " struck"}}},
		}},
	}}

	out := apply(t, r, "strip-formatting", nil, doc)

	assert.Zero(t, ast.Count(out, ast.TypeStrong))
	assert.Zero(t, ast.Count(out, ast.TypeEmphasis))
	assert.Zero(t, ast.Count(out, ast.TypeStrikethrough))
	assert.Equal(t, "both struck", ast.TextContent(out))
}

func TestNormalizeHeadings(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.Heading{Level: 1, Children: []ast.Node{&ast.Text{Value: "one"}}},
		&ast.Heading{Level: 5, Children: []ast.Node{&ast.Text{Value: "five"}}},
	}}

	out := apply(t, r, "normalize-headings", map[string]any{"max_level": 3}, doc)

	assert.Equal(t, 1, out.Children[0].(*ast.Heading).Level)
	assert.Equal(t, 3, out.Children[1].(*ast.Heading).Level)
}

func TestNormalizeHeadings_RejectsBadMaxLevel(t *testing.T) {
	r := builtinRegistry(t)
	_, err := r.GetTransform("normalize-headings", map[string]any{"max_level": 0})
	assert.Error(t, err)
	_, err = r.GetTransform("normalize-headings", map[string]any{"max_level": 7})
	assert.Error(t, err)
}

func TestHeadingAnchors(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.Heading{Level: 1, Children: []ast.Node{&ast.Text{Value: "Getting Started"}}},
		&ast.Heading{Level: 2, Children: []ast.Node{&ast.Text{Value: "Getting Started"}}},
		&ast.Heading{Level: 2, Children: []ast.Node{&ast.Text{Value: "Résumé & CV"}}},
	}}

	out := apply(t, r, "heading-anchors", nil, doc)

	assert.Equal(t, "getting-started", out.Children[0].(*ast.Heading).ID)
	assert.Equal(t, "getting-started-1", out.Children[1].(*ast.Heading).ID)
	assert.Equal(t, "resume-cv", out.Children[2].(*ast.Heading).ID)
}

func TestHeadingAnchors_DependsOnNormalizeHeadings(t *testing.T) {
	r := builtinRegistry(t)

	order, err := r.ResolveDependencies([]string{"heading-anchors"})
	require.NoError(t, err)
	assert.Equal(t, []string{"normalize-headings", "heading-anchors"}, order)
}

func TestFlattenTables_WithHeader(t *testing.T) {
	r := builtinRegistry(t)
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

	out := apply(t, r, "flatten-tables", nil, doc)

	assert.Zero(t, ast.Count(out, ast.TypeTable))
	assert.Equal(t, 2, ast.Count(out, ast.TypeDefinitionTerm))
	assert.Equal(t, 2, ast.Count(out, ast.TypeDefinitionDescription))
	assert.Equal(t, "NameAdaRoleEngineer", ast.TextContent(out))
}

func TestFlattenTables_WithoutHeader(t *testing.T) {
	r := builtinRegistry(t)
	doc := &ast.Document{Children: []ast.Node{
		&ast.Table{Rows: []*ast.TableRow{
			{Cells: []*ast.TableCell{
				{Children: []ast.Node{&ast.Text{Value: "a"}}},
				{Children: []ast.Node{&ast.Text{Value: "b"}}},
			}},
		}},
	}}

	out := apply(t, r, "flatten-tables", nil, doc)

	assert.Zero(t, ast.Count(out, ast.TypeTable))
	assert.Equal(t, 1, ast.Count(out, ast.TypeList))
	assert.Equal(t, "a, b", ast.TextContent(out))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"Hello, World!", "hello-world"},
		{"Résumé & CV", "resume-cv"},
		{"  spaces  ", "spaces"},
		{"already-slugged", "already-slugged"},
		{"Ünïcödé", "unicode"},
		{"123 go", "123-go"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestRewrite_Splice(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{&ast.Text{Value: "x"}}},
	}}

	// One paragraph becomes two nodes.
	Rewrite(doc, func(n ast.Node) []ast.Node {
		if _, ok := n.(*ast.Paragraph); ok {
			return []ast.Node{n, &ast.ThematicBreak{}}
		}
		return Keep(n)
	})

	require.Len(t, doc.Children, 2)
	assert.Equal(t, ast.TypeThematicBreak, doc.Children[1].Type())
}
