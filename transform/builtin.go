package transform

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	texttransform "golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/docbridge/docbridge/ast"
	"github.com/docbridge/docbridge/docerrors"
)

// builtinTransforms returns the metadata for the built-in transforms.
func builtinTransforms() []*TransformMetadata {
	return []*TransformMetadata{
		{
			Name:        "strip-images",
			Description: "remove images, optionally keeping their alt text",
			Priority:    10,
			Tags:        []string{"lossy", "media"},
			Params: map[string]ParamSpec{
				"keep_alt": {Type: ParamBool, Default: true},
			},
			Factory: func(params Params) (Transformer, error) {
				return &stripImages{keepAlt: params.Bool("keep_alt")}, nil
			},
		},
		{
			Name:        "strip-formatting",
			Description: "unwrap bold, italic, and related inline formatting to plain runs",
			Priority:    15,
			Tags:        []string{"lossy", "inline"},
			Factory: func(Params) (Transformer, error) {
				return &stripFormatting{}, nil
			},
		},
		{
			Name:        "normalize-headings",
			Description: "clamp heading levels into the 1..max_level range",
			Priority:    20,
			Tags:        []string{"structure"},
			Params: map[string]ParamSpec{
				"max_level": {Type: ParamInt, Default: 6},
			},
			Factory: func(params Params) (Transformer, error) {
				max := params.Int("max_level")
				if max < 1 || max > 6 {
					return nil, &docerrors.ValidationError{
						Subject: "transform normalize-headings",
						Field:   "max_level",
						Value:   max,
						Message: "must be between 1 and 6",
					}
				}
				return &normalizeHeadings{maxLevel: max}, nil
			},
		},
		{
			Name:         "heading-anchors",
			Description:  "assign slugified anchor IDs to headings",
			Priority:     30,
			Tags:         []string{"structure"},
			Dependencies: []string{"normalize-headings"},
			Factory: func(Params) (Transformer, error) {
				return &headingAnchors{}, nil
			},
		},
		{
			Name:        "flatten-tables",
			Description: "rewrite tables as definition lists for narrow targets",
			Priority:    40,
			Tags:        []string{"lossy", "structure"},
			Factory: func(Params) (Transformer, error) {
				return &flattenTables{}, nil
			},
		},
	}
}

// stripImages removes Image nodes, replacing each with its alt text when
// keepAlt is set and the image has any.
type stripImages struct {
	keepAlt bool
}

func (t *stripImages) Transform(doc *ast.Document) (*ast.Document, error) {
	Rewrite(doc, func(n ast.Node) []ast.Node {
		img, ok := n.(*ast.Image)
		if !ok {
			return Keep(n)
		}
		if t.keepAlt && img.Alt != "" {
			return []ast.Node{&ast.Text{Value: img.Alt}}
		}
		return nil
	})
	return doc, nil
}

// stripFormatting unwraps inline formatting containers to their children.
type stripFormatting struct{}

func (t *stripFormatting) Transform(doc *ast.Document) (*ast.Document, error) {
	Rewrite(doc, func(n ast.Node) []ast.Node {
		switch v := n.(type) {
		case *ast.Strong:
			return v.Children
		case *ast.Emphasis:
			return v.Children
		case *ast.Strikethrough:
			return v.Children
		case *ast.Underline:
			return v.Children
		case *ast.Superscript:
			return v.Children
		case *ast.Subscript:
			return v.Children
		default:
			return Keep(n)
		}
	})
	return doc, nil
}

// normalizeHeadings clamps heading levels into [1, maxLevel].
type normalizeHeadings struct {
	maxLevel int
}

func (t *normalizeHeadings) Transform(doc *ast.Document) (*ast.Document, error) {
	ast.Walk(doc, func(n ast.Node) ast.Action {
		if h, ok := n.(*ast.Heading); ok {
			if h.Level < 1 {
				h.Level = 1
			}
			if h.Level > t.maxLevel {
				h.Level = t.maxLevel
			}
		}
		return ast.Continue
	})
	return doc, nil
}

// headingAnchors assigns each heading a slugified anchor ID derived from
// its text, deduplicated with a numeric suffix in document order.
type headingAnchors struct{}

func (t *headingAnchors) Transform(doc *ast.Document) (*ast.Document, error) {
	seen := make(map[string]int)
	ast.Walk(doc, func(n ast.Node) ast.Action {
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.Continue
		}
		slug := slugify(ast.TextContent(h))
		if slug == "" {
			slug = "section"
		}
		if count, dup := seen[slug]; dup {
			seen[slug] = count + 1
			slug = fmt.Sprintf("%s-%d", slug, count)
		} else {
			seen[slug] = 1
		}
		h.ID = slug
		return ast.Continue
	})
	return doc, nil
}

// asciiFold strips combining marks after canonical decomposition, so
// "Résumé" slugifies to "resume".
var asciiFold = texttransform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var lowerCaser = cases.Lower(language.Und)

func slugify(s string) string {
	folded, _, err := texttransform.String(asciiFold, s)
	if err != nil {
		folded = s
	}
	folded = lowerCaser.String(folded)

	var sb strings.Builder
	lastHyphen := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			sb.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

// flattenTables rewrites each table as a definition list: header cells
// become terms and body cells their descriptions. A table without a header
// becomes a plain list of rows.
type flattenTables struct{}

func (t *flattenTables) Transform(doc *ast.Document) (*ast.Document, error) {
	Rewrite(doc, func(n ast.Node) []ast.Node {
		table, ok := n.(*ast.Table)
		if !ok {
			return Keep(n)
		}
		if table.Header == nil {
			return []ast.Node{rowsAsList(table.Rows)}
		}

		// Terms repeat once per row, so they are rebuilt from the header
		// text instead of sharing header nodes across entries.
		terms := make([]string, len(table.Header.Cells))
		for i, cell := range table.Header.Cells {
			terms[i] = ast.TextContent(cell)
		}

		dl := &ast.DefinitionList{}
		for _, row := range table.Rows {
			for i, cell := range row.Cells {
				if i >= len(terms) {
					break
				}
				dl.Children = append(dl.Children,
					&ast.DefinitionTerm{Children: []ast.Node{&ast.Text{Value: terms[i]}}},
					&ast.DefinitionDescription{Children: cell.Children},
				)
			}
		}
		return []ast.Node{dl}
	})
	return doc, nil
}

func rowsAsList(rows []*ast.TableRow) ast.Node {
	list := &ast.List{}
	for _, row := range rows {
		var inline []ast.Node
		for i, cell := range row.Cells {
			if i > 0 {
				inline = append(inline, &ast.Text{Value: ", "})
			}
			inline = append(inline, cell.Children...)
		}
		list.Items = append(list.Items, &ast.ListItem{
			Children: []ast.Node{&ast.Paragraph{Children: inline}},
		})
	}
	return list
}
