package ast

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docbridge/docbridge/docerrors"
)

func TestMarshalDocument_RoundTrip(t *testing.T) {
	doc := &Document{
		Meta: Metadata{
			MetaTitle:    "Round Trip",
			MetaAuthor:   "docbridge",
			MetaKeywords: []any{"ast", "json"},
			"custom":     map[string]any{"nested": "value"},
		},
		Children: []Node{
			&Heading{Level: 2, ID: "intro", Children: []Node{&Text{Value: "Intro"}}},
			&Paragraph{Children: []Node{
				&Text{Value: "Some "},
				&Emphasis{Children: []Node{&Text{Value: "emphasized"}}},
				&Text{Value: " text with "},
				&Link{Destination: "https://example.com", Title: "ex", Children: []Node{&Text{Value: "a link"}}},
			}},
			&CodeBlock{Language: "go", Value: "fmt.Println(\"hi\")"},
			&List{Ordered: false, Items: []*ListItem{
				{Children: []Node{&Paragraph{Children: []Node{&Text{Value: "item"}}}}},
			}},
			&Table{
				Header: &TableRow{Cells: []*TableCell{{Children: []Node{&Text{Value: "k"}}}}},
				Rows:   []*TableRow{{Cells: []*TableCell{{Children: []Node{&Text{Value: "v"}}}}}},
			},
			&BlockQuote{Children: []Node{&Paragraph{Children: []Node{&Text{Value: "quoted"}}}}},
			&ThematicBreak{},
			&MathBlock{Value: "e = mc^2"},
			&DefinitionList{Children: []Node{
				&DefinitionTerm{Children: []Node{&Text{Value: "term"}}},
				&DefinitionDescription{Children: []Node{&Text{Value: "meaning"}}},
			}},
			&Paragraph{Children: []Node{
				&Strikethrough{Children: []Node{&Text{Value: "gone"}}},
				&Superscript{Children: []Node{&Text{Value: "2"}}},
				&Image{Destination: "fig.png", Alt: "figure"},
			}},
		},
	}

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	got, err := UnmarshalDocument(data)
	require.NoError(t, err)

	// Round-trip law: same node-type sequence, metadata, and text content.
	assert.Equal(t, Types(doc), Types(got))
	assert.Equal(t, TextContent(doc), TextContent(got))
	assert.Equal(t, "Round Trip", got.Meta.Title())
	assert.Equal(t, "docbridge", got.Meta.Author())
	assert.Equal(t, []string{"ast", "json"}, got.Meta.Keywords())
	assert.Equal(t, map[string]any{"nested": "value"}, got.Meta["custom"])

	heading, ok := got.Children[0].(*Heading)
	require.True(t, ok)
	assert.Equal(t, 2, heading.Level)
	assert.Equal(t, "intro", heading.ID)
}

func TestMarshalDocument_Nil(t *testing.T) {
	_, err := MarshalDocument(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrParse)
}

func TestMarshalDocument_SchemaVersionTag(t *testing.T) {
	data, err := MarshalDocument(&Document{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, "1", string(raw["schema_version"]))
}

func TestUnmarshalDocument_UnsupportedSchemaVersion(t *testing.T) {
	payload := `{"schema_version": 99, "root": {"type": "document", "children": []}}`

	_, err := UnmarshalDocument([]byte(payload))
	require.Error(t, err)
	assert.ErrorIs(t, err, docerrors.ErrParse)

	var perr *docerrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "schema_version", perr.Field)
	assert.Contains(t, perr.Message, "99")
}

func TestUnmarshalDocument_RootNotDocument(t *testing.T) {
	payload := `{"schema_version": 1, "root": {"type": "paragraph", "children": []}}`

	_, err := UnmarshalDocument([]byte(payload))
	require.Error(t, err)

	var perr *docerrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "root.type", perr.Field)
	assert.Contains(t, perr.Message, "paragraph")
}

func TestUnmarshalDocument_UnknownDiscriminator(t *testing.T) {
	payload := `{"schema_version": 1, "root": {"type": "document", "children": [{"type": "blink"}]}}`

	_, err := UnmarshalDocument([]byte(payload))
	require.Error(t, err)

	var perr *docerrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "root.children[0].type", perr.Field)
	assert.Contains(t, perr.Message, "blink")
}

func TestUnmarshalDocument_MissingDiscriminator(t *testing.T) {
	payload := `{"schema_version": 1, "root": {"type": "document", "children": [{"value": "x"}]}}`

	_, err := UnmarshalDocument([]byte(payload))
	require.Error(t, err)

	var perr *docerrors.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "root.children[0].type", perr.Field)
}

func TestUnmarshalDocument_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name      string
		node      string
		wantField string
	}{
		{"text without value", `{"type": "text"}`, "root.children[0].value"},
		{"heading without level", `{"type": "heading", "children": []}`, "root.children[0].level"},
		{"link without destination", `{"type": "link", "children": []}`, "root.children[0].destination"},
		{"image without destination", `{"type": "image"}`, "root.children[0].destination"},
		{"code block without value", `{"type": "code_block"}`, "root.children[0].value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := fmt.Sprintf(`{"schema_version": 1, "root": {"type": "document", "children": [%s]}}`, tt.node)

			_, err := UnmarshalDocument([]byte(payload))
			require.Error(t, err)

			var perr *docerrors.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantField, perr.Field)
		})
	}
}

func TestUnmarshalDocument_HeadingLevelOutOfRange(t *testing.T) {
	payload := `{"schema_version": 1, "root": {"type": "document", "children": [{"type": "heading", "level": 9, "children": []}]}}`

	_, err := UnmarshalDocument([]byte(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heading level must be 1-6")
}

func TestUnmarshalDocument_ListItemTypeEnforced(t *testing.T) {
	payload := `{"schema_version": 1, "root": {"type": "document", "children": [{"type": "list", "ordered": false, "items": [{"type": "paragraph", "children": []}]}]}}`

	_, err := UnmarshalDocument([]byte(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list items must be")
}

func TestUnmarshalDocument_InvalidJSON(t *testing.T) {
	_, err := UnmarshalDocument([]byte("{not json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerrors.ErrParse))
}
