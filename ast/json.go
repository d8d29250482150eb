package ast

import (
	"encoding/json"
	"fmt"

	"github.com/docbridge/docbridge/docerrors"
)

// SchemaVersion is the current version of the serialized AST interchange
// format. Payloads carrying any other version are rejected outright.
const SchemaVersion = 1

// envelope is the top-level serialized form: an explicit schema version tag
// plus the root node. Every node carries a "type" discriminator.
type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Root          json.RawMessage `json:"root"`
}

// MarshalDocument serializes a Document into the self-describing JSON
// interchange form.
func MarshalDocument(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, &docerrors.ParseError{Field: "root", Message: "cannot marshal a nil document"}
	}
	root, err := json.Marshal(encodeNode(doc))
	if err != nil {
		return nil, &docerrors.ParseError{Field: "root", Message: "marshal failed", Cause: err}
	}
	return json.Marshal(envelope{SchemaVersion: SchemaVersion, Root: root})
}

// UnmarshalDocument deserializes a JSON payload produced by
// MarshalDocument. A payload with an unsupported schema version, an unknown
// node-type discriminator, a missing required field, or a root that is not
// a document fails with a ParseError naming the offending field.
func UnmarshalDocument(data []byte) (*Document, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &docerrors.ParseError{Message: "invalid payload", Cause: err}
	}
	if env.SchemaVersion != SchemaVersion {
		return nil, &docerrors.ParseError{
			Field:   "schema_version",
			Message: fmt.Sprintf("unsupported schema version %d (supported: %d)", env.SchemaVersion, SchemaVersion),
		}
	}
	if len(env.Root) == 0 {
		return nil, &docerrors.ParseError{Field: "root", Message: "missing root node"}
	}

	// Reject a non-document root before interpreting anything below it.
	var probe struct {
		Type NodeType `json:"type"`
	}
	if err := json.Unmarshal(env.Root, &probe); err != nil {
		return nil, &docerrors.ParseError{Field: "root", Message: "invalid root node", Cause: err}
	}
	if probe.Type != TypeDocument {
		return nil, &docerrors.ParseError{
			Field:   "root.type",
			Message: fmt.Sprintf("root must be %q, got %q", TypeDocument, probe.Type),
		}
	}

	node, err := decodeNode(env.Root, "root")
	if err != nil {
		return nil, err
	}
	return node.(*Document), nil
}

// encodeNode lowers a node into its serialized map shape. The switch is
// exhaustive over the sealed variant set.
func encodeNode(n Node) map[string]any {
	out := map[string]any{"type": string(n.Type())}
	switch v := n.(type) {
	case *Document:
		if len(v.Meta) > 0 {
			out["meta"] = map[string]any(v.Meta)
		}
		out["children"] = encodeChildren(v.Children)
	case *Heading:
		out["level"] = v.Level
		if v.ID != "" {
			out["id"] = v.ID
		}
		out["children"] = encodeChildren(v.Children)
	case *Paragraph:
		out["children"] = encodeChildren(v.Children)
	case *Text:
		out["value"] = v.Value
	case *Strong:
		out["children"] = encodeChildren(v.Children)
	case *Emphasis:
		out["children"] = encodeChildren(v.Children)
	case *Code:
		out["value"] = v.Value
	case *CodeBlock:
		if v.Language != "" {
			out["language"] = v.Language
		}
		out["value"] = v.Value
	case *List:
		out["ordered"] = v.Ordered
		if v.Ordered {
			out["start"] = v.Start
		}
		items := make([]any, len(v.Items))
		for i, item := range v.Items {
			items[i] = encodeNode(item)
		}
		out["items"] = items
	case *ListItem:
		out["children"] = encodeChildren(v.Children)
	case *Table:
		if v.Header != nil {
			out["header"] = encodeNode(v.Header)
		}
		rows := make([]any, len(v.Rows))
		for i, row := range v.Rows {
			rows[i] = encodeNode(row)
		}
		out["rows"] = rows
	case *TableRow:
		cells := make([]any, len(v.Cells))
		for i, cell := range v.Cells {
			cells[i] = encodeNode(cell)
		}
		out["cells"] = cells
	case *TableCell:
		out["children"] = encodeChildren(v.Children)
	case *Link:
		out["destination"] = v.Destination
		if v.Title != "" {
			out["title"] = v.Title
		}
		out["children"] = encodeChildren(v.Children)
	case *Image:
		out["destination"] = v.Destination
		if v.Title != "" {
			out["title"] = v.Title
		}
		if v.Alt != "" {
			out["alt"] = v.Alt
		}
	case *BlockQuote:
		out["children"] = encodeChildren(v.Children)
	case *ThematicBreak:
		// discriminator only
	case *MathInline:
		out["value"] = v.Value
	case *MathBlock:
		out["value"] = v.Value
	case *DefinitionList:
		out["children"] = encodeChildren(v.Children)
	case *DefinitionTerm:
		out["children"] = encodeChildren(v.Children)
	case *DefinitionDescription:
		out["children"] = encodeChildren(v.Children)
	case *Strikethrough:
		out["children"] = encodeChildren(v.Children)
	case *Underline:
		out["children"] = encodeChildren(v.Children)
	case *Superscript:
		out["children"] = encodeChildren(v.Children)
	case *Subscript:
		out["children"] = encodeChildren(v.Children)
	}
	return out
}

func encodeChildren(children []Node) []any {
	out := make([]any, len(children))
	for i, child := range children {
		out[i] = encodeNode(child)
	}
	return out
}

// rawNode is the superset of all serialized node fields. Required fields
// use pointers so a missing field is distinguishable from a zero value.
type rawNode struct {
	Type        NodeType          `json:"type"`
	Meta        map[string]any    `json:"meta"`
	Level       *int              `json:"level"`
	ID          string            `json:"id"`
	Value       *string           `json:"value"`
	Language    string            `json:"language"`
	Ordered     bool              `json:"ordered"`
	Start       int               `json:"start"`
	Destination *string           `json:"destination"`
	Title       string            `json:"title"`
	Alt         string            `json:"alt"`
	Header      json.RawMessage   `json:"header"`
	Rows        []json.RawMessage `json:"rows"`
	Cells       []json.RawMessage `json:"cells"`
	Items       []json.RawMessage `json:"items"`
	Children    []json.RawMessage `json:"children"`
}

// decodeNode rebuilds a node from its serialized form. path locates the
// node within the payload for error reporting, e.g. "root.children[2]".
func decodeNode(data json.RawMessage, path string) (Node, error) {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &docerrors.ParseError{Field: path, Message: "invalid node", Cause: err}
	}
	if raw.Type == "" {
		return nil, &docerrors.ParseError{Field: path + ".type", Message: "missing node type discriminator"}
	}

	switch raw.Type {
	case TypeDocument:
		children, err := decodeChildren(raw.Children, path)
		if err != nil {
			return nil, err
		}
		return &Document{Children: children, Meta: Metadata(raw.Meta)}, nil
	case TypeHeading:
		if raw.Level == nil {
			return nil, &docerrors.ParseError{Field: path + ".level", Message: "heading requires a level"}
		}
		if *raw.Level < 1 || *raw.Level > 6 {
			return nil, &docerrors.ParseError{
				Field:   path + ".level",
				Message: fmt.Sprintf("heading level must be 1-6, got %d", *raw.Level),
			}
		}
		children, err := decodeChildren(raw.Children, path)
		if err != nil {
			return nil, err
		}
		return &Heading{Level: *raw.Level, ID: raw.ID, Children: children}, nil
	case TypeParagraph:
		return decodeContainer(raw, path, func(children []Node) Node { return &Paragraph{Children: children} })
	case TypeText:
		if raw.Value == nil {
			return nil, &docerrors.ParseError{Field: path + ".value", Message: "text requires a value"}
		}
		return &Text{Value: *raw.Value}, nil
	case TypeStrong:
		return decodeContainer(raw, path, func(children []Node) Node { return &Strong{Children: children} })
	case TypeEmphasis:
		return decodeContainer(raw, path, func(children []Node) Node { return &Emphasis{Children: children} })
	case TypeCode:
		if raw.Value == nil {
			return nil, &docerrors.ParseError{Field: path + ".value", Message: "code requires a value"}
		}
		return &Code{Value: *raw.Value}, nil
	case TypeCodeBlock:
		if raw.Value == nil {
			return nil, &docerrors.ParseError{Field: path + ".value", Message: "code block requires a value"}
		}
		return &CodeBlock{Language: raw.Language, Value: *raw.Value}, nil
	case TypeList:
		items := make([]*ListItem, len(raw.Items))
		for i, itemData := range raw.Items {
			itemPath := fmt.Sprintf("%s.items[%d]", path, i)
			node, err := decodeNode(itemData, itemPath)
			if err != nil {
				return nil, err
			}
			item, ok := node.(*ListItem)
			if !ok {
				return nil, &docerrors.ParseError{
					Field:   itemPath + ".type",
					Message: fmt.Sprintf("list items must be %q, got %q", TypeListItem, node.Type()),
				}
			}
			items[i] = item
		}
		return &List{Ordered: raw.Ordered, Start: raw.Start, Items: items}, nil
	case TypeListItem:
		return decodeContainer(raw, path, func(children []Node) Node { return &ListItem{Children: children} })
	case TypeTable:
		table := &Table{}
		if len(raw.Header) > 0 {
			header, err := decodeRow(raw.Header, path+".header")
			if err != nil {
				return nil, err
			}
			table.Header = header
		}
		table.Rows = make([]*TableRow, len(raw.Rows))
		for i, rowData := range raw.Rows {
			row, err := decodeRow(rowData, fmt.Sprintf("%s.rows[%d]", path, i))
			if err != nil {
				return nil, err
			}
			table.Rows[i] = row
		}
		return table, nil
	case TypeTableRow:
		cells := make([]*TableCell, len(raw.Cells))
		for i, cellData := range raw.Cells {
			cellPath := fmt.Sprintf("%s.cells[%d]", path, i)
			node, err := decodeNode(cellData, cellPath)
			if err != nil {
				return nil, err
			}
			cell, ok := node.(*TableCell)
			if !ok {
				return nil, &docerrors.ParseError{
					Field:   cellPath + ".type",
					Message: fmt.Sprintf("row cells must be %q, got %q", TypeTableCell, node.Type()),
				}
			}
			cells[i] = cell
		}
		return &TableRow{Cells: cells}, nil
	case TypeTableCell:
		return decodeContainer(raw, path, func(children []Node) Node { return &TableCell{Children: children} })
	case TypeLink:
		if raw.Destination == nil {
			return nil, &docerrors.ParseError{Field: path + ".destination", Message: "link requires a destination"}
		}
		children, err := decodeChildren(raw.Children, path)
		if err != nil {
			return nil, err
		}
		return &Link{Destination: *raw.Destination, Title: raw.Title, Children: children}, nil
	case TypeImage:
		if raw.Destination == nil {
			return nil, &docerrors.ParseError{Field: path + ".destination", Message: "image requires a destination"}
		}
		return &Image{Destination: *raw.Destination, Title: raw.Title, Alt: raw.Alt}, nil
	case TypeBlockQuote:
		return decodeContainer(raw, path, func(children []Node) Node { return &BlockQuote{Children: children} })
	case TypeThematicBreak:
		return &ThematicBreak{}, nil
	case TypeMathInline:
		if raw.Value == nil {
			return nil, &docerrors.ParseError{Field: path + ".value", Message: "math requires a value"}
		}
		return &MathInline{Value: *raw.Value}, nil
	case TypeMathBlock:
		if raw.Value == nil {
			return nil, &docerrors.ParseError{Field: path + ".value", Message: "math requires a value"}
		}
		return &MathBlock{Value: *raw.Value}, nil
	case TypeDefinitionList:
		return decodeContainer(raw, path, func(children []Node) Node { return &DefinitionList{Children: children} })
	case TypeDefinitionTerm:
		return decodeContainer(raw, path, func(children []Node) Node { return &DefinitionTerm{Children: children} })
	case TypeDefinitionDescription:
		return decodeContainer(raw, path, func(children []Node) Node { return &DefinitionDescription{Children: children} })
	case TypeStrikethrough:
		return decodeContainer(raw, path, func(children []Node) Node { return &Strikethrough{Children: children} })
	case TypeUnderline:
		return decodeContainer(raw, path, func(children []Node) Node { return &Underline{Children: children} })
	case TypeSuperscript:
		return decodeContainer(raw, path, func(children []Node) Node { return &Superscript{Children: children} })
	case TypeSubscript:
		return decodeContainer(raw, path, func(children []Node) Node { return &Subscript{Children: children} })
	default:
		return nil, &docerrors.ParseError{
			Field:   path + ".type",
			Message: fmt.Sprintf("unknown node type %q", raw.Type),
		}
	}
}

func decodeChildren(raws []json.RawMessage, path string) ([]Node, error) {
	children := make([]Node, len(raws))
	for i, childData := range raws {
		child, err := decodeNode(childData, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		children[i] = child
	}
	return children, nil
}

func decodeContainer(raw rawNode, path string, build func([]Node) Node) (Node, error) {
	children, err := decodeChildren(raw.Children, path)
	if err != nil {
		return nil, err
	}
	return build(children), nil
}

func decodeRow(data json.RawMessage, path string) (*TableRow, error) {
	node, err := decodeNode(data, path)
	if err != nil {
		return nil, err
	}
	row, ok := node.(*TableRow)
	if !ok {
		return nil, &docerrors.ParseError{
			Field:   path + ".type",
			Message: fmt.Sprintf("table rows must be %q, got %q", TypeTableRow, node.Type()),
		}
	}
	return row, nil
}
