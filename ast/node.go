package ast

// NodeType identifies the concrete variant of a Node. It doubles as the
// per-node "type" discriminator in the serialized form.
type NodeType string

// All node types. The set is closed: Node is a sealed interface and every
// variant lives in this package.
const (
	TypeDocument              NodeType = "document"
	TypeHeading               NodeType = "heading"
	TypeParagraph             NodeType = "paragraph"
	TypeText                  NodeType = "text"
	TypeStrong                NodeType = "strong"
	TypeEmphasis              NodeType = "emphasis"
	TypeCode                  NodeType = "code"
	TypeCodeBlock             NodeType = "code_block"
	TypeList                  NodeType = "list"
	TypeListItem              NodeType = "list_item"
	TypeTable                 NodeType = "table"
	TypeTableRow              NodeType = "table_row"
	TypeTableCell             NodeType = "table_cell"
	TypeLink                  NodeType = "link"
	TypeImage                 NodeType = "image"
	TypeBlockQuote            NodeType = "block_quote"
	TypeThematicBreak         NodeType = "thematic_break"
	TypeMathInline            NodeType = "math_inline"
	TypeMathBlock             NodeType = "math_block"
	TypeDefinitionList        NodeType = "definition_list"
	TypeDefinitionTerm        NodeType = "definition_term"
	TypeDefinitionDescription NodeType = "definition_description"
	TypeStrikethrough         NodeType = "strikethrough"
	TypeUnderline             NodeType = "underline"
	TypeSuperscript           NodeType = "superscript"
	TypeSubscript             NodeType = "subscript"
)

// Node is the interface implemented by every AST variant.
//
// The interface is sealed: the unexported marker method means all variants
// are defined in this package, so traversal code can switch over the
// concrete types exhaustively. Trees are single-ownership — a node belongs
// to exactly one parent and trees never contain cycles.
type Node interface {
	// Type returns the variant's discriminator.
	Type() NodeType

	// sealed marks the closed set of variants.
	sealed()
}

// Document is the root variant. It owns an ordered sequence of block
// children and the document metadata mapping.
type Document struct {
	Children []Node
	Meta     Metadata
}

// Heading is a section heading with level 1 through 6 and inline children.
type Heading struct {
	Level    int
	ID       string // optional anchor, set by transforms
	Children []Node
}

// Paragraph is a block of inline content.
type Paragraph struct {
	Children []Node
}

// Text is a literal text run.
type Text struct {
	Value string
}

// Strong is strongly emphasized (bold) inline content.
type Strong struct {
	Children []Node
}

// Emphasis is emphasized (italic) inline content.
type Emphasis struct {
	Children []Node
}

// Code is an inline code span.
type Code struct {
	Value string
}

// CodeBlock is a fenced or indented code block with an optional language.
type CodeBlock struct {
	Language string
	Value    string
}

// List is an ordered or unordered list. Start is the first number of an
// ordered list and is ignored for unordered lists.
type List struct {
	Ordered bool
	Start   int
	Items   []*ListItem
}

// ListItem is a single list entry containing block children.
type ListItem struct {
	Children []Node
}

// Table holds an optional header row plus an ordered sequence of body rows.
type Table struct {
	Header *TableRow
	Rows   []*TableRow
}

// TableRow is an ordered sequence of cells.
type TableRow struct {
	Cells []*TableCell
}

// TableCell holds inline content.
type TableCell struct {
	Children []Node
}

// Link is a hyperlink with inline children as its label.
type Link struct {
	Destination string
	Title       string
	Children    []Node
}

// Image is an embedded image. Alt is the textual fallback.
type Image struct {
	Destination string
	Title       string
	Alt         string
}

// BlockQuote is quoted block content.
type BlockQuote struct {
	Children []Node
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// MathInline is an inline math expression in TeX notation.
type MathInline struct {
	Value string
}

// MathBlock is a display math expression in TeX notation.
type MathBlock struct {
	Value string
}

// DefinitionList groups DefinitionTerm and DefinitionDescription children.
type DefinitionList struct {
	Children []Node
}

// DefinitionTerm is the term part of a definition list entry.
type DefinitionTerm struct {
	Children []Node
}

// DefinitionDescription is the description part of a definition list entry.
type DefinitionDescription struct {
	Children []Node
}

// Strikethrough is struck-through inline content.
type Strikethrough struct {
	Children []Node
}

// Underline is underlined inline content.
type Underline struct {
	Children []Node
}

// Superscript is superscript inline content.
type Superscript struct {
	Children []Node
}

// Subscript is subscript inline content.
type Subscript struct {
	Children []Node
}

// Type implements Node.
func (*Document) Type() NodeType { return TypeDocument }

// Type implements Node.
func (*Heading) Type() NodeType { return TypeHeading }

// Type implements Node.
func (*Paragraph) Type() NodeType { return TypeParagraph }

// Type implements Node.
func (*Text) Type() NodeType { return TypeText }

// Type implements Node.
func (*Strong) Type() NodeType { return TypeStrong }

// Type implements Node.
func (*Emphasis) Type() NodeType { return TypeEmphasis }

// Type implements Node.
func (*Code) Type() NodeType { return TypeCode }

// Type implements Node.
func (*CodeBlock) Type() NodeType { return TypeCodeBlock }

// Type implements Node.
func (*List) Type() NodeType { return TypeList }

// Type implements Node.
func (*ListItem) Type() NodeType { return TypeListItem }

// Type implements Node.
func (*Table) Type() NodeType { return TypeTable }

// Type implements Node.
func (*TableRow) Type() NodeType { return TypeTableRow }

// Type implements Node.
func (*TableCell) Type() NodeType { return TypeTableCell }

// Type implements Node.
func (*Link) Type() NodeType { return TypeLink }

// Type implements Node.
func (*Image) Type() NodeType { return TypeImage }

// Type implements Node.
func (*BlockQuote) Type() NodeType { return TypeBlockQuote }

// Type implements Node.
func (*ThematicBreak) Type() NodeType { return TypeThematicBreak }

// Type implements Node.
func (*MathInline) Type() NodeType { return TypeMathInline }

// Type implements Node.
func (*MathBlock) Type() NodeType { return TypeMathBlock }

// Type implements Node.
func (*DefinitionList) Type() NodeType { return TypeDefinitionList }

// Type implements Node.
func (*DefinitionTerm) Type() NodeType { return TypeDefinitionTerm }

// Type implements Node.
func (*DefinitionDescription) Type() NodeType { return TypeDefinitionDescription }

// Type implements Node.
func (*Strikethrough) Type() NodeType { return TypeStrikethrough }

// Type implements Node.
func (*Underline) Type() NodeType { return TypeUnderline }

// Type implements Node.
func (*Superscript) Type() NodeType { return TypeSuperscript }

// Type implements Node.
func (*Subscript) Type() NodeType { return TypeSubscript }

func (*Document) sealed()              {}
func (*Heading) sealed()               {}
func (*Paragraph) sealed()             {}
func (*Text) sealed()                  {}
func (*Strong) sealed()                {}
func (*Emphasis) sealed()              {}
func (*Code) sealed()                  {}
func (*CodeBlock) sealed()             {}
func (*List) sealed()                  {}
func (*ListItem) sealed()              {}
func (*Table) sealed()                 {}
func (*TableRow) sealed()              {}
func (*TableCell) sealed()             {}
func (*Link) sealed()                  {}
func (*Image) sealed()                 {}
func (*BlockQuote) sealed()            {}
func (*ThematicBreak) sealed()         {}
func (*MathInline) sealed()            {}
func (*MathBlock) sealed()             {}
func (*DefinitionList) sealed()        {}
func (*DefinitionTerm) sealed()        {}
func (*DefinitionDescription) sealed() {}
func (*Strikethrough) sealed()         {}
func (*Underline) sealed()             {}
func (*Superscript) sealed()           {}
func (*Subscript) sealed()             {}
