package ast

import "strings"

// Action controls the walker's behavior after visiting a node.
type Action int

const (
	// Continue continues walking normally, visiting children and siblings.
	Continue Action = iota

	// SkipChildren skips all children of the current node but continues with siblings.
	SkipChildren

	// Stop stops the walk immediately. No more nodes will be visited.
	Stop
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case SkipChildren:
		return "SkipChildren"
	case Stop:
		return "Stop"
	default:
		return "Action(?)"
	}
}

// Visitor is called for every node during a Walk, in depth-first pre-order.
type Visitor func(n Node) Action

// Walk traverses the tree rooted at n in depth-first pre-order, calling
// visit for each node. The visitor's Action controls descent: SkipChildren
// prunes the current subtree, Stop ends the walk immediately.
func Walk(n Node, visit Visitor) {
	walk(n, visit)
}

// walk returns false once the walk has been stopped.
func walk(n Node, visit Visitor) bool {
	if n == nil {
		return true
	}
	switch visit(n) {
	case Stop:
		return false
	case SkipChildren:
		return true
	}
	for _, child := range Children(n) {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

// Children returns the ordered children of n. Variants with typed
// sub-structure (lists, tables) expose that structure as Nodes here so
// generic traversal does not need to know about it. Leaf variants return
// nil.
//
// The switch is exhaustive over the sealed variant set: adding a variant
// with children means adding a case here.
func Children(n Node) []Node {
	switch v := n.(type) {
	case *Document:
		return v.Children
	case *Heading:
		return v.Children
	case *Paragraph:
		return v.Children
	case *Strong:
		return v.Children
	case *Emphasis:
		return v.Children
	case *List:
		out := make([]Node, len(v.Items))
		for i, item := range v.Items {
			out[i] = item
		}
		return out
	case *ListItem:
		return v.Children
	case *Table:
		var out []Node
		if v.Header != nil {
			out = append(out, v.Header)
		}
		for _, row := range v.Rows {
			out = append(out, row)
		}
		return out
	case *TableRow:
		out := make([]Node, len(v.Cells))
		for i, cell := range v.Cells {
			out[i] = cell
		}
		return out
	case *TableCell:
		return v.Children
	case *Link:
		return v.Children
	case *BlockQuote:
		return v.Children
	case *DefinitionList:
		return v.Children
	case *DefinitionTerm:
		return v.Children
	case *DefinitionDescription:
		return v.Children
	case *Strikethrough:
		return v.Children
	case *Underline:
		return v.Children
	case *Superscript:
		return v.Children
	case *Subscript:
		return v.Children
	case *Text, *Code, *CodeBlock, *Image, *ThematicBreak, *MathInline, *MathBlock:
		return nil
	default:
		return nil
	}
}

// TextContent extracts the concatenated plain text of the tree rooted at n:
// text runs, code spans and blocks, math literals, and image alt text, in
// document order.
func TextContent(n Node) string {
	var sb strings.Builder
	Walk(n, func(n Node) Action {
		switch v := n.(type) {
		case *Text:
			sb.WriteString(v.Value)
		case *Code:
			sb.WriteString(v.Value)
		case *CodeBlock:
			sb.WriteString(v.Value)
		case *MathInline:
			sb.WriteString(v.Value)
		case *MathBlock:
			sb.WriteString(v.Value)
		case *Image:
			sb.WriteString(v.Alt)
		}
		return Continue
	})
	return sb.String()
}

// Count returns the number of nodes of the given type in the tree rooted at n.
func Count(n Node, t NodeType) int {
	count := 0
	Walk(n, func(n Node) Action {
		if n.Type() == t {
			count++
		}
		return Continue
	})
	return count
}

// Types returns the pre-order sequence of node types in the tree rooted at n.
func Types(n Node) []NodeType {
	var out []NodeType
	Walk(n, func(n Node) Action {
		out = append(out, n.Type())
		return Continue
	})
	return out
}
