// Package ast defines the format-agnostic document tree shared by every
// converter: a closed set of Node variants rooted at Document, depth-first
// pre-order traversal with visitor control, and a versioned, self-describing
// JSON serialization.
//
// Trees are single-ownership and acyclic: parsers build them, transforms
// rewrite them, renderers consume them, and nothing is shared between
// conversions.
package ast
