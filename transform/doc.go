// Package transform provides AST-to-AST rewriting steps and the registry
// that orders them.
//
// Each transform registers a TransformMetadata naming its dependencies,
// its tie-breaking priority, and a parameter spec. ResolveDependencies
// produces one deterministic total order over a requested set of
// transforms and their transitive dependency closure, failing on missing
// names and on cycles. GetTransform validates parameters against the spec
// before instantiation, so a failed pipeline never leaves a
// partially-transformed document.
//
// The package ships a set of built-in transforms (stripping images,
// normalizing heading levels, generating heading anchors, flattening
// formatting and tables) installed once, idempotently, into the default
// registry.
package transform
