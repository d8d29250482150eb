// Package pipeline wires a full conversion together: converter lookup,
// parsing into the shared AST, dependency-ordered transform application,
// and rendering.
//
// Convert is driven by functional options selecting exactly one input
// source (file path, byte buffer, or reader) plus optional detection
// hints, a target format, and transforms:
//
//	result, err := pipeline.Convert(
//		pipeline.WithFilePath("notes.md"),
//		pipeline.WithTargetFormat("markdown"),
//		pipeline.WithTransforms("strip-images"),
//	)
//
// Conversion is sequential within one document: transforms run in their
// resolved order, one at a time, and every transform is instantiated (and
// its parameters validated) before the first one touches the tree.
package pipeline
