// Package docbridge provides the orchestration core for multi-format
// document conversion: a shared abstract syntax tree (AST) every format
// parses into and renders from, a converter registry with multi-signal
// format detection, and a dependency-ordered transform pipeline.
//
// # Overview
//
// The library consists of five primary packages:
//
//   - ast: the format-agnostic Document/Node tree, traversal, and
//     versioned JSON serialization
//   - registry: converter metadata, format detection, and parser/renderer
//     dispatch
//   - transform: AST-to-AST transforms with dependency resolution and
//     parameter validation
//   - pipeline: the conversion pipeline wiring detection, parsing,
//     transforms, and rendering together
//   - markdown: the built-in reference converter for Markdown
//
// Format converters are plugins: each one registers a ConverterMetadata
// describing its detection signals (extensions, MIME types, magic bytes,
// an optional content detector) together with its parser and renderer.
// The registry decides, for an arbitrary input, which converter applies.
//
// # Quick Start
//
// Convert a Markdown file to a transformed Markdown string:
//
//	import (
//		"github.com/docbridge/docbridge/pipeline"
//		_ "github.com/docbridge/docbridge/markdown" // register the converter
//	)
//
//	result, err := pipeline.Convert(
//		pipeline.WithFilePath("README.md"),
//		pipeline.WithTargetFormat("markdown"),
//		pipeline.WithTransforms("strip-images", "normalize-headings"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(string(result.Output))
//
// Parse without rendering and inspect the AST:
//
//	result, err := pipeline.Convert(
//		pipeline.WithBytes(data),
//		pipeline.WithFormatHint("notes.md"),
//	)
//	doc := result.Document
//
// All errors are structured: see the docerrors package for the error
// taxonomy and errors.Is/errors.As support.
package docbridge
