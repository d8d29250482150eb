package pipeline

import (
	"bytes"
	"io"
	"os"

	"github.com/docbridge/docbridge/ast"
	"github.com/docbridge/docbridge/docerrors"
	"github.com/docbridge/docbridge/registry"
	"github.com/docbridge/docbridge/transform"
)

// Result is the outcome of one conversion.
type Result struct {
	// Document is the transformed AST.
	Document *ast.Document
	// Metadata is the parser-extracted document metadata.
	Metadata ast.Metadata
	// SourceFormat is the detected (or explicitly named) input format.
	SourceFormat string
	// TargetFormat echoes the requested output format, "" when none.
	TargetFormat string
	// Transforms lists the applied transforms in execution order.
	Transforms []string
	// Output holds the rendered bytes. Empty when no target format was
	// requested or when rendering went to a file.
	Output []byte
}

// Convert runs one conversion end to end: detect the source format, check
// its dependencies, parse, apply transforms in dependency order, and
// render when a target format is requested.
//
// Transform failures never leave a half-processed tree behind an applied
// transform's back: every transform in the resolved order is instantiated
// and its parameters validated before the first one runs.
func Convert(opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	if cfg.outputPath != nil && cfg.targetFormat == "" {
		return nil, &docerrors.ConfigurationError{
			Message: "WithOutputFile requires a target format",
		}
	}

	meta, input, cleanup, err := resolveSource(cfg)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := cfg.registry.CheckDependencies(meta); err != nil {
		return nil, err
	}

	parser, err := cfg.registry.ResolveParser(meta)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("parsed document", "format", meta.FormatName, "nodes", len(doc.Children))

	result := &Result{
		Document:     doc,
		Metadata:     parser.ExtractMetadata(doc),
		SourceFormat: meta.FormatName,
		TargetFormat: cfg.targetFormat,
	}

	if len(cfg.transforms) > 0 {
		order, err := cfg.transformR.ResolveDependencies(cfg.transforms)
		if err != nil {
			return nil, err
		}

		// Instantiate the whole chain before running any of it, so a bad
		// parameter surfaces before the tree is touched.
		chain := make([]transform.Transformer, len(order))
		for i, name := range order {
			tr, err := cfg.transformR.GetTransform(name, cfg.transformParams[name])
			if err != nil {
				return nil, err
			}
			chain[i] = tr
		}

		for i, tr := range chain {
			doc, err = tr.Transform(doc)
			if err != nil {
				return nil, err
			}
			cfg.logger.Debug("applied transform", "transform", order[i])
		}
		result.Document = doc
		result.Transforms = order
	}

	if cfg.targetFormat != "" {
		targetMeta, err := cfg.registry.Get(cfg.targetFormat)
		if err != nil {
			return nil, err
		}
		if err := cfg.registry.CheckDependencies(targetMeta); err != nil {
			return nil, err
		}
		renderer, err := cfg.registry.ResolveRenderer(targetMeta)
		if err != nil {
			return nil, err
		}

		if cfg.outputPath != nil {
			if err := registry.RenderFile(renderer, doc, *cfg.outputPath); err != nil {
				return nil, err
			}
		} else {
			var buf bytes.Buffer
			if err := renderer.Render(doc, &buf); err != nil {
				return nil, err
			}
			result.Output = buf.Bytes()
		}
		cfg.logger.Debug("rendered document",
			"source", meta.FormatName, "target", cfg.targetFormat)
	}

	return result, nil
}

// resolveSource detects the input format and returns a reader positioned at
// the start of the content. The cleanup func closes any file opened here.
func resolveSource(cfg *config) (*registry.ConverterMetadata, io.Reader, func(), error) {
	noop := func() {}

	switch {
	case cfg.filePath != nil:
		f, err := os.Open(*cfg.filePath)
		if err != nil {
			return nil, nil, noop, err
		}
		cleanup := func() { _ = f.Close() }
		prefix, err := registry.ReadPrefix(f)
		if err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		meta, err := cfg.registry.Detect(registry.Probe{
			Format:   cfg.format,
			Filename: *cfg.filePath,
			MIMEType: cfg.mimeType,
			Prefix:   prefix,
			Input:    *cfg.filePath,
		})
		if err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			cleanup()
			return nil, nil, noop, err
		}
		return meta, f, cleanup, nil

	case cfg.data != nil:
		prefix := cfg.data
		if len(prefix) > registry.DetectionPrefixSize {
			prefix = prefix[:registry.DetectionPrefixSize]
		}
		meta, err := cfg.registry.Detect(registry.Probe{
			Format:   cfg.format,
			Filename: cfg.formatHint,
			MIMEType: cfg.mimeType,
			Prefix:   prefix,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		return meta, bytes.NewReader(cfg.data), noop, nil

	default:
		// Stream: detection consumes a bounded prefix, which is stitched
		// back in front of the remainder for the parser.
		prefix, err := registry.ReadPrefix(cfg.reader)
		if err != nil {
			return nil, nil, noop, err
		}
		meta, err := cfg.registry.Detect(registry.Probe{
			Format:   cfg.format,
			Filename: cfg.formatHint,
			MIMEType: cfg.mimeType,
			Prefix:   prefix,
			Input:    "<stream>",
		})
		if err != nil {
			return nil, nil, noop, err
		}
		return meta, io.MultiReader(bytes.NewReader(prefix), cfg.reader), noop, nil
	}
}
