package pipeline

import (
	"io"

	"github.com/docbridge/docbridge"
	"github.com/docbridge/docbridge/docerrors"
	"github.com/docbridge/docbridge/registry"
	"github.com/docbridge/docbridge/transform"
)

// Option is a function that configures a conversion.
type Option func(*config) error

// config holds configuration for one conversion.
type config struct {
	// Input source (exactly one must be set)
	filePath *string
	data     []byte
	reader   io.Reader

	// Detection hints
	format     string
	formatHint string
	mimeType   string

	// Output
	targetFormat string
	outputPath   *string

	// Transforms
	transforms      []string
	transformParams map[string]map[string]any

	// Collaborators
	registry   *registry.Registry
	transformR *transform.Registry
	logger     docbridge.Logger
}

func applyOptions(opts ...Option) (*config, error) {
	cfg := &config{
		transformParams: make(map[string]map[string]any),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	sources := 0
	if cfg.filePath != nil {
		sources++
	}
	if cfg.data != nil {
		sources++
	}
	if cfg.reader != nil {
		sources++
	}
	switch {
	case sources == 0:
		return nil, &docerrors.ConfigurationError{
			Message: "must specify an input source (use WithFilePath, WithBytes, or WithReader)",
		}
	case sources > 1:
		return nil, &docerrors.ConfigurationError{
			Message: "must specify exactly one input source",
		}
	}

	if cfg.registry == nil {
		cfg.registry = registry.Default()
	}
	if cfg.transformR == nil {
		cfg.transformR = transform.Default()
	}
	if cfg.logger == nil {
		cfg.logger = docbridge.NopLogger{}
	}
	return cfg, nil
}

// WithFilePath specifies a file path as the input source.
func WithFilePath(path string) Option {
	return func(cfg *config) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies an in-memory buffer as the input source.
func WithBytes(data []byte) Option {
	return func(cfg *config) error {
		cfg.data = data
		return nil
	}
}

// WithReader specifies a stream as the input source. Detection reads a
// bounded prefix of the stream; the rest is consumed by the parser.
func WithReader(r io.Reader) Option {
	return func(cfg *config) error {
		cfg.reader = r
		return nil
	}
}

// WithFormat names the source format explicitly, bypassing detection.
func WithFormat(name string) Option {
	return func(cfg *config) error {
		cfg.format = name
		return nil
	}
}

// WithFormatHint supplies a filename whose extension guides detection,
// useful when the input is a buffer or stream.
func WithFormatHint(filename string) Option {
	return func(cfg *config) error {
		cfg.formatHint = filename
		return nil
	}
}

// WithMIMEType supplies a MIME type signal for detection.
func WithMIMEType(mime string) Option {
	return func(cfg *config) error {
		cfg.mimeType = mime
		return nil
	}
}

// WithTargetFormat names the output format. Without a target format the
// pipeline stops after transforms and returns the document only.
func WithTargetFormat(name string) Option {
	return func(cfg *config) error {
		cfg.targetFormat = name
		return nil
	}
}

// WithOutputFile renders into the file at path instead of the in-memory
// result buffer. Requires a target format.
func WithOutputFile(path string) Option {
	return func(cfg *config) error {
		cfg.outputPath = &path
		return nil
	}
}

// WithTransforms names the transforms to apply, in any order; the actual
// execution order is resolved from their declared dependencies.
func WithTransforms(names ...string) Option {
	return func(cfg *config) error {
		cfg.transforms = append(cfg.transforms, names...)
		return nil
	}
}

// WithTransformParams supplies parameters for one named transform.
func WithTransformParams(name string, params map[string]any) Option {
	return func(cfg *config) error {
		cfg.transformParams[name] = params
		return nil
	}
}

// WithRegistry uses the given converter registry instead of the process
// default.
func WithRegistry(r *registry.Registry) Option {
	return func(cfg *config) error {
		cfg.registry = r
		return nil
	}
}

// WithTransformRegistry uses the given transform registry instead of the
// process default.
func WithTransformRegistry(r *transform.Registry) Option {
	return func(cfg *config) error {
		cfg.transformR = r
		return nil
	}
}

// WithLogger sets the logger for this conversion.
func WithLogger(l docbridge.Logger) Option {
	return func(cfg *config) error {
		cfg.logger = l
		return nil
	}
}
