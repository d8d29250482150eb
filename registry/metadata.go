package registry

import (
	"bytes"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/docbridge/docbridge/docerrors"
)

// extensionPattern requires a leading dot followed by the bare extension.
var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9]+$`)

// MagicPattern is a fixed byte pattern expected at a fixed offset from the
// start of the input.
type MagicPattern struct {
	// Offset is the byte offset at which Pattern must appear.
	Offset int
	// Pattern is the literal byte sequence to match.
	Pattern []byte
}

// Matches reports whether the pattern is present in prefix at its offset.
func (m MagicPattern) Matches(prefix []byte) bool {
	end := m.Offset + len(m.Pattern)
	if m.Offset < 0 || end > len(prefix) {
		return false
	}
	return bytes.Equal(prefix[m.Offset:end], m.Pattern)
}

// Dependency describes one optional capability a converter needs before it
// can run. Feature is the distribution (install) name, Probe the loadable
// name checked for availability; they differ for some ecosystems. An empty
// Constraint accepts any installed version.
type Dependency struct {
	// Feature is the distribution/install name of the dependency.
	Feature string
	// Probe is the name probed for availability. Defaults to Feature.
	Probe string
	// Constraint is a version constraint such as ">=2.1" or "==1.0.3".
	Constraint string
	// Hint overrides the generated remediation hint in dependency errors.
	Hint string
}

// ConverterMetadata describes one format converter: its unique name, the
// detection signals the registry uses to recognize it, its parser and
// renderer (direct handles or factory-table names), its plugin
// dependencies, and its tie-breaking priority.
type ConverterMetadata struct {
	// FormatName is the globally unique key for this format.
	FormatName string
	// Extensions are the file extensions handled, with leading dot
	// (".docx"). Matching is case-insensitive.
	Extensions []string
	// MIMETypes are the MIME types handled, without parameters.
	MIMETypes []string
	// MagicPatterns are byte-pattern/offset pairs tested against the
	// bounded detection prefix.
	MagicPatterns []MagicPattern
	// Detector optionally disambiguates formats sharing identical magic
	// bytes through bounded content inspection.
	Detector ContentDetector
	// Parser is the direct parser handle. Leave nil to resolve ParserName
	// through the factory table instead.
	Parser Parser
	// ParserName names a registered parser factory. A bare name is
	// qualified with the format name ("parser" -> "docx.parser"); a name
	// containing a dot is used as-is.
	ParserName string
	// Renderer is the direct renderer handle. Leave nil to resolve
	// RendererName through the factory table instead.
	Renderer Renderer
	// RendererName names a registered renderer factory.
	RendererName string
	// Dependencies are checked before the converter is used.
	Dependencies []Dependency
	// Priority breaks ties between formats matching the same signals;
	// higher wins.
	Priority int
	// Description is a short human-readable summary.
	Description string
}

// Validate checks the metadata shape at registration time.
func (m *ConverterMetadata) Validate() error {
	err := validation.ValidateStruct(m,
		validation.Field(&m.FormatName, validation.Required),
		validation.Field(&m.Extensions, validation.Each(validation.Required, validation.Match(extensionPattern))),
		validation.Field(&m.MagicPatterns, validation.Each(validation.By(validateMagicPattern))),
		validation.Field(&m.Dependencies, validation.Each(validation.By(validateDependency))),
	)
	if err != nil {
		return &docerrors.ValidationError{
			Subject: "format " + m.FormatName,
			Message: "invalid converter metadata",
			Cause:   err,
		}
	}
	return nil
}

func validateMagicPattern(value any) error {
	p, _ := value.(MagicPattern)
	return validation.ValidateStruct(&p,
		validation.Field(&p.Pattern, validation.Required),
		validation.Field(&p.Offset, validation.Min(0)),
	)
}

func validateDependency(value any) error {
	d, _ := value.(Dependency)
	return validation.ValidateStruct(&d,
		validation.Field(&d.Feature, validation.Required),
	)
}
