package transform

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/docbridge/docbridge/ast"
	"github.com/docbridge/docbridge/docerrors"
)

// Transformer is one AST-to-AST rewriting step. Transformers receive the
// document after parsing and before rendering; they may mutate the tree in
// place and return it, or return a replacement tree.
type Transformer interface {
	Transform(doc *ast.Document) (*ast.Document, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(doc *ast.Document) (*ast.Document, error)

// Transform implements Transformer.
func (f TransformerFunc) Transform(doc *ast.Document) (*ast.Document, error) {
	return f(doc)
}

// Params holds validated transform parameters, with defaults applied.
type Params map[string]any

// Int returns the named int parameter.
func (p Params) Int(name string) int {
	switch v := p[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Float returns the named float parameter.
func (p Params) Float(name string) float64 {
	switch v := p[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// String returns the named string parameter.
func (p Params) String(name string) string {
	s, _ := p[name].(string)
	return s
}

// Bool returns the named bool parameter.
func (p Params) Bool(name string) bool {
	b, _ := p[name].(bool)
	return b
}

// Factory builds a Transformer instance from validated parameters.
type Factory func(params Params) (Transformer, error)

// ParamType enumerates the declared types a parameter spec supports.
type ParamType string

// Supported parameter types.
const (
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamString ParamType = "string"
	ParamBool   ParamType = "bool"
)

// ParamSpec declares one transform parameter: its type, whether it is
// required, and the default applied when it is optional and unset.
type ParamSpec struct {
	Type     ParamType
	Default  any
	Required bool
}

// TransformMetadata describes one registered transform: its unique name,
// the factory producing instances, the transforms it depends on, its
// priority (lower runs earlier among otherwise-unordered transforms), its
// parameter spec, and its category tags.
type TransformMetadata struct {
	// Name is the unique key for this transform.
	Name string
	// Factory builds instances from validated parameters.
	Factory Factory
	// Dependencies are transform names that must run before this one.
	Dependencies []string
	// Priority breaks ties between unordered transforms; lower runs first.
	Priority int
	// Params declares the accepted parameters.
	Params map[string]ParamSpec
	// Tags categorize the transform for filtering ("lossy", "structure").
	Tags []string
	// Description is a short human-readable summary.
	Description string
}

// Validate checks the metadata shape at registration time.
func (m *TransformMetadata) Validate() error {
	if m.Factory == nil {
		return &docerrors.ValidationError{
			Subject: "transform " + m.Name,
			Field:   "factory",
			Message: "factory is required",
		}
	}
	err := validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.Required),
	)
	if err != nil {
		return &docerrors.ValidationError{
			Subject: "transform " + m.Name,
			Message: "invalid transform metadata",
			Cause:   err,
		}
	}
	for name, spec := range m.Params {
		switch spec.Type {
		case ParamInt, ParamFloat, ParamString, ParamBool:
		default:
			return &docerrors.ValidationError{
				Subject: "transform " + m.Name,
				Field:   name,
				Message: fmt.Sprintf("unsupported parameter type %q", spec.Type),
			}
		}
	}
	return nil
}
