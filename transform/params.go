package transform

import (
	"fmt"

	"github.com/docbridge/docbridge/docerrors"
)

// validateParams checks raw parameters against the transform's spec and
// returns the validated set with defaults applied. An unknown parameter, a
// missing required one, or a wrong-shaped value is a ValidationError.
func validateParams(meta *TransformMetadata, raw map[string]any) (Params, error) {
	out := make(Params, len(meta.Params))

	for name, value := range raw {
		spec, ok := meta.Params[name]
		if !ok {
			return nil, &docerrors.ValidationError{
				Subject: "transform " + meta.Name,
				Field:   name,
				Value:   value,
				Message: "unknown parameter",
			}
		}
		coerced, ok := coerce(spec.Type, value)
		if !ok {
			return nil, &docerrors.ValidationError{
				Subject: "transform " + meta.Name,
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("expected %s, got %T", spec.Type, value),
			}
		}
		out[name] = coerced
	}

	for name, spec := range meta.Params {
		if _, ok := out[name]; ok {
			continue
		}
		if spec.Required {
			return nil, &docerrors.ValidationError{
				Subject: "transform " + meta.Name,
				Field:   name,
				Message: "missing required parameter",
			}
		}
		if spec.Default != nil {
			out[name] = spec.Default
		}
	}
	return out, nil
}

// coerce checks a value against a declared parameter type, converting
// compatible numeric shapes (JSON decoding yields float64 for integers).
func coerce(t ParamType, value any) (any, bool) {
	switch t {
	case ParamInt:
		switch v := value.(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			if v == float64(int(v)) {
				return int(v), true
			}
		}
	case ParamFloat:
		switch v := value.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	case ParamString:
		if v, ok := value.(string); ok {
			return v, true
		}
	case ParamBool:
		if v, ok := value.(bool); ok {
			return v, true
		}
	}
	return nil, false
}
