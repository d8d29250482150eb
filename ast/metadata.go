package ast

// Well-known metadata keys. Converters may store additional custom keys,
// including nested maps, alongside these.
const (
	MetaTitle    = "title"
	MetaAuthor   = "author"
	MetaDate     = "date"
	MetaKeywords = "keywords"
)

// Metadata is the document metadata mapping: string keys to titles, authors,
// dates, keyword lists, or custom nested maps.
type Metadata map[string]any

// Title returns the document title, or "" when unset.
func (m Metadata) Title() string { return m.str(MetaTitle) }

// Author returns the document author, or "" when unset.
func (m Metadata) Author() string { return m.str(MetaAuthor) }

// Date returns the document date string, or "" when unset.
func (m Metadata) Date() string { return m.str(MetaDate) }

// Keywords returns the keyword list, or nil when unset. Both []string and
// []any element shapes are accepted; non-string elements are skipped.
func (m Metadata) Keywords() []string {
	switch v := m[MetaKeywords].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, kw := range v {
			if s, ok := kw.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Clone returns a shallow copy of the metadata mapping. Nested maps are
// shared; callers mutating nested values should copy them first.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m Metadata) str(key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
