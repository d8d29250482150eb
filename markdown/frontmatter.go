package markdown

import (
	"bytes"
	"time"

	yaml "go.yaml.in/yaml/v4"

	"github.com/docbridge/docbridge/ast"
	"github.com/docbridge/docbridge/docerrors"
)

var frontMatterDelim = []byte("---")

// splitFrontMatter separates a leading YAML front matter block from the
// Markdown body. Content without a well-formed block is returned unchanged
// with nil metadata; a block that is delimited but not valid YAML is a
// parse error.
func splitFrontMatter(data []byte) (ast.Metadata, []byte, error) {
	rest, ok := cutLine(data, frontMatterDelim)
	if !ok {
		return nil, data, nil
	}

	// Scan for the closing delimiter line.
	var block []byte
	body := rest
	for {
		line, remainder, found := nextLine(body)
		if bytes.Equal(bytes.TrimRight(line, "\r"), frontMatterDelim) {
			block = rest[:len(rest)-len(body)]
			body = remainder
			break
		}
		if !found {
			// Unterminated block: the opening --- was a thematic break.
			return nil, data, nil
		}
		body = remainder
	}

	var raw map[string]any
	if err := yaml.Unmarshal(block, &raw); err != nil {
		return nil, nil, &docerrors.ParseError{
			Source:  "front matter",
			Message: "invalid YAML",
			Cause:   err,
		}
	}

	meta := make(ast.Metadata, len(raw))
	for k, v := range raw {
		if t, ok := v.(time.Time); ok {
			v = t.Format("2006-01-02")
		}
		meta[k] = v
	}
	return meta, body, nil
}

// cutLine strips a line equal to want (plus its newline) from the front of
// data.
func cutLine(data, want []byte) ([]byte, bool) {
	line, rest, _ := nextLine(data)
	if !bytes.Equal(bytes.TrimRight(line, "\r"), want) {
		return data, false
	}
	return rest, true
}

// nextLine splits off the first line, excluding its newline. found is false
// on the last, unterminated line.
func nextLine(data []byte) (line, rest []byte, found bool) {
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		return data, nil, false
	}
	return data[:idx], data[idx+1:], true
}
