package values

import (
	"bytes"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Encode serializes value for storage.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Normalize(v)); err != nil {
		return nil, fmt.Errorf("unable to encode value: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("unable to encode value: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode restores value produced by Encode. JSON is accepted as well since it
// is a subset of YAML.
func Decode(data []byte) (any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unable to decode value: %w", err)
	}
	if node.Kind == 0 {
		return nil, nil
	}
	return FromNode(&node)
}

// MaybeDecode decodes strings which look like serialized maps or lists and
// returns everything else untouched. Values may arrive already serialized
// from hosts which store them as text.
func MaybeDecode(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < 2 {
		return v
	}
	if !(trimmed[0] == '{' && trimmed[len(trimmed)-1] == '}') && !(trimmed[0] == '[' && trimmed[len(trimmed)-1] == ']') {
		return v
	}
	res, err := Decode([]byte(trimmed))
	if err != nil {
		return v
	}
	return res
}
