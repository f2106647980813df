// Package values defines representation of field values: scalars, lists and
// insertion ordered maps, together with their (de)serialization.
package values

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Pair is a single entry of Map.
type Pair struct {
	Key   string
	Value any
}

// Map is a structured value which remembers order in which keys were added.
// Setting existing key replaces value in place.
type Map struct {
	pairs []Pair
	index map[string]int
}

// NewMap creates map from pairs, later duplicates overwrite earlier ones.
func NewMap(pairs ...Pair) *Map {
	m := &Map{index: make(map[string]int, len(pairs))}
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

func (m *Map) Set(key string, value any) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.pairs[i].Value = value
		return
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, Pair{Key: key, Value: value})
}

func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.pairs[i].Value, true
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Pairs returns entries in insertion order.
func (m *Map) Pairs() []Pair {
	if m == nil {
		return nil
	}
	return slices.Clone(m.pairs)
}

// Keys returns keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.pairs))
	for _, p := range m.pairs {
		keys = append(keys, p.Key)
	}
	return keys
}

// UnmarshalYAML keeps document order of mapping keys.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	v, err := FromNode(node)
	if err != nil {
		return err
	}
	res, ok := v.(*Map)
	if !ok {
		return fmt.Errorf("line %d: expected mapping, got %T", node.Line, v)
	}
	*m = *res
	return nil
}

// MarshalYAML writes map as YAML mapping preserving key order.
func (m *Map) MarshalYAML() (any, error) {
	if m == nil {
		return nil, nil
	}
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range m.pairs {
		var vn yaml.Node
		if err := vn.Encode(p.Value); err != nil {
			return nil, fmt.Errorf("unable to encode value of %q: %w", p.Key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Key}, &vn)
	}
	return node, nil
}

// FromNode converts decoded YAML node into value. Mappings become *Map,
// sequences []any, numbers keep their literal text, other scalars are
// whatever yaml resolves them to.
func FromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return FromNode(node.Content[0])
	case yaml.AliasNode:
		return FromNode(node.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Tag == "!!merge" {
				merged, err := FromNode(v)
				if err != nil {
					return nil, err
				}
				if mm, ok := merged.(*Map); ok {
					for _, p := range mm.pairs {
						m.Set(p.Key, p.Value)
					}
				}
				continue
			}
			val, err := FromNode(v)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
		}
		return m, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(node.Content))
		for _, n := range node.Content {
			val, err := FromNode(n)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	default:
		// numbers are CSS text ("1.5", "0", "16"), keep them as written
		if node.Kind == yaml.ScalarNode && (node.Tag == "!!int" || node.Tag == "!!float") {
			return node.Value, nil
		}
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	}
}

// Normalize converts Go values coming from callers into canonical form: plain
// maps become *Map with keys sorted, nested values are converted recursively.
func Normalize(v any) any {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			return nil
		}
		m := NewMap()
		for _, p := range t.pairs {
			m.Set(p.Key, Normalize(p.Value))
		}
		return m
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, Normalize(t[k]))
		}
		return m
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, t[k])
		}
		return m
	case []any:
		list := make([]any, 0, len(t))
		for _, e := range t {
			list = append(list, Normalize(e))
		}
		return list
	case []string:
		list := make([]any, 0, len(t))
		for _, e := range t {
			list = append(list, e)
		}
		return list
	default:
		return v
	}
}

// IsStructured reports whether value is composite (map or list) rather than
// scalar.
func IsStructured(v any) bool {
	switch v.(type) {
	case *Map, []any:
		return true
	}
	return false
}

// String turns scalar into its textual form. nil is empty string, booleans
// follow loose host conventions ("1" and "").
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return ""
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Join renders list values as comma separated string, scalars are returned as
// is.
func Join(v any) string {
	list, ok := v.([]any)
	if !ok {
		return String(v)
	}
	parts := make([]string, 0, len(list))
	for _, e := range list {
		parts = append(parts, String(e))
	}
	return strings.Join(parts, ",")
}
