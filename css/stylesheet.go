// Package css keeps generated style declarations grouped by media query and
// selector and serializes them into compact CSS text.
package css

import (
	"slices"
	"strings"
)

// GlobalMedia is media query marker for declarations which are not wrapped
// into any media query.
const GlobalMedia = "global"

// Declaration is a single property of a rule. Value is kept as is, only
// strings survive serialization.
type Declaration struct {
	Property string
	Value    any
}

// Rule groups declarations of a single (normalized) selector.
type Rule struct {
	Selector     string
	Declarations []Declaration

	index map[string]int
}

// MediaBlock groups rules under a media query.
type MediaBlock struct {
	Query string
	Rules []*Rule

	index map[string]int
}

// Stylesheet is a three level ordered map: media query -> selector ->
// property -> value. Every level remembers order in which keys were first
// seen, overwriting a value keeps its original position.
type Stylesheet struct {
	Blocks []*MediaBlock

	index map[string]int
}

// NewStylesheet returns empty stylesheet.
func NewStylesheet() *Stylesheet {
	return &Stylesheet{index: make(map[string]int)}
}

// Set records value for property of selector under media query. Empty media
// query is treated as GlobalMedia.
func (s *Stylesheet) Set(media, selector, property string, value any) {
	if len(media) == 0 {
		media = GlobalMedia
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	bi, ok := s.index[media]
	if !ok {
		bi = len(s.Blocks)
		s.index[media] = bi
		s.Blocks = append(s.Blocks, &MediaBlock{Query: media, index: make(map[string]int)})
	}
	s.Blocks[bi].rule(selector).set(property, value)
}

// Get returns value previously recorded with Set.
func (s *Stylesheet) Get(media, selector, property string) (any, bool) {
	if len(media) == 0 {
		media = GlobalMedia
	}
	bi, ok := s.index[media]
	if !ok {
		return nil, false
	}
	b := s.Blocks[bi]
	ri, ok := b.index[selector]
	if !ok {
		return nil, false
	}
	r := b.Rules[ri]
	di, ok := r.index[property]
	if !ok {
		return nil, false
	}
	return r.Declarations[di].Value, true
}

// Empty reports whether anything was recorded.
func (s *Stylesheet) Empty() bool {
	return s == nil || len(s.Blocks) == 0
}

func (b *MediaBlock) rule(selector string) *Rule {
	if ri, ok := b.index[selector]; ok {
		return b.Rules[ri]
	}
	b.index[selector] = len(b.Rules)
	r := &Rule{Selector: selector, index: make(map[string]int)}
	b.Rules = append(b.Rules, r)
	return r
}

func (r *Rule) set(property string, value any) {
	if di, ok := r.index[property]; ok {
		r.Declarations[di].Value = value
		return
	}
	r.index[property] = len(r.Declarations)
	r.Declarations = append(r.Declarations, Declaration{Property: property, Value: value})
}

// String returns the CSS text of the stylesheet, empty string when nothing
// was recorded. Blocks for media queries other than GlobalMedia are wrapped
// as "query{...}".
func (s *Stylesheet) String() string {
	if s.Empty() {
		return ""
	}
	var sb strings.Builder
	for _, b := range s.Blocks {
		wrap := b.Query != GlobalMedia
		if wrap {
			sb.WriteString(b.Query)
			sb.WriteByte('{')
		}
		for _, r := range b.Rules {
			sb.WriteString(r.Selector)
			sb.WriteByte('{')
			for _, d := range r.Declarations {
				sb.WriteString(d.Property)
				sb.WriteByte(':')
				sb.WriteString(valueString(d.Value))
				sb.WriteByte(';')
			}
			sb.WriteByte('}')
		}
		if wrap {
			sb.WriteByte('}')
		}
	}
	return sb.String()
}

// only string-typed values are ever emitted
func valueString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// JoinSelectors normalizes set of selectors: duplicates are removed, the rest
// sorted and joined with comma so output does not depend on the order
// selectors were listed in.
func JoinSelectors(selectors []string) string {
	sorted := slices.Clone(selectors)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), ",")
}
