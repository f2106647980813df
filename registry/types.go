// Package registry keeps definitions of configs, panels, sections and fields
// registered by a theme for a single render cycle.
package registry

import (
	"fmt"

	yaml "gopkg.in/yaml.v3"

	"kshim/common"
	"kshim/css"
	"kshim/values"
)

// Selector is either a single selector string or a set of selectors. In
// definition files it may be written as scalar or as a list.
type Selector []string

// String returns normalized selector. Sets are deduplicated and sorted,
// single strings are kept as written.
func (s Selector) String() string {
	switch len(s) {
	case 0:
		return ""
	case 1:
		return s[0]
	default:
		return css.JoinSelectors(s)
	}
}

func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = Selector{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	}
	return fmt.Errorf("line %d: element must be string or list of strings", node.Line)
}

// OutputRule maps field value to CSS declarations.
type OutputRule struct {
	Selector   Selector `yaml:"element"`
	Property   string   `yaml:"property,omitempty"`
	MediaQuery string   `yaml:"media_query,omitempty"`
	Prefix     string   `yaml:"prefix,omitempty"`
	Units      string   `yaml:"units,omitempty"`
	Suffix     string   `yaml:"suffix,omitempty"`
}

// Media returns media query of the rule with default applied.
func (o OutputRule) Media() string {
	if len(o.MediaQuery) == 0 {
		return css.GlobalMedia
	}
	return o.MediaQuery
}

// FieldDefinition describes single user configurable option.
type FieldDefinition struct {
	ID       string
	Type     common.FieldType
	Default  any
	ConfigID string
	Label    string
	Section  string
	Priority int
	Outputs  []OutputRule
}

// rawField mirrors FieldDefinition in definition files, default value is
// kept as node so structured defaults preserve key order.
type rawField struct {
	ID       string       `yaml:"settings"`
	Type     string       `yaml:"type"`
	Default  yaml.Node    `yaml:"default"`
	ConfigID string       `yaml:"kirki_config"`
	Label    string       `yaml:"label"`
	Section  string       `yaml:"section"`
	Priority int          `yaml:"priority"`
	Outputs  []OutputRule `yaml:"output"`
}

func (f *FieldDefinition) UnmarshalYAML(node *yaml.Node) error {
	var raw rawField
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var def any
	if raw.Default.Kind != 0 {
		var err error
		if def, err = values.FromNode(&raw.Default); err != nil {
			return fmt.Errorf("field %q default: %w", raw.ID, err)
		}
	}
	*f = FieldDefinition{
		ID:       raw.ID,
		Type:     common.FieldType(raw.Type),
		Default:  def,
		ConfigID: raw.ConfigID,
		Label:    raw.Label,
		Section:  raw.Section,
		Priority: raw.Priority,
		Outputs:  raw.Outputs,
	}
	return nil
}

// ConfigDefinition is a named storage policy for group of fields.
type ConfigDefinition struct {
	ID          string             `yaml:"id"`
	StorageMode common.StorageMode `yaml:"option_type"`
	OptionName  string             `yaml:"option_name,omitempty"`
	Capability  string             `yaml:"capability,omitempty"`
}

// PanelDefinition groups sections in customizer UI.
type PanelDefinition struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Priority    int    `yaml:"priority,omitempty"`
}

// SectionDefinition groups fields in customizer UI.
type SectionDefinition struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Panel       string `yaml:"panel,omitempty"`
	Priority    int    `yaml:"priority,omitempty"`
}
