package registry

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"
)

// Registrar is the registration surface definitions are replayed against.
type Registrar interface {
	AddConfig(id string, cfg ConfigDefinition) error
	AddPanel(id string, p PanelDefinition) error
	AddSection(id string, s SectionDefinition) error
	AddField(configID string, f FieldDefinition) error
}

// Definitions is content of theme definitions file.
type Definitions struct {
	Configs  []ConfigDefinition  `yaml:"configs"`
	Panels   []PanelDefinition   `yaml:"panels"`
	Sections []SectionDefinition `yaml:"sections"`
	Fields   []FieldDefinition   `yaml:"fields"`
}

// ParseDefinitions decodes theme definitions, unknown keys are rejected.
func ParseDefinitions(data []byte) (*Definitions, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	defs := &Definitions{}
	if err := dec.Decode(defs); err != nil {
		return nil, fmt.Errorf("failed to decode theme definitions: %w", err)
	}
	return defs, nil
}

// LoadDefinitions reads theme definitions from file.
func LoadDefinitions(path string) (*Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read theme definitions: %w", err)
	}
	return ParseDefinitions(data)
}

// Register replays definitions in order: configs, panels, sections, fields.
// All rejected definitions are reported together, accepted ones stay
// registered.
func (d *Definitions) Register(r Registrar) (err error) {
	for _, c := range d.Configs {
		err = multierr.Append(err, r.AddConfig(c.ID, c))
	}
	for _, p := range d.Panels {
		err = multierr.Append(err, r.AddPanel(p.ID, p))
	}
	for _, s := range d.Sections {
		err = multierr.Append(err, r.AddSection(s.ID, s))
	}
	for i, f := range d.Fields {
		if e := r.AddField(f.ConfigID, f); e != nil {
			err = multierr.Append(err, fmt.Errorf("field #%d: %w", i, e))
		}
	}
	return err
}
