package registry

import (
	"errors"
	"fmt"

	"kshim/common"
	"kshim/values"
)

var (
	// ErrMissingID is returned when definition does not have an identifier.
	ErrMissingID = errors.New("missing identifier")
	// ErrMissingSettings is returned when field definition does not name its
	// setting.
	ErrMissingSettings = errors.New("field has no settings defined")
)

// Registry is an insertion ordered collection of definitions. It is built
// from scratch for every render cycle and is not safe for concurrent use.
type Registry struct {
	configs    map[string]ConfigDefinition
	configIDs  []string
	fields     []*FieldDefinition
	fieldIndex map[string]int
	panels     []PanelDefinition
	sections   []SectionDefinition
}

func New() *Registry {
	return &Registry{
		configs:    make(map[string]ConfigDefinition),
		fieldIndex: make(map[string]int),
	}
}

// AddConfig registers storage configuration. Theme settings are used unless
// requested otherwise, option mode with option name set becomes option blob.
func (r *Registry) AddConfig(id string, cfg ConfigDefinition) error {
	if len(id) == 0 {
		return fmt.Errorf("config: %w", ErrMissingID)
	}
	cfg.ID = id

	mode, err := common.ParseStorageMode(cfg.StorageMode.String())
	if err != nil {
		return fmt.Errorf("config %q: %w", id, err)
	}
	switch {
	case mode == common.StorageModeOption && len(cfg.OptionName) > 0:
		mode = common.StorageModeOptionBlob
	case mode == common.StorageModeOptionBlob && len(cfg.OptionName) == 0:
		mode = common.StorageModeOption
	}
	cfg.StorageMode = mode

	if _, exists := r.configs[id]; !exists {
		r.configIDs = append(r.configIDs, id)
	}
	r.configs[id] = cfg
	return nil
}

// AddPanel registers panel. Panels are only listed, they never affect
// generated styles.
func (r *Registry) AddPanel(id string, p PanelDefinition) error {
	if len(id) == 0 {
		return fmt.Errorf("panel: %w", ErrMissingID)
	}
	p.ID = id
	for i := range r.panels {
		if r.panels[i].ID == id {
			r.panels[i] = p
			return nil
		}
	}
	r.panels = append(r.panels, p)
	return nil
}

// AddSection registers section, same as panels sections are kept for listing
// only.
func (r *Registry) AddSection(id string, s SectionDefinition) error {
	if len(id) == 0 {
		return fmt.Errorf("section: %w", ErrMissingID)
	}
	s.ID = id
	for i := range r.sections {
		if r.sections[i].ID == id {
			r.sections[i] = s
			return nil
		}
	}
	r.sections = append(r.sections, s)
	return nil
}

// AddField registers field under config. When field does not reference config
// itself configID is used. Registering field with the same id again replaces
// previous definition but keeps its position.
func (r *Registry) AddField(configID string, f FieldDefinition) error {
	if len(f.ID) == 0 {
		return ErrMissingSettings
	}
	if len(f.ConfigID) == 0 {
		f.ConfigID = configID
	}
	if len(f.Type) == 0 {
		f.Type = common.FieldTypeDefault
	}
	f.Default = values.Normalize(f.Default)

	if i, ok := r.fieldIndex[f.ID]; ok {
		r.fields[i] = &f
		return nil
	}
	r.fieldIndex[f.ID] = len(r.fields)
	r.fields = append(r.fields, &f)
	return nil
}

func (r *Registry) Config(id string) (ConfigDefinition, bool) {
	cfg, ok := r.configs[id]
	return cfg, ok
}

func (r *Registry) Field(id string) (*FieldDefinition, bool) {
	i, ok := r.fieldIndex[id]
	if !ok {
		return nil, false
	}
	return r.fields[i], true
}

// Fields returns registered fields in registration order.
func (r *Registry) Fields() []*FieldDefinition {
	return append([]*FieldDefinition(nil), r.fields...)
}

// Configs returns registered configs in registration order.
func (r *Registry) Configs() []ConfigDefinition {
	res := make([]ConfigDefinition, 0, len(r.configIDs))
	for _, id := range r.configIDs {
		res = append(res, r.configs[id])
	}
	return res
}

func (r *Registry) Panels() []PanelDefinition {
	return append([]PanelDefinition(nil), r.panels...)
}

func (r *Registry) Sections() []SectionDefinition {
	return append([]SectionDefinition(nil), r.sections...)
}

// Len returns number of registered fields.
func (r *Registry) Len() int {
	return len(r.fields)
}
