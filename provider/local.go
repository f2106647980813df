package provider

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"kshim/common"
	"kshim/registry"
	"kshim/store"
	"kshim/values"
)

// ErrConfigNotFound is returned when field value is requested for config
// which was never registered.
var ErrConfigNotFound = errors.New("config not found")

// Local implements StyleConfigProvider on top of registry and host stores.
type Local struct {
	reg      *registry.Registry
	settings store.Settings
	options  store.Options
	log      *zap.Logger
}

// NewLocal creates local provider registering into reg and reading values
// from host stores.
func NewLocal(reg *registry.Registry, settings store.Settings, options store.Options, log *zap.Logger) *Local {
	if log == nil {
		log = zap.NewNop()
	}
	return &Local{reg: reg, settings: settings, options: options, log: log.Named("provider")}
}

// Registry returns registry local provider populates.
func (l *Local) Registry() *registry.Registry {
	return l.reg
}

// Reset starts new render cycle: all definitions registered so far are
// dropped and fresh registry is returned.
func (l *Local) Reset() *registry.Registry {
	l.reg = registry.New()
	return l.reg
}

func (l *Local) AddConfig(id string, cfg registry.ConfigDefinition) error {
	return l.reg.AddConfig(id, cfg)
}

func (l *Local) AddPanel(id string, p registry.PanelDefinition) error {
	return l.reg.AddPanel(id, p)
}

func (l *Local) AddSection(id string, s registry.SectionDefinition) error {
	return l.reg.AddSection(id, s)
}

func (l *Local) AddField(configID string, f registry.FieldDefinition) error {
	if err := l.reg.AddField(configID, f); err != nil {
		l.log.Warn("Field ignored", zap.String("config", configID), zap.Error(err))
		return err
	}
	return nil
}

// GetOption resolves stored value of the field. Field default (empty string
// for unknown fields) is returned when nothing is stored.
func (l *Local) GetOption(configID, fieldID string) (any, error) {
	var def any = ""
	if f, ok := l.reg.Field(fieldID); ok && f.Default != nil {
		def = f.Default
	}

	cfg, ok := l.reg.Config(configID)
	if !ok {
		return nil, fmt.Errorf("%w: %q (field %q)", ErrConfigNotFound, configID, fieldID)
	}

	switch cfg.StorageMode {
	case common.StorageModeOptionBlob:
		blob, found, err := l.options.Get(cfg.OptionName)
		if err != nil {
			return nil, err
		}
		if !found {
			return def, nil
		}
		all, isMap := values.MaybeDecode(blob).(*values.Map)
		if !isMap {
			return def, nil
		}
		v, found := all.Get(fieldID)
		if !found {
			return def, nil
		}
		return values.MaybeDecode(v), nil
	case common.StorageModeOption:
		return lookup(l.options, fieldID, def)
	default:
		return lookup(l.settings, fieldID, def)
	}
}

func lookup(kv store.KeyValue, key string, def any) (any, error) {
	v, found, err := kv.Get(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return def, nil
	}
	return v, nil
}

// SetOption stores value of the field according to storage mode of config
// configID. For blob configs the whole blob is rewritten with the field
// entry replaced.
func (l *Local) SetOption(configID, fieldID string, value any) error {
	cfg, ok := l.reg.Config(configID)
	if !ok {
		return fmt.Errorf("%w: %q (field %q)", ErrConfigNotFound, configID, fieldID)
	}

	switch cfg.StorageMode {
	case common.StorageModeOptionBlob:
		blob, found, err := l.options.Get(cfg.OptionName)
		if err != nil {
			return err
		}
		all, isMap := values.MaybeDecode(blob).(*values.Map)
		if !found || !isMap {
			if found {
				l.log.Warn("Replacing malformed option blob", zap.String("option", cfg.OptionName))
			}
			all = values.NewMap()
		}
		all.Set(fieldID, values.Normalize(value))
		return l.options.Set(cfg.OptionName, all)
	case common.StorageModeOption:
		return l.options.Set(fieldID, value)
	default:
		return l.settings.Set(fieldID, value)
	}
}
