package state

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"kshim/provider"
	"kshim/registry"
	"kshim/store"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start:       time.Now(),
		Definitions: &registry.Definitions{},
	}
}

// OpenStorage opens host stores configured for the program and drops expired
// transients.
func (e *LocalEnv) OpenStorage() error {
	if e.DB != nil {
		return nil
	}
	db, err := store.OpenDB(e.Cfg.Storage.Path, e.Log)
	if err != nil {
		return err
	}
	if n, err := db.PurgeExpired(); err != nil {
		e.Log.Warn("Unable to purge expired transients", zap.Error(err))
	} else if n > 0 {
		e.Log.Debug("Expired transients purged", zap.Int("count", n))
	}
	e.DB = db
	return nil
}

// LoadDefinitions reads theme definitions file named in configuration.
func (e *LocalEnv) LoadDefinitions() error {
	path := e.Cfg.Theme.Definitions
	if len(path) == 0 {
		e.Log.Debug("No theme definitions configured")
		return nil
	}
	defs, err := registry.LoadDefinitions(path)
	if err != nil {
		return fmt.Errorf("unable to load theme definitions: %w", err)
	}
	e.Definitions = defs
	if e.Rpt != nil {
		e.Rpt.Store("definitions.yaml", path)
	}
	return nil
}

// NewLocal creates local provider on top of opened host stores.
func (e *LocalEnv) NewLocal() *provider.Local {
	return provider.NewLocal(registry.New(), e.DB.Settings(), e.DB.Options(), e.Log)
}

// Plugin returns customization plugin as configured. Plugin, when present,
// works with the same host stores.
func (e *LocalEnv) Plugin() provider.Plugin {
	return &hostPlugin{Local: e.NewLocal(), present: e.Cfg.Plugin.Present}
}

type hostPlugin struct {
	*provider.Local
	present bool
}

func (p *hostPlugin) Present() bool {
	return p.present
}
