// Package state defines shared program state.
package state

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"kshim/config"
	"kshim/registry"
	"kshim/store"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// host stores, opened on demand by commands which need them
	DB *store.DB
	// theme definitions, empty when configuration does not name the file
	Definitions *registry.Definitions

	start         time.Time
	restoreStdLog func()
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}

// Close releases resources acquired during program run. Database is put
// into debug report when one was requested.
func (e *LocalEnv) Close() (err error) {
	if e.DB == nil {
		return nil
	}
	err = e.DB.Close()
	if path := e.Cfg.Storage.Path; e.Rpt != nil && len(path) > 0 && path != ":memory:" {
		err = multierr.Append(err, e.Rpt.StoreCopy("store.db", path))
	}
	e.DB = nil
	return err
}
