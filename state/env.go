// Package state defines shared program state.
package state

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fontswap/config"
	"fontswap/store"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	// opened on first use by commands working with stored rules
	store *store.Store

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

// Store returns settings store opened at configured location.
func (e *LocalEnv) Store() (*store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}
	if e.Cfg == nil {
		return nil, fmt.Errorf("configuration is not loaded")
	}
	s, err := store.Open(e.Cfg.Store.Path, e.Log)
	if err != nil {
		return nil, err
	}
	e.store = s
	return s, nil
}

// CloseStore closes settings store if it was opened, adding its copy to the
// debug report.
func (e *LocalEnv) CloseStore() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	if rerr := e.Rpt.StoreCopy("settings.db", e.store.Path()); rerr != nil && e.Log != nil {
		e.Log.Debug("Unable to add settings store to report", zap.Error(rerr))
	}
	e.store = nil
	return err
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
