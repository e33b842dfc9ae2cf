// Package bootstrap assembles the service graph shared by the API server and
// the trackerctl command.
package bootstrap

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/dv360"
	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/history"
	"github.com/jpp0ca/DV360Trackers-API/internal/adapters/session"
	"github.com/jpp0ca/DV360Trackers-API/internal/app"
	"github.com/jpp0ca/DV360Trackers-API/internal/auth"
	"github.com/jpp0ca/DV360Trackers-API/internal/config"
	"github.com/jpp0ca/DV360Trackers-API/internal/ports"
	"github.com/jpp0ca/DV360Trackers-API/internal/reconcile"
	"github.com/jpp0ca/DV360Trackers-API/internal/trackertype"
)

// Deps is the wired application.
type Deps struct {
	Registry *trackertype.Registry
	Auth     *auth.Provider
	Service  *app.Service

	closers []func() error
}

// Close releases the session and history stores.
func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build creates every adapter described by cfg. progress may be nil.
func Build(cfg *config.Config, logger *zap.Logger, progress app.ProgressFunc) (*Deps, error) {
	d := &Deps{}

	reg := trackertype.Default()
	if cfg.Registry.Path != "" {
		loaded, err := trackertype.LoadFile(cfg.Registry.Path)
		if err != nil {
			return nil, err
		}
		reg = loaded
	}
	d.Registry = reg

	d.Auth = auth.NewProvider(auth.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURL:  cfg.OAuth.RedirectURL,
		TokenFile:    cfg.OAuth.TokenFile,
	}, logger)

	// The per-call context deadline is the real bound; this only catches
	// a connection that never returns headers.
	httpClient := &http.Client{Timeout: cfg.Batch.CallTimeout + 5*time.Second}
	api := dv360.NewClient(httpClient, d.Auth, cfg.DV360.BaseURL)

	sessions, err := d.sessionStore(cfg)
	if err != nil {
		return nil, err
	}

	runs, err := d.runStore(cfg)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	d.Service = app.NewService(api, reconcile.New(reg, cfg.Batch.MergeKeyPolicy()), reg, app.Options{
		Workers:       cfg.Batch.Workers,
		CallTimeout:   cfg.Batch.CallTimeout,
		StrictVariant: cfg.Batch.StrictVariant,
		Logger:        logger,
		History:       runs,
		Sessions:      sessions,
		SessionTTL:    cfg.Session.TTL,
		Progress:      progress,
	})

	logger.Info("service wired",
		zap.String("registry_version", reg.Version()),
		zap.String("merge_key", cfg.Batch.MergeKey),
		zap.Int("workers", cfg.Batch.Workers),
		zap.String("session_store", cfg.Session.Store),
		zap.String("history", cfg.History.Type),
	)
	return d, nil
}

func (d *Deps) sessionStore(cfg *config.Config) (ports.SessionStore, error) {
	switch cfg.Session.Store {
	case "redis":
		store, err := session.NewRedisStore(session.RedisConfig{
			Addr:      cfg.Session.RedisAddr,
			Password:  cfg.Session.RedisPassword,
			DB:        cfg.Session.RedisDB,
			KeyPrefix: cfg.Session.KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	default:
		store := session.NewMemoryStore(time.Minute)
		d.closers = append(d.closers, store.Close)
		return store, nil
	}
}

// runStore returns nil when history is disabled; a typed nil *history.Store
// must not leak into the interface.
func (d *Deps) runStore(cfg *config.Config) (ports.RunStore, error) {
	if cfg.History.Type == "none" {
		return nil, nil
	}
	store, err := history.Open(history.Config{
		Type: cfg.History.Type,
		Path: cfg.History.Path,
		DSN:  cfg.History.DSN,
	})
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	d.closers = append(d.closers, store.Close)
	return store, nil
}
