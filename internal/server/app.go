package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"CrystalRush/internal/game"
)

const roomCleanupInterval = 30 * time.Second

// AppConfig collects everything main needs to hand over: the optional
// world-config file, command-line overrides on top of it, and the
// optional level flavor-text generator.
type AppConfig struct {
	WorldConfigPath string
	Overrides       SpawnOverrides
	Provider        game.LevelInfoProvider
}

// StartApp wires the hub, session manager and HTTP server together and
// blocks until the context is cancelled or the listener fails.
func StartApp(ctx context.Context, addr string, cfg AppConfig) error {
	spawnCfg, err := loadSessionConfigFromFile(cfg.WorldConfigPath, game.DefaultSessionConfig())
	if err != nil {
		return err
	}
	spawnCfg = cfg.Overrides.apply(spawnCfg)

	hub := game.NewHub()
	manager := newSessionManager(hub, cfg.Provider, spawnCfg)
	srv := newHTTPServer(manager, addr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(roomCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				hub.CleanupEmptyRooms()
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
