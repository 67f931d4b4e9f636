package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"CrystalRush/internal/game"
)

type spawnConfig struct {
	EnemyInterval   *uint64 `json:"enemyInterval"`
	CrystalInterval *uint64 `json:"crystalInterval"`
	CrateInterval   *uint64 `json:"crateInterval"`
	MaxEnemies      *int    `json:"maxEnemies"`
	MaxCrystals     *int    `json:"maxCrystals"`
	MaxCrates       *int    `json:"maxCrates"`
}

type worldConfig struct {
	Spawn *spawnConfig `json:"spawn"`
}

// SpawnOverrides represents optional command-line overrides for the
// spawn cadence.
type SpawnOverrides struct {
	EnemyInterval   *uint64
	CrystalInterval *uint64
	CrateInterval   *uint64
	MaxEnemies      *int
	MaxCrystals     *int
	MaxCrates       *int
}

func (o SpawnOverrides) apply(base game.SessionConfig) game.SessionConfig {
	if o.EnemyInterval != nil {
		base.EnemySpawnInterval = *o.EnemyInterval
	}
	if o.CrystalInterval != nil {
		base.CrystalSpawnInterval = *o.CrystalInterval
	}
	if o.CrateInterval != nil {
		base.CrateSpawnInterval = *o.CrateInterval
	}
	if o.MaxEnemies != nil {
		base.MaxEnemies = *o.MaxEnemies
	}
	if o.MaxCrystals != nil {
		base.MaxCrystals = *o.MaxCrystals
	}
	if o.MaxCrates != nil {
		base.MaxCrates = *o.MaxCrates
	}
	return base.Sanitize()
}

func mergeSpawnConfig(base game.SessionConfig, cfg *spawnConfig) game.SessionConfig {
	if cfg == nil {
		return base
	}
	if cfg.EnemyInterval != nil {
		base.EnemySpawnInterval = *cfg.EnemyInterval
	}
	if cfg.CrystalInterval != nil {
		base.CrystalSpawnInterval = *cfg.CrystalInterval
	}
	if cfg.CrateInterval != nil {
		base.CrateSpawnInterval = *cfg.CrateInterval
	}
	if cfg.MaxEnemies != nil {
		base.MaxEnemies = *cfg.MaxEnemies
	}
	if cfg.MaxCrystals != nil {
		base.MaxCrystals = *cfg.MaxCrystals
	}
	if cfg.MaxCrates != nil {
		base.MaxCrates = *cfg.MaxCrates
	}
	return base.Sanitize()
}

func loadSessionConfigFromFile(path string, base game.SessionConfig) (game.SessionConfig, error) {
	if path == "" {
		return base.Sanitize(), nil
	}
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return base.Sanitize(), nil
		}
		return base.Sanitize(), fmt.Errorf("read world config %q: %w", cleanPath, err)
	}
	var cfg worldConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base.Sanitize(), fmt.Errorf("parse world config %q: %w", cleanPath, err)
	}
	return mergeSpawnConfig(base, cfg.Spawn), nil
}
