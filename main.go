package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"CrystalRush/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on (e.g., 127.0.0.1:8080)")
	worldConfigPath := flag.String("world-config", "configs/world.json", "path to spawn tuning JSON")
	enemyInterval := flag.Int64("spawn-enemy-interval", -1, "override enemy spawn interval in ticks")
	crystalInterval := flag.Int64("spawn-crystal-interval", -1, "override crystal spawn interval in ticks")
	crateInterval := flag.Int64("spawn-crate-interval", -1, "override crate spawn interval in ticks")
	maxEnemies := flag.Int("max-enemies", -1, "override concurrent enemy cap")
	maxCrystals := flag.Int("max-crystals", -1, "override concurrent crystal cap")
	maxCrates := flag.Int("max-crates", -1, "override concurrent crate cap")
	flag.Parse()

	cfg := server.AppConfig{WorldConfigPath: *worldConfigPath}

	var overrides server.SpawnOverrides

	if *enemyInterval >= 0 {
		val := uint64(*enemyInterval)
		overrides.EnemyInterval = &val
	}
	if *crystalInterval >= 0 {
		val := uint64(*crystalInterval)
		overrides.CrystalInterval = &val
	}
	if *crateInterval >= 0 {
		val := uint64(*crateInterval)
		overrides.CrateInterval = &val
	}
	if *maxEnemies >= 0 {
		val := *maxEnemies
		overrides.MaxEnemies = &val
	}
	if *maxCrystals >= 0 {
		val := *maxCrystals
		overrides.MaxCrystals = &val
	}
	if *maxCrates >= 0 {
		val := *maxCrates
		overrides.MaxCrates = &val
	}

	cfg.Overrides = overrides

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.StartApp(ctx, *addr, cfg); err != nil {
		log.Fatal(err)
	}
}
