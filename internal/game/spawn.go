package game

// updateSpawns is the wave director. Ordinary spawning runs on fixed
// cadences until the crystal threshold is met; from then on the single
// boss is the only thing left to fight.
func (r *Room) updateSpawns() {
	if r.BossSpawned {
		return
	}

	if r.CrystalsCollected >= CrystalTarget(r.Level.Level) {
		r.SpawnBoss(r.spawnRing(EnemySpawnMinDist, EnemySpawnMaxDist))
		return
	}

	cfg := r.Config
	if r.TickCount%cfg.EnemySpawnInterval == 0 && r.World.CountAlive(CompEnemy) < cfg.MaxEnemies {
		kind := EnemyWalker
		if r.rng.Float64() < 0.35 {
			kind = EnemyShooter
		}
		r.SpawnEnemy(kind, r.spawnRing(EnemySpawnMinDist, EnemySpawnMaxDist))
	}
	if r.TickCount%cfg.CrystalSpawnInterval == 0 && r.World.CountAlive(CompCrystal) < cfg.MaxCrystals {
		r.SpawnCrystal(r.spawnRing(CrystalSpawnMinDist, CrystalSpawnMaxDist))
	}
	if r.TickCount%cfg.CrateSpawnInterval == 0 && r.World.CountAlive(CompCrate) < cfg.MaxCrates {
		r.SpawnCrate(r.spawnRing(CrateSpawnMinDist, CrateSpawnMaxDist))
	}
}
