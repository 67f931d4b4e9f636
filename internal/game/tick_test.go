package game

import "testing"

func TestCrateDropsSinglePickup(t *testing.T) {
	r := newRoom("tick-test")
	crate := r.SpawnCrate(Vec2{900, 0})

	for i := 0; i < 3; i++ {
		r.applyDamage(crate, 12, "player-a")
	}

	if !r.World.Gone(crate) {
		t.Fatalf("crate alive after %d damage, hp %.1f", 36, r.World.HealthData(crate).HP)
	}
	if n := r.World.CountAlive(CompPickup); n != 1 {
		t.Fatalf("expected exactly one pickup from the crate, got %d", n)
	}

	// Hitting the wreck again must not drop another.
	r.applyDamage(crate, 12, "player-a")
	if n := r.World.CountAlive(CompPickup); n != 1 {
		t.Fatalf("dead crate dropped again: %d pickups", n)
	}
}

func TestCrateBreaksOnContact(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	pos := r.World.Transform(p.Avatar).Pos
	// Close enough to break the crate, too far to claim the drop in the
	// same pass.
	crate := r.SpawnCrate(pos.Add(Vec2{28, 0}))

	r.updateInteractions()

	if !r.World.Gone(crate) {
		t.Fatal("crate must break on player contact")
	}
	if n := r.World.CountAlive(CompPickup); n != 1 {
		t.Fatalf("expected one pickup from the broken crate, got %d", n)
	}
}

func TestCrystalCollection(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	pos := r.World.Transform(p.Avatar).Pos
	crystal := r.SpawnCrystal(pos)

	r.collectCrystals()

	if !r.World.Gone(crystal) {
		t.Fatal("crystal must be consumed on contact")
	}
	if r.CrystalsCollected != 1 {
		t.Fatalf("collected count %d, want 1", r.CrystalsCollected)
	}
	if got := r.World.PlayerData(p.Avatar).Score; got != CrystalScore {
		t.Fatalf("score %d, want %d", got, CrystalScore)
	}
}

func TestPickupSwapsWeapon(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	pos := r.World.Transform(p.Avatar).Pos
	pickup := r.SpawnPickup(pos, WeaponSniper)

	r.updateInteractions()

	if got := r.World.PlayerData(p.Avatar).Weapon; got != WeaponSniper {
		t.Fatalf("weapon %s after pickup, want %s", got, WeaponSniper)
	}
	if !r.World.Gone(pickup) {
		t.Fatal("claimed pickup must despawn")
	}
}

func TestPickupExpires(t *testing.T) {
	r := newRoom("tick-test")
	pickup := r.SpawnPickup(Vec2{900, 0}, WeaponLaser)
	r.World.PickupData(pickup).Life = 1

	r.updateInteractions()

	if !r.World.Gone(pickup) {
		t.Fatal("unclaimed pickup must expire when its lifetime runs out")
	}
}

func TestDefeatStopsUpdates(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	gameOvers := 0
	r.Hooks.OnGameOver = func() { gameOvers++ }
	r.killEntity(p.Avatar, "")
	r.TickCount = EnemySpawnInterval - 1

	r.Tick()

	if r.Phase != PhaseDefeat {
		t.Fatalf("phase %s, want %s", r.Phase, PhaseDefeat)
	}
	if gameOvers != 1 {
		t.Fatalf("game over fired %d times, want 1", gameOvers)
	}
	// The cadence tick was reached but the defeated session spawns nothing.
	if n := r.World.CountAlive(CompEnemy); n != 0 {
		t.Fatalf("defeated session spawned %d enemies", n)
	}

	r.Tick()
	if gameOvers != 1 {
		t.Fatalf("terminal hook refired: %d", gameOvers)
	}
	if r.Phase != PhaseDefeat {
		t.Fatalf("terminal phase changed to %s", r.Phase)
	}
}

func TestVictoryRequiresBossSpawn(t *testing.T) {
	r := newRoom("tick-test")
	r.AddPlayer("player-a", "A")
	victories := 0
	r.Hooks.OnLevelComplete = func() { victories++ }

	r.Tick()
	if r.Phase != PhaseAccumulating || victories != 0 {
		t.Fatalf("victory before boss spawn: phase %s, fired %d", r.Phase, victories)
	}

	boss := r.SpawnBoss(Vec2{900, 0})
	r.Tick()
	if r.Phase != PhaseBossActive {
		t.Fatalf("phase %s with a living boss, want %s", r.Phase, PhaseBossActive)
	}

	r.killEntity(boss, "player-a")
	r.Tick()
	if r.Phase != PhaseVictory {
		t.Fatalf("phase %s after boss death, want %s", r.Phase, PhaseVictory)
	}
	if victories != 1 {
		t.Fatalf("level complete fired %d times, want 1", victories)
	}
}

func TestDefeatTakesPrecedenceOverVictory(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	boss := r.SpawnBoss(Vec2{900, 0})
	r.killEntity(boss, "")
	r.killEntity(p.Avatar, "")

	r.Tick()

	if r.Phase != PhaseDefeat {
		t.Fatalf("phase %s, want %s when both sides are dead", r.Phase, PhaseDefeat)
	}
}

func TestExpiredBulletSkipsCollision(t *testing.T) {
	r := newRoom("tick-test")
	enemy := r.spawnEnemyWith(EnemyWalker, Vec2{0, 0}, WalkerBaseHP, plainLook())
	prof := WeaponProfiles[WeaponAK47]
	bullet := r.spawnBullet("player-a", WeaponAK47, Vec2{0, 0}, 0, prof)
	r.World.Transform(bullet).Vel = Vec2{}
	r.World.BulletData(bullet).Life = 1

	r.updateBullets()

	if !r.World.Gone(bullet) {
		t.Fatal("expired bullet must be tombstoned")
	}
	if h := r.World.HealthData(enemy); h.HP != WalkerBaseHP {
		t.Fatalf("expired bullet dealt damage: hp %.1f", h.HP)
	}
}

func TestBulletHitsEnemy(t *testing.T) {
	r := newRoom("tick-test")
	enemy := r.spawnEnemyWith(EnemyWalker, Vec2{0, 0}, WalkerBaseHP, plainLook())
	prof := WeaponProfiles[WeaponAK47]
	bullet := r.spawnBullet("player-a", WeaponAK47, Vec2{0, 0}, 0, prof)
	r.World.Transform(bullet).Vel = Vec2{}

	r.updateBullets()

	if h := r.World.HealthData(enemy); h.HP != WalkerBaseHP-prof.Damage {
		t.Fatalf("enemy hp %.1f, want %.1f", h.HP, WalkerBaseHP-prof.Damage)
	}
	if !r.World.Gone(bullet) {
		t.Fatal("bullet must despawn on impact")
	}
}

func TestBulletFactions(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	avatar := p.Avatar
	pos := r.World.Transform(avatar).Pos
	enemy := r.spawnEnemyWith(EnemyWalker, pos, WalkerBaseHP, plainLook())

	if hit, ok := r.bulletHitsTarget(pos, 5, "player-a"); !ok || hit != enemy {
		t.Fatalf("player round should hit the enemy, got (%d, %v)", hit, ok)
	}
	if hit, ok := r.bulletHitsTarget(pos, 5, enemyOwner); !ok || hit != avatar {
		t.Fatalf("enemy round should hit the player, got (%d, %v)", hit, ok)
	}

	r.World.PlayerData(avatar).Invulnerable = true
	r.killEntity(enemy, "")
	if _, ok := r.bulletHitsTarget(pos, 5, enemyOwner); ok {
		t.Fatal("enemy round must ignore an invulnerable player")
	}
}

func TestKillScoreGoesToAttacker(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	enemy := r.spawnEnemyWith(EnemyShooter, Vec2{900, 0}, ShooterBaseHP, plainLook())

	r.applyDamage(enemy, 1000, "player-a")

	if got := r.World.PlayerData(p.Avatar).Score; got != ShooterScore {
		t.Fatalf("attacker score %d, want %d", got, ShooterScore)
	}
}

func TestDamageOnDeadEntityIsNoop(t *testing.T) {
	r := newRoom("tick-test")
	enemy := r.spawnEnemyWith(EnemyWalker, Vec2{900, 0}, WalkerBaseHP, plainLook())

	if !r.applyDamage(enemy, 1000, "") {
		t.Fatal("lethal damage should report the kill")
	}
	if r.applyDamage(enemy, 1000, "") {
		t.Fatal("damaging a dead entity must be a no-op")
	}
}

func TestPurgeOnFollowingTick(t *testing.T) {
	r := newRoom("tick-test")
	enemy := r.spawnEnemyWith(EnemyWalker, Vec2{900, 0}, WalkerBaseHP, plainLook())
	r.killEntity(enemy, "")

	if !r.World.Exists(enemy) {
		t.Fatal("tombstoned entity must survive until the next purge pass")
	}
	r.purgeTombstones()
	if r.World.Exists(enemy) {
		t.Fatal("tombstoned entity must be removed by the purge pass")
	}
}

func TestDeadPlayersAreNeverPurged(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.killEntity(p.Avatar, "")

	r.purgeTombstones()

	if !r.World.Exists(p.Avatar) {
		t.Fatal("dead player avatar must stay in the registry")
	}
	if h := r.World.HealthData(p.Avatar); !h.Dead {
		t.Fatal("dead player avatar must stay tombstoned")
	}
}

func TestHomingBulletSteersTowardEnemy(t *testing.T) {
	r := newRoom("tick-test")
	r.spawnEnemyWith(EnemyWalker, Vec2{200, 200}, WalkerBaseHP, plainLook())
	prof := WeaponProfiles[WeaponSniper]
	bullet := r.spawnBullet("player-a", WeaponSniper, Vec2{0, 0}, 0, prof)

	tr := r.World.Transform(bullet)
	r.steerHomingBullet(tr, prof.Speed)

	if tr.Vel.Y <= 0 {
		t.Fatalf("homing round must bend toward the enemy, vy=%.4f", tr.Vel.Y)
	}
	if !almostEqual(tr.Vel.Len(), prof.Speed) {
		t.Fatalf("homing must preserve speed, got %.4f", tr.Vel.Len())
	}
}

func TestCameraEasesTowardCentroid(t *testing.T) {
	r := newRoom("tick-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.Transform(p.Avatar).Pos = Vec2{100, 0}

	r.updateCamera()

	if !almostEqual(r.Camera.X, 100*CameraLag) {
		t.Fatalf("camera x %.4f, want %.1f", r.Camera.X, 100*CameraLag)
	}
}
