package game

import (
	"math"
	"testing"
)

func plainLook() EnemyLook { return EnemyLook{Scale: 1} }

func bulletsOwnedBy(w *World, owner string) []EntityID {
	var out []EntityID
	w.ForEach([]ComponentKey{CompBullet, CompOwner}, func(id EntityID) {
		if !w.Gone(id) && w.Owner(id).PlayerID == owner {
			out = append(out, id)
		}
	})
	return out
}

func TestEnemyTargetsNearestPlayer(t *testing.T) {
	r := newRoom("ai-test")
	r.AddPlayer("player-a", "A") // boy, (-50, 0)
	near, _ := r.AddPlayer("player-b", "B") // girl, (50, 0)
	id := r.spawnEnemyWith(EnemyWalker, Vec2{100, 0}, WalkerBaseHP, plainLook())

	r.updateEnemies()

	en := r.World.EnemyData(id)
	if en.Target != near.Avatar {
		t.Fatalf("walker targeted %d, want nearest avatar %d", en.Target, near.Avatar)
	}
	tr := r.World.Transform(id)
	if tr.Pos.X >= 100 {
		t.Fatalf("walker did not move toward its target: x=%.4f", tr.Pos.X)
	}
}

func TestTargetReresolvedAfterDeath(t *testing.T) {
	r := newRoom("ai-test")
	a, _ := r.AddPlayer("player-a", "A")
	b, _ := r.AddPlayer("player-b", "B")
	id := r.spawnEnemyWith(EnemyWalker, Vec2{100, 0}, WalkerBaseHP, plainLook())

	r.updateEnemies()
	if r.World.EnemyData(id).Target != b.Avatar {
		t.Fatalf("expected initial target %d", b.Avatar)
	}

	r.killEntity(b.Avatar, "")
	r.updateEnemies()
	if got := r.World.EnemyData(id).Target; got != a.Avatar {
		t.Fatalf("target after death %d, want surviving avatar %d", got, a.Avatar)
	}
}

func TestShooterKitesInsideRange(t *testing.T) {
	r := newRoom("ai-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.Transform(p.Avatar).Pos = Vec2{200, 0}
	id := r.spawnEnemyWith(EnemyShooter, Vec2{0, 0}, ShooterBaseHP, plainLook())

	r.updateEnemies()

	tr := r.World.Transform(id)
	if tr.Pos.X >= 0 {
		t.Fatalf("shooter inside kite range must back away, x=%.4f", tr.Pos.X)
	}
}

func TestShooterApproachesOutsideKiteRange(t *testing.T) {
	r := newRoom("ai-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.Transform(p.Avatar).Pos = Vec2{400, 0}
	id := r.spawnEnemyWith(EnemyShooter, Vec2{0, 0}, ShooterBaseHP, plainLook())

	r.updateEnemies()

	if tr := r.World.Transform(id); tr.Pos.X <= 0 {
		t.Fatalf("shooter outside kite range must approach, x=%.4f", tr.Pos.X)
	}
}

func TestShooterFiresWithinRange(t *testing.T) {
	r := newRoom("ai-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.Transform(p.Avatar).Pos = Vec2{400, 0}
	id := r.spawnEnemyWith(EnemyShooter, Vec2{0, 0}, ShooterBaseHP, plainLook())

	r.updateEnemies()

	shots := bulletsOwnedBy(r.World, enemyOwner)
	if len(shots) != 1 {
		t.Fatalf("expected 1 enemy round, got %d", len(shots))
	}
	// Cooldown rolls 80..120 and was already decremented once this tick.
	cd := r.World.EnemyData(id).AttackCooldown
	if cd < 79 || cd > 119 {
		t.Fatalf("attack cooldown %d outside expected range", cd)
	}
	prof := WeaponProfiles[WeaponEnemyNormal]
	btr := r.World.Transform(shots[0])
	if !almostEqual(btr.Vel.Len(), prof.Speed) {
		t.Fatalf("enemy round speed %.4f, want %.0f", btr.Vel.Len(), prof.Speed)
	}
	if btr.Vel.X <= 0 {
		t.Fatalf("enemy round must fly toward the target, vx=%.4f", btr.Vel.X)
	}
}

func TestShooterHoldsFireOutOfRange(t *testing.T) {
	r := newRoom("ai-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.Transform(p.Avatar).Pos = Vec2{700, 0}
	r.spawnEnemyWith(EnemyShooter, Vec2{0, 0}, ShooterBaseHP, plainLook())

	r.updateEnemies()

	if n := len(bulletsOwnedBy(r.World, enemyOwner)); n != 0 {
		t.Fatalf("expected no rounds beyond fire range, got %d", n)
	}
}

func TestBossRadialBurst(t *testing.T) {
	r := newRoom("ai-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.Transform(p.Avatar).Pos = Vec2{400, 0}
	id := r.spawnEnemyWith(EnemyBoss, Vec2{0, 0}, BossHP(1), plainLook())

	r.updateEnemies()

	shots := bulletsOwnedBy(r.World, enemyOwner)
	if len(shots) != BossRadialShots {
		t.Fatalf("expected %d radial rounds, got %d", BossRadialShots, len(shots))
	}
	seen := map[int]bool{}
	for _, b := range shots {
		btr := r.World.Transform(b)
		angle := math.Atan2(btr.Vel.Y, btr.Vel.X)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		slot := int(math.Round(angle * BossRadialShots / (2 * math.Pi)))
		seen[slot%BossRadialShots] = true
	}
	if len(seen) != BossRadialShots {
		t.Fatalf("rounds cover %d distinct directions, want %d", len(seen), BossRadialShots)
	}
	if cd := r.World.EnemyData(id).AttackCooldown; cd != BossAttackCooldown-1 {
		t.Fatalf("boss cooldown %d, want %d", cd, BossAttackCooldown-1)
	}

	// Second pass is still cooling down.
	r.updateEnemies()
	if n := len(bulletsOwnedBy(r.World, enemyOwner)); n != BossRadialShots {
		t.Fatalf("boss fired during cooldown: %d rounds", n)
	}
}

func TestFlockingSeparation(t *testing.T) {
	r := newRoom("ai-test")
	a := r.spawnEnemyWith(EnemyWalker, Vec2{0, 0}, WalkerBaseHP, plainLook())
	b := r.spawnEnemyWith(EnemyWalker, Vec2{10, 0}, WalkerBaseHP, plainLook())

	before := r.World.Transform(b).Pos.Sub(r.World.Transform(a).Pos).Len()
	r.updateEnemies()
	after := r.World.Transform(b).Pos.Sub(r.World.Transform(a).Pos).Len()

	if after <= before {
		t.Fatalf("overlapping walkers must separate: %.4f -> %.4f", before, after)
	}
}

func TestContactDamageAndCooldown(t *testing.T) {
	r := newRoom("ai-test")
	p, _ := r.AddPlayer("player-a", "A")
	ptr := r.World.Transform(p.Avatar)
	ptr.Pos = Vec2{10, 0}
	id := r.spawnEnemyWith(EnemyWalker, Vec2{0, 0}, WalkerBaseHP, plainLook())

	r.updateEnemies()

	h := r.World.HealthData(p.Avatar)
	if h.HP != PlayerMaxHP-10 {
		t.Fatalf("player hp %.1f after walker contact, want %.1f", h.HP, PlayerMaxHP-10)
	}
	if ptr.Vel.X <= 0 {
		t.Fatalf("expected knockback away from the walker, vx=%.4f", ptr.Vel.X)
	}
	if cd := r.World.EnemyData(id).ContactCooldown; cd != ContactCooldown-1 {
		t.Fatalf("contact cooldown %d, want %d", cd, ContactCooldown-1)
	}

	r.updateEnemies()
	if h.HP != PlayerMaxHP-10 {
		t.Fatalf("contact damage reapplied during cooldown: hp %.1f", h.HP)
	}
}
