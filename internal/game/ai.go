package game

import "math"

func enemyBaseSpeed(kind EnemyKind) float64 {
	switch kind {
	case EnemyShooter:
		return ShooterBaseSpeed
	case EnemyBoss:
		return BossBaseSpeed
	default:
		return WalkerBaseSpeed
	}
}

func enemyMaxSpeed(kind EnemyKind, scale float64) float64 {
	return enemyBaseSpeed(kind) * 8 / scale
}

func enemyContactDamage(kind EnemyKind) float64 {
	switch kind {
	case EnemyShooter:
		return 6
	case EnemyBoss:
		return 25
	default:
		return 10
	}
}

// nearestLivingPlayer re-resolves the closest live player avatar. The
// stored target is identity only; never a pointer that could go stale.
func (r *Room) nearestLivingPlayer(pos Vec2) (EntityID, float64, bool) {
	best := EntityID(0)
	bestDist := math.MaxFloat64
	r.World.ForEach([]ComponentKey{CompPlayer, CompTransform, CompHealth}, func(id EntityID) {
		if r.World.Gone(id) {
			return
		}
		d := r.World.Transform(id).Pos.Sub(pos).Len()
		if d < bestDist {
			best = id
			bestDist = d
		}
	})
	return best, bestDist, best != 0
}

func (r *Room) nearestLivingEnemy(pos Vec2, maxDist float64) (EntityID, bool) {
	best := EntityID(0)
	bestDist := maxDist
	r.World.ForEach([]ComponentKey{CompEnemy, CompTransform, CompHealth}, func(id EntityID) {
		if r.World.Gone(id) {
			return
		}
		d := r.World.Transform(id).Pos.Sub(pos).Len()
		if d <= bestDist {
			best = id
			bestDist = d
		}
	})
	return best, best != 0
}

// updateEnemies steers, flocks, attacks and integrates every living
// enemy. No discrete AI state survives across ticks beyond the cooldown
// counters.
func (r *Room) updateEnemies() {
	world := r.World
	world.ForEach([]ComponentKey{CompEnemy, CompTransform, CompHealth, CompBody}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		tr := world.Transform(id)
		en := world.EnemyData(id)
		body := world.BodyData(id)

		targetID, targetDist, hasTarget := r.nearestLivingPlayer(tr.Pos)
		en.Target = targetID

		var force Vec2
		if hasTarget {
			targetPos := world.Transform(targetID).Pos
			dir := targetPos.Sub(tr.Pos).Norm()
			speed := enemyBaseSpeed(en.Kind) / en.Look.Scale
			if en.Kind == EnemyShooter && targetDist < ShooterKiteRange {
				force = dir.Scale(-speed)
			} else {
				force = dir.Scale(speed)
			}
			tr.Facing = dir.Angle()
		}

		// Flocking: pairwise short-range repulsion keeps enemies from
		// stacking.
		world.ForEach([]ComponentKey{CompEnemy, CompTransform, CompBody}, func(other EntityID) {
			if other == id || world.Gone(other) {
				return
			}
			delta := tr.Pos.Sub(world.Transform(other).Pos)
			minDist := body.Radius + world.BodyData(other).Radius + FlockMargin
			dist := delta.Len()
			if dist >= minDist || dist == 0 {
				return
			}
			overlap := minDist - dist
			force = force.Add(delta.Norm().Scale(overlap * FlockScale))
		})

		tr.Vel = tr.Vel.Add(force)

		if hasTarget {
			r.enemyAttack(id, en, tr, targetID, targetDist)
		}
		if en.AttackCooldown > 0 {
			en.AttackCooldown--
		}
		if en.ContactCooldown > 0 {
			en.ContactCooldown--
		}
		en.AnimPhase += tr.Vel.Len() * 0.05

		integrate(tr, enemyMaxSpeed(en.Kind, en.Look.Scale))
		collideObstacles(tr, body.Radius)
	})
}

func (r *Room) enemyAttack(id EntityID, en *EnemyComponent, tr *Transform, targetID EntityID, targetDist float64) {
	world := r.World
	prof := WeaponProfiles[WeaponEnemyNormal]

	switch en.Kind {
	case EnemyShooter:
		if en.AttackCooldown <= 0 && targetDist <= ShooterFireRange {
			angle := world.Transform(targetID).Pos.Sub(tr.Pos).Angle()
			r.spawnBullet(enemyOwner, WeaponEnemyNormal, tr.Pos, angle, prof)
			en.AttackCooldown = 80 + r.rng.Intn(41)
		}
	case EnemyBoss:
		if en.AttackCooldown <= 0 {
			for i := 0; i < BossRadialShots; i++ {
				angle := 2 * math.Pi * float64(i) / BossRadialShots
				r.spawnBullet(enemyOwner, WeaponEnemyNormal, tr.Pos, angle, prof)
			}
			en.AttackCooldown = BossAttackCooldown
		}
	}

	// Contact damage keeps walkers (and a cornering boss) lethal.
	if en.ContactCooldown <= 0 {
		body := world.BodyData(id)
		targetTr := world.Transform(targetID)
		targetBody := world.BodyData(targetID)
		if targetTr != nil && targetBody != nil &&
			circlesOverlap(tr.Pos, targetTr.Pos, body.Radius, targetBody.Radius) {
			r.applyDamage(targetID, enemyContactDamage(en.Kind), "")
			targetTr.Vel = targetTr.Vel.Add(targetTr.Pos.Sub(tr.Pos).Norm().Scale(3))
			en.ContactCooldown = ContactCooldown
		}
	}
}

const enemyOwner = "enemy"
