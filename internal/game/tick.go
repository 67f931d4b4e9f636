package game

// Tick advances the session by one logical step. Registries are owned
// exclusively by this method for its duration; the transport reads only
// snapshots built under the same lock.
func (r *Room) Tick() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.TickCount++

	r.purgeTombstones()

	// Terminal conditions come first: a defeated session must not step
	// enemies or projectiles, and victory is only valid once the boss
	// has actually spawned.
	if r.checkProgression() {
		return
	}

	r.updatePlayers()
	r.updateInteractions()
	r.updateEnemies()
	r.updateSpawns()
	r.collectCrystals()
	r.updateBullets()
	r.updateParticles()
	r.updateCamera()
}

// checkProgression applies the session state machine and reports
// whether the tick should stop. Defeat takes precedence over victory.
func (r *Room) checkProgression() bool {
	if r.Phase == PhaseVictory || r.Phase == PhaseDefeat {
		return true
	}
	if len(r.Players) > 0 && !r.anyPlayerAlive() {
		r.Phase = PhaseDefeat
		if r.Hooks.OnGameOver != nil {
			r.Hooks.OnGameOver()
		}
		return true
	}
	if r.BossSpawned && !r.bossAlive() {
		r.Phase = PhaseVictory
		if r.Hooks.OnLevelComplete != nil {
			r.Hooks.OnLevelComplete()
		}
		return true
	}
	return false
}

func (r *Room) anyPlayerAlive() bool {
	alive := false
	r.World.ForEach([]ComponentKey{CompPlayer, CompHealth}, func(id EntityID) {
		if !r.World.Gone(id) {
			alive = true
		}
	})
	return alive
}

func (r *Room) bossAlive() bool {
	return r.BossID != 0 && r.World.Exists(r.BossID) && !r.World.Gone(r.BossID)
}

// purgeTombstones removes entities marked dead or destroyed on a prior
// tick. Death happens at most once; removal happens here, never inline.
func (r *Room) purgeTombstones() {
	var gone []EntityID
	r.World.ForEach([]ComponentKey{CompHealth}, func(id EntityID) {
		if h := r.World.HealthData(id); h.Dead {
			gone = append(gone, id)
		}
	})
	r.World.ForEach([]ComponentKey{CompDestroyed}, func(id EntityID) {
		gone = append(gone, id)
	})
	for _, id := range gone {
		// Players are never removed from the registry, only left dead,
		// so a late-joining spectator still sees the body.
		if r.World.PlayerData(id) != nil {
			continue
		}
		r.World.RemoveEntity(id)
	}
}

/* ----------------------------- Players ------------------------------ */

func (r *Room) updatePlayers() {
	for _, p := range r.Players {
		id := p.Avatar
		if r.World.Gone(id) {
			continue
		}
		tr := r.World.Transform(id)
		pc := r.World.PlayerData(id)
		body := r.World.BodyData(id)
		if tr == nil || pc == nil || body == nil {
			continue
		}

		in := r.Inputs[p.ID]
		var dir Vec2
		if in.Up {
			dir.Y--
		}
		if in.Down {
			dir.Y++
		}
		if in.Left {
			dir.X--
		}
		if in.Right {
			dir.X++
		}
		if dir.X != 0 || dir.Y != 0 {
			dir = dir.Norm()
			tr.Vel = tr.Vel.Add(dir.Scale(PlayerAccel))
			tr.Facing = dir.Angle()
		}

		if pc.FireCooldown > 0 {
			pc.FireCooldown--
		}
		if pc.DashCooldown > 0 {
			pc.DashCooldown--
		}
		if in.Fire && pc.FireCooldown <= 0 {
			r.firePlayerWeapon(id)
		}
		pc.AnimPhase += tr.Vel.Len() * 0.08

		integrate(tr, PlayerMaxSpeed)
		collideObstacles(tr, body.Radius)
	}
}

/* -------------------------- Interactions ----------------------------- */

// updateInteractions resolves player contact with crates and weapon
// pickups, and counts pickup lifetimes down to expiry.
func (r *Room) updateInteractions() {
	world := r.World

	world.ForEach([]ComponentKey{CompCrate, CompTransform, CompHealth, CompBody}, func(crate EntityID) {
		if world.Gone(crate) {
			return
		}
		pos := world.Transform(crate).Pos
		radius := world.BodyData(crate).Radius
		r.forEachLivingPlayer(func(player EntityID, ptr *Transform, pbody *Body) {
			if world.Gone(crate) {
				return
			}
			if circlesOverlap(pos, ptr.Pos, radius, pbody.Radius) {
				r.killEntity(crate, "")
			}
		})
	})

	world.ForEach([]ComponentKey{CompPickup, CompTransform, CompBody}, func(pickup EntityID) {
		if world.Gone(pickup) {
			return
		}
		pk := world.PickupData(pickup)
		pk.Life--
		if pk.Life <= 0 {
			world.SetComponent(pickup, CompDestroyed, &DestroyedComponent{})
			return
		}
		pos := world.Transform(pickup).Pos
		radius := world.BodyData(pickup).Radius
		r.forEachLivingPlayer(func(player EntityID, ptr *Transform, pbody *Body) {
			if world.Gone(pickup) {
				return
			}
			if circlesOverlap(pos, ptr.Pos, radius, pbody.Radius) {
				world.PlayerData(player).Weapon = pk.Weapon
				world.SetComponent(pickup, CompDestroyed, &DestroyedComponent{})
			}
		})
	})
}

func (r *Room) collectCrystals() {
	world := r.World
	world.ForEach([]ComponentKey{CompCrystal, CompTransform, CompHealth, CompBody}, func(crystal EntityID) {
		if world.Gone(crystal) {
			return
		}
		pos := world.Transform(crystal).Pos
		radius := world.BodyData(crystal).Radius
		r.forEachLivingPlayer(func(player EntityID, ptr *Transform, pbody *Body) {
			if world.Gone(crystal) {
				return
			}
			if circlesOverlap(pos, ptr.Pos, radius, pbody.Radius) {
				world.HealthData(crystal).HP = 0
				world.HealthData(crystal).Dead = true
				r.CrystalsCollected++
				world.PlayerData(player).Score += CrystalScore
			}
		})
	})
}

func (r *Room) forEachLivingPlayer(fn func(id EntityID, tr *Transform, body *Body)) {
	r.World.ForEach([]ComponentKey{CompPlayer, CompTransform, CompHealth, CompBody}, func(id EntityID) {
		if r.World.Gone(id) {
			return
		}
		fn(id, r.World.Transform(id), r.World.BodyData(id))
	})
}

/* ----------------------------- Bullets ------------------------------- */

func (r *Room) updateBullets() {
	world := r.World
	world.ForEach([]ComponentKey{CompBullet, CompTransform, CompBody, CompOwner}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		bl := world.BulletData(id)
		bl.Life--
		if bl.Life <= 0 {
			// Expired projectiles take no further part in collision.
			world.SetComponent(id, CompDestroyed, &DestroyedComponent{})
			return
		}

		tr := world.Transform(id)
		body := world.BodyData(id)
		owner := world.Owner(id).PlayerID

		if prof, ok := WeaponProfiles[bl.Weapon]; ok && prof.Homing {
			r.steerHomingBullet(tr, prof.Speed)
		}
		tr.Pos = tr.Pos.Add(tr.Vel)

		for _, obs := range QueryRect(tr.Pos.X, tr.Pos.Y, ObstacleQueryW, ObstacleQueryH) {
			if pointHitsObstacle(tr.Pos, body.Radius, obs) {
				r.spawnParticles(tr.Pos, ParticleSpark, 2)
				world.SetComponent(id, CompDestroyed, &DestroyedComponent{})
				return
			}
		}

		if hit, ok := r.bulletHitsTarget(tr.Pos, body.Radius, owner); ok {
			r.applyDamage(hit, bl.Damage, owner)
			world.SetComponent(id, CompDestroyed, &DestroyedComponent{})
		}
	})
}

// steerHomingBullet bends the velocity toward the nearest living enemy
// while preserving speed.
func (r *Room) steerHomingBullet(tr *Transform, speed float64) {
	target, ok := r.nearestLivingEnemy(tr.Pos, HomingRange)
	if !ok {
		return
	}
	desired := r.World.Transform(target).Pos.Sub(tr.Pos).Norm().Scale(speed)
	blended := tr.Vel.Scale(1 - HomingTurnRate).Add(desired.Scale(HomingTurnRate))
	tr.Vel = blended.Norm().Scale(speed)
	tr.Facing = tr.Vel.Angle()
}

// bulletHitsTarget finds the first overlapping entity of the opposing
// faction: player shots hit enemies and crates, enemy shots hit players.
func (r *Room) bulletHitsTarget(pos Vec2, radius float64, owner string) (EntityID, bool) {
	world := r.World
	hit := EntityID(0)

	check := func(id EntityID) {
		if hit != 0 || world.Gone(id) {
			return
		}
		tr := world.Transform(id)
		body := world.BodyData(id)
		if tr == nil || body == nil {
			return
		}
		if circlesOverlap(pos, tr.Pos, radius, body.Radius) {
			hit = id
		}
	}

	if IsPlayerOwned(owner) {
		world.ForEach([]ComponentKey{CompEnemy, CompTransform, CompHealth, CompBody}, check)
		if hit == 0 {
			world.ForEach([]ComponentKey{CompCrate, CompTransform, CompHealth, CompBody}, check)
		}
	} else {
		world.ForEach([]ComponentKey{CompPlayer, CompTransform, CompHealth, CompBody}, func(id EntityID) {
			if pc := world.PlayerData(id); pc != nil && pc.Invulnerable {
				return
			}
			check(id)
		})
	}
	return hit, hit != 0
}

/* ----------------------- Damage and lifecycle ------------------------ */

// applyDamage reduces hp and triggers the one-shot death transition.
// Damaging a dead entity is a no-op so multiple resolutions in one tick
// cannot double-kill. Returns true when this call killed the entity.
func (r *Room) applyDamage(id EntityID, dmg float64, attacker string) bool {
	h := r.World.HealthData(id)
	if h == nil || h.Dead {
		return false
	}
	if pc := r.World.PlayerData(id); pc != nil && pc.Invulnerable {
		return false
	}
	h.HP -= dmg
	if tr := r.World.Transform(id); tr != nil {
		r.spawnParticles(tr.Pos, ParticleBlood, 3)
	}
	if h.HP > 0 {
		return false
	}
	h.HP = 0
	h.Dead = true
	r.onEntityKilled(id, attacker)
	return true
}

func (r *Room) killEntity(id EntityID, attacker string) {
	h := r.World.HealthData(id)
	if h == nil || h.Dead {
		return
	}
	h.HP = 0
	h.Dead = true
	r.onEntityKilled(id, attacker)
}

func (r *Room) onEntityKilled(id EntityID, attacker string) {
	world := r.World
	tr := world.Transform(id)
	pos := Vec2{}
	if tr != nil {
		pos = tr.Pos
	}

	switch {
	case world.EnemyData(id) != nil:
		en := world.EnemyData(id)
		r.spawnParticles(pos, ParticleBlood, 8)
		if attacker != "" && IsPlayerOwned(attacker) {
			if p, ok := r.Players[attacker]; ok {
				if pc := world.PlayerData(p.Avatar); pc != nil {
					pc.Score += enemyScore(en.Kind)
				}
			}
		}
	case world.HasComponent(id, CompCrate):
		// A destroyed crate always leaves exactly one weapon pickup.
		weapon := PlayerWeapons[r.rng.Intn(len(PlayerWeapons))]
		r.SpawnPickup(pos, weapon)
		r.spawnParticles(pos, ParticleSmoke, 5)
	case world.PlayerData(id) != nil:
		r.spawnParticles(pos, ParticleBlood, 10)
	}
}

func enemyScore(kind EnemyKind) int {
	switch kind {
	case EnemyShooter:
		return ShooterScore
	case EnemyBoss:
		return BossScore
	default:
		return WalkerScore
	}
}

/* ---------------------------- Particles ------------------------------ */

func (r *Room) updateParticles() {
	world := r.World
	world.ForEach([]ComponentKey{CompParticle, CompTransform}, func(id EntityID) {
		if world.DestroyedData(id) != nil {
			return
		}
		pt := world.ParticleData(id)
		pt.Life--
		if pt.Life <= 0 {
			world.SetComponent(id, CompDestroyed, &DestroyedComponent{})
			return
		}
		tr := world.Transform(id)
		tr.Vel = tr.Vel.Scale(0.92)
		tr.Pos = tr.Pos.Add(tr.Vel)
	})
}

/* ------------------------------ Camera ------------------------------- */

// updateCamera eases the render anchor toward the player centroid. The
// camera never influences simulation beyond serving as the spawn anchor
// exposed in the snapshot.
func (r *Room) updateCamera() {
	target := r.playerCentroid()
	r.Camera = r.Camera.Add(target.Sub(r.Camera).Scale(CameraLag))
}
