package game

import "strings"

type WeaponKind string

const (
	WeaponSniper      WeaponKind = "sniper"
	WeaponShotgun     WeaponKind = "shotgun"
	WeaponMinigun     WeaponKind = "minigun"
	WeaponLaser       WeaponKind = "laser"
	WeaponAK47        WeaponKind = "ak47"
	WeaponEnemyNormal WeaponKind = "enemy_normal"
)

type WeaponProfile struct {
	Damage   float64
	Speed    float64
	Cooldown int
	Pellets  int     // shots per trigger pull
	Spread   float64 // half-width of the pellet fan, radians
	Jitter   float64 // random angular error per shot, radians
	Recoil   float64
	Homing   bool
	Radius   float64
	Life     int // ticks
}

var WeaponProfiles = map[WeaponKind]WeaponProfile{
	WeaponSniper:      {Damage: 150, Speed: 35, Cooldown: 90, Pellets: 1, Recoil: 4.0, Homing: true, Radius: 5, Life: 100},
	WeaponShotgun:     {Damage: 12, Speed: 12, Cooldown: 60, Pellets: 5, Spread: 0.30, Recoil: 2.5, Radius: 4, Life: 100},
	WeaponMinigun:     {Damage: 8, Speed: 18, Cooldown: 4, Pellets: 1, Jitter: 0.2, Recoil: 0.4, Radius: 3, Life: 100},
	WeaponLaser:       {Damage: 25, Speed: 25, Cooldown: 25, Pellets: 1, Radius: 3, Life: 100},
	WeaponAK47:        {Damage: 20, Speed: 16, Cooldown: 10, Pellets: 1, Jitter: 0.05, Recoil: 1.0, Radius: 3.5, Life: 100},
	WeaponEnemyNormal: {Damage: 10, Speed: 7, Pellets: 1, Radius: 6, Life: 180},
}

// PlayerWeapons is the droppable loadout pool, in pickup-roll order.
var PlayerWeapons = []WeaponKind{WeaponSniper, WeaponShotgun, WeaponMinigun, WeaponLaser, WeaponAK47}

// IsPlayerOwned reports the projectile faction from its owner identity.
func IsPlayerOwned(owner string) bool {
	return strings.HasPrefix(owner, PlayerOwnerPrefix)
}

// firePlayerWeapon emits the equipped weapon's projectiles along the
// avatar's facing, applies recoil and resets the cooldown. Gated on
// cooldown <= 0 by the caller's update loop.
func (r *Room) firePlayerWeapon(id EntityID) {
	pc := r.World.PlayerData(id)
	tr := r.World.Transform(id)
	owner := r.World.Owner(id)
	if pc == nil || tr == nil || owner == nil || pc.FireCooldown > 0 {
		return
	}
	prof, ok := WeaponProfiles[pc.Weapon]
	if !ok {
		return
	}

	base := tr.Facing
	for i := 0; i < prof.Pellets; i++ {
		angle := base
		if prof.Pellets > 1 {
			angle += -prof.Spread + 2*prof.Spread*float64(i)/float64(prof.Pellets-1)
		}
		if prof.Jitter > 0 {
			angle += (r.rng.Float64()*2 - 1) * prof.Jitter
		}
		r.spawnBullet(owner.PlayerID, pc.Weapon, tr.Pos, angle, prof)
	}

	tr.Vel = tr.Vel.Sub(FromAngle(base).Scale(prof.Recoil))
	pc.FireCooldown = prof.Cooldown
	r.spawnParticles(tr.Pos.Add(FromAngle(base).Scale(PlayerRadius+4)), ParticleSpark, 3)
}

func (r *Room) spawnBullet(owner string, kind WeaponKind, pos Vec2, angle float64, prof WeaponProfile) EntityID {
	id := r.World.NewEntity()
	r.World.SetComponent(id, CompTransform, &Transform{
		Pos:    pos,
		Vel:    FromAngle(angle).Scale(prof.Speed),
		Facing: angle,
	})
	r.World.SetComponent(id, CompBody, &Body{Radius: prof.Radius})
	r.World.SetComponent(id, CompBullet, &BulletComponent{Weapon: kind, Damage: prof.Damage, Life: prof.Life})
	r.World.SetComponent(id, CompOwner, &OwnerComponent{PlayerID: owner})
	return id
}
