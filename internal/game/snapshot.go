package game

// Snapshot is the read-only view handed to the rendering layer once per
// tick. It copies everything it exposes; holding one never aliases live
// registry state.
type Snapshot struct {
	Tick              uint64
	Phase             SessionPhase
	Level             LevelInfo
	Camera            Vec2
	CrystalsCollected int
	CrystalTarget     int
	Players           []PlayerSnapshot
	Enemies           []EnemySnapshot
	Bullets           []BulletSnapshot
	Particles         []ParticleSnapshot
	Crystals          []CrystalSnapshot
	Crates            []CrateSnapshot
	Pickups           []PickupSnapshot
	Obstacles         []Obstacle
}

type PlayerSnapshot struct {
	ID           string
	Name         string
	Role         PlayerRole
	Pos          Vec2
	Vel          Vec2
	Facing       float64
	HP           float64
	MaxHP        float64
	Dead         bool
	Weapon       WeaponKind
	FireCooldown int
	Score        int
	AnimPhase    float64
}

type EnemySnapshot struct {
	ID        EntityID
	Kind      EnemyKind
	Pos       Vec2
	Facing    float64
	HP        float64
	MaxHP     float64
	Radius    float64
	Look      EnemyLook
	AnimPhase float64
}

type BulletSnapshot struct {
	ID     EntityID
	Owner  string
	Weapon WeaponKind
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Life   int
}

type ParticleSnapshot struct {
	Kind    ParticleKind
	Pos     Vec2
	Life    int
	MaxLife int
}

type CrystalSnapshot struct {
	ID  EntityID
	Pos Vec2
}

type CrateSnapshot struct {
	ID    EntityID
	Pos   Vec2
	HP    float64
	MaxHP float64
}

type PickupSnapshot struct {
	ID     EntityID
	Weapon WeaponKind
	Pos    Vec2
	Life   int
}

// BuildSnapshot assembles the per-tick view. Obstacles are the oracle's
// answer for the camera-centered view rectangle; nothing is cached.
func (r *Room) BuildSnapshot(viewW, viewH float64) Snapshot {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	world := r.World
	snap := Snapshot{
		Tick:              r.TickCount,
		Phase:             r.Phase,
		Level:             r.Level,
		Camera:            r.Camera,
		CrystalsCollected: r.CrystalsCollected,
		CrystalTarget:     CrystalTarget(r.Level.Level),
		Obstacles:         QueryRect(r.Camera.X, r.Camera.Y, viewW, viewH),
	}

	for _, p := range r.Players {
		tr := world.Transform(p.Avatar)
		h := world.HealthData(p.Avatar)
		pc := world.PlayerData(p.Avatar)
		if tr == nil || h == nil || pc == nil {
			continue
		}
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:           p.ID,
			Name:         p.Name,
			Role:         p.Role,
			Pos:          tr.Pos,
			Vel:          tr.Vel,
			Facing:       tr.Facing,
			HP:           h.HP,
			MaxHP:        h.MaxHP,
			Dead:         h.Dead,
			Weapon:       pc.Weapon,
			FireCooldown: pc.FireCooldown,
			Score:        pc.Score,
			AnimPhase:    pc.AnimPhase,
		})
	}

	world.ForEach([]ComponentKey{CompEnemy, CompTransform, CompHealth, CompBody}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		tr := world.Transform(id)
		h := world.HealthData(id)
		en := world.EnemyData(id)
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:        id,
			Kind:      en.Kind,
			Pos:       tr.Pos,
			Facing:    tr.Facing,
			HP:        h.HP,
			MaxHP:     h.MaxHP,
			Radius:    world.BodyData(id).Radius,
			Look:      en.Look,
			AnimPhase: en.AnimPhase,
		})
	})

	world.ForEach([]ComponentKey{CompBullet, CompTransform, CompBody, CompOwner}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		tr := world.Transform(id)
		bl := world.BulletData(id)
		snap.Bullets = append(snap.Bullets, BulletSnapshot{
			ID:     id,
			Owner:  world.Owner(id).PlayerID,
			Weapon: bl.Weapon,
			Pos:    tr.Pos,
			Vel:    tr.Vel,
			Radius: world.BodyData(id).Radius,
			Life:   bl.Life,
		})
	})

	world.ForEach([]ComponentKey{CompParticle, CompTransform}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		pt := world.ParticleData(id)
		snap.Particles = append(snap.Particles, ParticleSnapshot{
			Kind:    pt.Kind,
			Pos:     world.Transform(id).Pos,
			Life:    pt.Life,
			MaxLife: pt.MaxLife,
		})
	})

	world.ForEach([]ComponentKey{CompCrystal, CompTransform}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		snap.Crystals = append(snap.Crystals, CrystalSnapshot{ID: id, Pos: world.Transform(id).Pos})
	})

	world.ForEach([]ComponentKey{CompCrate, CompTransform, CompHealth}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		h := world.HealthData(id)
		snap.Crates = append(snap.Crates, CrateSnapshot{
			ID:    id,
			Pos:   world.Transform(id).Pos,
			HP:    h.HP,
			MaxHP: h.MaxHP,
		})
	})

	world.ForEach([]ComponentKey{CompPickup, CompTransform}, func(id EntityID) {
		if world.Gone(id) {
			return
		}
		pk := world.PickupData(id)
		snap.Pickups = append(snap.Pickups, PickupSnapshot{
			ID:     id,
			Weapon: pk.Weapon,
			Pos:    world.Transform(id).Pos,
			Life:   pk.Life,
		})
	})

	return snap
}
