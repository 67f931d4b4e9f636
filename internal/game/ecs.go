package game

type EntityID int64

type ComponentKey string

type World struct {
	nextEntity EntityID
	components map[ComponentKey]map[EntityID]any
}

type PlayerRole string

const (
	RoleBoy  PlayerRole = "boy"
	RoleGirl PlayerRole = "girl"
)

type EnemyKind string

const (
	EnemyWalker  EnemyKind = "walker"
	EnemyShooter EnemyKind = "shooter"
	EnemyBoss    EnemyKind = "boss"
)

type ParticleKind string

const (
	ParticleBlood ParticleKind = "blood"
	ParticleSpark ParticleKind = "spark"
	ParticleSmoke ParticleKind = "smoke"
)

type Transform struct {
	Pos    Vec2
	Vel    Vec2
	Facing float64
}

type Body struct {
	Radius float64
}

// Health is the shared hp pool. Dead is a tombstone: set exactly once,
// never cleared, and the entity is purged on the next tick pass.
type Health struct {
	HP    float64
	MaxHP float64
	Dead  bool
}

type PlayerComponent struct {
	Role         PlayerRole
	Weapon       WeaponKind
	FireCooldown int
	DashCooldown int // reserved
	Score        int
	Invulnerable bool
	AnimPhase    float64
}

type EnemyLook struct {
	Hue      float64
	Scale    float64
	Armor    bool
	Horns    bool
	ThirdEye bool
}

type EnemyComponent struct {
	Kind            EnemyKind
	Target          EntityID // weak reference, re-resolved every tick
	AttackCooldown  int
	ContactCooldown int
	AnimPhase       float64
	Look            EnemyLook
}

type BulletComponent struct {
	Weapon    WeaponKind
	Damage    float64
	Life      int
	Reflected bool // declared in the wire model, never set
}

type ParticleComponent struct {
	Kind    ParticleKind
	Life    int
	MaxLife int
}

type CrystalComponent struct{}

type CrateComponent struct{}

type PickupComponent struct {
	Weapon WeaponKind
	Life   int
}

type OwnerComponent struct {
	PlayerID string
}

// DestroyedComponent tombstones entities without an hp pool (bullets,
// particles); purged alongside dead Health entities.
type DestroyedComponent struct{}

const (
	CompTransform ComponentKey = "transform"
	CompBody      ComponentKey = "body"
	CompHealth    ComponentKey = "health"
	CompPlayer    ComponentKey = "player"
	CompEnemy     ComponentKey = "enemy"
	CompBullet    ComponentKey = "bullet"
	CompParticle  ComponentKey = "particle"
	CompCrystal   ComponentKey = "crystal"
	CompCrate     ComponentKey = "crate"
	CompPickup    ComponentKey = "pickup"
	CompOwner     ComponentKey = "owner"
	CompDestroyed ComponentKey = "destroyed"
)

func (w *World) Transform(id EntityID) *Transform {
	if v, ok := w.GetComponent(id, CompTransform); ok {
		if t, ok := v.(*Transform); ok {
			return t
		}
	}
	return nil
}

func (w *World) BodyData(id EntityID) *Body {
	if v, ok := w.GetComponent(id, CompBody); ok {
		if t, ok := v.(*Body); ok {
			return t
		}
	}
	return nil
}

func (w *World) HealthData(id EntityID) *Health {
	if v, ok := w.GetComponent(id, CompHealth); ok {
		if t, ok := v.(*Health); ok {
			return t
		}
	}
	return nil
}

func (w *World) PlayerData(id EntityID) *PlayerComponent {
	if v, ok := w.GetComponent(id, CompPlayer); ok {
		if t, ok := v.(*PlayerComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) EnemyData(id EntityID) *EnemyComponent {
	if v, ok := w.GetComponent(id, CompEnemy); ok {
		if t, ok := v.(*EnemyComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) BulletData(id EntityID) *BulletComponent {
	if v, ok := w.GetComponent(id, CompBullet); ok {
		if t, ok := v.(*BulletComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) ParticleData(id EntityID) *ParticleComponent {
	if v, ok := w.GetComponent(id, CompParticle); ok {
		if t, ok := v.(*ParticleComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) PickupData(id EntityID) *PickupComponent {
	if v, ok := w.GetComponent(id, CompPickup); ok {
		if t, ok := v.(*PickupComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) Owner(id EntityID) *OwnerComponent {
	if v, ok := w.GetComponent(id, CompOwner); ok {
		if t, ok := v.(*OwnerComponent); ok {
			return t
		}
	}
	return nil
}

func (w *World) DestroyedData(id EntityID) *DestroyedComponent {
	if v, ok := w.GetComponent(id, CompDestroyed); ok {
		if t, ok := v.(*DestroyedComponent); ok {
			return t
		}
	}
	return nil
}

// Gone reports whether an entity has been tombstoned either way.
func (w *World) Gone(id EntityID) bool {
	if w.DestroyedData(id) != nil {
		return true
	}
	if h := w.HealthData(id); h != nil && h.Dead {
		return true
	}
	return false
}

func newWorld() *World {
	return &World{
		nextEntity: 0,
		components: make(map[ComponentKey]map[EntityID]any),
	}
}

func (w *World) NewEntity() EntityID {
	w.nextEntity++
	return w.nextEntity
}

func (w *World) SetComponent(id EntityID, key ComponentKey, value any) {
	store, ok := w.components[key]
	if !ok {
		store = make(map[EntityID]any)
		w.components[key] = store
	}
	store[id] = value
}

func (w *World) RemoveComponent(id EntityID, key ComponentKey) {
	if store, ok := w.components[key]; ok {
		delete(store, id)
	}
}

func (w *World) GetComponent(id EntityID, key ComponentKey) (any, bool) {
	if store, ok := w.components[key]; ok {
		val, ok := store[id]
		return val, ok
	}
	return nil, false
}

func (w *World) HasComponent(id EntityID, key ComponentKey) bool {
	if store, ok := w.components[key]; ok {
		_, ok := store[id]
		return ok
	}
	return false
}

func (w *World) RemoveEntity(id EntityID) {
	for _, store := range w.components {
		delete(store, id)
	}
}

func (w *World) ForEach(required []ComponentKey, fn func(EntityID)) {
	if len(required) == 0 {
		return
	}
	first := w.components[required[0]]
	if first == nil {
		return
	}
	for id := range first {
		match := true
		for _, key := range required[1:] {
			if store := w.components[key]; store == nil {
				match = false
				break
			} else if _, ok := store[id]; !ok {
				match = false
				break
			}
		}
		if match {
			fn(id)
		}
	}
}

func (w *World) Exists(id EntityID) bool {
	for _, store := range w.components {
		if _, ok := store[id]; ok {
			return true
		}
	}
	return false
}

// CountAlive counts entities carrying key that are not tombstoned.
func (w *World) CountAlive(key ComponentKey) int {
	n := 0
	w.ForEach([]ComponentKey{key}, func(id EntityID) {
		if !w.Gone(id) {
			n++
		}
	})
	return n
}
