package game

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"
)

// InputState is the set of currently-held named actions for one player,
// polled once per tick. The engine has no knowledge of input devices.
type InputState struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
	Fire  bool
}

type SessionPhase string

const (
	PhaseAccumulating SessionPhase = "accumulating"
	PhaseBossActive   SessionPhase = "boss_active"
	PhaseVictory      SessionPhase = "victory"
	PhaseDefeat       SessionPhase = "defeat"
)

// SessionHooks are the outbound session events. Each fires at most once
// per session, on the tick of the terminal transition.
type SessionHooks struct {
	OnLevelComplete func()
	OnGameOver      func()
}

// SessionConfig carries the designer-tunable spawn cadence. Zero values
// are replaced with defaults by Sanitize.
type SessionConfig struct {
	EnemySpawnInterval   uint64
	CrystalSpawnInterval uint64
	CrateSpawnInterval   uint64
	MaxEnemies           int
	MaxCrystals          int
	MaxCrates            int
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		EnemySpawnInterval:   EnemySpawnInterval,
		CrystalSpawnInterval: CrystalSpawnInterval,
		CrateSpawnInterval:   CrateSpawnInterval,
		MaxEnemies:           MaxEnemies,
		MaxCrystals:          MaxCrystals,
		MaxCrates:            MaxCrates,
	}
}

func (c SessionConfig) Sanitize() SessionConfig {
	def := DefaultSessionConfig()
	if c.EnemySpawnInterval == 0 {
		c.EnemySpawnInterval = def.EnemySpawnInterval
	}
	if c.CrystalSpawnInterval == 0 {
		c.CrystalSpawnInterval = def.CrystalSpawnInterval
	}
	if c.CrateSpawnInterval == 0 {
		c.CrateSpawnInterval = def.CrateSpawnInterval
	}
	if c.MaxEnemies <= 0 {
		c.MaxEnemies = def.MaxEnemies
	}
	if c.MaxCrystals <= 0 {
		c.MaxCrystals = def.MaxCrystals
	}
	if c.MaxCrates <= 0 {
		c.MaxCrates = def.MaxCrates
	}
	return c
}

type Player struct {
	ID     string // carries the "player" prefix used for faction checks
	Name   string
	Role   PlayerRole
	Avatar EntityID
}

// Room owns every registry for the duration of a session. All mutation
// happens inside Tick under Mu; the transport only reads snapshots.
type Room struct {
	ID        string
	TickCount uint64
	World     *World
	Players   map[string]*Player
	Inputs    map[string]InputState
	Config    SessionConfig

	Level             LevelInfo
	Phase             SessionPhase
	CrystalsCollected int
	BossSpawned       bool
	BossID            EntityID
	Camera            Vec2

	Hooks SessionHooks

	rng *rand.Rand
	Mu  sync.Mutex
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		World:   newWorld(),
		Players: map[string]*Player{},
		Inputs:  map[string]InputState{},
		Config:  DefaultSessionConfig(),
		Level:   DefaultLevelInfo(1),
		Phase:   PhaseAccumulating,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type Hub struct {
	Rooms map[string]*Room
	Mu    sync.Mutex
}

func NewHub() *Hub { return &Hub{Rooms: map[string]*Room{}} }

func (h *Hub) GetRoom(id string) *Room {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	r, ok := h.Rooms[id]
	if !ok {
		r = newRoom(id)
		h.Rooms[id] = r
	}
	return r
}

func (h *Hub) CleanupEmptyRooms() {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	for id, r := range h.Rooms {
		r.Mu.Lock()
		empty := len(r.Players) == 0
		r.Mu.Unlock()
		if empty {
			delete(h.Rooms, id)
		}
	}
}

// Run drives the tick loop until the context is cancelled. The caller
// must cancel this loop before initializing a replacement session so two
// loops never mutate the same registries.
func (r *Room) Run(ctx context.Context) {
	tickInterval := float64(time.Second) / SimHz
	ticker := time.NewTicker(time.Duration(tickInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

func (r *Room) SetInput(playerID string, in InputState) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if _, ok := r.Players[playerID]; ok {
		r.Inputs[playerID] = in
	}
}

func playerStartPos(role PlayerRole) Vec2 {
	if role == RoleBoy {
		return Vec2{-50, 0}
	}
	return Vec2{50, 0}
}

// AddPlayer joins a player and spawns their avatar. Roles are assigned
// by arrival order; the room holds at most RoomMaxPlayers.
func (r *Room) AddPlayer(playerID, name string) (*Player, bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if len(r.Players) >= RoomMaxPlayers {
		return nil, false
	}
	role := RoleBoy
	for _, p := range r.Players {
		if p.Role == RoleBoy {
			role = RoleGirl
		}
	}
	p := &Player{ID: playerID, Name: name, Role: role}
	p.Avatar = r.spawnAvatar(playerID, role, playerStartPos(role))
	r.Players[playerID] = p
	r.Inputs[playerID] = InputState{}
	return p, true
}

func (r *Room) RemovePlayer(playerID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	p, ok := r.Players[playerID]
	if !ok {
		return
	}
	if h := r.World.HealthData(p.Avatar); h != nil && !h.Dead {
		h.HP = 0
		h.Dead = true
	}
	delete(r.Players, playerID)
	delete(r.Inputs, playerID)
}

// ResetSession tears the world down and starts a fresh session at the
// given level, re-creating avatars for the players still present.
func (r *Room) ResetSession(info LevelInfo) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.World = newWorld()
	r.TickCount = 0
	r.Level = SanitizeLevelInfo(info, info.Level)
	r.Phase = PhaseAccumulating
	r.CrystalsCollected = 0
	r.BossSpawned = false
	r.BossID = 0
	r.Camera = Vec2{}
	for _, p := range r.Players {
		p.Avatar = r.spawnAvatar(p.ID, p.Role, playerStartPos(p.Role))
	}
}

/* --------------------------- Constructors --------------------------- */

func (r *Room) spawnAvatar(playerID string, role PlayerRole, pos Vec2) EntityID {
	id := r.World.NewEntity()
	r.World.SetComponent(id, CompTransform, &Transform{Pos: pos})
	r.World.SetComponent(id, CompBody, &Body{Radius: PlayerRadius})
	r.World.SetComponent(id, CompHealth, &Health{HP: PlayerMaxHP, MaxHP: PlayerMaxHP})
	r.World.SetComponent(id, CompPlayer, &PlayerComponent{Role: role, Weapon: WeaponAK47})
	r.World.SetComponent(id, CompOwner, &OwnerComponent{PlayerID: playerID})
	return id
}

func (r *Room) SpawnEnemy(kind EnemyKind, pos Vec2) EntityID {
	look := EnemyLook{
		Hue:      r.rng.Float64() * 360,
		Scale:    0.8 + r.rng.Float64()*0.5,
		Armor:    r.rng.Float64() < 0.25,
		Horns:    r.rng.Float64() < 0.30,
		ThirdEye: r.rng.Float64() < 0.15,
	}
	base := WalkerBaseHP
	if kind == EnemyShooter {
		base = ShooterBaseHP
	}
	hp := base * look.Scale
	if look.Armor {
		hp *= 2
	}
	return r.spawnEnemyWith(kind, pos, hp, look)
}

func (r *Room) SpawnBoss(pos Vec2) EntityID {
	look := EnemyLook{
		Hue:      r.rng.Float64() * 360,
		Scale:    2.0,
		Armor:    true,
		Horns:    true,
		ThirdEye: r.rng.Float64() < 0.5,
	}
	id := r.spawnEnemyWith(EnemyBoss, pos, BossHP(r.Level.Level), look)
	r.BossSpawned = true
	r.BossID = id
	r.Phase = PhaseBossActive
	return id
}

func (r *Room) spawnEnemyWith(kind EnemyKind, pos Vec2, hp float64, look EnemyLook) EntityID {
	id := r.World.NewEntity()
	r.World.SetComponent(id, CompTransform, &Transform{Pos: pos})
	r.World.SetComponent(id, CompBody, &Body{Radius: EnemyRadius * look.Scale})
	r.World.SetComponent(id, CompHealth, &Health{HP: hp, MaxHP: hp})
	r.World.SetComponent(id, CompEnemy, &EnemyComponent{Kind: kind, Look: look})
	return id
}

func (r *Room) SpawnCrystal(pos Vec2) EntityID {
	id := r.World.NewEntity()
	r.World.SetComponent(id, CompTransform, &Transform{Pos: pos})
	r.World.SetComponent(id, CompBody, &Body{Radius: CrystalRadius})
	r.World.SetComponent(id, CompHealth, &Health{HP: 1, MaxHP: 1})
	r.World.SetComponent(id, CompCrystal, &CrystalComponent{})
	return id
}

func (r *Room) SpawnCrate(pos Vec2) EntityID {
	id := r.World.NewEntity()
	r.World.SetComponent(id, CompTransform, &Transform{Pos: pos})
	r.World.SetComponent(id, CompBody, &Body{Radius: CrateRadius})
	r.World.SetComponent(id, CompHealth, &Health{HP: CrateHP, MaxHP: CrateHP})
	r.World.SetComponent(id, CompCrate, &CrateComponent{})
	return id
}

func (r *Room) SpawnPickup(pos Vec2, weapon WeaponKind) EntityID {
	id := r.World.NewEntity()
	r.World.SetComponent(id, CompTransform, &Transform{Pos: pos})
	r.World.SetComponent(id, CompBody, &Body{Radius: PickupRadius})
	r.World.SetComponent(id, CompPickup, &PickupComponent{Weapon: weapon, Life: PickupLifetime})
	return id
}

func (r *Room) spawnParticles(pos Vec2, kind ParticleKind, count int) {
	for i := 0; i < count; i++ {
		id := r.World.NewEntity()
		vel := FromAngle(r.rng.Float64() * 2 * math.Pi).Scale(0.5 + r.rng.Float64()*2.5)
		life := 15 + r.rng.Intn(20)
		r.World.SetComponent(id, CompTransform, &Transform{Pos: pos, Vel: vel})
		r.World.SetComponent(id, CompParticle, &ParticleComponent{Kind: kind, Life: life, MaxLife: life})
	}
}

/* ----------------------------- Anchors ------------------------------ */

// playerCentroid is the AI and spawn anchor: the mean position of living
// players, degrading to the origin when none remain.
func (r *Room) playerCentroid() Vec2 {
	var sum Vec2
	n := 0
	r.World.ForEach([]ComponentKey{CompPlayer, CompTransform, CompHealth}, func(id EntityID) {
		if r.World.Gone(id) {
			return
		}
		sum = sum.Add(r.World.Transform(id).Pos)
		n++
	})
	if n == 0 {
		return Vec2{}
	}
	return sum.Scale(1.0 / float64(n))
}

// spawnRing picks a uniform random point in an annulus around the
// player centroid.
func (r *Room) spawnRing(minDist, maxDist float64) Vec2 {
	angle := r.rng.Float64() * 2 * math.Pi
	dist := minDist + r.rng.Float64()*(maxDist-minDist)
	return r.playerCentroid().Add(FromAngle(angle).Scale(dist))
}
