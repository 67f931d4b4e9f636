package server

import "CrystalRush/internal/game"

// StateMessage is the per-push wire frame. Exported (with its nested
// DTOs) so cmd/schema can reflect the contract for client authors.
type StateMessage struct {
	Type     string      `json:"type"` // "state"
	Tick     uint64      `json:"tick"`
	Phase    string      `json:"phase"`
	You      string      `json:"you"`
	Camera   Vec2DTO     `json:"camera"`
	Progress ProgressDTO `json:"progress"`

	Players   []PlayerDTO   `json:"players"`
	Enemies   []EnemyDTO    `json:"enemies"`
	Bullets   []BulletDTO   `json:"bullets"`
	Particles []ParticleDTO `json:"particles,omitempty"`
	Crystals  []CrystalDTO  `json:"crystals"`
	Crates    []CrateDTO    `json:"crates"`
	Pickups   []PickupDTO   `json:"pickups"`
	Obstacles []ObstacleDTO `json:"obstacles"`
}

type Vec2DTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ProgressDTO struct {
	Collected int `json:"collected"`
	Target    int `json:"target"`
}

type PlayerDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Self         bool    `json:"self"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VX           float64 `json:"vx"`
	VY           float64 `json:"vy"`
	Facing       float64 `json:"facing"`
	HP           float64 `json:"hp"`
	MaxHP        float64 `json:"max_hp"`
	Dead         bool    `json:"dead"`
	Weapon       string  `json:"weapon"`
	FireCooldown int     `json:"fire_cooldown"`
	Score        int     `json:"score"`
	AnimPhase    float64 `json:"anim"`
}

type EnemyDTO struct {
	ID        int64   `json:"id"`
	Kind      string  `json:"kind"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Facing    float64 `json:"facing"`
	HP        float64 `json:"hp"`
	MaxHP     float64 `json:"max_hp"`
	Radius    float64 `json:"radius"`
	Hue       float64 `json:"hue"`
	Scale     float64 `json:"scale"`
	Armor     bool    `json:"armor,omitempty"`
	Horns     bool    `json:"horns,omitempty"`
	ThirdEye  bool    `json:"third_eye,omitempty"`
	AnimPhase float64 `json:"anim"`
}

type BulletDTO struct {
	ID     int64   `json:"id"`
	Owner  string  `json:"owner"`
	Weapon string  `json:"weapon"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Life   int     `json:"life"`
}

type ParticleDTO struct {
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Life    int     `json:"life"`
	MaxLife int     `json:"max_life"`
}

type CrystalDTO struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type CrateDTO struct {
	ID    int64   `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    float64 `json:"hp"`
	MaxHP float64 `json:"max_hp"`
}

type PickupDTO struct {
	ID     int64   `json:"id"`
	Weapon string  `json:"weapon"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Life   int     `json:"life"`
}

type ObstacleDTO struct {
	Kind   string  `json:"kind"`
	CellX  int     `json:"cx"`
	CellY  int     `json:"cy"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius,omitempty"`
	HalfW  float64 `json:"half_w,omitempty"`
	HalfH  float64 `json:"half_h,omitempty"`
	Shade  int     `json:"shade"`
	Large  bool    `json:"large,omitempty"`
}

// LevelInfoMessage is pushed on join and on every session reset.
type LevelInfoMessage struct {
	Type            string `json:"type"` // "level_info"
	Level           int    `json:"level"`
	BiomeName       string `json:"biome_name"`
	Description     string `json:"description"`
	BossName        string `json:"boss_name"`
	BossDescription string `json:"boss_description"`
}

// EventMessage carries the one-shot session events.
type EventMessage struct {
	Type string `json:"type"` // "level_complete" | "game_over"
}

type RoomFullMessage struct {
	Type    string `json:"type"` // "room_full"
	Message string `json:"message"`
}

func vec2DTO(v game.Vec2) Vec2DTO { return Vec2DTO{X: v.X, Y: v.Y} }

func stateMessageFromSnapshot(you string, snap game.Snapshot) StateMessage {
	msg := StateMessage{
		Type:   "state",
		Tick:   snap.Tick,
		Phase:  string(snap.Phase),
		You:    you,
		Camera: vec2DTO(snap.Camera),
		Progress: ProgressDTO{
			Collected: snap.CrystalsCollected,
			Target:    snap.CrystalTarget,
		},
	}

	for _, p := range snap.Players {
		msg.Players = append(msg.Players, PlayerDTO{
			ID:           p.ID,
			Name:         p.Name,
			Role:         string(p.Role),
			Self:         p.ID == you,
			X:            p.Pos.X,
			Y:            p.Pos.Y,
			VX:           p.Vel.X,
			VY:           p.Vel.Y,
			Facing:       p.Facing,
			HP:           p.HP,
			MaxHP:        p.MaxHP,
			Dead:         p.Dead,
			Weapon:       string(p.Weapon),
			FireCooldown: p.FireCooldown,
			Score:        p.Score,
			AnimPhase:    p.AnimPhase,
		})
	}
	for _, e := range snap.Enemies {
		msg.Enemies = append(msg.Enemies, EnemyDTO{
			ID:        int64(e.ID),
			Kind:      string(e.Kind),
			X:         e.Pos.X,
			Y:         e.Pos.Y,
			Facing:    e.Facing,
			HP:        e.HP,
			MaxHP:     e.MaxHP,
			Radius:    e.Radius,
			Hue:       e.Look.Hue,
			Scale:     e.Look.Scale,
			Armor:     e.Look.Armor,
			Horns:     e.Look.Horns,
			ThirdEye:  e.Look.ThirdEye,
			AnimPhase: e.AnimPhase,
		})
	}
	for _, b := range snap.Bullets {
		msg.Bullets = append(msg.Bullets, BulletDTO{
			ID:     int64(b.ID),
			Owner:  b.Owner,
			Weapon: string(b.Weapon),
			X:      b.Pos.X,
			Y:      b.Pos.Y,
			VX:     b.Vel.X,
			VY:     b.Vel.Y,
			Radius: b.Radius,
			Life:   b.Life,
		})
	}
	for _, pt := range snap.Particles {
		msg.Particles = append(msg.Particles, ParticleDTO{
			Kind:    string(pt.Kind),
			X:       pt.Pos.X,
			Y:       pt.Pos.Y,
			Life:    pt.Life,
			MaxLife: pt.MaxLife,
		})
	}
	for _, c := range snap.Crystals {
		msg.Crystals = append(msg.Crystals, CrystalDTO{ID: int64(c.ID), X: c.Pos.X, Y: c.Pos.Y})
	}
	for _, c := range snap.Crates {
		msg.Crates = append(msg.Crates, CrateDTO{ID: int64(c.ID), X: c.Pos.X, Y: c.Pos.Y, HP: c.HP, MaxHP: c.MaxHP})
	}
	for _, pk := range snap.Pickups {
		msg.Pickups = append(msg.Pickups, PickupDTO{
			ID:     int64(pk.ID),
			Weapon: string(pk.Weapon),
			X:      pk.Pos.X,
			Y:      pk.Pos.Y,
			Life:   pk.Life,
		})
	}
	for _, o := range snap.Obstacles {
		msg.Obstacles = append(msg.Obstacles, ObstacleDTO{
			Kind:   string(o.Kind),
			CellX:  o.CellX,
			CellY:  o.CellY,
			X:      o.Pos.X,
			Y:      o.Pos.Y,
			Radius: o.Radius,
			HalfW:  o.HalfW,
			HalfH:  o.HalfH,
			Shade:  o.Shade,
			Large:  o.Large,
		})
	}
	return msg
}

func levelInfoMessage(info game.LevelInfo) LevelInfoMessage {
	return LevelInfoMessage{
		Type:            "level_info",
		Level:           info.Level,
		BiomeName:       info.BiomeName,
		Description:     info.Description,
		BossName:        info.BossName,
		BossDescription: info.BossDescription,
	}
}
