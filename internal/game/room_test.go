package game

import "testing"

func TestAddPlayerAssignsRolesByArrival(t *testing.T) {
	r := newRoom("room-test")

	first, ok := r.AddPlayer("player-a", "A")
	if !ok || first.Role != RoleBoy {
		t.Fatalf("first join: role %s, want %s", first.Role, RoleBoy)
	}
	second, ok := r.AddPlayer("player-b", "B")
	if !ok || second.Role != RoleGirl {
		t.Fatalf("second join: role %s, want %s", second.Role, RoleGirl)
	}
	if _, ok := r.AddPlayer("player-c", "C"); ok {
		t.Fatal("third join must be rejected")
	}

	if pos := r.World.Transform(first.Avatar).Pos; pos != playerStartPos(RoleBoy) {
		t.Fatalf("first avatar at (%.0f, %.0f)", pos.X, pos.Y)
	}
	if pos := r.World.Transform(second.Avatar).Pos; pos != playerStartPos(RoleGirl) {
		t.Fatalf("second avatar at (%.0f, %.0f)", pos.X, pos.Y)
	}
}

func TestRemovePlayerKillsAvatar(t *testing.T) {
	r := newRoom("room-test")
	p, _ := r.AddPlayer("player-a", "A")

	r.RemovePlayer("player-a")

	if _, ok := r.Players["player-a"]; ok {
		t.Fatal("player still registered after removal")
	}
	if h := r.World.HealthData(p.Avatar); h == nil || !h.Dead {
		t.Fatal("removed player's avatar must be tombstoned")
	}
}

func TestSetInputIgnoresUnknownPlayer(t *testing.T) {
	r := newRoom("room-test")
	r.SetInput("player-ghost", InputState{Up: true})
	if _, ok := r.Inputs["player-ghost"]; ok {
		t.Fatal("input accepted for a player not in the room")
	}
}

func TestResetSessionRebuildsWorld(t *testing.T) {
	r := newRoom("room-test")
	p, _ := r.AddPlayer("player-a", "A")
	r.World.PlayerData(p.Avatar).Score = 500
	r.CrystalsCollected = 7
	r.TickCount = 999
	r.SpawnBoss(Vec2{900, 0})
	r.spawnEnemyWith(EnemyWalker, Vec2{800, 0}, WalkerBaseHP, plainLook())

	info := LevelInfo{Level: 2, BiomeName: "Glass Fen"}
	r.ResetSession(info)

	if r.TickCount != 0 || r.Phase != PhaseAccumulating || r.CrystalsCollected != 0 {
		t.Fatalf("session counters not reset: tick %d phase %s crystals %d", r.TickCount, r.Phase, r.CrystalsCollected)
	}
	if r.BossSpawned || r.BossID != 0 {
		t.Fatal("boss state not reset")
	}
	if r.Level.Level != 2 || r.Level.BiomeName != "Glass Fen" {
		t.Fatalf("level info not applied: %#v", r.Level)
	}
	if r.Level.BossName == "" {
		t.Fatal("partial level info must be sanitized on reset")
	}
	if n := r.World.CountAlive(CompEnemy); n != 0 {
		t.Fatalf("old world leaked %d enemies into the new session", n)
	}

	avatar := r.Players["player-a"].Avatar
	h := r.World.HealthData(avatar)
	if h == nil || h.HP != PlayerMaxHP {
		t.Fatal("avatar not respawned at full health")
	}
	if pos := r.World.Transform(avatar).Pos; pos != playerStartPos(RoleBoy) {
		t.Fatalf("avatar respawned at (%.0f, %.0f)", pos.X, pos.Y)
	}
}

func TestSpawnEnemyScalesHP(t *testing.T) {
	r := newRoom("room-test")
	for i := 0; i < 50; i++ {
		id := r.SpawnEnemy(EnemyWalker, Vec2{900, 0})
		en := r.World.EnemyData(id)
		h := r.World.HealthData(id)
		want := WalkerBaseHP * en.Look.Scale
		if en.Look.Armor {
			want *= 2
		}
		if !almostEqual(h.MaxHP, want) {
			t.Fatalf("walker hp %.2f for scale %.2f armor %v, want %.2f", h.MaxHP, en.Look.Scale, en.Look.Armor, want)
		}
		if en.Look.Scale < 0.8 || en.Look.Scale > 1.3 {
			t.Fatalf("enemy scale %.2f outside [0.8, 1.3]", en.Look.Scale)
		}
		if body := r.World.BodyData(id); !almostEqual(body.Radius, EnemyRadius*en.Look.Scale) {
			t.Fatalf("body radius %.2f not scaled by %.2f", body.Radius, en.Look.Scale)
		}
	}
}

func TestHubCleanupRemovesEmptyRooms(t *testing.T) {
	h := NewHub()
	empty := h.GetRoom("empty")
	occupied := h.GetRoom("occupied")
	occupied.AddPlayer("player-a", "A")

	h.CleanupEmptyRooms()

	if _, ok := h.Rooms["empty"]; ok {
		t.Fatal("empty room not cleaned up")
	}
	if _, ok := h.Rooms["occupied"]; !ok {
		t.Fatal("occupied room must survive cleanup")
	}
	if h.GetRoom("empty") == empty {
		t.Fatal("expected a fresh room after cleanup")
	}
}

func TestSessionConfigSanitize(t *testing.T) {
	got := SessionConfig{}.Sanitize()
	if got != DefaultSessionConfig() {
		t.Fatalf("zero config did not sanitize to defaults: %#v", got)
	}

	partial := SessionConfig{EnemySpawnInterval: 10, MaxEnemies: 3}.Sanitize()
	if partial.EnemySpawnInterval != 10 || partial.MaxEnemies != 3 {
		t.Fatalf("explicit values overwritten: %#v", partial)
	}
	if partial.CrystalSpawnInterval != CrystalSpawnInterval || partial.MaxCrates != MaxCrates {
		t.Fatalf("zero values not defaulted: %#v", partial)
	}
}
