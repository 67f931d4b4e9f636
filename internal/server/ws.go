package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"CrystalRush/internal/game"
)

const (
	viewW = 1600.0
	viewH = 1000.0

	levelInfoTimeout = 5 * time.Second
	sessionResetWait = 3 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type inputPayload struct {
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Fire  bool `json:"fire"`
}

type liveConn struct {
	conn     *websocket.Conn
	sendTick *time.Ticker
	writeMu  sync.Mutex
}

func (lc *liveConn) writeJSON(v any) error {
	lc.writeMu.Lock()
	defer lc.writeMu.Unlock()
	return lc.conn.WriteJSON(v)
}

// roomSession pairs a game room with its tick-loop lifetime and the
// connections watching it.
type roomSession struct {
	room   *game.Room
	cancel context.CancelFunc

	mu    sync.Mutex
	conns map[*liveConn]struct{}
}

func (rs *roomSession) broadcast(v any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for lc := range rs.conns {
		if err := lc.writeJSON(v); err != nil {
			log.Printf("broadcast: %v", err)
		}
	}
}

func (rs *roomSession) attach(lc *liveConn) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.conns[lc] = struct{}{}
}

func (rs *roomSession) detach(lc *liveConn) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.conns, lc)
}

type sessionManager struct {
	hub      *game.Hub
	provider game.LevelInfoProvider
	spawnCfg game.SessionConfig

	mu       sync.Mutex
	sessions map[string]*roomSession
}

func newSessionManager(hub *game.Hub, provider game.LevelInfoProvider, spawnCfg game.SessionConfig) *sessionManager {
	return &sessionManager{
		hub:      hub,
		provider: provider,
		spawnCfg: spawnCfg,
		sessions: map[string]*roomSession{},
	}
}

// resolveLevelInfo asks the flavor-text generator for the next level's
// record, degrading to the synthesized default on failure, timeout or
// malformed output. The engine never observes generator failure.
func (m *sessionManager) resolveLevelInfo(level int) game.LevelInfo {
	if m.provider == nil {
		return game.DefaultLevelInfo(level)
	}
	ctx, cancel := context.WithTimeout(context.Background(), levelInfoTimeout)
	defer cancel()
	info, err := m.provider.GenerateLevelInfo(ctx, level)
	if err != nil {
		log.Printf("level info generator: %v (using defaults)", err)
		return game.DefaultLevelInfo(level)
	}
	info.Level = level
	return game.SanitizeLevelInfo(info, level)
}

func (m *sessionManager) getSession(roomID string) *roomSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rs, ok := m.sessions[roomID]; ok {
		return rs
	}

	room := m.hub.GetRoom(roomID)
	rs := &roomSession{room: room, conns: map[*liveConn]struct{}{}}

	room.Mu.Lock()
	room.Config = m.spawnCfg
	room.Hooks = game.SessionHooks{
		OnLevelComplete: func() {
			go m.endSession(rs, true)
		},
		OnGameOver: func() {
			go m.endSession(rs, false)
		},
	}
	room.Mu.Unlock()

	room.ResetSession(m.resolveLevelInfo(1))
	m.startLoop(rs)
	m.sessions[roomID] = rs
	return rs
}

func (m *sessionManager) startLoop(rs *roomSession) {
	ctx, cancel := context.WithCancel(context.Background())
	rs.cancel = cancel
	go rs.room.Run(ctx)
}

// endSession announces the terminal event, stops the old tick loop, and
// only then initializes and starts the replacement session — two loops
// must never mutate the same registries.
func (m *sessionManager) endSession(rs *roomSession, victory bool) {
	event := "game_over"
	nextLevel := 1
	if victory {
		event = "level_complete"
		rs.room.Mu.Lock()
		nextLevel = rs.room.Level.Level + 1
		rs.room.Mu.Unlock()
	}
	rs.broadcast(EventMessage{Type: event})

	if rs.cancel != nil {
		rs.cancel()
	}
	time.Sleep(sessionResetWait)

	info := m.resolveLevelInfo(nextLevel)
	rs.room.ResetSession(info)
	rs.broadcast(levelInfoMessage(info))
	m.startLoop(rs)
}

func serveWS(m *sessionManager, w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = "default"
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = "Anon"
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	lc := &liveConn{
		conn:     conn,
		sendTick: time.NewTicker(time.Duration(1000.0/game.UpdateRateHz) * time.Millisecond),
	}

	rs := m.getSession(roomID)
	playerID := game.PlayerOwnerPrefix + "-" + uuid.NewString()[:8]

	player, ok := rs.room.AddPlayer(playerID, name)
	if !ok {
		_ = lc.writeJSON(RoomFullMessage{Type: "room_full", Message: "room full"})
		conn.Close()
		return
	}
	rs.attach(lc)
	log.Printf("room %s: %s joined as %s", roomID, playerID, player.Role)

	rs.room.Mu.Lock()
	info := rs.room.Level
	rs.room.Mu.Unlock()
	_ = lc.writeJSON(levelInfoMessage(info))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		defer cancel()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg inboundMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				log.Printf("bad message from %s: %v", playerID, err)
				continue
			}
			switch msg.Type {
			case "input":
				var in inputPayload
				if err := json.Unmarshal(msg.Payload, &in); err != nil {
					continue
				}
				rs.room.SetInput(playerID, game.InputState{
					Up:    in.Up,
					Down:  in.Down,
					Left:  in.Left,
					Right: in.Right,
					Fire:  in.Fire,
				})
			default:
				log.Printf("unknown message type %q from %s", msg.Type, playerID)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			lc.sendTick.Stop()
			rs.detach(lc)
			rs.room.RemovePlayer(playerID)
			conn.Close()
			log.Printf("room %s: %s left", roomID, playerID)
			return
		case <-lc.sendTick.C:
			snap := rs.room.BuildSnapshot(viewW, viewH)
			if err := lc.writeJSON(stateMessageFromSnapshot(playerID, snap)); err != nil {
				cancel()
			}
		}
	}
}
