package game

import (
	"context"
	"fmt"
)

// LevelInfo is the flavor-text record supplied by an external generator
// before a session starts. The engine never sees a partially-filled
// record: SanitizeLevelInfo substitutes placeholders for anything the
// generator left empty.
type LevelInfo struct {
	Level           int
	BiomeName       string
	Description     string
	BossName        string
	BossDescription string
}

// LevelInfoProvider is the asynchronous flavor-text generator contract.
// Implementations may take arbitrarily long or fail; callers fall back
// to DefaultLevelInfo either way.
type LevelInfoProvider interface {
	GenerateLevelInfo(ctx context.Context, level int) (LevelInfo, error)
}

func DefaultLevelInfo(level int) LevelInfo {
	if level < 1 {
		level = 1
	}
	return LevelInfo{
		Level:           level,
		BiomeName:       fmt.Sprintf("Wilds %d", level),
		Description:     "Endless hostile wilderness.",
		BossName:        "The Warden",
		BossDescription: "It does not want you here.",
	}
}

func SanitizeLevelInfo(info LevelInfo, level int) LevelInfo {
	def := DefaultLevelInfo(level)
	if info.Level < 1 {
		info.Level = def.Level
	}
	if info.BiomeName == "" {
		info.BiomeName = def.BiomeName
	}
	if info.Description == "" {
		info.Description = def.Description
	}
	if info.BossName == "" {
		info.BossName = def.BossName
	}
	if info.BossDescription == "" {
		info.BossDescription = def.BossDescription
	}
	return info
}

// CrystalTarget is the collection threshold that triggers the boss.
func CrystalTarget(level int) int {
	if level < 1 {
		level = 1
	}
	return 10 + level*2
}

func BossHP(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1500 * float64(level)
}
