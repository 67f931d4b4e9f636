package game

import "math"

type ObstacleKind string

const (
	ObstacleTree     ObstacleKind = "tree"
	ObstacleBuilding ObstacleKind = "building"
)

// Obstacle is derived, never stored: identical cell coordinates always
// reproduce an identical obstacle.
type Obstacle struct {
	Kind  ObstacleKind
	CellX int
	CellY int
	Pos   Vec2
	// Radius applies to trees; HalfW/HalfH to buildings.
	Radius float64
	HalfW  float64
	HalfH  float64
	Shade  int
	Large  bool
}

// cellValue is the terrain oracle's hash: a sine-based hash of the cell
// coordinates, scaled, fractional part taken, in [0,1).
func cellValue(gx, gy int) float64 {
	s := math.Sin(float64(gx)*127.1+float64(gy)*311.7) * 43758.5453123
	return s - math.Floor(s)
}

// cellJitter offsets an obstacle from its cell center by up to 40% of
// the cell size on each axis, seeded from the same coordinates.
func cellJitter(gx, gy int) Vec2 {
	jx := math.Sin(float64(gx)*269.5+float64(gy)*183.3) * 0.4 * CellSize
	jy := math.Cos(float64(gx)*113.5+float64(gy)*271.9) * 0.4 * CellSize
	return Vec2{jx, jy}
}

// ObstacleAt maps an integer grid cell to its static obstacle, if any.
// Pure: no state, no randomness beyond the coordinate hash.
func ObstacleAt(gx, gy int) (Obstacle, bool) {
	// Spawn safe zone: one cell of Chebyshev clearance around the origin.
	if max(abs(gx), abs(gy)) < 2 {
		return Obstacle{}, false
	}
	v := cellValue(gx, gy)
	if v <= TreeThreshold {
		return Obstacle{}, false
	}

	center := Vec2{(float64(gx) + 0.5) * CellSize, (float64(gy) + 0.5) * CellSize}
	pos := center.Add(cellJitter(gx, gy))

	if v > BuildingThreshold {
		obs := Obstacle{
			Kind:  ObstacleBuilding,
			CellX: gx,
			CellY: gy,
			Pos:   pos,
			HalfW: 70,
			HalfH: 70,
		}
		if v > 0.95 {
			obs.Large = true
			obs.HalfW = 95
			obs.HalfH = 95
		}
		if v > 0.92 {
			obs.Shade = 1
		}
		return obs, true
	}

	norm := (v - TreeThreshold) / (BuildingThreshold - TreeThreshold)
	obs := Obstacle{
		Kind:   ObstacleTree,
		CellX:  gx,
		CellY:  gy,
		Pos:    pos,
		Radius: 16 + norm*18,
	}
	if v > 0.6 {
		obs.Shade = 1
	}
	return obs, true
}

// QueryRect enumerates obstacles whose grid cell intersects the given
// world-space rectangle, expanded by a one-cell halo so footprints that
// straddle a cell boundary are never missed.
func QueryRect(cx, cy, w, h float64) []Obstacle {
	gx0 := int(math.Floor((cx-w/2)/CellSize)) - 1
	gx1 := int(math.Floor((cx+w/2)/CellSize)) + 1
	gy0 := int(math.Floor((cy-h/2)/CellSize)) - 1
	gy1 := int(math.Floor((cy+h/2)/CellSize)) + 1

	var out []Obstacle
	for gy := gy0; gy <= gy1; gy++ {
		for gx := gx0; gx <= gx1; gx++ {
			if obs, ok := ObstacleAt(gx, gy); ok {
				out = append(out, obs)
			}
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
