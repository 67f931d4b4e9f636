package game

// integrate applies friction, clamps speed and advances position by one
// tick's velocity.
func integrate(tr *Transform, maxSpeed float64) {
	tr.Vel = tr.Vel.Scale(Friction)
	if s := tr.Vel.Len(); s > maxSpeed {
		tr.Vel = tr.Vel.Scale(maxSpeed / s)
	}
	tr.Pos = tr.Pos.Add(tr.Vel)
}

// collideObstacles resolves overlap against every obstacle in the
// entity's local query window. Obstacles are resolved independently, in
// sequence, against the mutated position.
func collideObstacles(tr *Transform, radius float64) {
	for _, obs := range QueryRect(tr.Pos.X, tr.Pos.Y, ObstacleQueryW, ObstacleQueryH) {
		collideWithObstacle(tr, radius, obs)
	}
}

func collideWithObstacle(tr *Transform, radius float64, obs Obstacle) bool {
	switch obs.Kind {
	case ObstacleTree:
		delta := tr.Pos.Sub(obs.Pos)
		dist := delta.Len()
		minDist := radius + obs.Radius
		if dist >= minDist {
			return false
		}
		if dist == 0 {
			delta = Vec2{1, 0}
			dist = 1
		}
		tr.Pos = obs.Pos.Add(delta.Scale(minDist / dist))
		tr.Vel = tr.Vel.Scale(TreeDamping)
		return true
	case ObstacleBuilding:
		nearest := Vec2{
			Clamp(tr.Pos.X, obs.Pos.X-obs.HalfW, obs.Pos.X+obs.HalfW),
			Clamp(tr.Pos.Y, obs.Pos.Y-obs.HalfH, obs.Pos.Y+obs.HalfH),
		}
		delta := tr.Pos.Sub(nearest)
		dist := delta.Len()
		if dist >= radius {
			return false
		}
		if dist == 0 {
			// Center inside the rectangle: eject along the shallowest axis.
			dx := obs.HalfW - absf(tr.Pos.X-obs.Pos.X)
			dy := obs.HalfH - absf(tr.Pos.Y-obs.Pos.Y)
			if dx < dy {
				if tr.Pos.X < obs.Pos.X {
					tr.Pos.X = obs.Pos.X - obs.HalfW - radius
				} else {
					tr.Pos.X = obs.Pos.X + obs.HalfW + radius
				}
			} else {
				if tr.Pos.Y < obs.Pos.Y {
					tr.Pos.Y = obs.Pos.Y - obs.HalfH - radius
				} else {
					tr.Pos.Y = obs.Pos.Y + obs.HalfH + radius
				}
			}
		} else {
			tr.Pos = nearest.Add(delta.Scale(radius / dist))
		}
		tr.Vel = tr.Vel.Scale(BuildingDamping)
		return true
	}
	return false
}

// pointHitsObstacle is the projectile variant: overlap test only, no
// push-out.
func pointHitsObstacle(pos Vec2, radius float64, obs Obstacle) bool {
	switch obs.Kind {
	case ObstacleTree:
		return pos.Sub(obs.Pos).Len() < radius+obs.Radius
	case ObstacleBuilding:
		nearest := Vec2{
			Clamp(pos.X, obs.Pos.X-obs.HalfW, obs.Pos.X+obs.HalfW),
			Clamp(pos.Y, obs.Pos.Y-obs.HalfH, obs.Pos.Y+obs.HalfH),
		}
		return pos.Sub(nearest).Len() < radius
	}
	return false
}

func circlesOverlap(a, b Vec2, ra, rb float64) bool {
	return a.Sub(b).Len() < ra+rb
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
