package pathfind

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
)

// SteerResult contains the computed steering velocity
type SteerResult struct {
	VX, VY float64
}

// Steer computes a velocity for a unit moving along a path while avoiding others
// ux, uy: unit position; speed: max speed; path: waypoints; pathIdx: current waypoint
// others: list of (x, y, radius) of nearby units to avoid
func Steer(ux, uy, speed float64, path []Point, pathIdx int, others [][3]float64) SteerResult {
	if pathIdx >= len(path) {
		return SteerResult{}
	}

	// Seek toward current waypoint
	target := path[pathIdx]
	tx, ty := float64(target.X)+0.5, float64(target.Y)+0.5
	dx, dy := tx-ux, ty-uy
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 0.01 {
		return SteerResult{}
	}

	seekX, seekY := dx/dist*speed, dy/dist*speed

	// Separation from other units
	sepX, sepY := 0.0, 0.0
	for _, o := range others {
		ox, oy, or := o[0], o[1], o[2]
		sx, sy := ux-ox, uy-oy
		d := math.Sqrt(sx*sx + sy*sy)
		minDist := or + 0.5
		if d < minDist && d > 0.001 {
			force := (minDist - d) / minDist
			sepX += sx / d * force * speed * 0.5
			sepY += sy / d * force * speed * 0.5
		}
	}

	vx := seekX + sepX
	vy := seekY + sepY

	// Clamp to max speed
	v := math.Sqrt(vx*vx + vy*vy)
	if v > speed {
		vx = vx / v * speed
		vy = vy / v * speed
	}

	return SteerResult{VX: vx, VY: vy}
}

// SteerEntity computes e's steering velocity along its Movable.Path, treating
// nearby as obstacles to separate from. Entities missing Position or Movable
// yield the zero SteerResult. nearby entities without a Position are skipped;
// their avoidance radius comes from Selectable.Radius when present, else 0.5.
func SteerEntity(e *ecs.Entity, types *components.Types, nearby []*ecs.Entity) SteerResult {
	pos, ok := ecs.GetComponent(e, types.Position)
	if !ok {
		return SteerResult{}
	}
	mov, ok := ecs.GetComponent(e, types.Movable)
	if !ok {
		return SteerResult{}
	}

	pts := make([]Point, len(mov.Path))
	for i, tp := range mov.Path {
		pts[i] = Point{X: tp.X, Y: tp.Y}
	}

	others := make([][3]float64, 0, len(nearby))
	for _, o := range nearby {
		if o == e {
			continue
		}
		op, ok := ecs.GetComponent(o, types.Position)
		if !ok {
			continue
		}
		radius := 0.5
		if sel, ok := ecs.GetComponent(o, types.Selectable); ok && sel.Radius > 0 {
			radius = sel.Radius
		}
		others = append(others, [3]float64{op.X, op.Y, radius})
	}

	return Steer(pos.X, pos.Y, mov.Speed, pts, mov.PathIdx, others)
}
