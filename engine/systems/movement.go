package systems

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/maplib"
	"github.com/1siamBot/ecsim/engine/pathfind"
)

// MovementSystem moves units along their paths, steering around nearby
// units. Grounded on MovementSystem.Update, generalized from an EntityID
// scan over core.World to an ecs query over a *components.Types bundle.
type MovementSystem struct {
	ecs.Base
	Types   *components.Types
	NavGrid *pathfind.NavGrid
}

func (s *MovementSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "movers", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Movable.El()}},
	}
}

func (s *MovementSystem) Execute(dt, _ float64) {
	movers := s.Results("movers")

	positions := make(map[*ecs.Entity][2]float64, len(movers))
	for _, e := range movers {
		pos, _ := ecs.GetComponent(e, s.Types.Position)
		positions[e] = [2]float64{pos.X, pos.Y}
	}

	for _, e := range movers {
		mov, _ := ecs.GetMutableComponent(e, s.Types.Movable)
		if mov.PathIdx >= len(mov.Path) {
			continue
		}
		pos, _ := ecs.GetMutableComponent(e, s.Types.Position)

		var nearby []*ecs.Entity
		for oe, op := range positions {
			if oe == e {
				continue
			}
			dx := pos.X - op[0]
			dy := pos.Y - op[1]
			if dx*dx+dy*dy < 9 { // within 3 tiles
				nearby = append(nearby, oe)
			}
		}

		steer := pathfind.SteerEntity(e, s.Types, nearby)
		pos.X += steer.VX * dt
		pos.Y += steer.VY * dt

		if steer.VX != 0 || steer.VY != 0 {
			pos.Facing = math.Atan2(steer.VY, steer.VX)
		}

		target := mov.Path[mov.PathIdx]
		tx, ty := float64(target.X)+0.5, float64(target.Y)+0.5
		dx, dy := tx-pos.X, ty-pos.Y
		if dx*dx+dy*dy < 0.15 {
			mov.PathIdx++
		}
	}
}

// MovePassFlag converts a components.MoveType to a maplib.PassFlag. Kept as
// a thin alias so existing callers don't need to import pathfind directly.
func MovePassFlag(mt components.MoveType) maplib.PassFlag {
	return pathfind.PassFlagForMoveType(mt)
}

// OrderMove computes and assigns a path for e toward (gx, gy).
func OrderMove(e *ecs.Entity, types *components.Types, ng *pathfind.NavGrid, gx, gy int) {
	if _, ok := ecs.GetMutableComponent(e, types.Movable); !ok {
		return
	}
	path := pathfind.FindPathForEntity(ng, e, types, gx, gy)
	if path == nil {
		return
	}
	mov, _ := ecs.GetMutableComponent(e, types.Movable)
	mov.Path = make([]components.TilePos, len(path))
	for i, pt := range path {
		mov.Path[i] = components.TilePos{X: pt.X, Y: pt.Y}
	}
	mov.PathIdx = 0
}

// OrderGroupMove orders a multi-unit selection to (gx, gy) using one shared
// flow field per movement type instead of one A* search per entity.
func OrderGroupMove(entities []*ecs.Entity, types *components.Types, ng *pathfind.NavGrid, gx, gy int) {
	pathfind.AssignGroupMove(ng, entities, types, gx, gy)
}
