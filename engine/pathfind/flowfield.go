package pathfind

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/maplib"
)

// FlowField stores a direction vector for each cell pointing toward the goal
type FlowField struct {
	Width, Height int
	DirX, DirY    []float64
	Cost          []float64 // integration field cost
}

// NewFlowField generates a flow field toward (gx, gy) for the given movement flag
func NewFlowField(ng *NavGrid, gx, gy int, flag maplib.PassFlag) *FlowField {
	w, h := ng.Width, ng.Height
	ff := &FlowField{
		Width:  w,
		Height: h,
		DirX:   make([]float64, w*h),
		DirY:   make([]float64, w*h),
		Cost:   make([]float64, w*h),
	}

	inf := math.MaxFloat64
	for i := range ff.Cost {
		ff.Cost[i] = inf
	}
	if gx < 0 || gy < 0 || gx >= w || gy >= h {
		return ff
	}
	ff.Cost[gy*w+gx] = 0

	// BFS integration pass
	type pt struct{ x, y int }
	queue := []pt{{gx, gy}}
	dirs := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curCost := ff.Cost[cur.y*w+cur.x]
		for _, d := range dirs {
			nx, ny := cur.x+d[0], cur.y+d[1]
			if !ng.Passable(nx, ny, flag) {
				continue
			}
			moveCost := ng.Cost(nx, ny)
			if d[0] != 0 && d[1] != 0 {
				moveCost *= math.Sqrt2
			}
			newCost := curCost + moveCost
			idx := ny*w + nx
			if newCost < ff.Cost[idx] {
				ff.Cost[idx] = newCost
				queue = append(queue, pt{nx, ny})
			}
		}
	}

	// Direction pass: each cell points toward lowest-cost neighbor
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if ff.Cost[idx] >= inf {
				continue
			}
			bestCost := ff.Cost[idx]
			var bx, by float64
			for _, d := range dirs {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				c := ff.Cost[ny*w+nx]
				if c < bestCost {
					bestCost = c
					bx, by = float64(d[0]), float64(d[1])
				}
			}
			// Normalize
			length := math.Sqrt(bx*bx + by*by)
			if length > 0 {
				ff.DirX[idx] = bx / length
				ff.DirY[idx] = by / length
			}
		}
	}

	return ff
}

// Direction returns the flow direction at (x,y)
func (ff *FlowField) Direction(x, y int) (float64, float64) {
	if x < 0 || y < 0 || x >= ff.Width || y >= ff.Height {
		return 0, 0
	}
	idx := y*ff.Width + x
	return ff.DirX[idx], ff.DirY[idx]
}

// TracePath walks ff downhill from (sx, sy) one cell at a time until it
// reaches the goal cell (cost 0) or gives up after maxSteps, whichever
// comes first. Used to turn a shared flow field into a per-unit waypoint
// list for group orders.
func (ff *FlowField) TracePath(sx, sy, maxSteps int) []Point {
	if sx < 0 || sy < 0 || sx >= ff.Width || sy >= ff.Height {
		return nil
	}
	if ff.Cost[sy*ff.Width+sx] >= math.MaxFloat64 {
		return nil
	}
	path := []Point{{sx, sy}}
	x, y := sx, sy
	for i := 0; i < maxSteps; i++ {
		if ff.Cost[y*ff.Width+x] == 0 {
			break
		}
		dx, dy := ff.Direction(x, y)
		if dx == 0 && dy == 0 {
			break
		}
		nx := x + int(math.Round(dx))
		ny := y + int(math.Round(dy))
		if nx == x && ny == y {
			break
		}
		x, y = nx, ny
		path = append(path, Point{x, y})
	}
	return path
}

// AssignGroupMove orders a mixed group of entities to (gx, gy), building one
// shared FlowField per distinct MoveType (so infantry, vehicles, and aircraft
// in the same selection each flow around terrain they can actually cross) and
// tracing each entity's own path through its group's field. Cheaper than
// running A* per unit when many units share a destination. Entities missing
// Position or Movable are skipped.
func AssignGroupMove(ng *NavGrid, entities []*ecs.Entity, types *components.Types, gx, gy int) {
	fields := make(map[components.MoveType]*FlowField)
	maxSteps := ng.Width + ng.Height

	for _, e := range entities {
		pos, ok := ecs.GetComponent(e, types.Position)
		if !ok {
			continue
		}
		mov, ok := ecs.GetMutableComponent(e, types.Movable)
		if !ok {
			continue
		}
		ff, ok := fields[mov.MoveType]
		if !ok {
			ff = NewFlowField(ng, gx, gy, PassFlagForMoveType(mov.MoveType))
			fields[mov.MoveType] = ff
		}
		pts := ff.TracePath(int(pos.X), int(pos.Y), maxSteps)
		if pts == nil {
			continue
		}
		mov.Path = make([]components.TilePos, len(pts))
		for i, pt := range pts {
			mov.Path[i] = components.TilePos{X: pt.X, Y: pt.Y}
		}
		mov.PathIdx = 0
	}
}
