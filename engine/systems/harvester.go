package systems

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
	"github.com/1siamBot/ecsim/engine/maplib"
	"github.com/1siamBot/ecsim/engine/pathfind"
)

// HarvesterSystem manages resource gathering. Grounded on
// HarvesterSystem.Update.
type HarvesterSystem struct {
	ecs.Base
	Types    *components.Types
	NavGrid  *pathfind.NavGrid
	TileMap  *maplib.TileMap
	Players  *core.PlayerManager
	EventBus *ecs.EventBus
}

func (s *HarvesterSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "harvesters", Elements: []ecs.QueryElement{
			s.Types.Position.El(), s.Types.Harvester.El(), s.Types.Movable.El(), s.Types.Owner.El(),
		}},
		{Name: "buildings", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Building.El(), s.Types.Owner.El()}},
	}
}

func (s *HarvesterSystem) Execute(dt, _ float64) {
	for _, e := range s.Results("harvesters") {
		pos, _ := ecs.GetComponent(e, s.Types.Position)
		harv, _ := ecs.GetMutableComponent(e, s.Types.Harvester)
		mov, _ := ecs.GetComponent(e, s.Types.Movable)
		own, _ := ecs.GetComponent(e, s.Types.Owner)

		switch harv.State {
		case components.HarvIdle:
			ox, oy := s.findNearestOre(int(pos.X), int(pos.Y))
			if ox >= 0 {
				harv.State = components.HarvMovingToOre
				OrderMove(e, s.Types, s.NavGrid, ox, oy)
			}

		case components.HarvMovingToOre:
			if mov.PathIdx >= len(mov.Path) {
				tx, ty := int(pos.X), int(pos.Y)
				tile := s.TileMap.At(tx, ty)
				if tile != nil && tile.OreAmount > 0 {
					harv.State = components.HarvHarvesting
				} else {
					harv.State = components.HarvIdle
				}
			}

		case components.HarvHarvesting:
			tx, ty := int(pos.X), int(pos.Y)
			tile := s.TileMap.At(tx, ty)
			if tile == nil || tile.OreAmount <= 0 {
				if harv.Current > 0 {
					harv.State = components.HarvReturning
					s.returnToRefinery(e, own, pos)
				} else {
					harv.State = components.HarvIdle
				}
				continue
			}
			amount := int(harv.Rate * dt * 20)
			if amount < 1 {
				amount = 1
			}
			if amount > tile.OreAmount {
				amount = tile.OreAmount
			}
			remaining := harv.Capacity - harv.Current
			if amount > remaining {
				amount = remaining
			}
			harv.Current += amount
			tile.OreAmount -= amount
			if tile.OreAmount <= 0 {
				tile.Terrain = maplib.TerrainDirt
			}
			if harv.Current >= harv.Capacity {
				harv.State = components.HarvReturning
				s.returnToRefinery(e, own, pos)
			}

		case components.HarvReturning:
			if mov.PathIdx >= len(mov.Path) {
				harv.State = components.HarvUnloading
			}

		case components.HarvUnloading:
			player := s.Players.GetPlayer(own.PlayerID)
			if player != nil {
				value := harv.Current * 25 // each unit of ore = $25
				if harv.Resource == "gem" {
					value = harv.Current * 50
				}
				player.Credits += value
				if s.EventBus != nil {
					s.EventBus.Emit(components.EvtResourceHarvested, components.TickEvent{Entity: e})
				}
			}
			harv.Current = 0
			harv.State = components.HarvIdle
		}
	}
}

func (s *HarvesterSystem) findNearestOre(fx, fy int) (int, int) {
	bestDist := math.MaxFloat64
	bx, by := -1, -1
	for y := 0; y < s.TileMap.Height; y++ {
		for x := 0; x < s.TileMap.Width; x++ {
			t := s.TileMap.At(x, y)
			if t != nil && t.OreAmount > 0 {
				dx := float64(x - fx)
				dy := float64(y - fy)
				d := dx*dx + dy*dy
				if d < bestDist {
					bestDist = d
					bx, by = x, y
				}
			}
		}
	}
	return bx, by
}

func (s *HarvesterSystem) returnToRefinery(e *ecs.Entity, own components.Owner, pos components.Position) {
	bestDist := math.MaxFloat64
	bx, by := int(pos.X), int(pos.Y)
	for _, b := range s.Results("buildings") {
		bown, _ := ecs.GetComponent(b, s.Types.Owner)
		if bown.PlayerID != own.PlayerID {
			continue
		}
		bpos, _ := ecs.GetComponent(b, s.Types.Position)
		d := distance(pos.X, pos.Y, bpos.X, bpos.Y)
		if d < bestDist {
			bestDist = d
			bx, by = int(bpos.X), int(bpos.Y)
		}
	}
	OrderMove(e, s.Types, s.NavGrid, bx, by)
}
