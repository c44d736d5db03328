package systems

import (
	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

// FogState represents visibility of a tile.
type FogState uint8

const (
	FogShroud   FogState = iota // never seen
	FogExplored                 // seen before but not now
	FogVisible                  // currently visible
)

// FogOfWar manages visibility per player.
type FogOfWar struct {
	Width, Height int
	Grid          []FogState
	PlayerID      int
}

func NewFogOfWar(w, h, playerID int) *FogOfWar {
	return &FogOfWar{
		Width:    w,
		Height:   h,
		Grid:     make([]FogState, w*h),
		PlayerID: playerID,
	}
}

// At returns the fog state at (x, y).
func (f *FogOfWar) At(x, y int) FogState {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return FogShroud
	}
	return f.Grid[y*f.Width+x]
}

// IsVisible returns true if tile is currently visible.
func (f *FogOfWar) IsVisible(x, y int) bool {
	return f.At(x, y) == FogVisible
}

// FogSystem updates fog of war each tick. Grounded on FogSystem.Update.
type FogSystem struct {
	ecs.Base
	Types   *components.Types
	Fogs    map[int]*FogOfWar
	Players *core.PlayerManager
}

func NewFogSystem(w, h int, pm *core.PlayerManager) *FogSystem {
	fs := &FogSystem{Fogs: make(map[int]*FogOfWar)}
	fs.Players = pm
	for _, p := range pm.Players {
		fs.Fogs[p.ID] = NewFogOfWar(w, h, p.ID)
	}
	return fs
}

func (s *FogSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "seers", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.FogVision.El(), s.Types.Owner.El()}},
	}
}

func (s *FogSystem) Execute(_, _ float64) {
	for _, fog := range s.Fogs {
		for i := range fog.Grid {
			if fog.Grid[i] == FogVisible {
				fog.Grid[i] = FogExplored
			}
		}
	}

	for _, e := range s.Results("seers") {
		pos, _ := ecs.GetComponent(e, s.Types.Position)
		vis, _ := ecs.GetComponent(e, s.Types.FogVision)
		own, _ := ecs.GetComponent(e, s.Types.Owner)

		fog := s.Fogs[own.PlayerID]
		if fog == nil {
			continue
		}

		cx, cy := int(pos.X), int(pos.Y)
		r := vis.Range
		reveal(fog, cx, cy, r)

		for _, p := range s.Players.Players {
			if p.ID != own.PlayerID && s.Players.AreAllies(own.PlayerID, p.ID) {
				if afog := s.Fogs[p.ID]; afog != nil {
					reveal(afog, cx, cy, r)
				}
			}
		}
	}
}

func reveal(fog *FogOfWar, cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				tx, ty := cx+dx, cy+dy
				if tx >= 0 && ty >= 0 && tx < fog.Width && ty < fog.Height {
					fog.Grid[ty*fog.Width+tx] = FogVisible
				}
			}
		}
	}
}
