package core

import (
	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
)

// Player represents a game player
type Player struct {
	ID       int
	Name     string
	TeamID   int
	Faction  string
	Color    uint32 // RGBA
	Credits  int    // money
	Power    int    // current power generation
	PowerUse int    // current power consumption
	IsAI     bool
	Defeated bool
}

// PowerRatio returns the power ratio (>= 1.0 means enough power)
func (p *Player) PowerRatio() float64 {
	if p.PowerUse <= 0 {
		return 1.0
	}
	return float64(p.Power) / float64(p.PowerUse)
}

// HasPower returns true if power is sufficient
func (p *Player) HasPower() bool {
	return p.Power >= p.PowerUse
}

// PlayerManager manages all players in a game
type PlayerManager struct {
	Players []*Player
}

func NewPlayerManager() *PlayerManager {
	return &PlayerManager{}
}

func (pm *PlayerManager) AddPlayer(p *Player) {
	pm.Players = append(pm.Players, p)
}

func (pm *PlayerManager) GetPlayer(id int) *Player {
	for _, p := range pm.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AreAllies checks if two players are allied
func (pm *PlayerManager) AreAllies(a, b int) bool {
	pa := pm.GetPlayer(a)
	pb := pm.GetPlayer(b)
	if pa == nil || pb == nil {
		return false
	}
	return pa.TeamID == pb.TeamID
}

// SyncDefeatStatus marks any player owning none of the given building or unit
// entities as Defeated. Once set, a player stays Defeated even if its last
// entities are still draining out via deferred removal.
func (pm *PlayerManager) SyncDefeatStatus(buildings, units []*ecs.Entity, types *components.Types) {
	hasAssets := make(map[int]bool)
	for _, e := range buildings {
		own, ok := ecs.GetComponent(e, types.Owner)
		if ok {
			hasAssets[own.PlayerID] = true
		}
	}
	for _, e := range units {
		own, ok := ecs.GetComponent(e, types.Owner)
		if ok {
			hasAssets[own.PlayerID] = true
		}
	}
	for _, p := range pm.Players {
		if !p.Defeated && !hasAssets[p.ID] {
			p.Defeated = true
		}
	}
}

// AssetCount returns the number of buildings and units owned by playerID.
func (pm *PlayerManager) AssetCount(playerID int, buildings, units []*ecs.Entity, types *components.Types) int {
	count := 0
	for _, e := range buildings {
		if own, ok := ecs.GetComponent(e, types.Owner); ok && own.PlayerID == playerID {
			count++
		}
	}
	for _, e := range units {
		if own, ok := ecs.GetComponent(e, types.Owner); ok && own.PlayerID == playerID {
			count++
		}
	}
	return count
}
