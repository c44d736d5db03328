package ai

import (
	"math"
	"math/rand"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
	"github.com/1siamBot/ecsim/engine/pathfind"
	"github.com/1siamBot/ecsim/engine/systems"
)

// Difficulty controls AI behavior.
type Difficulty int

const (
	DiffEasy Difficulty = iota
	DiffMedium
	DiffHard
)

// AIController manages one AI player.
type AIController struct {
	PlayerID   int
	Difficulty Difficulty
	TechTree   *systems.TechTree
	NavGrid    *pathfind.NavGrid

	tickTimer     float64
	thinkInterval float64
	attackTimer   float64
	waveCount     int
}

func NewAIController(playerID int, diff Difficulty, tt *systems.TechTree, ng *pathfind.NavGrid) *AIController {
	interval := 5.0
	switch diff {
	case DiffEasy:
		interval = 8.0
	case DiffHard:
		interval = 3.0
	}
	return &AIController{
		PlayerID:      playerID,
		Difficulty:    diff,
		TechTree:      tt,
		NavGrid:       ng,
		thinkInterval: interval,
	}
}

// AISystem runs all AI controllers. Grounded on AISystem.Update, generalized
// from core.World scans to ecs.QuerySpec-bound results.
type AISystem struct {
	ecs.Base
	Types       *components.Types
	World       *ecs.World
	Controllers []*AIController
	Players     *core.PlayerManager
}

func (s *AISystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "producers", Elements: []ecs.QueryElement{s.Types.Production.El(), s.Types.Owner.El()}},
		{Name: "buildings", Elements: []ecs.QueryElement{s.Types.Building.El(), s.Types.Owner.El()},
			Listen: ecs.ListenSpec{Added: true}},
		{Name: "units", Elements: []ecs.QueryElement{s.Types.Movable.El(), s.Types.Owner.El(), ecs.Not(s.Types.Building.El())}},
		{Name: "combatants", Elements: []ecs.QueryElement{s.Types.Movable.El(), s.Types.Owner.El(), s.Types.Weapon.El()}},
		{Name: "enemies", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Owner.El()}},
	}
}

func (s *AISystem) Execute(dt, _ float64) {
	// A newly noticed enemy building (spawned this tick, reported through the
	// "buildings" query's Added bucket) brings forward every controller's
	// next attack wave instead of waiting on the think-tick poll.
	noticed := make(map[int]bool)
	for _, e := range s.Added("buildings") {
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		noticed[own.PlayerID] = true
	}

	for _, ctrl := range s.Controllers {
		ctrl.tickTimer += dt
		if ctrl.tickTimer >= ctrl.thinkInterval {
			ctrl.tickTimer = 0
			ctrl.Think(s)
		}
		ctrl.attackTimer += dt

		for enemyID := range noticed {
			if enemyID != ctrl.PlayerID && !s.Players.AreAllies(ctrl.PlayerID, enemyID) {
				ctrl.attackTimer += 5.0
			}
		}
	}
}

// Think is the main AI decision loop.
func (ai *AIController) Think(s *AISystem) {
	player := s.Players.GetPlayer(ai.PlayerID)
	if player == nil || player.Defeated {
		return
	}

	myBuildings := ai.countBuildings(s)
	myUnits := ai.countUnits(s)

	if myBuildings == 0 {
		return
	}

	maxQueue := 2
	if ai.Difficulty == DiffHard {
		maxQueue = 3
	}

	for _, e := range s.Results("producers") {
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		if own.PlayerID != ai.PlayerID {
			continue
		}
		prod, _ := ecs.GetMutableComponent(e, s.Types.Production)
		if len(prod.Queue) >= maxQueue {
			continue
		}

		unitType := "conscript"
		if player.Faction == "Allied" {
			unitType = "gi"
		}
		if player.Credits > 800 && myUnits > 3 {
			if player.Faction == "Allied" {
				unitType = "grizzly"
			} else {
				unitType = "rhino"
			}
		}
		if udef, ok := ai.TechTree.Units[unitType]; ok {
			if player.Credits >= udef.Cost {
				player.Credits -= udef.Cost
				prod.Queue = append(prod.Queue, unitType)
			}
		}
	}

	attackInterval := 60.0
	switch ai.Difficulty {
	case DiffMedium:
		attackInterval = 45.0
	case DiffHard:
		attackInterval = 30.0
	}

	if ai.attackTimer >= attackInterval && myUnits >= 3 {
		ai.attackTimer = 0
		ai.waveCount++
		ai.launchAttack(s)
	}
}

func (ai *AIController) countBuildings(s *AISystem) int {
	count := 0
	for _, e := range s.Results("buildings") {
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		if own.PlayerID == ai.PlayerID {
			count++
		}
	}
	return count
}

func (ai *AIController) countUnits(s *AISystem) int {
	count := 0
	for _, e := range s.Results("units") {
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		if own.PlayerID == ai.PlayerID {
			count++
		}
	}
	return count
}

func (ai *AIController) launchAttack(s *AISystem) {
	var targetX, targetY float64
	found := false
	for _, e := range s.Results("enemies") {
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		if own.PlayerID != ai.PlayerID && !s.Players.AreAllies(ai.PlayerID, own.PlayerID) {
			pos, _ := ecs.GetComponent(e, s.Types.Position)
			targetX, targetY = pos.X, pos.Y
			found = true
			break
		}
	}
	if !found {
		return
	}

	gx, gy := int(targetX), int(targetY)
	for _, e := range s.Results("combatants") {
		own, _ := ecs.GetComponent(e, s.Types.Owner)
		if own.PlayerID != ai.PlayerID {
			continue
		}
		ox := gx + rand.Intn(5) - 2
		oy := gy + rand.Intn(5) - 2
		systems.OrderMove(e, s.Types, ai.NavGrid, ox, oy)
	}
}

// ThreatAssessment returns the total threat value of enemies near a
// position, for use by AI or player-facing warning UI.
func ThreatAssessment(w *ecs.World, types *components.Types, pm *core.PlayerManager, playerID int, wx, wy, radius float64) float64 {
	q, err := w.GetQuery(types.Position.El(), types.Weapon.El(), types.Owner.El())
	if err != nil {
		return 0
	}
	threat := 0.0
	for _, e := range q.Entities() {
		own, _ := ecs.GetComponent(e, types.Owner)
		if pm.AreAllies(playerID, own.PlayerID) {
			continue
		}
		pos, _ := ecs.GetComponent(e, types.Position)
		dx := pos.X - wx
		dy := pos.Y - wy
		d := math.Sqrt(dx*dx + dy*dy)
		if d <= radius {
			wep, _ := ecs.GetComponent(e, types.Weapon)
			threat += float64(wep.Damage) * (1.0 - d/radius)
		}
	}
	return threat
}
