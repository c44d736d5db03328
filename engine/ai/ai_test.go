package ai

import (
	"testing"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
	"github.com/1siamBot/ecsim/engine/maplib"
	"github.com/1siamBot/ecsim/engine/pathfind"
	"github.com/1siamBot/ecsim/engine/systems"
)

func newTestAIWorld(t *testing.T) (*ecs.World, *components.Types, *pathfind.NavGrid) {
	t.Helper()
	w := ecs.NewWorld(ecs.WorldConfig{})
	types := components.Register(w)
	tm := maplib.NewTileMap("test", 20, 20)
	ng := pathfind.NewNavGrid(tm)
	return w, types, ng
}

func TestNewAIControllerSetsThinkIntervalByDifficulty(t *testing.T) {
	tt := systems.NewTechTree()
	easy := NewAIController(1, DiffEasy, tt, nil)
	medium := NewAIController(1, DiffMedium, tt, nil)
	hard := NewAIController(1, DiffHard, tt, nil)

	if !(easy.thinkInterval > medium.thinkInterval && medium.thinkInterval > hard.thinkInterval) {
		t.Errorf("expected thinkInterval to shrink as difficulty rises: easy=%v medium=%v hard=%v",
			easy.thinkInterval, medium.thinkInterval, hard.thinkInterval)
	}
}

func TestAISystemNoticesNewEnemyBuilding(t *testing.T) {
	w, types, ng := newTestAIWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, TeamID: 1, Credits: 0})
	pm.AddPlayer(&core.Player{ID: 2, TeamID: 2})

	ctrl := NewAIController(1, DiffMedium, systems.NewTechTree(), ng)
	sys := &AISystem{Types: types, World: w, Controllers: []*AIController{ctrl}, Players: pm}
	w.RegisterSystem(sys, ecs.SystemAttributes{Priority: 50})

	attackTimerBefore := ctrl.attackTimer

	enemyBuilding := w.CreateEntity()
	ecs.AddComponent(enemyBuilding, types.Building, ecs.Props{})
	ecs.AddComponent(enemyBuilding, types.Owner, ecs.Props{"PlayerID": 2})

	dt, tm := 0.1, int64(1)
	w.Execute(&dt, &tm)

	// dt alone accounts for 0.1; the notice boost must come on top of it.
	if ctrl.attackTimer <= attackTimerBefore+dt {
		t.Error("noticing a new enemy building should accelerate the controller's attack timer")
	}
}

func TestAISystemIgnoresAllyBuildingSpawn(t *testing.T) {
	w, types, ng := newTestAIWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, TeamID: 1})
	pm.AddPlayer(&core.Player{ID: 2, TeamID: 1}) // same team

	ctrl := NewAIController(1, DiffMedium, systems.NewTechTree(), ng)
	sys := &AISystem{Types: types, World: w, Controllers: []*AIController{ctrl}, Players: pm}
	w.RegisterSystem(sys)

	dt, tm := 0.1, int64(1)
	w.Execute(&dt, &tm) // baseline tick so attackTimer reflects only dt afterward

	before := ctrl.attackTimer

	allyBuilding := w.CreateEntity()
	ecs.AddComponent(allyBuilding, types.Building, ecs.Props{})
	ecs.AddComponent(allyBuilding, types.Owner, ecs.Props{"PlayerID": 2})

	w.Execute(&dt, &tm)

	// Only dt should have accrued (0.1), not the +5.0 notice boost.
	if ctrl.attackTimer > before+0.2 {
		t.Errorf("attackTimer jumped by %v, an allied building spawn should not trigger the notice boost", ctrl.attackTimer-before)
	}
}

func TestThreatAssessmentIgnoresAllies(t *testing.T) {
	w, types, _ := newTestAIWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, TeamID: 1})
	pm.AddPlayer(&core.Player{ID: 2, TeamID: 1})

	ally := w.CreateEntity()
	ecs.AddComponent(ally, types.Position, ecs.Props{"X": 0.0, "Y": 0.0})
	ecs.AddComponent(ally, types.Owner, ecs.Props{"PlayerID": 2})
	ecs.AddComponent(ally, types.Weapon, ecs.Props{"Damage": 100})

	threat := ThreatAssessment(w, types, pm, 1, 0, 0, 10)
	if threat != 0 {
		t.Errorf("ThreatAssessment = %v, want 0 (same-team weapon should not count as a threat)", threat)
	}
}

func TestThreatAssessmentCountsEnemies(t *testing.T) {
	w, types, _ := newTestAIWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, TeamID: 1})
	pm.AddPlayer(&core.Player{ID: 2, TeamID: 2})

	enemy := w.CreateEntity()
	ecs.AddComponent(enemy, types.Position, ecs.Props{"X": 0.0, "Y": 0.0})
	ecs.AddComponent(enemy, types.Owner, ecs.Props{"PlayerID": 2})
	ecs.AddComponent(enemy, types.Weapon, ecs.Props{"Damage": 100})

	threat := ThreatAssessment(w, types, pm, 1, 0, 0, 10)
	if threat <= 0 {
		t.Errorf("ThreatAssessment = %v, want > 0 for a nearby enemy weapon", threat)
	}
}
