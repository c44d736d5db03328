package systems

import (
	"testing"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

func newTestWorld(t *testing.T) (*ecs.World, *components.Types) {
	t.Helper()
	w := ecs.NewWorld(ecs.WorldConfig{})
	return w, components.Register(w)
}

func TestHasPrereqsEmptyIsSatisfied(t *testing.T) {
	tt := NewTechTree()
	if !tt.HasPrereqs(nil, nil, 1, nil) {
		t.Error("an empty prereq list should always be satisfied")
	}
}

func TestHasPrereqsChecksOwnership(t *testing.T) {
	w, types := newTestWorld(t)
	tt := NewTechTree()

	refinery := w.CreateEntity()
	ecs.AddComponent(refinery, types.Owner, ecs.Props{"PlayerID": 1})
	ecs.AddComponent(refinery, types.BuildName, ecs.Props{"Key": "refinery"})

	buildings := []*ecs.Entity{refinery}

	if !tt.HasPrereqs(buildings, types, 1, []string{"refinery"}) {
		t.Error("player 1 owns a refinery, prereq should be satisfied")
	}
	if tt.HasPrereqs(buildings, types, 2, []string{"refinery"}) {
		t.Error("player 2 does not own the refinery; prereq should not be satisfied")
	}
	if tt.HasPrereqs(buildings, types, 1, []string{"war_factory"}) {
		t.Error("player 1 does not own a war_factory; prereq should not be satisfied")
	}
}

func TestProductionSystemSpawnsUnitOnQueueComplete(t *testing.T) {
	w, types := newTestWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, Faction: "Allied", Credits: 10000, Power: 100})

	bus := ecs.NewEventBus()
	fired := 0
	bus.On(components.EvtUnitCreated, func(any) { fired++ })

	sys := &ProductionSystem{Types: types, TechTree: NewTechTree(), Players: pm, EventBus: bus, World: w}
	w.RegisterSystem(sys)

	producer := w.CreateEntity()
	ecs.AddComponent(producer, types.Owner, ecs.Props{"PlayerID": 1, "Faction": "Allied"})
	ecs.AddComponent(producer, types.Position, ecs.Props{"X": 10.0, "Y": 10.0})
	ecs.AddComponent(producer, types.Production, ecs.Props{"Rate": 1.0})

	prod, _ := ecs.GetMutableComponent(producer, types.Production)
	prod.Queue = append(prod.Queue, "gi")

	before := w.Stats().EntityCount

	// BuildTime for "gi" is 3 seconds; drive enough whole ticks to finish.
	dt, tm := 1.0, int64(0)
	for i := 0; i < 4; i++ {
		tm++
		w.Execute(&dt, &tm)
	}

	after := w.Stats().EntityCount
	if after != before+1 {
		t.Fatalf("EntityCount = %d, want %d (one unit spawned)", after, before+1)
	}
	if fired == 0 {
		t.Error("expected EvtUnitCreated to fire when the queue completes")
	}

	prodAfter, _ := ecs.GetComponent(producer, types.Production)
	if len(prodAfter.Queue) != 0 {
		t.Errorf("queue should be drained after the unit spawns, got %v", prodAfter.Queue)
	}
}

func TestProductionSystemHalvesRateWithoutPower(t *testing.T) {
	w, types := newTestWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, Credits: 10000, Power: 0, PowerUse: 100}) // unpowered

	sys := &ProductionSystem{Types: types, TechTree: NewTechTree(), Players: pm, World: w}
	w.RegisterSystem(sys)

	producer := w.CreateEntity()
	ecs.AddComponent(producer, types.Owner, ecs.Props{"PlayerID": 1})
	ecs.AddComponent(producer, types.Position, ecs.Props{})
	ecs.AddComponent(producer, types.Production, ecs.Props{"Rate": 1.0})
	prod, _ := ecs.GetMutableComponent(producer, types.Production)
	prod.Queue = append(prod.Queue, "conscript") // BuildTime = 2s

	dt, tm := 1.0, int64(1)
	w.Execute(&dt, &tm)

	prodAfter, _ := ecs.GetComponent(producer, types.Production)
	// One full second of progress at half rate against a 2s build time: 0.25.
	if prodAfter.Progress < 0.2 || prodAfter.Progress > 0.3 {
		t.Errorf("Progress = %v, want ~0.25 (half rate while unpowered)", prodAfter.Progress)
	}
}

func TestPowerSystemRecomputesPerPlayer(t *testing.T) {
	w, types := newTestWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1})

	w.RegisterSystem(&PowerSystem{Types: types, Players: pm})

	plant := w.CreateEntity()
	ecs.AddComponent(plant, types.Owner, ecs.Props{"PlayerID": 1})
	ecs.AddComponent(plant, types.Building, ecs.Props{"PowerGen": 100})

	barracks := w.CreateEntity()
	ecs.AddComponent(barracks, types.Owner, ecs.Props{"PlayerID": 1})
	ecs.AddComponent(barracks, types.Building, ecs.Props{"PowerDraw": 20})

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)

	p := pm.GetPlayer(1)
	if p.Power != 100 {
		t.Errorf("Power = %d, want 100", p.Power)
	}
	if p.PowerUse != 20 {
		t.Errorf("PowerUse = %d, want 20", p.PowerUse)
	}
	if !p.HasPower() {
		t.Error("player with 100 power and 20 draw should have sufficient power")
	}
}
