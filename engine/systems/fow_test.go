package systems

import (
	"testing"

	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

func TestFogOfWarAtOutOfBoundsIsShroud(t *testing.T) {
	f := NewFogOfWar(10, 10, 1)
	if f.At(-1, 0) != FogShroud || f.At(0, -1) != FogShroud || f.At(10, 0) != FogShroud {
		t.Error("out-of-bounds tiles should report FogShroud")
	}
}

func TestFogSystemRevealsAroundSeerAndDemotesOldVisibility(t *testing.T) {
	w, types := newTestWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1})

	fs := NewFogSystem(20, 20, pm)
	fs.Types = types
	w.RegisterSystem(fs)

	seer := w.CreateEntity()
	ecs.AddComponent(seer, types.Position, ecs.Props{"X": 5.0, "Y": 5.0})
	ecs.AddComponent(seer, types.Owner, ecs.Props{"PlayerID": 1})
	ecs.AddComponent(seer, types.FogVision, ecs.Props{"Range": 3})

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)

	fog := fs.Fogs[1]
	if !fog.IsVisible(5, 5) {
		t.Fatal("tile under the seer should be visible")
	}
	if fog.At(19, 19) != FogShroud {
		t.Error("a far tile should remain shrouded")
	}

	// Move the seer away; the previously visible tile should demote to
	// explored (not revert to shroud) on the next tick.
	pos, _ := ecs.GetMutableComponent(seer, types.Position)
	pos.X, pos.Y = 0, 0
	w.Execute(&dt, &tm)

	if fog.At(5, 5) != FogExplored {
		t.Errorf("At(5,5) = %v, want FogExplored after the seer moves away", fog.At(5, 5))
	}
}

func TestFogSystemSharesVisionBetweenAllies(t *testing.T) {
	w, types := newTestWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, TeamID: 1})
	pm.AddPlayer(&core.Player{ID: 2, TeamID: 1}) // same team: allies

	fs := NewFogSystem(20, 20, pm)
	fs.Types = types
	w.RegisterSystem(fs)

	seer := w.CreateEntity()
	ecs.AddComponent(seer, types.Position, ecs.Props{"X": 5.0, "Y": 5.0})
	ecs.AddComponent(seer, types.Owner, ecs.Props{"PlayerID": 1})
	ecs.AddComponent(seer, types.FogVision, ecs.Props{"Range": 2})

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)

	if !fs.Fogs[2].IsVisible(5, 5) {
		t.Error("an allied player's fog should also be revealed by the seer")
	}
}
