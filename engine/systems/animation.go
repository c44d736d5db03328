package systems

import (
	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

// AnimationSystem advances sprite animation frames. Grounded on
// AnimationSystem.Update.
type AnimationSystem struct {
	ecs.Base
	Types *components.Types
}

func (s *AnimationSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "animated", Elements: []ecs.QueryElement{s.Types.Anim.El(), s.Types.Sprite.El()}},
	}
}

const maxAnimFrames = 8

func (s *AnimationSystem) Execute(dt, _ float64) {
	for _, e := range s.Results("animated") {
		anim, _ := ecs.GetMutableComponent(e, s.Types.Anim)
		sprite, _ := ecs.GetMutableComponent(e, s.Types.Sprite)

		if anim.Finished || anim.Speed <= 0 {
			continue
		}

		anim.Timer += dt
		frameDur := 1.0 / anim.Speed
		if anim.Timer >= frameDur {
			anim.Timer -= frameDur
			anim.Frame++
			sprite.FrameX = anim.Frame

			if anim.Frame >= maxAnimFrames {
				if anim.Loop {
					anim.Frame = 0
					sprite.FrameX = 0
				} else {
					anim.Finished = true
					anim.Frame = maxAnimFrames - 1
				}
			}
		}
	}
}

// VeterancySystem tallies kills per entity destroyed, reacting to
// EvtUnitDestroyed rather than polling every tick.
type VeterancySystem struct {
	ecs.Base
	EventBus *ecs.EventBus
	Kills    int
}

func (s *VeterancySystem) Init() {
	if s.EventBus != nil {
		s.EventBus.On(components.EvtUnitDestroyed, func(any) {
			s.Kills++
		})
	}
}

func (s *VeterancySystem) QuerySpecs() []ecs.QuerySpec { return nil }

func (s *VeterancySystem) Execute(_, _ float64) {}

// GameOverSystem checks if any player has lost all buildings and units.
// Grounded on GameOverSystem.Update.
type GameOverSystem struct {
	ecs.Base
	Types   *components.Types
	Players *core.PlayerManager
}

func (s *GameOverSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "buildings", Elements: []ecs.QueryElement{s.Types.Building.El(), s.Types.Owner.El()}},
		{Name: "units", Elements: []ecs.QueryElement{s.Types.Owner.El(), s.Types.Movable.El()}},
	}
}

func (s *GameOverSystem) Execute(_, _ float64) {
	s.Players.SyncDefeatStatus(s.Results("buildings"), s.Results("units"), s.Types)
}
