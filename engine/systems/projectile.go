package systems

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
)

// ProjectileSystem moves projectiles and resolves impact damage. Grounded
// on ProjectileSystem.Update.
type ProjectileSystem struct {
	ecs.Base
	Types    *components.Types
	EventBus *ecs.EventBus
	World    *ecs.World
}

func (s *ProjectileSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "projectiles", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Projectile.El()}},
		{Name: "targets", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Health.El()}},
	}
}

func (s *ProjectileSystem) Execute(dt, _ float64) {
	projectiles := s.Results("projectiles")
	targets := s.Results("targets")

	for _, p := range projectiles {
		pos, _ := ecs.GetMutableComponent(p, s.Types.Position)
		proj, _ := ecs.GetMutableComponent(p, s.Types.Projectile)

		if proj.Target != nil && proj.Target.State() != ecs.StateActive {
			proj.Target = nil
		}
		if proj.Target != nil {
			if tpos, ok := ecs.GetComponent(proj.Target, s.Types.Position); ok {
				proj.TargetX = tpos.X
				proj.TargetY = tpos.Y
			}
		}

		dx := proj.TargetX - pos.X
		dy := proj.TargetY - pos.Y
		dist := math.Sqrt(dx*dx + dy*dy)

		if dist < 0.3 {
			if proj.Splash > 0 {
				for _, tgt := range targets {
					if tgt == p {
						continue
					}
					tpos, _ := ecs.GetComponent(tgt, s.Types.Position)
					d := distance(tpos.X, tpos.Y, pos.X, pos.Y)
					if d <= proj.Splash {
						scale := 1.0 - d/proj.Splash
						dmg := int(float64(proj.Damage) * scale)
						if dmg < 1 {
							dmg = 1
						}
						ApplyDamage(s.World, s.Types, tgt, dmg, proj.DmgType, s.EventBus)
					}
				}
			} else if proj.Target != nil {
				ApplyDamage(s.World, s.Types, proj.Target, proj.Damage, proj.DmgType, s.EventBus)
			}
			if s.EventBus != nil {
				s.EventBus.Emit(components.EvtProjectileHit, components.TickEvent{Entity: p})
			}
			p.Dispose(false)
			continue
		}

		speed := proj.Speed * dt
		pos.X += dx / dist * speed
		pos.Y += dy / dist * speed
		pos.Facing = math.Atan2(dy, dx)
	}
}
