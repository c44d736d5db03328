package systems

import (
	"math"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

// DamageMultiplier is indexed [DamageType][ArmorType].
var DamageMultiplier = [5][5]float64{
	// None   Light  Medium Heavy  Building
	{1.0, 1.0, 0.7, 0.4, 0.3}, // Kinetic
	{1.2, 0.8, 1.0, 1.2, 1.5}, // Explosive
	{1.5, 1.3, 0.9, 0.6, 0.8}, // Fire
	{1.0, 1.5, 1.2, 0.8, 0.5}, // Electric
	{1.3, 1.1, 1.1, 1.0, 1.0}, // Radiation
}

// CombatSystem processes weapon cooldowns and auto-attack. Grounded on
// CombatSystem.Update, generalized to ecs queries and an ecs.EventBus in
// place of the source's typed core.EventBus.
type CombatSystem struct {
	ecs.Base
	Types    *components.Types
	Players  *core.PlayerManager
	EventBus *ecs.EventBus
	World    *ecs.World
}

func (s *CombatSystem) QuerySpecs() []ecs.QuerySpec {
	return []ecs.QuerySpec{
		{Name: "attackers", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Weapon.El(), s.Types.Owner.El()}},
		{Name: "targets", Elements: []ecs.QueryElement{s.Types.Position.El(), s.Types.Health.El(), s.Types.Owner.El()}},
	}
}

func (s *CombatSystem) Execute(dt, t float64) {
	attackers := s.Results("attackers")
	targets := s.Results("targets")

	for _, a := range attackers {
		wep, _ := ecs.GetMutableComponent(a, s.Types.Weapon)
		if wep.CooldownNow > 0 {
			wep.CooldownNow -= dt
			continue
		}

		apos, _ := ecs.GetComponent(a, s.Types.Position)
		aown, _ := ecs.GetComponent(a, s.Types.Owner)

		var best *ecs.Entity
		bestDist := math.MaxFloat64
		for _, tgt := range targets {
			if tgt == a {
				continue
			}
			town, _ := ecs.GetComponent(tgt, s.Types.Owner)
			if s.Players.AreAllies(aown.PlayerID, town.PlayerID) {
				continue
			}
			tpos, _ := ecs.GetComponent(tgt, s.Types.Position)
			d := distance(apos.X, apos.Y, tpos.X, tpos.Y)
			if d <= wep.Range && d < bestDist {
				bestDist = d
				best = tgt
			}
		}
		if best == nil {
			continue
		}

		wep.CooldownNow = wep.Cooldown
		tpos, _ := ecs.GetComponent(best, s.Types.Position)

		if wep.Projectile != "" {
			p := s.World.CreateEntity()
			ecs.AddComponent(p, s.Types.Position, ecs.Props{"X": apos.X, "Y": apos.Y})
			ecs.AddComponent(p, s.Types.Projectile, ecs.Props{
				"Source":  a,
				"Target":  best,
				"TargetX": tpos.X,
				"TargetY": tpos.Y,
				"Speed":   8.0,
				"Damage":  wep.Damage,
				"Splash":  wep.Splash,
				"DmgType": wep.DamageType,
				"HitFX":   "explosion",
			})
		} else {
			ApplyDamage(s.World, s.Types, best, wep.Damage, wep.DamageType, s.EventBus)
		}

		if s.EventBus != nil {
			s.EventBus.Emit(components.EvtUnitAttack, components.TickEvent{Entity: a, Time: t})
		}
	}
}

func distance(x1, y1, x2, y2 float64) float64 {
	dx, dy := x1-x2, y1-y2
	return math.Sqrt(dx*dx + dy*dy)
}

// ApplyDamage applies damage to target, accounting for armor, and disposes
// it when health reaches zero.
func ApplyDamage(w *ecs.World, types *components.Types, target *ecs.Entity, baseDamage int, dmgType components.DamageType, bus *ecs.EventBus) {
	hp, ok := ecs.GetMutableComponent(target, types.Health)
	if !ok {
		return
	}

	mult := 1.0
	if arm, ok := ecs.GetComponent(target, types.Armor); ok {
		if int(dmgType) < 5 && int(arm.ArmorType) < 5 {
			mult = DamageMultiplier[dmgType][arm.ArmorType]
		}
		baseDamage -= arm.Value
		if baseDamage < 1 {
			baseDamage = 1
		}
	}

	finalDmg := int(float64(baseDamage) * mult)
	if finalDmg < 1 {
		finalDmg = 1
	}
	hp.Current -= finalDmg

	if hp.Current <= 0 {
		hp.Current = 0
		target.Dispose(false)
		if bus != nil {
			bus.Emit(components.EvtUnitDestroyed, components.TickEvent{Entity: target})
		}
	}
}
