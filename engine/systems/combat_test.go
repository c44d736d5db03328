package systems

import (
	"testing"

	"github.com/1siamBot/ecsim/components"
	"github.com/1siamBot/ecsim/ecs"
	"github.com/1siamBot/ecsim/engine/core"
)

func TestApplyDamageAppliesArmorReduction(t *testing.T) {
	w, types := newTestWorld(t)
	target := w.CreateEntity()
	ecs.AddComponent(target, types.Health, ecs.Props{"Current": 100, "Max": 100})
	ecs.AddComponent(target, types.Armor, ecs.Props{"ArmorType": components.ArmorHeavy, "Value": 10})

	// Kinetic vs Heavy armor: multiplier 0.4 (see DamageMultiplier table).
	ApplyDamage(w, types, target, 50, components.DmgKinetic, nil)

	hp, _ := ecs.GetComponent(target, types.Health)
	// (50-10)*0.4 = 16
	if hp.Current != 84 {
		t.Errorf("Health.Current = %d, want 84 (100 - 16)", hp.Current)
	}
}

func TestApplyDamageMinimumOneDamage(t *testing.T) {
	w, types := newTestWorld(t)
	target := w.CreateEntity()
	ecs.AddComponent(target, types.Health, ecs.Props{"Current": 10, "Max": 10})
	ecs.AddComponent(target, types.Armor, ecs.Props{"ArmorType": components.ArmorHeavy, "Value": 1000})

	ApplyDamage(w, types, target, 5, components.DmgKinetic, nil)

	hp, _ := ecs.GetComponent(target, types.Health)
	if hp.Current != 9 {
		t.Errorf("Health.Current = %d, want 9 (damage floored at 1)", hp.Current)
	}
}

func TestApplyDamageDisposesOnDeathAndEmits(t *testing.T) {
	w, types := newTestWorld(t)
	bus := ecs.NewEventBus()
	destroyed := false
	bus.On(components.EvtUnitDestroyed, func(any) { destroyed = true })

	target := w.CreateEntity()
	ecs.AddComponent(target, types.Health, ecs.Props{"Current": 5, "Max": 100})

	ApplyDamage(w, types, target, 50, components.DmgKinetic, bus)

	hp, _ := ecs.GetComponent(target, types.Health)
	if hp.Current != 0 {
		t.Errorf("Health.Current = %d, want 0 (clamped, not negative)", hp.Current)
	}
	if target.State() != ecs.StateRemoved {
		t.Errorf("target state = %v, want StateRemoved (deferred disposal)", target.State())
	}
	if !destroyed {
		t.Error("EvtUnitDestroyed should fire when health reaches zero")
	}
}

func TestApplyDamageNoArmorUsesRawDamage(t *testing.T) {
	w, types := newTestWorld(t)
	target := w.CreateEntity()
	ecs.AddComponent(target, types.Health, ecs.Props{"Current": 100, "Max": 100})

	ApplyDamage(w, types, target, 30, components.DmgFire, nil)

	hp, _ := ecs.GetComponent(target, types.Health)
	if hp.Current != 70 {
		t.Errorf("Health.Current = %d, want 70 (no armor component present)", hp.Current)
	}
}

func TestCombatSystemInstantHitWithoutProjectile(t *testing.T) {
	w, types := newTestWorld(t)
	pm := core.NewPlayerManager()
	pm.AddPlayer(&core.Player{ID: 1, TeamID: 1})
	pm.AddPlayer(&core.Player{ID: 2, TeamID: 2})
	w.RegisterSystem(&CombatSystem{Types: types, Players: pm, World: w})

	attacker := w.CreateEntity()
	ecs.AddComponent(attacker, types.Position, ecs.Props{"X": 0.0, "Y": 0.0})
	ecs.AddComponent(attacker, types.Owner, ecs.Props{"PlayerID": 1, "TeamID": 1})
	ecs.AddComponent(attacker, types.Weapon, ecs.Props{"Damage": 20, "Range": 10.0, "Cooldown": 1.0})

	target := w.CreateEntity()
	ecs.AddComponent(target, types.Position, ecs.Props{"X": 1.0, "Y": 0.0})
	ecs.AddComponent(target, types.Owner, ecs.Props{"PlayerID": 2, "TeamID": 2})
	ecs.AddComponent(target, types.Health, ecs.Props{"Current": 100, "Max": 100})

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)

	hp, _ := ecs.GetComponent(target, types.Health)
	if hp.Current != 80 {
		t.Errorf("Health.Current = %d, want 80 after one hitscan shot", hp.Current)
	}
}
