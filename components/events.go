package components

import "github.com/1siamBot/ecsim/ecs"

// Domain event names published on a shared ecs.EventBus by the gameplay
// systems (combat, production, harvesting). Generalized from the source's
// EventType enum + Event{Type,Tick,Payload} struct into string-keyed
// ecs.EventBus traffic, consistent with how the core itself reports
// ENTITY_ADDED/REMOVED/COMPONENT_CHANGED.
const (
	EvtUnitCreated       = "unit-created"
	EvtUnitDestroyed     = "unit-destroyed"
	EvtUnitAttack        = "unit-attack"
	EvtProjectileHit     = "projectile-hit"
	EvtResourceHarvested = "resource-harvested"
)

// TickEvent is the common payload shape for the events above: which entity
// the event concerns and at what simulation time it fired.
type TickEvent struct {
	Entity *ecs.Entity
	Time   float64
}
