package ecs

// LifecycleState is one of an entity's four states (spec.md §4.2).
type LifecycleState uint8

const (
	StateDetached LifecycleState = iota
	StateActive
	StateRemoved
	StateDead
)

func (s LifecycleState) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateActive:
		return "active"
	case StateRemoved:
		return "removed"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

type componentBox struct {
	ptr any
	ct  *componentType
}

// Entity holds a stable identifier plus the live and pending-removal
// component sets, the query back-reference list required by I2, and the
// system-state counter that drives the ghost rule (I5). Grounded on
// engine/core/ecs.go's World.entities map, generalized from a world-owned
// nested map into a self-contained struct so it can carry its own query
// back-references.
type Entity struct {
	uuid             string
	world            *World
	state            LifecycleState
	components       map[uint32]componentBox
	pending          map[uint32]componentBox
	pendingOrder     []uint32
	queryIndexQueued bool // queued on world.componentsToRemove
	queries          []*Query
	systemStateCount int
}

func newEntity(w *World) *Entity {
	return &Entity{
		uuid:       newUUID(),
		world:      w,
		state:      StateDetached,
		components: make(map[uint32]componentBox),
		pending:    make(map[uint32]componentBox),
	}
}

// UUID returns the entity's stable 36-character hex identifier.
func (e *Entity) UUID() string { return e.uuid }

// State returns the entity's current lifecycle state.
func (e *Entity) State() LifecycleState { return e.state }

func (e *Entity) hasLive(id uint32) bool {
	_, ok := e.components[id]
	return ok
}

// HasComponent reports whether name is currently attached. When
// includeRemoved is true, a component queued for deferred removal also
// counts.
func (e *Entity) HasComponent(name string, includeRemoved bool) bool {
	ct, ok := e.world.components.byName[name]
	if !ok {
		return false
	}
	if _, ok := e.components[ct.id]; ok {
		return true
	}
	if includeRemoved {
		_, ok := e.pending[ct.id]
		return ok
	}
	return false
}

// HasAllComponents reports whether every named type is attached.
func (e *Entity) HasAllComponents(names ...string) bool {
	for _, n := range names {
		if !e.HasComponent(n, false) {
			return false
		}
	}
	return true
}

// HasAnyComponents reports whether at least one named type is attached.
func (e *Entity) HasAnyComponents(names ...string) bool {
	for _, n := range names {
		if e.HasComponent(n, false) {
			return true
		}
	}
	return false
}

// GetComponents returns the live component instances attached to e, in no
// particular order.
func (e *Entity) GetComponents() []any {
	out := make([]any, 0, len(e.components))
	for _, box := range e.components {
		out = append(out, box.ptr)
	}
	return out
}

// GetComponentTypes returns the names of the live component types attached
// to e, in no particular order.
func (e *Entity) GetComponentTypes() []string {
	out := make([]string, 0, len(e.components))
	for _, box := range e.components {
		out = append(out, box.ct.name)
	}
	return out
}

// RemoveAllComponents detaches every live component, immediate or deferred.
func (e *Entity) RemoveAllComponents(immediate bool) {
	ids := make([]uint32, 0, len(e.components))
	for id := range e.components {
		ids = append(ids, id)
	}
	for _, id := range ids {
		removeComponentByID(e, id, immediate)
	}
}

// removeNonSystemStateComponents detaches every live component except the
// system-state ones, leaving the latter attached so systemStateCount still
// reflects what's keeping the entity ghosted.
func (e *Entity) removeNonSystemStateComponents(immediate bool) {
	ids := make([]uint32, 0, len(e.components))
	for id, box := range e.components {
		if !box.ct.isSystemState {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		removeComponentByID(e, id, immediate)
	}
}

// Dispose tears the entity down. dispose(true) performs the full teardown
// in place; dispose(false) enqueues the entity for the end-of-tick drain.
// The ghost rule (I5) defers final disposal while systemStateCount > 0: the
// entity itself survives as a ghost in StateRemoved, but every other
// component still detaches per spec.md §8 scenario 5. Removing the last
// system-state component later completes the teardown (removeComponentCore
// calls disposeNow once systemStateCount reaches 0 on a non-active entity).
func (e *Entity) Dispose(immediate bool) {
	if e.systemStateCount > 0 {
		if e.state == StateDetached {
			return
		}
		e.removeNonSystemStateComponents(immediate)
		e.state = StateRemoved
		return
	}
	if immediate {
		e.disposeNow()
		return
	}
	if e.state == StateDead {
		return
	}
	e.state = StateRemoved
	e.world.queueEntityDisposal(e)
}

func (e *Entity) disposeNow() {
	processRemovedComponents(e)
	e.RemoveAllComponents(true)
	e.world.queryIndexRef().removeEntityFromAllQueries(e)
	e.world.releaseEntity(e)
	e.state = StateDead
}

// Copy overlays every live component's field values onto the matching
// component types on dst, deep-copying via each schema's Clone function
// (P3). dst must already carry (or be able to carry) the same component
// types as e.
func (e *Entity) Copy(dst *Entity) {
	for id, box := range e.components {
		cloned := box.ct.cloneFn(box.ptr)
		attachCloned(dst, box.ct, cloned)
		_ = id
	}
}

// Clone creates a new active entity in the same world with a deep copy of
// e's current live components.
func (e *Entity) Clone() *Entity {
	clone := e.world.CreateEntity()
	e.Copy(clone)
	return clone
}
