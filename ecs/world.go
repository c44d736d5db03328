package ecs

import "reflect"

// WorldCreatedEvent is the payload handed to WorldConfig.OnWorldCreated.
// Mirrors the source's process-wide "world-created" notification, modeled
// instead as an injectable listener on construction (spec.md §9 Design
// Notes: "Global dispatch bus").
type WorldCreatedEvent struct {
	World   *World
	Version string
}

// WorldConfig configures World construction. Grounded on the teacher's small
// constructor-parameter configs (core.NewGameLoop(tickRate),
// render.NewIsoRenderer(w, h)) rather than a config-file library — nothing
// in the retrieval pack's ECS-shaped code reads structured config files.
type WorldConfig struct {
	// InitialEntityCapacity pre-sizes the world's entity list.
	InitialEntityCapacity int
	// Now returns the current wall-clock time in milliseconds. The core
	// treats the clock as an external collaborator (spec.md §1); Execute
	// falls back to this when delta is omitted.
	Now func() int64
	// OnWorldCreated, if set, is invoked once at the end of NewWorld.
	OnWorldCreated func(WorldCreatedEvent)
	// Version is forwarded verbatim into WorldCreatedEvent.
	Version string
	// Kinds lets client code register a Kind for a specific Go type at
	// world-construction time (spec.md §9: "Dynamic schema kinds").
	Kinds map[reflect.Type]Kind
}

type componentRegistry struct {
	nextID uint32
	byID   map[uint32]*componentType
	byName map[string]*componentType
}

// World is the public façade owning the system manager, the entity registry,
// the component-type registry, the query index, and the deferred-removal
// queues (spec.md §4.6). Grounded on engine/core.GameLoop's fixed-timestep
// accumulator loop (Play/Pause), generalized to the spec's execute(delta?,
// time?) contract with an external now() instead of time.Now().
type World struct {
	config      WorldConfig
	components  componentRegistry
	systems     *SystemManager
	diagnostics *Diagnostics
	queries     *queryIndex

	entitiesByUUID map[string]*Entity
	entities       []*Entity
	entityFreeList []*Entity

	entitiesToDispose             []*Entity
	entitiesWithComponentsToRemove []*Entity

	enabled  bool
	lastTime int64
}

// NewWorld constructs a World. On construction, if cfg.OnWorldCreated is
// set, it is invoked with a WorldCreatedEvent (spec.md §4.6).
func NewWorld(cfg WorldConfig) *World {
	w := &World{
		config: cfg,
		components: componentRegistry{
			byID:   make(map[uint32]*componentType),
			byName: make(map[string]*componentType),
		},
		diagnostics:    newDiagnostics(),
		queries:        newQueryIndex(),
		entitiesByUUID: make(map[string]*Entity),
		enabled:        true,
	}
	w.systems = newSystemManager(w)
	if cap := cfg.InitialEntityCapacity; cap > 0 {
		w.entities = make([]*Entity, 0, cap)
	}
	if cfg.OnWorldCreated != nil {
		cfg.OnWorldCreated(WorldCreatedEvent{World: w, Version: cfg.Version})
	}
	return w
}

func (w *World) queryIndexRef() *queryIndex { return w.queries }

// Diagnostics returns the world's recoverable-warning sink (spec.md §7).
func (w *World) Diagnostics() *Diagnostics { return w.diagnostics }

// CreateEntity creates a new active entity, visible to queries immediately.
func (w *World) CreateEntity() *Entity {
	e := w.acquireEntity()
	e.state = StateActive
	w.entitiesByUUID[e.uuid] = e
	w.entities = append(w.entities, e)
	return e
}

// CreateDetachedEntity creates an entity that is not yet visible to queries.
// Use AddEntity to make it active.
func (w *World) CreateDetachedEntity() *Entity {
	e := w.acquireEntity()
	e.state = StateDetached
	return e
}

// AddEntity adopts a detached entity, making it active and visible to
// queries. Adding an already-tracked entity is a non-fatal warning that
// returns the existing tracked entity (spec.md §4.7).
func (w *World) AddEntity(e *Entity) *Entity {
	if existing, ok := w.entitiesByUUID[e.uuid]; ok {
		w.diagnostics.warn(DuplicateEntity, "entity %s already tracked", e.uuid)
		return existing
	}
	e.state = StateActive
	w.entitiesByUUID[e.uuid] = e
	w.entities = append(w.entities, e)
	for _, q := range w.queries.all {
		if q.match(e) {
			q.add(e, false)
		}
	}
	return e
}

// GetEntityByUUID looks up a tracked entity by its identifier.
func (w *World) GetEntityByUUID(id string) (*Entity, bool) {
	e, ok := w.entitiesByUUID[id]
	return e, ok
}

func (w *World) acquireEntity() *Entity {
	if n := len(w.entityFreeList); n > 0 {
		e := w.entityFreeList[n-1]
		w.entityFreeList = w.entityFreeList[:n-1]
		e.uuid = newUUID()
		e.components = make(map[uint32]componentBox)
		e.pending = make(map[uint32]componentBox)
		e.pendingOrder = nil
		e.queries = nil
		e.systemStateCount = 0
		e.queryIndexQueued = false
		return e
	}
	return newEntity(w)
}

func (w *World) releaseEntity(e *Entity) {
	delete(w.entitiesByUUID, e.uuid)
	for i, cur := range w.entities {
		if cur == e {
			last := len(w.entities) - 1
			w.entities[i] = w.entities[last]
			w.entities = w.entities[:last]
			break
		}
	}
	w.entityFreeList = append(w.entityFreeList, e)
}

func (w *World) queueEntityDisposal(e *Entity) {
	w.entitiesToDispose = append(w.entitiesToDispose, e)
}

func (w *World) queueComponentRemoval(e *Entity) {
	w.entitiesWithComponentsToRemove = append(w.entitiesWithComponentsToRemove, e)
}

// drain flushes deferred entity disposals, then deferred per-entity
// component removals, in insertion order (spec.md §5).
func (w *World) drain() {
	toDispose := w.entitiesToDispose
	w.entitiesToDispose = nil
	for _, e := range toDispose {
		if e.state != StateRemoved {
			continue
		}
		e.disposeNow()
	}

	toProcess := w.entitiesWithComponentsToRemove
	w.entitiesWithComponentsToRemove = nil
	for _, e := range toProcess {
		if e.state == StateDead {
			continue
		}
		processRemovedComponents(e)
	}
}

// GetQuery resolves elements to a shared Query (P1). Building a query with
// an empty inclusion set is a fatal InvalidArgumentError.
func (w *World) GetQuery(elements ...QueryElement) (*Query, error) {
	return w.queries.getOrCreate(w.entities, elements)
}

// Systems returns the world's SystemManager.
func (w *World) Systems() *SystemManager { return w.systems }

// Stop disables execution: subsequent Execute calls skip stepping until Play.
func (w *World) Stop() { w.enabled = false }

// Play (re-)enables execution.
func (w *World) Play() { w.enabled = true }

// Enabled reports whether the world currently executes on tick.
func (w *World) Enabled() bool { return w.enabled }

// Execute runs one tick: orders and runs enabled systems, then drains
// deferred entity disposals and component removals (spec.md §4.5, §4.6). If
// delta is omitted (nil), it is derived from Now() - lastTime. A stopped
// world returns immediately without stepping.
func (w *World) Execute(delta *float64, time *int64) {
	var t int64
	if time != nil {
		t = *time
	} else if w.config.Now != nil {
		t = w.config.Now()
	}

	var dt float64
	if delta != nil {
		dt = *delta
	} else if w.config.Now != nil {
		dt = float64(t-w.lastTime) / 1000.0
	}
	w.lastTime = t

	if !w.enabled {
		return
	}

	w.systems.executeAll(dt, float64(t))
	w.drain()
}

// Stats aggregates world- and system-level counters (spec.md §4.5, §6).
type Stats struct {
	EntityCount     int
	ComponentTypes  int
	SystemStats     []SystemStats
}

// Stats returns a snapshot of world and system-manager statistics.
func (w *World) Stats() Stats {
	return Stats{
		EntityCount:    len(w.entities),
		ComponentTypes: len(w.components.byID),
		SystemStats:    w.systems.stats(),
	}
}
