package ecs

import (
	"reflect"
	"sort"
	"time"
)

// ListenSpec controls whether a query produces reactive per-tick buckets
// (spec.md §4.5).
type ListenSpec struct {
	Added   bool
	Removed bool
	// Changed, when true with no ChangedTypes, makes the query reactive to
	// mutation of any of its inclusion components.
	Changed bool
	// ChangedTypes, when non-empty, also makes the query reactive but
	// restricts the changed bucket to mutations of these component types.
	ChangedTypes []QueryElement
}

// QuerySpec declares one named query a system depends on.
type QuerySpec struct {
	Name      string
	Elements  []QueryElement
	Mandatory bool
	Listen    ListenSpec
}

// Descriptor is implemented by systems that declare queries.
type Descriptor interface {
	QuerySpecs() []QuerySpec
}

// Initializer is implemented by systems with one-time setup, run once at
// registration.
type Initializer interface {
	Init()
}

// Executor is implemented by systems that run every tick. Only systems
// implementing Executor are placed in the ordered execution list.
type Executor interface {
	Execute(delta, time float64)
}

type boundQuery struct {
	spec       QuerySpec
	query      *Query
	added      []*Entity
	removed    []*Entity
	changed    []*Entity
	addedSet   map[string]bool
	removedSet map[string]bool
	changedSet map[string]bool
}

// Base is embedded by concrete systems to gain the query-result accessors
// spec.md §4.5 describes as a per-local-name `{results, added, removed,
// changed}` record. A system's exported fields normally sit alongside this
// embed, e.g.:
//
//	type MovementSystem struct {
//	    ecs.Base
//	    NavGrid *pathfind.NavGrid
//	}
type Base struct {
	world   *World
	queries map[string]*boundQuery
}

// World returns the world the system was registered against.
func (b *Base) World() *World { return b.world }

// Results returns the current entity list for the named query.
func (b *Base) Results(name string) []*Entity {
	if bq, ok := b.queries[name]; ok {
		return bq.query.Entities()
	}
	return nil
}

// Added returns the entities added to the named query since the last call
// to this system's own Execute.
func (b *Base) Added(name string) []*Entity {
	if bq, ok := b.queries[name]; ok {
		return bq.added
	}
	return nil
}

// Removed returns the entities removed from the named query since the last
// call to this system's own Execute.
func (b *Base) Removed(name string) []*Entity {
	if bq, ok := b.queries[name]; ok {
		return bq.removed
	}
	return nil
}

// Changed returns the entities mutated within the named query's filter
// since the last call to this system's own Execute.
func (b *Base) Changed(name string) []*Entity {
	if bq, ok := b.queries[name]; ok {
		return bq.changed
	}
	return nil
}

func (b *Base) setBase(nb *Base) { *b = *nb }

func (b *Base) clearEvents() {
	for _, bq := range b.queries {
		bq.added = bq.added[:0]
		bq.removed = bq.removed[:0]
		bq.changed = bq.changed[:0]
		for k := range bq.addedSet {
			delete(bq.addedSet, k)
		}
		for k := range bq.removedSet {
			delete(bq.removedSet, k)
		}
		for k := range bq.changedSet {
			delete(bq.changedSet, k)
		}
	}
}

func (b *Base) canExecute() bool {
	for _, bq := range b.queries {
		if bq.spec.Mandatory && len(bq.query.Entities()) == 0 {
			return false
		}
	}
	return true
}

type baseInjector interface {
	setBase(*Base)
}

// SystemAttributes configures RegisterSystem. Priority defaults to 0; lower
// values run earlier (spec.md §4.5's ascending (priority,
// registration-order)).
type SystemAttributes struct {
	Priority int
}

type registeredSystem struct {
	base      *Base
	sys       any
	typ       reflect.Type
	priority  int
	order     int
	executor  Executor
	enabled   bool
	forcePlay bool
	elapsed   time.Duration
}

// SystemStats is one system's aggregate execution statistics.
type SystemStats struct {
	Name      string
	Priority  int
	ElapsedMS float64
	Enabled   bool
}

// SystemManager orders systems and drives their execution (spec.md §4.5).
type SystemManager struct {
	world   *World
	byType  map[reflect.Type]*registeredSystem
	ordered []*registeredSystem
	all     []*registeredSystem
}

func newSystemManager(w *World) *SystemManager {
	return &SystemManager{world: w, byType: make(map[reflect.Type]*registeredSystem)}
}

// RegisterSystem registers sys, resolving its declared queries through the
// world's query index and, for systems implementing Executor, placing it in
// the ordered execution list. Registering the same concrete system type
// twice is a non-fatal warning; the second call is a no-op returning the
// first-registered instance (spec.md §4.7).
func (sm *SystemManager) RegisterSystem(sys any, attrs ...SystemAttributes) any {
	t := reflect.TypeOf(sys)
	if existing, ok := sm.byType[t]; ok {
		sm.world.diagnostics.warn(DuplicateRegistration, "system %s already registered", t)
		return existing.sys
	}

	var attr SystemAttributes
	if len(attrs) > 0 {
		attr = attrs[0]
	}

	base := &Base{world: sm.world, queries: make(map[string]*boundQuery)}
	if inj, ok := sys.(baseInjector); ok {
		inj.setBase(base)
	}

	rs := &registeredSystem{base: base, sys: sys, typ: t, priority: attr.Priority, order: len(sm.all), enabled: true}

	if desc, ok := sys.(Descriptor); ok {
		for _, spec := range desc.QuerySpecs() {
			q, err := sm.world.GetQuery(spec.Elements...)
			if err != nil {
				panic(err)
			}
			bq := &boundQuery{
				spec:       spec,
				query:      q,
				addedSet:   make(map[string]bool),
				removedSet: make(map[string]bool),
				changedSet: make(map[string]bool),
			}
			base.queries[spec.Name] = bq
			wireListeners(q, bq, spec.Listen)
		}
	}

	if init, ok := sys.(Initializer); ok {
		init.Init()
	}

	if exec, ok := sys.(Executor); ok {
		rs.executor = exec
		sm.insertOrdered(rs)
	}
	sm.all = append(sm.all, rs)
	sm.byType[t] = rs
	return sys
}

func wireListeners(q *Query, bq *boundQuery, listen ListenSpec) {
	if listen.Added {
		q.bus.On(eventEntityAdded, func(p any) {
			e := p.(*Entity)
			if !bq.addedSet[e.uuid] {
				bq.addedSet[e.uuid] = true
				bq.added = append(bq.added, e)
			}
		})
	}
	if listen.Removed {
		q.bus.On(eventEntityRemoved, func(p any) {
			e := p.(*Entity)
			if !bq.removedSet[e.uuid] {
				bq.removedSet[e.uuid] = true
				bq.removed = append(bq.removed, e)
			}
		})
	}
	if listen.Changed || len(listen.ChangedTypes) > 0 {
		q.reactive = true
		var filter map[uint32]bool
		if len(listen.ChangedTypes) > 0 {
			filter = make(map[uint32]bool, len(listen.ChangedTypes))
			for _, el := range listen.ChangedTypes {
				filter[el.ref.id] = true
			}
		}
		q.bus.On(eventComponentChanged, func(p any) {
			cp := p.(changedPayload)
			if filter != nil && !filter[cp.ct.id] {
				return
			}
			if !bq.changedSet[cp.entity.uuid] {
				bq.changedSet[cp.entity.uuid] = true
				bq.changed = append(bq.changed, cp.entity)
			}
		})
	}
}

func (sm *SystemManager) insertOrdered(rs *registeredSystem) {
	sm.ordered = append(sm.ordered, rs)
	sort.SliceStable(sm.ordered, func(i, j int) bool {
		return sm.ordered[i].priority < sm.ordered[j].priority
	})
}

// SetEnabled toggles whether an individual system participates in
// execution, independent of World.Stop/Play.
func (sm *SystemManager) SetEnabled(sys any, enabled bool) {
	if rs, ok := sm.byType[reflect.TypeOf(sys)]; ok {
		rs.enabled = enabled
	}
}

// SetForcePlay makes a system execute even while disabled.
func (sm *SystemManager) SetForcePlay(sys any, forcePlay bool) {
	if rs, ok := sm.byType[reflect.TypeOf(sys)]; ok {
		rs.forcePlay = forcePlay
	}
}

// executeAll runs every enabled, executable system in priority order, then
// clears its per-tick event buckets (spec.md §4.5 step 1). A system that
// panics is caught and recorded on Diagnostics; the tick continues.
func (sm *SystemManager) executeAll(delta, t float64) {
	for _, rs := range sm.ordered {
		if !rs.enabled && !rs.forcePlay {
			continue
		}
		if !rs.base.canExecute() {
			continue
		}
		sm.runOne(rs, delta, t)
	}
}

func (sm *SystemManager) runOne(rs *registeredSystem, delta, t float64) {
	start := time.Now()
	defer func() {
		rs.elapsed = time.Since(start)
		rs.base.clearEvents()
		if r := recover(); r != nil {
			sm.world.diagnostics.warn(SystemPanic, "system %s panicked: %v", rs.typ, r)
		}
	}()
	rs.executor.Execute(delta, t)
}

// GetSystems returns every registered system instance.
func (sm *SystemManager) GetSystems() []any {
	out := make([]any, 0, len(sm.all))
	for _, rs := range sm.all {
		out = append(out, rs.sys)
	}
	return out
}

func (sm *SystemManager) stats() []SystemStats {
	out := make([]SystemStats, 0, len(sm.ordered))
	for _, rs := range sm.ordered {
		out = append(out, SystemStats{
			Name:      rs.typ.String(),
			Priority:  rs.priority,
			ElapsedMS: float64(rs.elapsed.Microseconds()) / 1000.0,
			Enabled:   rs.enabled,
		})
	}
	return out
}

// GetSystem returns the registered instance of concrete system type T, if
// any.
func GetSystem[T any](sm *SystemManager) (T, bool) {
	want := reflect.TypeFor[T]()
	for _, rs := range sm.all {
		if rs.typ == want {
			return rs.sys.(T), true
		}
	}
	var zero T
	return zero, false
}

// RegisterSystem is World's façade method, delegating to the SystemManager.
func (w *World) RegisterSystem(sys any, attrs ...SystemAttributes) any {
	return w.systems.RegisterSystem(sys, attrs...)
}

// GetSystems is World's façade method, delegating to the SystemManager.
func (w *World) GetSystems() []any {
	return w.systems.GetSystems()
}
