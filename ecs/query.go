package ecs

import (
	"sort"
	"strings"
)

// QueryElement is one term of a query's component set: either a positive
// inclusion (built via ComponentType[T].El()) or a negative exclusion (built
// by wrapping an element with Not).
type QueryElement struct {
	ref    *componentType
	negate bool
}

// Not tags a query element as a negative predicate (spec.md §6's Not(C)
// sentinel): the query matches only entities that do NOT carry that
// component type.
func Not(e QueryElement) QueryElement {
	e.negate = true
	return e
}

// Query is the incrementally maintained set of entities matching an
// inclusion/exclusion predicate (spec.md §3, §4.4). Two queries built from
// component sets with the same canonical key share the same Query instance
// (P1).
type Query struct {
	key       string
	include   []*componentType
	exclude   []*componentType
	entities  []*Entity
	entityIdx map[string]int // uuid -> index in entities, for O(1) removal
	bus       *EventBus
	reactive  bool
}

func canonicalKey(include, exclude []*componentType) string {
	names := make([]string, 0, len(include)+len(exclude))
	for _, c := range include {
		names = append(names, c.name)
	}
	for _, c := range exclude {
		names = append(names, "!"+c.name)
	}
	sort.Strings(names)
	return strings.Join(names, "-")
}

// match reports whether e currently satisfies q's inclusion/exclusion sets.
func (q *Query) match(e *Entity) bool {
	for _, ct := range q.include {
		if !e.hasLive(ct.id) {
			return false
		}
	}
	for _, ct := range q.exclude {
		if e.hasLive(ct.id) {
			return false
		}
	}
	return true
}

func (q *Query) contains(e *Entity) bool {
	_, ok := q.entityIdx[e.uuid]
	return ok
}

// Entities returns the query's current result list. Callers must not mutate
// the returned slice.
func (q *Query) Entities() []*Entity { return q.entities }

// add inserts e into the query's result set, attaches the back-reference on
// e, and — unless silent (query seeding, spec.md §4.4) — fires ENTITY_ADDED.
func (q *Query) add(e *Entity, silent bool) {
	if q.contains(e) {
		return
	}
	q.entityIdx[e.uuid] = len(q.entities)
	q.entities = append(q.entities, e)
	e.queries = append(e.queries, q)
	if !silent {
		publish(q.bus, eventEntityAdded, e)
	}
}

// remove deletes e from the query's result set (swap-remove) and fires
// ENTITY_REMOVED.
func (q *Query) remove(e *Entity) {
	idx, ok := q.entityIdx[e.uuid]
	if !ok {
		return
	}
	last := len(q.entities) - 1
	moved := q.entities[last]
	q.entities[idx] = moved
	q.entityIdx[moved.uuid] = idx
	q.entities = q.entities[:last]
	delete(q.entityIdx, e.uuid)

	for i, eq := range e.queries {
		if eq == q {
			e.queries = append(e.queries[:i], e.queries[i+1:]...)
			break
		}
	}
	publish(q.bus, eventEntityRemoved, e)
}

// queryIndex maps canonical query keys to shared Query instances and drives
// incremental maintenance on component add/remove (spec.md §4.4).
type queryIndex struct {
	byKey map[string]*Query
	all   []*Query
}

func newQueryIndex() *queryIndex {
	return &queryIndex{byKey: make(map[string]*Query)}
}

// getOrCreate resolves elements to a shared Query, seeding it from entities
// if newly created. Returns an error if the inclusion set is empty.
func (qi *queryIndex) getOrCreate(entities []*Entity, elements []QueryElement) (*Query, error) {
	var include, exclude []*componentType
	for _, el := range elements {
		if el.negate {
			exclude = append(exclude, el.ref)
		} else {
			include = append(include, el.ref)
		}
	}
	if len(include) == 0 {
		return nil, &InvalidArgumentError{Op: "GetQuery", Reason: "inclusion component list must not be empty"}
	}
	key := canonicalKey(include, exclude)
	if q, ok := qi.byKey[key]; ok {
		return q, nil
	}
	q := &Query{
		key:       key,
		include:   include,
		exclude:   exclude,
		entityIdx: make(map[string]int),
		bus:       newEventBus(),
	}
	for _, e := range entities {
		if e.state == StateActive && q.match(e) {
			q.add(e, true) // seeding is silent
		}
	}
	qi.byKey[key] = q
	qi.all = append(qi.all, q)
	return q, nil
}

// onAdd runs the incremental-maintenance rule for component T added to e.
func (qi *queryIndex) onAdd(e *Entity, ct *componentType) {
	for _, q := range qi.all {
		inExclude := containsCT(q.exclude, ct)
		inInclude := containsCT(q.include, ct)
		if inExclude && q.contains(e) {
			q.remove(e)
		} else if inInclude && q.match(e) && !q.contains(e) {
			q.add(e, false)
		}
	}
}

// onRemove runs the incremental-maintenance rule for component T removed
// from e.
func (qi *queryIndex) onRemove(e *Entity, ct *componentType) {
	for _, q := range qi.all {
		inExclude := containsCT(q.exclude, ct)
		inInclude := containsCT(q.include, ct)
		if inExclude && !q.contains(e) && q.match(e) {
			q.add(e, false)
		} else if inInclude && q.contains(e) && !q.match(e) {
			q.remove(e)
		}
	}
}

// changedPayload is the COMPONENT_CHANGED event payload: the mutated entity
// and which component type was handed out mutably. System-level listeners
// use ct to implement listen.changed's type-subset filter (spec.md §4.5).
type changedPayload struct {
	entity *Entity
	ct     *componentType
}

// onChanged dispatches COMPONENT_CHANGED to every reactive query in e's
// back-reference list whose inclusion set contains ct. Non-active entities
// never generate change events (enforced by the caller).
func onChanged(e *Entity, ct *componentType) {
	for _, q := range e.queries {
		if !q.reactive || !containsCT(q.include, ct) {
			continue
		}
		publish(q.bus, eventComponentChanged, changedPayload{entity: e, ct: ct})
	}
}

// removeEntityFromAllQueries is used by immediate entity disposal.
func (qi *queryIndex) removeEntityFromAllQueries(e *Entity) {
	// iterate over a copy since Query.remove mutates e.queries
	qs := append([]*Query(nil), e.queries...)
	for _, q := range qs {
		q.remove(e)
	}
}

func containsCT(list []*componentType, ct *componentType) bool {
	for _, c := range list {
		if c == ct {
			return true
		}
	}
	return false
}
