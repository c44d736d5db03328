package ecs

// AddComponent attaches a component of type T to e (spec.md §4.3). Attaching
// an already-present type is a silent no-op. When e is active, the
// incremental query-maintenance rules run immediately. Returns e for
// chaining.
func AddComponent[T any](e *Entity, ct ComponentType[T], props ...Props) *Entity {
	core := ct.core
	if core == nil {
		e.world.diagnostics.warn(UnknownReference, "AddComponent: unregistered component type %T", *new(T))
		return e
	}
	if _, ok := e.components[core.id]; ok {
		return e
	}
	ptr := core.newInstance()
	if len(props) > 0 {
		core.applyPropsFn(ptr, props[0])
	}
	e.components[core.id] = componentBox{ptr: ptr, ct: core}
	if core.isSystemState {
		e.systemStateCount++
	}
	if e.state == StateActive {
		e.world.queryIndexRef().onAdd(e, core)
	}
	return e
}

// RemoveComponent detaches a component of type T from e. Deferred removal
// (the default) queues the instance for the end-of-tick drain
// (processRemovedComponents); immediate removal disposes it right away.
// Returns true iff a detachment actually occurred.
func RemoveComponent[T any](e *Entity, ct ComponentType[T], immediate ...bool) bool {
	if ct.core == nil {
		e.world.diagnostics.warn(UnknownReference, "RemoveComponent: unregistered component type %T", *new(T))
		return false
	}
	imm := len(immediate) > 0 && immediate[0]
	return removeComponentCore(e, ct.core, imm)
}

func removeComponentCore(e *Entity, ct *componentType, immediate bool) bool {
	box, ok := e.components[ct.id]
	if !ok {
		return false
	}
	delete(e.components, ct.id)
	if e.state == StateActive {
		e.world.queryIndexRef().onRemove(e, ct)
	}
	if immediate {
		ct.releaseFn(box.ptr)
	} else {
		e.pending[ct.id] = box
		e.pendingOrder = append(e.pendingOrder, ct.id)
		if !e.queryIndexQueued {
			e.queryIndexQueued = true
			e.world.queueComponentRemoval(e)
		}
	}
	if ct.isSystemState {
		e.systemStateCount--
		if e.systemStateCount == 0 && e.state != StateActive {
			e.disposeNow()
		}
	}
	return true
}

func removeComponentByID(e *Entity, id uint32, immediate bool) {
	box, ok := e.components[id]
	if !ok {
		return
	}
	removeComponentCore(e, box.ct, immediate)
}

// processRemovedComponents pops and finalizes every component queued for
// deferred removal on e, in the order they were removed.
func processRemovedComponents(e *Entity) {
	for len(e.pendingOrder) > 0 {
		id := e.pendingOrder[0]
		e.pendingOrder = e.pendingOrder[1:]
		box, ok := e.pending[id]
		if !ok {
			continue
		}
		delete(e.pending, id)
		box.ct.releaseFn(box.ptr)
	}
	e.queryIndexQueued = false
}

// GetComponent returns an immutable (by-value) snapshot of e's component of
// type T. Because Go passes structs by value, writes to the returned T can
// never alias the live instance — the spec's debug write-trap requirement is
// satisfied structurally rather than by a runtime check.
func GetComponent[T any](e *Entity, ct ComponentType[T]) (T, bool) {
	if ct.core == nil {
		e.world.diagnostics.warn(UnknownReference, "GetComponent: unregistered component type %T", *new(T))
		var zero T
		return zero, false
	}
	box, ok := e.components[ct.core.id]
	if !ok {
		var zero T
		return zero, false
	}
	return *box.ptr.(*T), true
}

// GetMutableComponent returns a pointer into the live instance of e's
// component of type T. Obtaining a mutable handle on an active entity fires
// COMPONENT_CHANGED into every reactive query whose inclusion set contains
// T (spec.md §4.4). The handle is valid only until the next structural
// change to e; callers must not retain it across ticks.
func GetMutableComponent[T any](e *Entity, ct ComponentType[T]) (*T, bool) {
	if ct.core == nil {
		e.world.diagnostics.warn(UnknownReference, "GetMutableComponent: unregistered component type %T", *new(T))
		return nil, false
	}
	box, ok := e.components[ct.core.id]
	if !ok {
		return nil, false
	}
	if e.state == StateActive {
		onChanged(e, ct.core)
	}
	return box.ptr.(*T), true
}

// GetRemovedComponent returns the pending-removal instance of e's component
// of type T, if one is queued for the end-of-tick drain.
func GetRemovedComponent[T any](e *Entity, ct ComponentType[T]) (T, bool) {
	if ct.core == nil {
		e.world.diagnostics.warn(UnknownReference, "GetRemovedComponent: unregistered component type %T", *new(T))
		var zero T
		return zero, false
	}
	box, ok := e.pending[ct.core.id]
	if !ok {
		var zero T
		return zero, false
	}
	return *box.ptr.(*T), true
}

// HasComponentT is the generic counterpart of Entity.HasComponent, avoiding
// the name-lookup indirection when the caller already holds a typed handle.
func HasComponentT[T any](e *Entity, ct ComponentType[T], includeRemoved ...bool) bool {
	if ct.core == nil {
		e.world.diagnostics.warn(UnknownReference, "HasComponentT: unregistered component type %T", *new(T))
		return false
	}
	id := ct.core.id
	if _, ok := e.components[id]; ok {
		return true
	}
	if len(includeRemoved) > 0 && includeRemoved[0] {
		_, ok := e.pending[id]
		return ok
	}
	return false
}

// CreateComponent constructs a standalone instance of T (from ct's pool if
// one was registered, otherwise freshly allocated), without attaching it to
// any entity.
func CreateComponent[T any](ct ComponentType[T]) *T {
	if ct.core == nil {
		return new(T)
	}
	return ct.core.newInstance().(*T)
}

func attachCloned(dst *Entity, ct *componentType, clonedPtr any) {
	if existing, ok := dst.components[ct.id]; ok {
		cloneInto(reflectValueOf(existing.ptr), reflectValueOf(clonedPtr), ct.specs)
		return
	}
	dst.components[ct.id] = componentBox{ptr: clonedPtr, ct: ct}
	if ct.isSystemState {
		dst.systemStateCount++
	}
	if dst.state == StateActive {
		dst.world.queryIndexRef().onAdd(dst, ct)
	}
}
