package ecs

import "reflect"

// componentType is the non-generic bookkeeping shared by every
// ComponentType[T]: schema, registration flags, and the closures that let
// the rest of the package (entity, query, world) operate on boxed component
// instances without knowing T.
type componentType struct {
	id            uint32
	name          string
	goType        reflect.Type
	specs         []fieldSpec
	isSystemState bool
	isTag         bool

	newInstance   func() any          // allocate (pool or fresh) + reset to defaults
	releaseFn     func(v any)         // return to pool, or no-op if unpooled
	cloneFn       func(v any) any     // deep copy per schema
	applyPropsFn  func(v any, props map[string]any)
	hasPool       bool
}

// ComponentType is the typed handle client code registers and then uses to
// add/get/remove components of type T on entities. It is a thin value
// wrapper around the shared componentType core so that a ComponentType[T]
// can be stored in heterogeneous slices (query term lists, schema tables)
// via its untyped core() accessor.
type ComponentType[T any] struct {
	core *componentType
}

// Props overlays named schema fields onto a freshly constructed component
// instance, the Go realization of addComponent's optional `props` argument.
type Props map[string]any

// ComponentOption configures RegisterComponent.
type ComponentOption func(*componentOptions)

type componentOptions struct {
	isSystemState bool
	isTag         bool
	pooled        bool
	defaults      map[string]any
	kinds         map[reflect.Type]Kind
}

// WithSystemState marks the component as surviving normal disposal (spec.md
// §4.2's ghost rule / I5): an entity with an attached system-state component
// cannot be finally disposed until that component is explicitly removed.
func WithSystemState() ComponentOption {
	return func(o *componentOptions) { o.isSystemState = true }
}

// WithTag marks the component as a zero-field tag: presence is the datum.
func WithTag() ComponentOption {
	return func(o *componentOptions) { o.isTag = true }
}

// WithPool backs the component type with a Pool, so attach/detach reuse
// instances instead of allocating fresh ones.
func WithPool() ComponentOption {
	return func(o *componentOptions) { o.pooled = true }
}

// WithDefaults overrides the zero-value default for specific named fields.
func WithDefaults(defaults map[string]any) ComponentOption {
	return func(o *componentOptions) { o.defaults = defaults }
}

// RegisterComponent registers T as a component type on w and returns a typed
// handle. Registering an already-registered name again is a non-fatal
// warning (spec.md §4.7); the second call returns the type as first
// registered under that name.
func RegisterComponent[T any](w *World, name string, opts ...ComponentOption) ComponentType[T] {
	if existing, ok := w.components.byName[name]; ok {
		w.diagnostics.warn(DuplicateRegistration, "component %q already registered", name)
		return ComponentType[T]{core: existing}
	}

	var o componentOptions
	for _, opt := range opts {
		opt(&o)
	}

	t := reflect.TypeFor[T]()
	specs := buildSchema(t, o.kinds)
	if o.kinds == nil {
		o.kinds = w.config.Kinds
		specs = buildSchema(t, o.kinds)
	}

	ct := &componentType{
		id:            w.components.nextID,
		name:          name,
		goType:        t,
		specs:         specs,
		isSystemState: o.isSystemState,
		isTag:         o.isTag,
		hasPool:       o.pooled,
	}
	w.components.nextID++

	if o.pooled {
		pool := newPool[T](specs, o.defaults)
		ct.newInstance = func() any { return pool.Acquire() }
		ct.releaseFn = func(v any) { pool.Release(v.(*T)) }
	} else {
		ct.newInstance = func() any {
			item := new(T)
			resetToDefaults(reflectValueOf(item), specs, o.defaults)
			return item
		}
		ct.releaseFn = func(v any) {}
	}
	ct.cloneFn = func(v any) any {
		src := v.(*T)
		dst := new(T)
		cloneInto(reflectValueOf(dst), reflectValueOf(src), specs)
		return dst
	}
	ct.applyPropsFn = func(v any, props map[string]any) {
		applyProps(reflectValueOf(v.(*T)), specs, props)
	}

	w.components.byID[ct.id] = ct
	w.components.byName[name] = ct
	return ComponentType[T]{core: ct}
}

func (ct ComponentType[T]) core_() *componentType { return ct.core }

// Name returns the component type's registered name.
func (ct ComponentType[T]) Name() string { return ct.core.name }

// IsSystemState reports whether the type was registered with WithSystemState.
func (ct ComponentType[T]) IsSystemState() bool { return ct.core.isSystemState }

// IsTag reports whether the type was registered with WithTag.
func (ct ComponentType[T]) IsTag() bool { return ct.core.isTag }

// El converts the typed handle into a positive QueryElement for use with
// World.GetQuery.
func (ct ComponentType[T]) El() QueryElement { return QueryElement{ref: ct.core} }

// componentTypeRef is implemented by ComponentType[T]; it lets Not and
// query-building code reach the shared core without knowing T.
type componentTypeRef interface {
	core_() *componentType
}

var _ componentTypeRef = ComponentType[int]{}
