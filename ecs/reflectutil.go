package ecs

import "reflect"

// fieldSpec binds one exported struct field of a registered component type to
// the Kind that governs its default/clone/copy behavior.
type fieldSpec struct {
	name string
	kind Kind
}

// reflectValueOf returns the addressable, settable reflect.Value a pointer
// points at, for use with setField/resetToDefaults/applyProps/cloneInto.
func reflectValueOf(ptr any) reflect.Value {
	return reflect.ValueOf(ptr).Elem()
}

func cloneReflectSlice(v any) any {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice || rv.IsNil() {
		return v
	}
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	return out.Interface()
}

// buildSchema walks the exported fields of t and infers a Kind for each,
// honoring any custom per-Go-type Kind registered in custom.
func buildSchema(t reflect.Type, custom map[reflect.Type]Kind) []fieldSpec {
	specs := make([]fieldSpec, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		specs = append(specs, fieldSpec{name: f.Name, kind: inferKind(f.Type, custom)})
	}
	return specs
}

func inferKind(t reflect.Type, custom map[reflect.Type]Kind) Kind {
	if custom != nil {
		if k, ok := custom[t]; ok {
			return k
		}
	}
	switch t.Kind() {
	case reflect.Bool:
		return KindBoolean
	case reflect.String:
		return KindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return KindNumber
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map, reflect.Struct:
		return KindJSON
	default:
		return KindOpaque
	}
}

// applyProps overlays constructor properties onto dst, routing each
// recognized field through its Kind's Copy function so arrays/JSON values
// are copied rather than aliased, per addComponent's contract.
func applyProps(dst reflect.Value, specs []fieldSpec, props map[string]any) {
	for _, fs := range specs {
		v, ok := props[fs.name]
		if !ok {
			continue
		}
		setField(dst, fs.name, fs.kind.Copy(v))
	}
}

// cloneInto deep-copies every schema field of src (a struct value) into dst,
// routing each field through its Kind's Clone function.
func cloneInto(dst, src reflect.Value, specs []fieldSpec) {
	for _, fs := range specs {
		fv := src.FieldByName(fs.name)
		setField(dst, fs.name, fs.kind.Clone(fv.Interface()))
	}
}

// resetToDefaults restores dst's schema fields to their registered defaults,
// used by Pool.release to scrub a returned instance back to the base
// prototype before it re-enters the free list.
func resetToDefaults(dst reflect.Value, specs []fieldSpec, defaults map[string]any) {
	for _, fs := range specs {
		if dv, ok := defaults[fs.name]; ok {
			setField(dst, fs.name, dv)
			continue
		}
		def := fs.kind.Default()
		if def == nil {
			// leave the field at its Go zero value; nil defaults mean
			// "whatever zero looks like for this type".
			zero := reflect.Zero(dst.FieldByName(fs.name).Type())
			dst.FieldByName(fs.name).Set(zero)
			continue
		}
		setField(dst, fs.name, def)
	}
}

func setField(dst reflect.Value, name string, v any) {
	fv := dst.FieldByName(name)
	if !fv.IsValid() || !fv.CanSet() {
		return
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		fv.Set(reflect.Zero(fv.Type()))
		return
	}
	if rv.Type() == fv.Type() {
		fv.Set(rv)
		return
	}
	if rv.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rv.Convert(fv.Type()))
	}
}
