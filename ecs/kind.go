package ecs

import (
	"encoding/json"
	"reflect"
)

// Kind describes how a schema field's value is defaulted, cloned, and copied
// when a component is constructed, pooled, or overlaid with constructor
// properties. The fixed primitive kinds below cover the common Go field
// shapes; client code can register additional kinds for types that need
// bespoke clone/copy behavior (see WorldConfig.Kinds).
type Kind struct {
	Name    string
	Default func() any
	Clone   func(v any) any
	Copy    func(v any) any
}

func identity(v any) any { return v }

// KindNumber covers integer and floating-point fields.
var KindNumber = Kind{Name: "number", Default: func() any { return 0.0 }, Clone: identity, Copy: identity}

// KindBoolean covers bool fields.
var KindBoolean = Kind{Name: "boolean", Default: func() any { return false }, Clone: identity, Copy: identity}

// KindString covers string fields.
var KindString = Kind{Name: "string", Default: func() any { return "" }, Clone: identity, Copy: identity}

// KindOpaque covers fields whose value is handed through as-is: pointers,
// interfaces, and other reference types the schema does not attempt to
// understand.
var KindOpaque = Kind{Name: "opaque", Default: func() any { return nil }, Clone: identity, Copy: identity}

// KindArray covers slice fields. Clone produces an independent backing array
// so mutating a clone never aliases the source.
var KindArray = Kind{
	Name:    "array",
	Default: func() any { return nil },
	Clone:   cloneReflectSlice,
	Copy:    cloneReflectSlice,
}

// KindJSON covers struct/map fields that are plain data. Clone and Copy both
// deep-copy via a JSON round-trip, which is adequate for schema-described
// data and avoids hand-rolling a recursive struct copier per component.
var KindJSON = Kind{
	Name:    "json",
	Default: func() any { return nil },
	Clone:   cloneViaJSON,
	Copy:    cloneViaJSON,
}

func cloneViaJSON(v any) any {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	out := reflect.New(reflect.TypeOf(v))
	if err := json.Unmarshal(b, out.Interface()); err != nil {
		return v
	}
	return out.Elem().Interface()
}
