package ecs

import "testing"

type statComp struct {
	Level   int
	Name    string
	Buffs   []string
	Enabled bool
}

func TestRegisterComponentDuplicateIsNonFatal(t *testing.T) {
	w := newTestWorld()
	first := RegisterComponent[statComp](w, "stat")
	second := RegisterComponent[statComp](w, "stat")

	if first.core != second.core {
		t.Error("duplicate RegisterComponent should return the type as first registered")
	}
	diags := w.Diagnostics().Entries()
	if len(diags) == 0 || diags[len(diags)-1].Kind != DuplicateRegistration {
		t.Error("expected a DuplicateRegistration diagnostic")
	}
}

func TestAddComponentAlreadyPresentIsNoOp(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat")
	e := w.CreateEntity()
	AddComponent(e, ct, Props{"Level": 5})
	AddComponent(e, ct, Props{"Level": 99}) // second attach must be a no-op

	got, _ := GetComponent(e, ct)
	if got.Level != 5 {
		t.Errorf("Level after duplicate AddComponent = %d, want 5 (first attach wins)", got.Level)
	}
}

func TestGetComponentIsByValueSnapshot(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat")
	e := w.CreateEntity()
	AddComponent(e, ct, Props{"Level": 1})

	snap, _ := GetComponent(e, ct)
	snap.Level = 1000

	live, _ := GetComponent(e, ct)
	if live.Level == 1000 {
		t.Error("mutating a GetComponent snapshot must not affect the live component")
	}
}

func TestGetMutableComponentWritesThrough(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat")
	e := w.CreateEntity()
	AddComponent(e, ct)

	mut, ok := GetMutableComponent(e, ct)
	if !ok {
		t.Fatal("GetMutableComponent returned false for attached component")
	}
	mut.Level = 42

	live, _ := GetComponent(e, ct)
	if live.Level != 42 {
		t.Errorf("Level after mutable write = %d, want 42", live.Level)
	}
}

func TestRemoveComponentDeferredThenDrained(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat")
	e := w.CreateEntity()
	AddComponent(e, ct)

	ok := RemoveComponent(e, ct)
	if !ok {
		t.Fatal("RemoveComponent on an attached type should report true")
	}
	if HasComponentT(e, ct) {
		t.Error("component should no longer be live immediately after deferred removal")
	}
	if _, ok := GetRemovedComponent(e, ct); !ok {
		t.Error("component should be visible via GetRemovedComponent before the drain")
	}

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if _, ok := GetRemovedComponent(e, ct); ok {
		t.Error("component should no longer be pending after drain")
	}
}

func TestRemoveComponentAbsentReturnsFalse(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat")
	e := w.CreateEntity()
	if RemoveComponent(e, ct) {
		t.Error("RemoveComponent on a never-attached type should return false")
	}
}

func TestPooledComponentReusesInstanceAfterDrain(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat", WithPool())
	e1 := w.CreateEntity()
	AddComponent(e1, ct, Props{"Level": 7})
	RemoveComponent(e1, ct, true) // immediate: returns to the pool right away

	e2 := w.CreateEntity()
	AddComponent(e2, ct)
	got, _ := GetComponent(e2, ct)
	if got.Level != 0 {
		t.Errorf("pooled component should reset to default on reacquire, got Level=%d", got.Level)
	}
}

func TestUnregisteredComponentTypeWarnsInsteadOfPanicking(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	var zero ComponentType[statComp] // never passed through RegisterComponent

	AddComponent(e, zero, Props{"Level": 1})
	if HasComponentT(e, zero) {
		t.Error("AddComponent on an unregistered type should not attach anything")
	}
	if _, ok := GetComponent(e, zero); ok {
		t.Error("GetComponent on an unregistered type should report false")
	}
	if RemoveComponent(e, zero) {
		t.Error("RemoveComponent on an unregistered type should report false")
	}
	if item := CreateComponent(zero); item == nil {
		t.Error("CreateComponent on an unregistered type should still return a usable zero value")
	}

	diags := w.Diagnostics().Entries()
	if len(diags) == 0 || diags[len(diags)-1].Kind != UnknownReference {
		t.Error("expected an UnknownReference diagnostic for the unregistered component type")
	}
}

func TestCreateComponentStandalone(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[statComp](w, "stat")
	item := CreateComponent(ct)
	if item == nil {
		t.Fatal("CreateComponent returned nil")
	}
	item.Level = 3 // must not panic or affect any entity; just a plain heap value
}
