package ecs

import "testing"

type posComp struct {
	X, Y float64
}

type tagComp struct {
	Label string
}

func newTestWorld() *World {
	return NewWorld(WorldConfig{})
}

func TestEntityLifecycleCreateIsActive(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	if e.State() != StateActive {
		t.Fatalf("CreateEntity state = %v, want StateActive", e.State())
	}
	if _, ok := w.GetEntityByUUID(e.UUID()); !ok {
		t.Fatal("entity not tracked by UUID after CreateEntity")
	}
}

func TestEntityDetachedUntilAdded(t *testing.T) {
	w := newTestWorld()
	e := w.CreateDetachedEntity()
	if e.State() != StateDetached {
		t.Fatalf("CreateDetachedEntity state = %v, want StateDetached", e.State())
	}
	if _, ok := w.GetEntityByUUID(e.UUID()); ok {
		t.Fatal("detached entity should not be tracked until AddEntity")
	}
	w.AddEntity(e)
	if e.State() != StateActive {
		t.Fatalf("state after AddEntity = %v, want StateActive", e.State())
	}
	if _, ok := w.GetEntityByUUID(e.UUID()); !ok {
		t.Fatal("entity should be tracked after AddEntity")
	}
}

func TestAddEntityDuplicateIsNonFatal(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	before := len(w.entities)

	returned := w.AddEntity(e)
	if returned != e {
		t.Error("AddEntity on an already-tracked entity should return the existing instance")
	}
	if len(w.entities) != before {
		t.Errorf("entity count changed on duplicate AddEntity: %d -> %d", before, len(w.entities))
	}
	diags := w.Diagnostics().Entries()
	if len(diags) == 0 || diags[len(diags)-1].Kind != DuplicateEntity {
		t.Error("expected a DuplicateEntity diagnostic to be recorded")
	}
}

func TestDisposeImmediateReleasesEntity(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[posComp](w, "pos")
	e := w.CreateEntity()
	AddComponent(e, ct)

	e.Dispose(true)
	if e.State() != StateDead {
		t.Fatalf("state after immediate dispose = %v, want StateDead", e.State())
	}
	if _, ok := w.GetEntityByUUID(e.UUID()); ok {
		t.Error("entity should no longer be tracked after immediate disposal")
	}
}

func TestDisposeDeferredWaitsForDrain(t *testing.T) {
	w := newTestWorld()
	e := w.CreateEntity()
	e.Dispose(false)
	if e.State() != StateRemoved {
		t.Fatalf("state after deferred dispose, pre-drain = %v, want StateRemoved", e.State())
	}
	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if e.State() != StateDead {
		t.Fatalf("state after drain = %v, want StateDead", e.State())
	}
}

// TestGhostRuleBlocksDisposal covers I5: an entity carrying a system-state
// component cannot be finally disposed until that component is removed,
// even though Dispose was requested.
func TestGhostRuleBlocksDisposal(t *testing.T) {
	w := newTestWorld()
	ssCt := RegisterComponent[tagComp](w, "system-state", WithSystemState())
	e := w.CreateEntity()
	AddComponent(e, ssCt)

	e.Dispose(true)
	if e.State() == StateDead {
		t.Fatal("entity with a live system-state component must not reach StateDead")
	}
	if e.State() != StateRemoved {
		t.Fatalf("state while ghosted = %v, want StateRemoved", e.State())
	}

	RemoveComponent(e, ssCt, true)
	if e.State() != StateDead {
		t.Fatalf("state after removing the last system-state component = %v, want StateDead", e.State())
	}
}

// TestGhostRuleDetachesNonSystemStateComponents covers spec.md §8 scenario
// 5: attach a system-state component S and a normal component A, dispose,
// drain, and confirm e1 is still present with A removed and S present.
func TestGhostRuleDetachesNonSystemStateComponents(t *testing.T) {
	w := newTestWorld()
	ssCt := RegisterComponent[tagComp](w, "system-state", WithSystemState())
	posCt := RegisterComponent[posComp](w, "pos")
	e := w.CreateEntity()
	AddComponent(e, ssCt)
	AddComponent(e, posCt)

	e.Dispose(false)
	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)

	if e.State() == StateDead {
		t.Fatal("entity should remain ghosted (not dead) while its system-state component is still attached")
	}
	if HasComponentT(e, posCt) {
		t.Error("non-system-state component should have detached during the ghost dispose, per scenario 5")
	}
	if !HasComponentT(e, ssCt) {
		t.Error("system-state component should remain attached while the entity is ghosted")
	}

	RemoveComponent(e, ssCt, true)
	if e.State() != StateDead {
		t.Fatalf("state after removing the last system-state component = %v, want StateDead", e.State())
	}
}

// TestCloneRoundTrip covers P3: Clone produces an independent deep copy of
// every live component.
func TestCloneRoundTrip(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[posComp](w, "pos")
	e := w.CreateEntity()
	AddComponent(e, ct, Props{"X": 3.0, "Y": 4.0})

	clone := e.Clone()
	if clone.UUID() == e.UUID() {
		t.Fatal("clone must have its own identity")
	}
	got, ok := GetComponent(clone, ct)
	if !ok {
		t.Fatal("clone missing the source's component")
	}
	if got.X != 3 || got.Y != 4 {
		t.Errorf("clone component = %+v, want {3 4}", got)
	}

	mut, _ := GetMutableComponent(clone, ct)
	mut.X = 999
	orig, _ := GetComponent(e, ct)
	if orig.X == 999 {
		t.Error("mutating the clone must not alias the original entity's component")
	}
}

func TestHasComponentIncludeRemoved(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[posComp](w, "pos")
	e := w.CreateEntity()
	AddComponent(e, ct)

	RemoveComponent(e, ct) // deferred
	if e.HasComponent("pos", false) {
		t.Error("deferred-removed component should not count as live")
	}
	if !e.HasComponent("pos", true) {
		t.Error("deferred-removed component should count when includeRemoved is true")
	}
}
