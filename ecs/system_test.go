package ecs

import "testing"

type sysPos struct{ X, Y float64 }

type orderRecordingSystem struct {
	Base
	name  string
	trace *[]string
}

func (s *orderRecordingSystem) Execute(_, _ float64) {
	*s.trace = append(*s.trace, s.name)
}

func TestSystemManagerOrdersByPriorityThenRegistration(t *testing.T) {
	w := newTestWorld()
	var trace []string

	// Registered out of priority order on purpose.
	w.RegisterSystem(&orderRecordingSystem{name: "c", trace: &trace}, SystemAttributes{Priority: 10})
	w.RegisterSystem(&orderRecordingSystem{name: "a", trace: &trace}, SystemAttributes{Priority: 0})
	w.RegisterSystem(&orderRecordingSystem{name: "b", trace: &trace}, SystemAttributes{Priority: 0})

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)

	want := []string{"a", "b", "c"}
	if len(trace) != len(want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}
	for i := range want {
		if trace[i] != want[i] {
			t.Errorf("trace[%d] = %q, want %q", i, trace[i], want[i])
		}
	}
}

type dupSystem struct {
	Base
	Runs int
}

func (s *dupSystem) Execute(_, _ float64) { s.Runs++ }

func TestRegisterSystemDuplicateIsNonFatal(t *testing.T) {
	w := newTestWorld()
	first := w.RegisterSystem(&dupSystem{})
	second := w.RegisterSystem(&dupSystem{})

	if first != second {
		t.Error("registering the same concrete system type twice should return the first instance")
	}
	diags := w.Diagnostics().Entries()
	if len(diags) == 0 || diags[len(diags)-1].Kind != DuplicateRegistration {
		t.Error("expected a DuplicateRegistration diagnostic")
	}

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if first.(*dupSystem).Runs != 1 {
		t.Errorf("Runs = %d, want 1 (system should execute once per tick, not twice)", first.(*dupSystem).Runs)
	}
}

type queryingSystem struct {
	Base
	posCt ComponentType[sysPos]
}

func (s *queryingSystem) QuerySpecs() []QuerySpec {
	return []QuerySpec{
		{Name: "all", Elements: []QueryElement{s.posCt.El()}, Listen: ListenSpec{Added: true, Removed: true, Changed: true}},
	}
}

func (s *queryingSystem) Execute(_, _ float64) {}

func TestSystemReactiveBuckets(t *testing.T) {
	w := newTestWorld()
	posCt := RegisterComponent[sysPos](w, "pos")
	sys := w.RegisterSystem(&queryingSystem{posCt: posCt}).(*queryingSystem)

	e := w.CreateEntity()
	AddComponent(e, posCt)

	if got := sys.Added("all"); len(got) != 1 || got[0] != e {
		t.Fatalf("Added(\"all\") = %v, want [e]", got)
	}

	mut, _ := GetMutableComponent(e, posCt)
	mut.X = 5
	if got := sys.Changed("all"); len(got) != 1 || got[0] != e {
		t.Fatalf("Changed(\"all\") = %v, want [e]", got)
	}

	RemoveComponent(e, posCt, true)
	if got := sys.Removed("all"); len(got) != 1 || got[0] != e {
		t.Fatalf("Removed(\"all\") = %v, want [e]", got)
	}

	// Buckets are cleared at the end of the system's own Execute.
	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if got := sys.Added("all"); len(got) != 0 {
		t.Errorf("Added(\"all\") after a tick with no new entities = %v, want empty", got)
	}
}

type mandatorySystem struct {
	Base
	posCt ComponentType[sysPos]
	Runs  int
}

func (s *mandatorySystem) QuerySpecs() []QuerySpec {
	return []QuerySpec{{Name: "all", Elements: []QueryElement{s.posCt.El()}, Mandatory: true}}
}

func (s *mandatorySystem) Execute(_, _ float64) { s.Runs++ }

func TestMandatoryQuerySkipsExecuteWhenEmpty(t *testing.T) {
	w := newTestWorld()
	posCt := RegisterComponent[sysPos](w, "pos")
	sys := w.RegisterSystem(&mandatorySystem{posCt: posCt}).(*mandatorySystem)

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if sys.Runs != 0 {
		t.Fatalf("Runs = %d, want 0 when the mandatory query has no matches", sys.Runs)
	}

	e := w.CreateEntity()
	AddComponent(e, posCt)
	w.Execute(&dt, &tm)
	if sys.Runs != 1 {
		t.Errorf("Runs = %d, want 1 once the mandatory query has a match", sys.Runs)
	}
}

type panickySystem struct {
	Base
}

func (s *panickySystem) Execute(_, _ float64) { panic("boom") }

func TestSystemPanicIsCaughtAndRecorded(t *testing.T) {
	w := newTestWorld()
	w.RegisterSystem(&panickySystem{})

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm) // must not propagate the panic

	diags := w.Diagnostics().Entries()
	if len(diags) == 0 || diags[len(diags)-1].Kind != SystemPanic {
		t.Fatal("expected a SystemPanic diagnostic recorded for the panicking system")
	}
}

type initOnlySystem struct {
	Base
	InitCalls int
}

func (s *initOnlySystem) Init() { s.InitCalls++ }

func TestInitializerRunsOnceAtRegistration(t *testing.T) {
	w := newTestWorld()
	sys := w.RegisterSystem(&initOnlySystem{}).(*initOnlySystem)
	if sys.InitCalls != 1 {
		t.Fatalf("InitCalls = %d, want 1", sys.InitCalls)
	}
	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if sys.InitCalls != 1 {
		t.Errorf("InitCalls after a tick = %d, want still 1 (non-Executor system shouldn't run)", sys.InitCalls)
	}
}

func TestGetSystemLookup(t *testing.T) {
	w := newTestWorld()
	w.RegisterSystem(&dupSystem{})
	found, ok := GetSystem[*dupSystem](w.Systems())
	if !ok || found == nil {
		t.Fatal("GetSystem should find the registered *dupSystem")
	}
	_, ok = GetSystem[*panickySystem](w.Systems())
	if ok {
		t.Error("GetSystem should report false for an unregistered type")
	}
}

func TestSetEnabledSkipsExecute(t *testing.T) {
	w := newTestWorld()
	sys := w.RegisterSystem(&dupSystem{}).(*dupSystem)
	w.Systems().SetEnabled(sys, false)

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if sys.Runs != 0 {
		t.Fatalf("Runs = %d, want 0 while disabled", sys.Runs)
	}

	w.Systems().SetEnabled(sys, true)
	w.Execute(&dt, &tm)
	if sys.Runs != 1 {
		t.Errorf("Runs = %d, want 1 after re-enabling", sys.Runs)
	}
}
