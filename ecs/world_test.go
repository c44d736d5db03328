package ecs

import "testing"

type wPos struct{ X, Y float64 }

func TestWorldExecuteDerivesDeltaFromNow(t *testing.T) {
	var now int64 = 1000
	w := NewWorld(WorldConfig{Now: func() int64 { return now }})

	var capturedDelta float64
	var capturedTime float64
	w.RegisterSystem(&captureSystem{onExec: func(d, t float64) {
		capturedDelta, capturedTime = d, t
	}})

	w.Execute(nil, nil) // first tick: delta derives from lastTime=0
	if capturedTime != 1000 {
		t.Errorf("time = %v, want 1000", capturedTime)
	}
	if capturedDelta != 1.0 {
		t.Errorf("delta on first tick = %v, want 1.0 (1000ms/1000)", capturedDelta)
	}

	now = 1250
	w.Execute(nil, nil)
	if capturedDelta != 0.25 {
		t.Errorf("delta on second tick = %v, want 0.25", capturedDelta)
	}
}

type captureSystem struct {
	Base
	onExec func(delta, time float64)
}

func (s *captureSystem) Execute(delta, time float64) { s.onExec(delta, time) }

func TestWorldStopPlayGatesExecution(t *testing.T) {
	w := newTestWorld()
	sys := w.RegisterSystem(&dupSystem{}).(*dupSystem)

	w.Stop()
	if w.Enabled() {
		t.Fatal("Enabled() should be false after Stop()")
	}
	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if sys.Runs != 0 {
		t.Errorf("Runs = %d, want 0 while world stopped", sys.Runs)
	}

	w.Play()
	if !w.Enabled() {
		t.Fatal("Enabled() should be true after Play()")
	}
	w.Execute(&dt, &tm)
	if sys.Runs != 1 {
		t.Errorf("Runs = %d, want 1 after Play()", sys.Runs)
	}
}

func TestWorldOnWorldCreatedFires(t *testing.T) {
	var got WorldCreatedEvent
	fired := false
	w := NewWorld(WorldConfig{
		Version: "v-test",
		OnWorldCreated: func(ev WorldCreatedEvent) {
			fired = true
			got = ev
		},
	})
	if !fired {
		t.Fatal("OnWorldCreated was not invoked")
	}
	if got.World != w {
		t.Error("OnWorldCreated event should carry the constructed world")
	}
	if got.Version != "v-test" {
		t.Errorf("Version = %q, want %q", got.Version, "v-test")
	}
}

func TestWorldStatsReflectsCounts(t *testing.T) {
	w := newTestWorld()
	RegisterComponent[wPos](w, "pos")
	w.CreateEntity()
	w.CreateEntity()

	stats := w.Stats()
	if stats.EntityCount != 2 {
		t.Errorf("EntityCount = %d, want 2", stats.EntityCount)
	}
	if stats.ComponentTypes != 1 {
		t.Errorf("ComponentTypes = %d, want 1", stats.ComponentTypes)
	}
}

func TestWorldDrainOrderDisposalBeforeComponentRemoval(t *testing.T) {
	w := newTestWorld()
	ct := RegisterComponent[wPos](w, "pos")
	e := w.CreateEntity()
	AddComponent(e, ct)

	RemoveComponent(e, ct)  // deferred component removal
	e.Dispose(false)        // deferred disposal

	dt, tm := 0.0, int64(0)
	w.Execute(&dt, &tm)
	if e.State() != StateDead {
		t.Fatalf("state after drain = %v, want StateDead", e.State())
	}
}
