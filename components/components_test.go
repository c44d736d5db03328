package components

import (
	"testing"

	"github.com/1siamBot/ecsim/ecs"
)

func newTestWorld() *ecs.World {
	return ecs.NewWorld(ecs.WorldConfig{})
}

func TestHealthRatio(t *testing.T) {
	cases := []struct {
		h    Health
		want float64
	}{
		{Health{Current: 50, Max: 100}, 0.5},
		{Health{Current: 0, Max: 100}, 0},
		{Health{Current: 100, Max: 100}, 1},
		{Health{Current: 10, Max: 0}, 0},
	}
	for _, c := range cases {
		if got := c.h.Ratio(); got != c.want {
			t.Errorf("Health{%d,%d}.Ratio() = %v, want %v", c.h.Current, c.h.Max, got, c.want)
		}
	}
}

func TestRegisterReturnsDistinctTypes(t *testing.T) {
	w := newTestWorld()
	types := Register(w)

	if types.Position.Name() != "position" {
		t.Errorf("Position.Name() = %q, want %q", types.Position.Name(), "position")
	}
	if types.Harvester.Name() != "harvester" {
		t.Errorf("Harvester.Name() = %q, want %q", types.Harvester.Name(), "harvester")
	}
	if types.Harvester.IsTag() {
		t.Error("Harvester should not be registered as a tag type")
	}
}

func TestRegisterIsIdempotentPerWorld(t *testing.T) {
	w := newTestWorld()
	a := Register(w)
	b := Register(w)

	// Re-registering on the same world hits ecs.RegisterComponent's
	// duplicate-registration path; the handle still resolves to the same
	// underlying component type.
	if a.Position.Name() != b.Position.Name() {
		t.Error("re-registering components on the same world should resolve to the same type")
	}
}
