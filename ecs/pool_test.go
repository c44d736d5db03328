package ecs

import "testing"

func TestGrowthForPolicy(t *testing.T) {
	cases := []struct {
		count int
		want  int
	}{
		{0, 1},
		{1, 2},
		{5, 2},
		{10, 3},
		{100, 21},
	}
	for _, c := range cases {
		if got := growthFor(c.count); got != c.want {
			t.Errorf("growthFor(%d) = %d, want %d", c.count, got, c.want)
		}
	}
}

type poolItem struct {
	Value int
	Tag   string
}

func TestPoolAcquireGrowsOnEmpty(t *testing.T) {
	p := newPool[poolItem](nil, nil)
	if p.TotalSize() != 0 {
		t.Fatalf("fresh pool TotalSize = %d, want 0", p.TotalSize())
	}
	item := p.Acquire()
	if item == nil {
		t.Fatal("Acquire returned nil")
	}
	if p.TotalSize() != growthFor(0) {
		t.Errorf("TotalSize after first Acquire = %d, want %d", p.TotalSize(), growthFor(0))
	}
	if p.TotalUsed() != 1 {
		t.Errorf("TotalUsed = %d, want 1", p.TotalUsed())
	}
}

// TestPoolReleaseIsIdentity covers P2: release(acquire()) leaves TotalSize
// and TotalFree unchanged relative to before the round trip.
func TestPoolReleaseIsIdentity(t *testing.T) {
	p := newPool[poolItem](nil, nil)
	p.Release(p.Acquire()) // force a grow, then return the item so the free list is non-empty

	sizeBefore := p.TotalSize()
	freeBefore := p.TotalFree()

	item := p.Acquire()
	p.Release(item)

	if p.TotalSize() != sizeBefore {
		t.Errorf("TotalSize after release(acquire()) = %d, want %d", p.TotalSize(), sizeBefore)
	}
	if p.TotalFree() != freeBefore {
		t.Errorf("TotalFree after release(acquire()) = %d, want %d", p.TotalFree(), freeBefore)
	}
}

func TestPoolReleaseResetsToDefaults(t *testing.T) {
	specs := []fieldSpec{{name: "Value", kind: KindNumber}, {name: "Tag", kind: KindString}}
	p := newPool[poolItem](specs, map[string]any{"Value": 7.0})

	item := p.Acquire()
	item.Value = 99
	item.Tag = "dirty"
	p.Release(item)

	next := p.Acquire()
	if next.Value != 7 {
		t.Errorf("released item Value = %d, want 7 (registered default)", next.Value)
	}
	if next.Tag != "" {
		t.Errorf("released item Tag = %q, want zero value", next.Tag)
	}
}

func TestPoolUsedAccounting(t *testing.T) {
	p := newPool[poolItem](nil, nil)
	a := p.Acquire()
	b := p.Acquire()
	if p.TotalUsed() != 2 {
		t.Fatalf("TotalUsed = %d, want 2", p.TotalUsed())
	}
	p.Release(a)
	if p.TotalUsed() != 1 {
		t.Errorf("TotalUsed after one release = %d, want 1", p.TotalUsed())
	}
	p.Release(b)
	if p.TotalUsed() != 0 {
		t.Errorf("TotalUsed after both released = %d, want 0", p.TotalUsed())
	}
	if p.TotalFree() != p.TotalSize() {
		t.Errorf("TotalFree = %d, want equal to TotalSize %d once fully released", p.TotalFree(), p.TotalSize())
	}
}
