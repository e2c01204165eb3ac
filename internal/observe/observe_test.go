package observe

import "testing"

func TestCellSetNotifiesEveryWrite(t *testing.T) {
	c := NewCell(1)
	var got []int
	c.Observe(func(v int) { got = append(got, v) })

	c.Set(2)
	c.Set(2)
	if len(got) != 2 || got[0] != 2 || got[1] != 2 {
		t.Fatalf("notifications = %v, want [2 2]", got)
	}
	if c.Get() != 2 {
		t.Fatalf("Get() = %d, want 2", c.Get())
	}
}

func TestSubscriptionDisposeIsIdempotent(t *testing.T) {
	c := NewCell("a")
	calls := 0
	sub := c.Observe(func(string) { calls++ })
	other := c.Observe(func(string) {})

	sub.Dispose()
	sub.Dispose()
	c.Set("b")

	if calls != 0 {
		t.Fatalf("disposed observer called %d times", calls)
	}
	if c.Observers() != 1 {
		t.Fatalf("observers = %d, want 1", c.Observers())
	}
	if other.IsDisposed() {
		t.Fatal("disposing one subscription released another")
	}
}

func TestDisposeDuringEmitSkipsLaterObserver(t *testing.T) {
	c := NewCell(0)
	var second *Subscription
	secondCalls := 0
	c.Observe(func(int) { second.Dispose() })
	second = c.Observe(func(int) { secondCalls++ })

	c.Set(1)
	if secondCalls != 0 {
		t.Fatalf("observer disposed mid-emit was called %d times", secondCalls)
	}
}

func TestHubActiveIdleHooks(t *testing.T) {
	var active, idle int
	h := &Hub[int]{OnActive: func() { active++ }, OnIdle: func() { idle++ }}

	a := h.Subscribe(func(int) {})
	b := h.Subscribe(func(int) {})
	if active != 1 {
		t.Fatalf("OnActive calls = %d, want 1", active)
	}
	a.Dispose()
	if idle != 0 {
		t.Fatal("OnIdle fired while an observer remained")
	}
	b.Dispose()
	b.Dispose()
	if idle != 1 {
		t.Fatalf("OnIdle calls = %d, want 1", idle)
	}
}

func TestBagDisposesOnceAndRejectsLateAdds(t *testing.T) {
	c := NewCell(0)
	var b Bag
	b.Add(c.Observe(func(int) {}))
	b.Add(c.Observe(func(int) {}))

	b.Dispose()
	b.Dispose()
	if c.Observers() != 0 {
		t.Fatalf("observers after dispose = %d, want 0", c.Observers())
	}

	late := b.Add(c.Observe(func(int) { t.Fatal("late observer fired") }))
	if !late.IsDisposed() {
		t.Fatal("subscription added after dispose should be released")
	}
	c.Set(1)
}

func TestDisposedHandle(t *testing.T) {
	s := Disposed()
	if !s.IsDisposed() {
		t.Fatal("Disposed() handle should report disposed")
	}
	s.Dispose()

	var nilSub *Subscription
	nilSub.Dispose()
	if !nilSub.IsDisposed() {
		t.Fatal("nil subscription should report disposed")
	}
}

func TestNestedEmitStopsOlderDelivery(t *testing.T) {
	var h Hub[int]
	var seen []int
	h.Subscribe(func(v int) {
		if v == 1 {
			h.Emit(2)
		}
	})
	h.Subscribe(func(v int) { seen = append(seen, v) })

	h.Emit(1)
	if len(seen) != 1 || seen[0] != 2 {
		t.Fatalf("seen = %v, want [2]", seen)
	}
}

func TestBagDropsSelfDisposedSubscriptions(t *testing.T) {
	c := NewCell(0)
	var b Bag
	keep := b.Add(c.Observe(func(int) {}))
	for i := 0; i < 100; i++ {
		b.Add(c.Observe(func(int) {})).Dispose()
	}
	if b.Len() != 1 {
		t.Fatalf("bag len = %d, want 1", b.Len())
	}
	b.Add(Disposed())
	if b.Len() != 1 {
		t.Fatal("already disposed handle should not be held")
	}

	b.Dispose()
	if !keep.IsDisposed() || c.Observers() != 0 {
		t.Fatal("bag dispose should release the remaining subscription")
	}
}
