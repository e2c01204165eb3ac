package daterange

import (
	"testing"
	"time"

	"github.com/jask/daterange/internal/observe"
)

func newCells() (*observe.Cell[time.Time], *observe.Cell[time.Time], *observe.Cell[Category]) {
	return observe.NewCell(refNow), observe.NewCell(refNow), observe.NewCell(Unset)
}

func TestAggregatorConnectsLazily(t *testing.T) {
	from, to, cat := newCells()
	a := newAggregator(from, to, cat)

	from.Set(day(2024, time.January, 1))
	if from.Observers() != 0 {
		t.Fatal("aggregator observed cells without listeners")
	}

	s1 := a.subscribe(func(Value) {})
	s2 := a.subscribe(func(Value) {})
	if from.Observers() != 1 || to.Observers() != 1 || cat.Observers() != 1 {
		t.Fatal("aggregator should observe each cell exactly once")
	}

	s1.Dispose()
	if cat.Observers() != 1 {
		t.Fatal("disposing one listener detached the aggregator")
	}
	s2.Dispose()
	if from.Observers() != 0 || to.Observers() != 0 || cat.Observers() != 0 {
		t.Fatal("aggregator kept observing after the last listener left")
	}

	var got []Value
	a.subscribe(func(v Value) { got = append(got, v) })
	cat.Set(Today)
	if len(got) != 1 {
		t.Fatalf("reconnected aggregator emitted %d times, want 1", len(got))
	}
}

func TestAggregatorEmitsCurrentTuple(t *testing.T) {
	from, to, cat := newCells()
	a := newAggregator(from, to, cat)
	var got []Value
	a.subscribe(func(v Value) { got = append(got, v) })

	cat.Set(LastWeek)
	newTo := day(2024, time.December, 31)
	to.Set(newTo)

	if len(got) != 2 {
		t.Fatalf("emissions = %d, want 2", len(got))
	}
	want := Value{From: refNow, To: newTo, RangeType: LastWeek}
	if got[1] != want {
		t.Fatalf("second emission = %+v, want %+v", got[1], want)
	}
}

func TestAggregatorBatchEmitsOnce(t *testing.T) {
	from, to, cat := newCells()
	a := newAggregator(from, to, cat)
	var got []Value
	a.subscribe(func(v Value) { got = append(got, v) })

	a.batch(func() {
		cat.Set(ThisWeek)
		a.batch(func() {
			from.Set(day(2024, time.June, 10))
		})
		if len(got) != 0 {
			t.Fatal("nested batch emitted before the outer batch ended")
		}
		to.Set(day(2024, time.June, 16))
	})

	if len(got) != 1 {
		t.Fatalf("emissions = %d, want 1", len(got))
	}
	want := Value{From: day(2024, time.June, 10), To: day(2024, time.June, 16), RangeType: ThisWeek}
	if got[0] != want {
		t.Fatalf("emission = %+v, want %+v", got[0], want)
	}

	a.batch(func() {})
	if len(got) != 1 {
		t.Fatal("empty batch emitted")
	}
}
