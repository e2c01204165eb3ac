package daterange

import (
	"time"

	"github.com/jask/daterange/internal/observe"
)

// aggregator joins the from, to and category cells into one Value stream.
// Every emission carries the current value of all three cells. Cell
// observations exist only while at least one listener is registered.
type aggregator struct {
	from     *observe.Cell[time.Time]
	to       *observe.Cell[time.Time]
	category *observe.Cell[Category]

	out      observe.Hub[Value]
	upstream observe.Bag

	depth int
	dirty bool
}

func newAggregator(from, to *observe.Cell[time.Time], category *observe.Cell[Category]) *aggregator {
	a := &aggregator{from: from, to: to, category: category}
	a.out.OnActive = a.connect
	a.out.OnIdle = a.upstream.Reset
	return a
}

func (a *aggregator) connect() {
	a.upstream.Add(a.from.Observe(func(time.Time) { a.changed() }))
	a.upstream.Add(a.to.Observe(func(time.Time) { a.changed() }))
	a.upstream.Add(a.category.Observe(func(Category) { a.changed() }))
}

func (a *aggregator) subscribe(fn func(Value)) *observe.Subscription {
	return a.out.Subscribe(fn)
}

func (a *aggregator) snapshot() Value {
	return Value{From: a.from.Get(), To: a.to.Get(), RangeType: a.category.Get()}
}

func (a *aggregator) changed() {
	if a.depth > 0 {
		a.dirty = true
		return
	}
	a.out.Emit(a.snapshot())
}

// batch runs fn with emission deferred; the outermost batch emits once if
// any cell changed.
func (a *aggregator) batch(fn func()) {
	a.depth++
	defer func() {
		a.depth--
		if a.depth == 0 && a.dirty {
			a.dirty = false
			a.out.Emit(a.snapshot())
		}
	}()
	fn()
}

func (a *aggregator) listeners() int {
	return a.out.Len()
}
