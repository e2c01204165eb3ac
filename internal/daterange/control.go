// Package daterange implements a date range form control: a start date, an
// end date and an optional named range category exposed to a host form as
// one composite Value.
//
// Selecting a category such as ThisWeek resolves it to concrete dates and
// writes them into the from and to fields. The three fields are joined so
// that every settled change reaches listeners as a single snapshot.
package daterange

import (
	"time"

	"github.com/jask/daterange/internal/observe"
)

// ISOLayout is the layout of StartDateString and EndDateString.
const ISOLayout = "2006-01-02T15:04:05"

// Value is the composite value exchanged with the host form.
type Value struct {
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	RangeType Category  `json:"rangeType"`
}

// CategoryOption is one entry of the category selector.
type CategoryOption struct {
	Value Category
	Label string
}

// ValueAccessor is what a host form needs from a control.
type ValueAccessor interface {
	WriteValue(v *Value)
	RegisterOnChange(fn func(Value)) *observe.Subscription
	RegisterOnTouched(fn func())
	SetDisabledState(disabled bool)
}

var _ ValueAccessor = (*Control)(nil)

// Control holds the from, to and category fields of one date range input.
type Control struct {
	now      func() time.Time
	options  []CategoryOption
	reveal   Category
	from     *observe.Cell[time.Time]
	to       *observe.Cell[time.Time]
	category *observe.Cell[Category]
	agg      *aggregator

	changed   observe.Hub[Value]
	emitter   *observe.Subscription
	external  observe.Bag
	destroyed bool
}

// Option configures a Control.
type Option func(*settings)

type settings struct {
	now      func() time.Time
	from, to *time.Time
	category Category
	options  []CategoryOption
	reveal   Category
}

// WithClock sets the reference clock used to resolve categories.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithRange sets the initial from and to dates.
func WithRange(from, to time.Time) Option {
	return func(s *settings) { s.from, s.to = &from, &to }
}

// WithCategory sets the initially selected category without resolving it.
func WithCategory(c Category) Option {
	return func(s *settings) { s.category = c }
}

// WithOptions supplies the selectable categories. An empty list means simple
// mode where the pickers are always shown.
func WithOptions(opts []CategoryOption) Option {
	return func(s *settings) { s.options = append([]CategoryOption(nil), opts...) }
}

// WithRevealCategory sets the category at which pickers are shown in combo
// mode.
func WithRevealCategory(c Category) Option {
	return func(s *settings) { s.reveal = c }
}

// New returns a control with from = to = now and no category unless options
// say otherwise.
func New(opts ...Option) *Control {
	s := settings{now: time.Now, category: Unset, reveal: Unset}
	for _, opt := range opts {
		opt(&s)
	}
	now := s.now()
	from, to := now, now
	if s.from != nil {
		from, to = *s.from, *s.to
	}
	c := &Control{
		now:      s.now,
		options:  s.options,
		reveal:   s.reveal,
		from:     observe.NewCell(from),
		to:       observe.NewCell(to),
		category: observe.NewCell(s.category),
	}
	c.agg = newAggregator(c.from, c.to, c.category)
	c.emitter = c.agg.subscribe(c.changed.Emit)
	return c
}

// WriteValue applies a value pushed by the host form. The category is set
// first and resolved, then the explicit from and to overwrite whatever the
// resolver produced. A nil value clears the category and both dates.
// Listeners see exactly one change per call.
func (c *Control) WriteValue(v *Value) {
	in := Value{RangeType: Unset}
	if v != nil {
		in = *v
	}
	c.agg.batch(func() {
		c.SetCategoryWithRecompute(in.RangeType)
		c.from.Set(in.From)
		c.to.Set(in.To)
	})
}

// RegisterOnChange registers fn for every combined change. The subscription
// is owned by the control and released by Destroy; it may also be disposed
// independently. After Destroy, fn is never registered.
func (c *Control) RegisterOnChange(fn func(Value)) *observe.Subscription {
	if c.destroyed {
		return observe.Disposed()
	}
	return c.external.Add(c.agg.subscribe(fn))
}

// RegisterOnTouched is accepted for host compatibility and has no effect.
func (c *Control) RegisterOnTouched(func()) {}

// SetDisabledState is accepted for host compatibility and has no effect.
func (c *Control) SetDisabledState(bool) {}

// OnRangeChanged subscribes to the control's own change channel, which
// re-emits every combined change while the control is alive.
func (c *Control) OnRangeChanged(fn func(Value)) *observe.Subscription {
	if c.destroyed {
		return observe.Disposed()
	}
	return c.changed.Subscribe(fn)
}

// Destroy releases every subscription. It is safe to call more than once.
func (c *Control) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.external.Dispose()
	c.emitter.Dispose()
}

// SetCategorySilent sets the category without touching the dates.
func (c *Control) SetCategorySilent(cat Category) {
	c.category.Set(cat)
}

// SetCategoryWithRecompute sets the category and, when it carries a range,
// overwrites from and to with the resolved dates. It recomputes on every
// call, including repeats of the current category.
func (c *Control) SetCategoryWithRecompute(cat Category) {
	c.agg.batch(func() {
		c.category.Set(cat)
		if from, to, ok := Resolve(cat, c.now()); ok {
			c.from.Set(from)
			c.to.Set(to)
		}
	})
}

// SelectCategory is the category selector's entry point.
func (c *Control) SelectCategory(cat Category) {
	c.SetCategoryWithRecompute(cat)
}

// PickFrom is the start picker's entry point.
func (c *Control) PickFrom(t time.Time) {
	c.from.Set(t)
}

// PickTo is the end picker's entry point.
func (c *Control) PickTo(t time.Time) {
	c.to.Set(t)
}

// DisplayDatePickers reports whether the pickers should be shown: always in
// simple mode, and in combo mode only while the reveal category is selected.
func (c *Control) DisplayDatePickers() bool {
	return len(c.options) == 0 || c.category.Get() == c.reveal
}

// Options returns the selectable categories.
func (c *Control) Options() []CategoryOption {
	return append([]CategoryOption(nil), c.options...)
}

// RevealCategory returns the combo mode reveal sentinel.
func (c *Control) RevealCategory() Category {
	return c.reveal
}

// Value returns the current from, to and category together.
func (c *Control) Value() Value {
	return c.agg.snapshot()
}

// StartDate returns the from field.
func (c *Control) StartDate() time.Time {
	return c.from.Get()
}

// EndDate returns the to field.
func (c *Control) EndDate() time.Time {
	return c.to.Get()
}

// DateRangeType returns the selected category.
func (c *Control) DateRangeType() Category {
	return c.category.Get()
}

// StartDateString formats the from field with ISOLayout.
func (c *Control) StartDateString() string {
	return c.from.Get().Format(ISOLayout)
}

// EndDateString formats the to field with ISOLayout.
func (c *Control) EndDateString() string {
	return c.to.Get().Format(ISOLayout)
}

// Destroyed reports whether Destroy has been called.
func (c *Control) Destroyed() bool {
	return c.destroyed
}
