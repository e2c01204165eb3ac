package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jask/daterange/internal/daterange"
	"github.com/jask/daterange/internal/database/repository"
	"github.com/jask/daterange/internal/observe"
)

// Recorder is the host form's listener for a date range control: it restores
// the last stored value into the control and stores every change.
type Recorder struct {
	Snapshots *repository.SnapshotRepo
	Form      string
	// Keep bounds the stored history per form; 0 keeps everything.
	Keep   int
	Logger *slog.Logger

	recorded int
	err      error
}

func (r *Recorder) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Restore writes the latest stored snapshot of the form into acc. It reports
// whether a snapshot was found.
func (r *Recorder) Restore(ctx context.Context, acc daterange.ValueAccessor) (bool, error) {
	if r.Snapshots == nil {
		return false, fmt.Errorf("recorder: snapshots not configured")
	}
	s, err := r.Snapshots.Latest(ctx, r.Form)
	if err != nil {
		return false, fmt.Errorf("load latest snapshot: %w", err)
	}
	if s == nil {
		return false, nil
	}
	acc.WriteValue(&daterange.Value{From: s.From, To: s.To, RangeType: daterange.Category(s.RangeType)})
	r.logger().Debug("restored range", "form", r.Form, "id", s.ID, "range_type", s.RangeType)
	return true, nil
}

// Attach registers a change listener on acc that stores every emitted value.
// Failures are logged and kept for Err since the callback cannot return them.
func (r *Recorder) Attach(ctx context.Context, acc daterange.ValueAccessor) *observe.Subscription {
	return acc.RegisterOnChange(func(v daterange.Value) {
		if err := r.Record(ctx, v); err != nil {
			r.err = err
			r.logger().Error("record range", "form", r.Form, "err", err)
		}
	})
}

// Record stores v as the newest snapshot of the form.
func (r *Recorder) Record(ctx context.Context, v daterange.Value) error {
	if r.Snapshots == nil {
		return fmt.Errorf("recorder: snapshots not configured")
	}
	s, err := r.Snapshots.Insert(ctx, repository.Snapshot{
		Form:      r.Form,
		From:      v.From,
		To:        v.To,
		RangeType: int(v.RangeType),
	})
	if err != nil {
		return err
	}
	r.recorded++
	r.logger().Debug("recorded range", "form", r.Form, "id", s.ID, "range_type", s.RangeType)
	if r.Keep > 0 {
		if _, err := r.Snapshots.Prune(ctx, r.Form, r.Keep); err != nil {
			return err
		}
	}
	return nil
}

// Recorded returns the number of snapshots stored by this recorder.
func (r *Recorder) Recorded() int {
	return r.recorded
}

// Err returns the last error raised inside an attached listener.
func (r *Recorder) Err() error {
	return r.err
}
