package service

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/daterange/internal/daterange"
	"github.com/jask/daterange/internal/database"
	"github.com/jask/daterange/internal/database/repository"
)

var refNow = time.Date(2024, time.June, 12, 10, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecorderStoresEveryChange(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	repo := repository.NewSnapshotRepo(openTestDB(t))
	rec := &Recorder{Snapshots: repo, Form: "reports"}

	ctl := daterange.New(daterange.WithClock(func() time.Time { return refNow }))
	defer ctl.Destroy()
	rec.Attach(ctx, ctl)

	ctl.SelectCategory(daterange.ThisWeek)
	ctl.SelectCategory(daterange.LastWeek)
	require.NoError(t, rec.Err())
	require.Equal(t, 2, rec.Recorded())

	latest, err := repo.Latest(ctx, "reports")
	require.NoError(t, err)
	require.NotNil(t, latest)
	require.Equal(t, int(daterange.LastWeek), latest.RangeType)
	require.True(t, latest.From.Equal(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)))
}

func TestRecorderRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewSnapshotRepo(openTestDB(t))
	rec := &Recorder{Snapshots: repo, Form: "audit"}

	empty := daterange.New(daterange.WithClock(func() time.Time { return refNow }))
	found, err := rec.Restore(ctx, empty)
	require.NoError(t, err)
	require.False(t, found)

	from := time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2023, time.March, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, rec.Record(ctx, daterange.Value{From: from, To: to, RangeType: daterange.ThisWeek}))

	ctl := daterange.New(daterange.WithClock(func() time.Time { return refNow }))
	var emitted []daterange.Value
	ctl.RegisterOnChange(func(v daterange.Value) { emitted = append(emitted, v) })

	found, err = rec.Restore(ctx, ctl)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, emitted, 1)
	require.True(t, ctl.StartDate().Equal(from))
	require.True(t, ctl.EndDate().Equal(to))
	require.Equal(t, daterange.ThisWeek, ctl.DateRangeType())
}

func TestRecorderPrunesToKeep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewSnapshotRepo(openTestDB(t))
	rec := &Recorder{Snapshots: repo, Form: "f", Keep: 2}

	for _, c := range []daterange.Category{daterange.Today, daterange.Yesterday, daterange.Tomorrow} {
		require.NoError(t, rec.Record(ctx, daterange.Value{From: refNow, To: refNow, RangeType: c}))
	}
	all, err := repo.List(ctx, "f", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestRecorderLogsListenerFailures(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	var buf bytes.Buffer
	rec := &Recorder{
		Snapshots: repository.NewSnapshotRepo(db),
		Form:      "broken",
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
	}
	ctl := daterange.New(daterange.WithClock(func() time.Time { return refNow }))
	rec.Attach(context.Background(), ctl)

	require.NoError(t, db.Close())
	ctl.SelectCategory(daterange.Today)

	require.Error(t, rec.Err())
	require.Contains(t, buf.String(), "record range")
}

func TestRecorderAfterDestroyStoresNothing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewSnapshotRepo(openTestDB(t))
	rec := &Recorder{Snapshots: repo, Form: "gone"}

	ctl := daterange.New(daterange.WithClock(func() time.Time { return refNow }))
	rec.Attach(ctx, ctl)
	ctl.Destroy()
	ctl.WriteValue(&daterange.Value{From: refNow, To: refNow, RangeType: daterange.Today})

	require.Zero(t, rec.Recorded())
	latest, err := repo.Latest(ctx, "gone")
	require.NoError(t, err)
	require.Nil(t, latest)
}

func TestMaintenanceClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewSnapshotRepo(db)
	for _, form := range []string{"a", "a", "b"} {
		_, err := repo.Insert(ctx, repository.Snapshot{Form: form, RangeType: -1})
		require.NoError(t, err)
	}

	svc := &MaintenanceService{DB: db}
	removed, err := svc.Clear(ctx, "a")
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	removed, err = svc.Clear(ctx, "")
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	_, err = (&MaintenanceService{}).Clear(ctx, "")
	require.Error(t, err)
}
