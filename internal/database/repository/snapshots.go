package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	timeLayout = time.RFC3339Nano
	// fixed width so created_at sorts as text
	createdLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Snapshot is one recorded date range value of a form.
type Snapshot struct {
	ID        string
	Form      string
	From      time.Time
	To        time.Time
	RangeType int
	CreatedAt time.Time
}

// SnapshotRepo handles range snapshots.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Insert stores s, assigning an ID when s has none.
func (r *SnapshotRepo) Insert(ctx context.Context, s Snapshot) (Snapshot, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO range_snapshots(id, form, range_from, range_to, range_type, created_at)
	VALUES(?, ?, ?, ?, ?, ?);
	`, s.ID, s.Form, s.From.Format(timeLayout), s.To.Format(timeLayout), s.RangeType, s.CreatedAt.UTC().Format(createdLayout))
	if err != nil {
		return Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return s, nil
}

// Latest returns the most recent snapshot of form, or nil when there is none.
func (r *SnapshotRepo) Latest(ctx context.Context, form string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, form, range_from, range_to, range_type, created_at
	FROM range_snapshots WHERE form = ?
	ORDER BY created_at DESC, rowid DESC LIMIT 1`, form)
	s, err := scanSnapshot(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// List returns up to limit snapshots of form, newest first. A limit of zero
// or less returns all of them.
func (r *SnapshotRepo) List(ctx context.Context, form string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, form, range_from, range_to, range_type, created_at
	FROM range_snapshots WHERE form = ?
	ORDER BY created_at DESC, rowid DESC LIMIT ?`, form, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep snapshots of form and returns the
// number removed. A keep of zero removes every snapshot of form.
func (r *SnapshotRepo) Prune(ctx context.Context, form string, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM range_snapshots
	WHERE form = ? AND id NOT IN (
		SELECT id FROM range_snapshots WHERE form = ?
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	)`, form, form, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(sc scanner) (Snapshot, error) {
	var (
		s                   Snapshot
		from, to, createdAt string
	)
	if err := sc.Scan(&s.ID, &s.Form, &from, &to, &s.RangeType, &createdAt); err != nil {
		return Snapshot{}, err
	}
	var err error
	if s.From, err = time.Parse(timeLayout, from); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s from: %w", s.ID, err)
	}
	if s.To, err = time.Parse(timeLayout, to); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s to: %w", s.ID, err)
	}
	if s.CreatedAt, err = time.Parse(createdLayout, createdAt); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s created_at: %w", s.ID, err)
	}
	return s, nil
}
