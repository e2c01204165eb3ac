package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/daterange/internal/database"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Clear removes the stored history of form, or of every form when form is
// empty. It keeps the schema intact.
func (s *MaintenanceService) Clear(ctx context.Context, form string) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	var removed int64
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		query, args := "DELETE FROM range_snapshots", []any{}
		if form != "" {
			query, args = query+" WHERE form = ?", append(args, form)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("clear snapshots: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	}); err != nil {
		return 0, err
	}
	if form == "" {
		_, _ = s.DB.ExecContext(ctx, "VACUUM")
	}
	return removed, nil
}
