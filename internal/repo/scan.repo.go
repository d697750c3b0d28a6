package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chemwatch/chemwatch/internal/domain"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

const DBTableName_ScanState = "scan_state"

// ScanRepo holds the single most-recent scan. The migration seeds row 1
// with an empty tag so Current never fails structurally.
type ScanRepo struct {
	repo      *sqlx.DB
	tableName string
}

func NewScanRepo(db *sqlx.DB) *ScanRepo {
	return &ScanRepo{
		repo:      db,
		tableName: DBTableName_ScanState,
	}
}

func (r *ScanRepo) Record(ctx context.Context, scan domain.ScanEvent) error {
	q := fmt.Sprintf("UPDATE %s SET tag = $1, quantity = $2 WHERE id = 1", r.tableName)
	_, err := r.repo.ExecContext(ctx, q, scan.Tag, scan.Quantity)
	if err != nil {
		return pkgerrors.NewStorageError(err)
	}
	return nil
}

func (r *ScanRepo) Current(ctx context.Context) (domain.ScanEvent, error) {
	scan := domain.ScanEvent{}
	q := fmt.Sprintf("SELECT tag, quantity FROM %s WHERE id = 1", r.tableName)
	err := r.repo.GetContext(ctx, &scan, q)
	if err != nil {
		return domain.ScanEvent{}, pkgerrors.NewStorageError(err)
	}
	return scan, nil
}
