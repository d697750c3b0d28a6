package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/chemwatch/chemwatch/internal/domain"
	"github.com/chemwatch/chemwatch/pkg/db/postgres"
	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

const DBTableName_Alerts = "alerts"

type AlertRepo struct {
	repo      *sqlx.DB
	tableName string
}

func NewAlertRepo(db *sqlx.DB) *AlertRepo {
	return &AlertRepo{
		repo:      db,
		tableName: DBTableName_Alerts,
	}
}

func (r *AlertRepo) Insert(ctx context.Context, alert *domain.Alert) (int, error) {
	q := fmt.Sprintf(`INSERT INTO %s ("time", description) VALUES($1, $2) RETURNING id`, r.tableName)
	var id int
	err := r.repo.GetContext(ctx, &id, q, alert.Time, alert.Description)
	if err != nil {
		return postgres.NonExistingIntKey, pkgerrors.NewStorageError(err)
	}
	alert.ID = id
	return id, nil
}

func (r *AlertRepo) List(ctx context.Context) ([]domain.Alert, error) {
	alerts := []domain.Alert{}
	q := fmt.Sprintf(`SELECT id, "time", description FROM %s ORDER BY id`, r.tableName)
	err := r.repo.SelectContext(ctx, &alerts, q)
	if err != nil {
		return nil, pkgerrors.NewStorageError(err)
	}
	return alerts, nil
}

func (r *AlertRepo) Delete(ctx context.Context, id int) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.tableName)
	res, err := r.repo.ExecContext(ctx, q, id)
	if err != nil {
		return pkgerrors.NewStorageError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return pkgerrors.NewStorageError(err)
	}
	if n == 0 {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("alert %d not found", id))
	}
	return nil
}
