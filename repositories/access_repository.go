package repositories

import (
	"context"

	"github.com/checkmarble/caregiver-uploads/repositories/dbmodels"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

type AccessRepository struct {
	executor PgExecutor
}

func NewAccessRepository(executor PgExecutor) *AccessRepository {
	return &AccessRepository{executor: executor}
}

// HasCaregiverAccess reports whether a caregiver has been granted access to a recipient.
func (repo *AccessRepository) HasCaregiverAccess(ctx context.Context, caregiverId, recipientId string) (bool, error) {
	sql, args, err := NewQueryBuilder().
		Select("1").
		From(dbmodels.TABLE_RECIPIENT_CAREGIVER_ACCESS).
		Where(squirrel.Eq{
			"recipient_id": recipientId,
			"caregiver_id": caregiverId,
		}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "can't build sql query")
	}

	var one int
	err = repo.executor.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, errors.Wrap(err, "error checking caregiver access")
	}
	return true, nil
}
