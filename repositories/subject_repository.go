package repositories

import (
	"context"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/repositories/dbmodels"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

type SubjectRepository struct {
	executor PgExecutor
}

func NewSubjectRepository(executor PgExecutor) *SubjectRepository {
	return &SubjectRepository{executor: executor}
}

func (repo *SubjectRepository) GetSubject(ctx context.Context, subjectId string) (models.Subject, error) {
	sql, args, err := NewQueryBuilder().
		Select(dbmodels.SelectSubjectColumn...).
		From(dbmodels.TABLE_USERS).
		Where("id = ?", subjectId).
		ToSql()
	if err != nil {
		return models.Subject{}, errors.Wrap(err, "can't build sql query")
	}

	rows, err := repo.executor.Query(ctx, sql, args...)
	if err != nil {
		return models.Subject{}, errors.Wrap(err, "error executing sql query")
	}
	subject, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[dbmodels.DBSubject])
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Subject{}, errors.Wrapf(models.NotFoundError, "subject %s not found", subjectId)
	} else if err != nil {
		return models.Subject{}, errors.Wrap(err, "error reading subject")
	}

	return dbmodels.AdaptSubject(subject), nil
}
