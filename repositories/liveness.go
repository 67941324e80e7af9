package repositories

import (
	"context"

	"github.com/cockroachdb/errors"
)

type LivenessRepository struct {
	executor PgExecutor
}

func NewLivenessRepository(executor PgExecutor) *LivenessRepository {
	return &LivenessRepository{executor: executor}
}

func (repo *LivenessRepository) Liveness(ctx context.Context) error {
	sql := "SELECT 1"
	row := repo.executor.QueryRow(ctx, sql)
	var result int
	if err := row.Scan(&result); err != nil {
		return errors.Wrap(err, "database is not reachable")
	}
	return nil
}
