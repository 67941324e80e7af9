package infra

import (
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// NewInsertOnlyRiverClient returns a river client that only enqueues jobs. The ingestion
// workers run in a separate service.
func NewInsertOnlyRiverClient(pool *pgxpool.Pool) (*river.Client[pgx.Tx], error) {
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "could not create river client")
	}
	return client, nil
}
