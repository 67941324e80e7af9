package cmd

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/checkmarble/caregiver-uploads/infra"
	"github.com/checkmarble/caregiver-uploads/utils"
)

// RunMigrations creates the river tables used to queue ingestion jobs. The users and access
// tables belong to the main application database schema and are not migrated here.
func RunMigrations() error {
	pgConfig := infra.PgConfig{
		ConnectionString:    utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:            utils.GetEnv("PG_DATABASE", "caregivers"),
		DbConnectWithSocket: utils.GetEnv("PG_CONNECT_WITH_SOCKET", false),
		Hostname:            utils.GetEnv("PG_HOSTNAME", ""),
		Password:            utils.GetEnv("PG_PASSWORD", ""),
		Port:                utils.GetEnv("PG_PORT", "5432"),
		User:                utils.GetEnv("PG_USER", ""),
		SslMode:             utils.GetEnv("PG_SSL_MODE", "prefer"),
	}

	logger := utils.NewLogger(utils.GetEnv("LOGGING_FORMAT", "text"))
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return errors.Wrap(err, "could not create river migrator")
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		logger.ErrorContext(ctx, "error running river migrations", slog.String("error", err.Error()))
		return errors.Wrap(err, "error running river migrations")
	}
	for _, version := range res.Versions {
		logger.InfoContext(ctx, "applied river migration", slog.Int("version", version.Version))
	}

	return nil
}
