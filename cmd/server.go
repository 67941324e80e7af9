package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/checkmarble/caregiver-uploads/api"
	"github.com/checkmarble/caregiver-uploads/infra"
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/repositories"
	"github.com/checkmarble/caregiver-uploads/usecases"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"github.com/getsentry/sentry-go"
)

func RunServer(config CompiledConfig) error {
	// This is where we read the environment variables and set up the configuration for the application.
	apiConfig := api.Configuration{
		Env:                 utils.GetEnv("ENV", "development"),
		AppName:             "caregiver-uploads",
		AppVersion:          config.Version,
		Port:                utils.GetRequiredEnv[string]("PORT"),
		AllowedOrigins:      utils.GetEnv("CORS_ALLOWED_ORIGINS", []string{}),
		RequestLoggingLevel: utils.GetEnv("REQUEST_LOGGING_LEVEL", "info"),
		EnablePrometheus:    utils.GetEnv("ENABLE_PROMETHEUS", true),
		ProfilingConfig: utils.ProfilingConfig{
			Mode:  utils.GetEnv("DEBUG_PROFILING_MODE", ""),
			Token: utils.GetEnv("DEBUG_PROFILING_TOKEN", ""),
		},
	}
	gcpConfig := infra.GcpConfig{
		EnableTracing:                utils.GetEnv("ENABLE_GCP_TRACING", false),
		ProjectId:                    utils.GetEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleApplicationCredentials: utils.GetEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}
	apiConfig.GcpConfig = gcpConfig
	pgConfig := infra.PgConfig{
		ConnectionString:    utils.GetEnv("PG_CONNECTION_STRING", ""),
		Database:            utils.GetEnv("PG_DATABASE", "caregivers"),
		DbConnectWithSocket: utils.GetEnv("PG_CONNECT_WITH_SOCKET", false),
		Hostname:            utils.GetEnv("PG_HOSTNAME", ""),
		Password:            utils.GetEnv("PG_PASSWORD", ""),
		Port:                utils.GetEnv("PG_PORT", "5432"),
		User:                utils.GetEnv("PG_USER", ""),
		MaxPoolConnections:  utils.GetEnv("PG_MAX_POOL_SIZE", infra.DEFAULT_MAX_CONNECTIONS),
		SslMode:             utils.GetEnv("PG_SSL_MODE", "prefer"),
	}
	dlpConfig := infra.DlpConfig{
		Enabled:           utils.GetEnv("ENABLE_DLP", false),
		ProjectId:         utils.GetEnv("DLP_PROJECT_ID", ""),
		Location:          utils.GetEnv("DLP_LOCATION", infra.DEFAULT_DLP_LOCATION),
		MinLikelihood:     utils.GetEnv("DLP_MIN_LIKELIHOOD", string(models.DefaultMinLikelihood)),
		InfoTypes:         utils.GetEnv("DLP_INFO_TYPES", []string{}),
		MaxTextBytes:      utils.GetEnv("DLP_MAX_TEXT_BYTES", infra.DEFAULT_DLP_MAX_TEXT_BYTES),
		RequestsPerSecond: utils.GetEnv("DLP_REQUESTS_PER_SECOND", float64(infra.DEFAULT_DLP_REQUESTS_PER_SECOND)),
		PolicyFile:        utils.GetEnv("DLP_POLICY_FILE", ""),
	}
	serverConfig := ServerConfig{
		jwtSigningKey:              utils.GetEnv("AUTHENTICATION_JWT_SIGNING_KEY", ""),
		loggingFormat:              utils.GetEnv("LOGGING_FORMAT", "text"),
		sentryDsn:                  utils.GetEnv("SENTRY_DSN", ""),
		telemetryExporter:          utils.GetEnv("TRACING_EXPORTER", "gcp"),
		enablePipeline:             utils.GetEnv("ENABLE_PIPELINE", false),
		ingestionBucketUrlTemplate: utils.GetEnv("INGESTION_BUCKET_URL_TEMPLATE", "gs://%s"),
		maxUploadMb:                utils.GetEnv("MAX_UPLOAD_MB", 20),
		allowedMimeTypes:           utils.GetEnv("UPLOAD_ALLOWED_MIME_TYPES", models.DefaultAllowedMimeTypes),
	}

	logger := utils.NewLogger(serverConfig.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := serverConfig.Validate(); err != nil {
		logger.ErrorContext(ctx, "invalid server configuration", slog.String("error", err.Error()))
		return err
	}

	infra.SetupSentry(serverConfig.sentryDsn, apiConfig.Env, apiConfig.AppVersion)
	defer sentry.Flush(3 * time.Second)

	tracingConfig := infra.TelemetryConfiguration{
		ApplicationName: apiConfig.AppName,
		Enabled:         gcpConfig.EnableTracing,
		ProjectID:       gcpConfig.ProjectId,
		Exporter:        serverConfig.telemetryExporter,
	}
	telemetryRessources, err := infra.InitTelemetry(tracingConfig, apiConfig.AppVersion)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		telemetryRessources = infra.NoopTelemetry()
	}

	pool, err := infra.NewPostgresConnectionPool(ctx, pgConfig)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	defer pool.Close()

	riverClient, err := infra.NewInsertOnlyRiverClient(pool)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}

	dlpConfig.ProjectId = infra.ResolveDlpProjectId(ctx, dlpConfig, gcpConfig)
	policy, err := infra.LoadRedactionPolicy(dlpConfig.PolicyFile)
	if err != nil {
		utils.LogAndReportSentryError(ctx, err)
		return err
	}
	dlpService, err := infra.NewDlpService(ctx, dlpConfig, gcpConfig)
	if err != nil {
		// redaction is best effort, the service keeps accepting uploads unredacted
		utils.LogAndReportSentryError(ctx, err)
	}

	repositoryOptions := []repositories.Option{
		repositories.WithRiverClient(riverClient),
		repositories.WithIngestionBucketUrlTemplate(serverConfig.ingestionBucketUrlTemplate),
		repositories.WithJwtSigningKey([]byte(serverConfig.jwtSigningKey)),
	}
	if dlpService != nil {
		repositoryOptions = append(repositoryOptions, repositories.WithDlpService(
			dlpService, dlpConfig.ProjectId, dlpConfig.Location, dlpConfig.RequestsPerSecond))
	}
	repos := repositories.NewRepositories(pool, repositoryOptions...)

	maxUploadBytes := int64(serverConfig.maxUploadMb) * 1024 * 1024
	apiConfig.MaxRequestBytes = maxUploadBytes
	uc := usecases.NewUsecases(repos,
		usecases.WithUploadPolicy(models.UploadPolicy{
			MaxUploadBytes:   maxUploadBytes,
			AllowedMimeTypes: serverConfig.allowedMimeTypes,
			RedactionEnabled: dlpConfig.Enabled,
			PipelineEnabled:  serverConfig.enablePipeline,
		}),
		usecases.WithDetectionSettings(dlpConfig.DetectionSettings(policy), dlpConfig.MaxTextBytes),
		usecases.WithDlpTarget(dlpConfig.ProjectId, dlpConfig.Location),
	)

	router := api.InitRouterMiddlewares(ctx, apiConfig, telemetryRessources)
	server := api.NewServer(router, apiConfig, uc, utils.NewAuthentication(repos.CallerJwtRepository))

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.InfoContext(ctx, "starting server", slog.String("port", apiConfig.Port))
		err := server.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			utils.LogAndReportSentryError(ctx, errors.Wrap(err, "Error while serving the app"))
		}
		logger.InfoContext(ctx, "server returned")
	}()

	<-notify.Done()
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogAndReportSentryError(
			ctx,
			errors.Wrap(err, "Error while shutting down the server"),
		)
		return err
	}

	return nil
}
