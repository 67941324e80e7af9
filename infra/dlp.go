package infra

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	dlp "google.golang.org/api/dlp/v2"
	"google.golang.org/api/option"

	"github.com/checkmarble/caregiver-uploads/utils"
)

// NewDlpService builds the detection provider client once for the process. A nil service
// without error means redaction is disabled or no project is configured, in which case
// the redaction engine stays not ready for the lifetime of the process.
func NewDlpService(ctx context.Context, cfg DlpConfig, gcpConfig GcpConfig, opts ...option.ClientOption) (*dlp.Service, error) {
	logger := utils.LoggerFromContext(ctx)
	if !cfg.Enabled {
		logger.InfoContext(ctx, "dlp disabled, uploads will not be redacted")
		return nil, nil
	}
	if cfg.ProjectId == "" {
		logger.InfoContext(ctx, "dlp enabled but no project id is configured, uploads will not be redacted")
		return nil, nil
	}

	if gcpConfig.GoogleApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(gcpConfig.GoogleApplicationCredentials))
	}
	svc, err := dlp.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create dlp client")
	}

	logger.InfoContext(ctx, "dlp client ready",
		slog.String("project_id", cfg.ProjectId),
		slog.String("location", cfg.Location))
	return svc, nil
}
