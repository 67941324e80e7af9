package cmd

import (
	"github.com/cockroachdb/errors"
)

type CompiledConfig struct {
	Version string
}

type ServerConfig struct {
	jwtSigningKey              string
	loggingFormat              string
	sentryDsn                  string
	telemetryExporter          string
	enablePipeline             bool
	ingestionBucketUrlTemplate string
	maxUploadMb                int
	allowedMimeTypes           []string
}

func (config ServerConfig) Validate() error {
	if config.jwtSigningKey == "" {
		return errors.New("AUTHENTICATION_JWT_SIGNING_KEY must be set")
	}
	if config.maxUploadMb <= 0 {
		return errors.New("MAX_UPLOAD_MB must be a positive number of megabytes")
	}
	if config.enablePipeline && config.ingestionBucketUrlTemplate == "" {
		return errors.New("INGESTION_BUCKET_URL_TEMPLATE must be set when the pipeline is enabled")
	}
	switch config.telemetryExporter {
	case "gcp", "otlp":
	default:
		return errors.Newf("unknown tracing exporter %q", config.telemetryExporter)
	}
	return nil
}
