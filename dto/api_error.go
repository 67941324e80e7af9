package dto

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code"`
}

type ErrorCode string

const (
	// upload validation
	PayloadTooLarge        ErrorCode = "payload_too_large"
	UnsupportedMediaType   ErrorCode = "unsupported_media_type"
	MissingIngestionConfig ErrorCode = "missing_ingestion_config"

	// access
	RecipientNotFound ErrorCode = "recipient_not_found"
	NotFound          ErrorCode = "not_found"
	Forbidden         ErrorCode = "forbidden"
	Unauthorized      ErrorCode = "unauthorized"

	// general
	BadParameter              ErrorCode = "bad_parameter"
	UpstreamDependencyFailure ErrorCode = "upstream_dependency_failure"
	InternalError             ErrorCode = "internal_error"
)
