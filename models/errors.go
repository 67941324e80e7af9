package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// PayloadTooLargeError is rendered with the http status code 413
	PayloadTooLargeError = errors.New("payload too large")

	// UnsupportedMediaTypeError is rendered with the http status code 415
	UnsupportedMediaTypeError = errors.New("unsupported media type")

	// UpstreamDependencyError is rendered with the http status code 502
	UpstreamDependencyError = errors.New("upstream dependency failure")
)

// Upload related errors
var (
	ErrRecipientNotFound      = errors.Wrap(NotFoundError, "recipient not found")
	ErrPayloadTooLarge        = errors.Wrap(PayloadTooLargeError, "file exceeds the maximum upload size")
	ErrUnsupportedMediaType   = errors.Wrap(UnsupportedMediaTypeError, "file type is not allowed")
	ErrMissingIngestionConfig = errors.Wrap(BadParameterError,
		"ingestion pipeline is enabled but the recipient has no gcp project or temp bucket")
)

// Redaction related errors. Never returned to callers of the redaction engine.
var (
	ErrDetectionProviderUnavailable = errors.New("detection provider unavailable")
)
