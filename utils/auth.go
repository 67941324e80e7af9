package utils

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/caregiver-uploads/models"
)

type validator interface {
	Validate(ctx context.Context, token string) (models.Credentials, error)
}

type Authentication struct {
	Validator validator
}

// Middleware requires a valid bearer token and stores the resulting credentials, and a
// logger carrying the caller id, in the request context.
func (a *Authentication) Middleware(c *gin.Context) {
	ctx := c.Request.Context()
	token, err := ParseAuthorizationBearerHeader(c.Request.Header)
	if err != nil {
		_ = c.Error(fmt.Errorf("could not parse authorization header: %w", err))
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	if token == "" {
		_ = c.Error(errors.Wrap(models.UnAuthorizedError, "missing bearer token"))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	credentials, err := a.Validator.Validate(ctx, token)
	if errors.Is(err, models.UnAuthorizedError) {
		_ = c.Error(fmt.Errorf("validator.Validate error: %w", err))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	} else if err != nil {
		LogAndReportSentryError(ctx, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	newContext := StoreCredentialsInContext(ctx, credentials)
	logger := LoggerFromContext(newContext).With(slog.String("caller_id", credentials.CallerId))
	c.Request = c.Request.WithContext(StoreLoggerInContext(newContext, logger))
	c.Next()
}

func NewAuthentication(validator validator) Authentication {
	return Authentication{
		Validator: validator,
	}
}

func ParseAuthorizationBearerHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if authorization == "" {
		return "", nil
	}

	authHeader := strings.Split(authorization, "Bearer ")
	if len(authHeader) != 2 {
		return "", fmt.Errorf("malformed token: %w", models.UnAuthorizedError)
	}
	return authHeader[1], nil
}
