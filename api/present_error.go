package api

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/caregiver-uploads/dto"
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"
)

var payloadTooLargeResponse = dto.APIErrorResponse{
	Message:   "the file exceeds the maximum upload size",
	ErrorCode: dto.PayloadTooLarge,
}

// presentError writes the status and error code matching err. Messages are fixed strings:
// the error itself may carry file names or provider details and never reaches the client.
func presentError(ctx context.Context, c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	logger := utils.LoggerFromContext(ctx)

	errorResponse := func(status int, code dto.ErrorCode, message string) {
		_ = c.Error(err)
		c.JSON(status, dto.APIErrorResponse{Message: message, ErrorCode: code})
	}

	switch {
	case errors.Is(err, models.PayloadTooLargeError):
		logger.InfoContext(ctx, "payload too large: "+err.Error())
		errorResponse(http.StatusRequestEntityTooLarge, payloadTooLargeResponse.ErrorCode, payloadTooLargeResponse.Message)

	case errors.Is(err, models.UnsupportedMediaTypeError):
		logger.InfoContext(ctx, "unsupported media type: "+err.Error())
		errorResponse(http.StatusUnsupportedMediaType, dto.UnsupportedMediaType, "this file type is not accepted")

	case errors.Is(err, models.ErrMissingIngestionConfig):
		logger.WarnContext(ctx, "missing ingestion config: "+err.Error())
		errorResponse(http.StatusBadRequest, dto.MissingIngestionConfig,
			"the recipient has no ingestion project or bucket configured")

	case errors.Is(err, models.BadParameterError):
		logger.InfoContext(ctx, "bad parameter: "+err.Error())
		errorResponse(http.StatusBadRequest, dto.BadParameter, "invalid request parameters")

	case errors.Is(err, models.UnAuthorizedError):
		logger.InfoContext(ctx, "unauthorized: "+err.Error())
		errorResponse(http.StatusUnauthorized, dto.Unauthorized, "unauthorized")

	case errors.Is(err, models.ForbiddenError):
		logger.InfoContext(ctx, "forbidden: "+err.Error())
		errorResponse(http.StatusForbidden, dto.Forbidden, "you do not have access to this recipient")

	case errors.Is(err, models.ErrRecipientNotFound):
		logger.InfoContext(ctx, "recipient not found: "+err.Error())
		errorResponse(http.StatusNotFound, dto.RecipientNotFound, "recipient not found")

	case errors.Is(err, models.NotFoundError):
		logger.InfoContext(ctx, "not found: "+err.Error())
		errorResponse(http.StatusNotFound, dto.NotFound, "not found")

	case errors.Is(err, models.UpstreamDependencyError):
		utils.LogAndReportSentryError(ctx, err)
		errorResponse(http.StatusBadGateway, dto.UpstreamDependencyFailure, "a storage dependency failed, please retry")

	default:
		utils.LogAndReportSentryError(ctx, err)
		errorResponse(http.StatusInternalServerError, dto.InternalError, "an unexpected error occurred")
	}
	return true
}
