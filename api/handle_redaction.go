package api

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/caregiver-uploads/dto"
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/usecases"
)

func handleGetRedactionStatus(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		usecase := uc.NewRedactionUsecase()
		c.JSON(http.StatusOK, dto.AdaptRedactionStatusDto(usecase.Status()))
	}
}

func handlePostRedactionTest(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var body dto.RedactTextBody
		if err := c.ShouldBindJSON(&body); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewRedactionUsecase()
		result := usecase.RedactText(ctx, body.Text)
		c.JSON(http.StatusOK, dto.AdaptTextRedactionDto(result))
	}
}

type RedactionFileQuery struct {
	AsBase64 bool `form:"asBase64"`
}

func handlePostRedactionFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var query RedactionFileQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		content, fileHeader, ok := readUploadedFile(c)
		if !ok {
			return
		}

		usecase := uc.NewRedactionUsecase()
		result, err := usecase.RedactFile(ctx, content, fileHeader.Header.Get("Content-Type"))
		if presentError(ctx, c, err) {
			return
		}

		switch {
		case result.Class == models.ContentClassText:
			c.JSON(http.StatusOK, dto.AdaptRedactedTextFileDto(result))
		case query.AsBase64:
			c.JSON(http.StatusOK, dto.AdaptRedactedImageFileDto(result))
		default:
			c.Data(http.StatusOK, result.MimeType, result.Content)
		}
	}
}
