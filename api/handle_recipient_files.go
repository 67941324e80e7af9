package api

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/checkmarble/caregiver-uploads/dto"
	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/pure_utils"
	"github.com/checkmarble/caregiver-uploads/usecases"
	"github.com/checkmarble/caregiver-uploads/utils"
)

type RecipientInput struct {
	RecipientId string `uri:"recipient_id" binding:"required"`
}

type RecipientFileInput struct {
	RecipientId string `uri:"recipient_id" binding:"required"`
	FileId      string `uri:"file_id" binding:"required"`
}

type FileForm struct {
	File *multipart.FileHeader `form:"file" binding:"required"`
}

func handlePostRecipientFile(uc usecases.Usecases) func(c *gin.Context) {
	return handleUpload(uc, models.UploadModeStandard)
}

func handlePostRedactUpload(uc usecases.Usecases) func(c *gin.Context) {
	return handleUpload(uc, models.UploadModeRedactFirst)
}

func handleUpload(uc usecases.Usecases, mode models.UploadMode) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var recipientInput RecipientInput
		if err := c.ShouldBindUri(&recipientInput); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		content, fileHeader, ok := readUploadedFile(c)
		if !ok {
			return
		}

		usecase := uc.NewUploadUsecase()
		result, err := usecase.UploadRecipientFile(ctx, models.UploadInput{
			SubjectId: recipientInput.RecipientId,
			CallerId:  callerId(c),
			FileName:  uploadFileName(fileHeader),
			MimeType:  fileHeader.Header.Get("Content-Type"),
			Content:   content,
			Mode:      mode,
		})
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusCreated, dto.AdaptUploadResponse(result, mode))
	}
}

func handleListRecipientFiles(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var recipientInput RecipientInput
		if err := c.ShouldBindUri(&recipientInput); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewRecipientFilesUsecase()
		docs, err := usecase.ListFiles(ctx, callerId(c), recipientInput.RecipientId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.RecipientFilesResponse{
			RecipientId: recipientInput.RecipientId,
			Items:       pure_utils.Map(docs, dto.AdaptCorpusDocumentDto),
		})
	}
}

func handleGetRecipientFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var fileInput RecipientFileInput
		if err := c.ShouldBindUri(&fileInput); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewRecipientFilesUsecase()
		doc, err := usecase.GetFile(ctx, callerId(c), fileInput.RecipientId, fileInput.FileId)
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.RecipientFileResponse{
			RecipientId: fileInput.RecipientId,
			FileId:      fileInput.FileId,
			Data:        dto.AdaptCorpusDocumentDto(doc),
		})
	}
}

func handleDeleteRecipientFile(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var fileInput RecipientFileInput
		if err := c.ShouldBindUri(&fileInput); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewRecipientFilesUsecase()
		err := usecase.DeleteFile(ctx, callerId(c), fileInput.RecipientId, fileInput.FileId)
		if presentError(ctx, c, err) {
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// readUploadedFile binds the multipart "file" field and reads it fully. It writes the error
// response itself and returns false when the request cannot go further.
func readUploadedFile(c *gin.Context) ([]byte, *multipart.FileHeader, bool) {
	ctx := c.Request.Context()
	var form FileForm
	if err := c.ShouldBind(&form); err != nil {
		if c.IsAborted() {
			// the size limiter already answered
			return nil, nil, false
		}
		presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
		return nil, nil, false
	}

	file, err := form.File.Open()
	if err != nil {
		presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
		return nil, nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
		return nil, nil, false
	}
	return content, form.File, true
}

func uploadFileName(fileHeader *multipart.FileHeader) string {
	if fileHeader.Filename == "" {
		return "upload"
	}
	return fileHeader.Filename
}

func callerId(c *gin.Context) string {
	creds, _ := utils.CredentialsFromCtx(c.Request.Context())
	return creds.CallerId
}
