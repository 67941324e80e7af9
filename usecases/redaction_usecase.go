package usecases

import (
	"context"

	"github.com/checkmarble/caregiver-uploads/models"

	"github.com/cockroachdb/errors"
)

// RedactionUsecase exposes the redaction engine directly, for operators checking the
// detection setup without storing anything.
type RedactionUsecase struct {
	redactionEngine redactionEngine
	status          models.RedactionStatus
}

func (uc RedactionUsecase) Status() models.RedactionStatus {
	return uc.status
}

func (uc RedactionUsecase) RedactText(ctx context.Context, text string) models.TextRedactionResult {
	outcome := uc.redactionEngine.Redact(ctx, models.RedactionRequest{
		Content:  []byte(text),
		MimeType: "text/plain",
	})
	return models.TextRedactionResult{
		InputLength:  len(text),
		OutputLength: len(outcome.Content),
		RedactedText: string(outcome.Content),
		Findings:     outcome.Findings,
	}
}

func (uc RedactionUsecase) RedactFile(ctx context.Context, content []byte, mimeType string) (models.FileRedactionResult, error) {
	mimeType = models.NormalizeMimeType(mimeType)
	if mimeType == "" {
		mimeType = models.MimeTypeOctetStream
	}
	class := models.ContentClassFromMimeType(mimeType)
	if !class.Redactable() {
		return models.FileRedactionResult{}, errors.Wrapf(models.ErrUnsupportedMediaType, "type %s cannot be redacted", mimeType)
	}

	redactionMimeType := mimeType
	if class == models.ContentClassText {
		redactionMimeType = "text/plain"
	}
	outcome := uc.redactionEngine.Redact(ctx, models.RedactionRequest{
		Content:  content,
		MimeType: redactionMimeType,
	})
	return models.FileRedactionResult{
		Class:    class,
		MimeType: mimeType,
		Content:  outcome.Content,
		Findings: outcome.Findings,
	}, nil
}
