package usecases

import (
	"bytes"
	"context"
	"log/slog"
	"slices"

	"github.com/checkmarble/caregiver-uploads/models"
	"github.com/checkmarble/caregiver-uploads/utils"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/go-set/v2"
)

type subjectRepository interface {
	GetSubject(ctx context.Context, subjectId string) (models.Subject, error)
}

type accessRepository interface {
	HasCaregiverAccess(ctx context.Context, caregiverId, recipientId string) (bool, error)
}

type corpusRepository interface {
	UploadDocument(ctx context.Context, input models.CorpusDocumentInput) (models.CorpusDocument, error)
	ListDocuments(ctx context.Context, corpusUri string) ([]models.CorpusDocument, error)
	GetDocument(ctx context.Context, corpusUri, docId string) (models.CorpusDocument, error)
	DeleteDocument(ctx context.Context, corpusUri, docId string) error
}

type ingestionQueueRepository interface {
	EnqueueIngestion(ctx context.Context, input models.EnqueueIngestionInput) (models.IngestionJob, error)
}

type redactionEngine interface {
	Ready() bool
	Redact(ctx context.Context, req models.RedactionRequest) models.RedactionOutcome
}

type UploadUsecase struct {
	subjectRepository        subjectRepository
	accessRepository         accessRepository
	corpusRepository         corpusRepository
	ingestionQueueRepository ingestionQueueRepository
	redactionEngine          redactionEngine
	policy                   models.UploadPolicy
}

// UploadRecipientFile validates an upload, redacts it when possible and stores it either
// in the recipient's corpus or in the ingestion queue. Nothing is written before redaction
// is over, and redaction failures never fail the upload.
func (uc UploadUsecase) UploadRecipientFile(ctx context.Context, input models.UploadInput) (models.UploadResult, error) {
	logger := utils.LoggerFromContext(ctx)

	subject, err := resolveAccessibleSubject(ctx, uc.subjectRepository, uc.accessRepository,
		input.CallerId, input.SubjectId)
	if err != nil {
		return models.UploadResult{}, err
	}

	if uc.policy.MaxUploadBytes > 0 && int64(len(input.Content)) > uc.policy.MaxUploadBytes {
		return models.UploadResult{}, errors.Wrapf(models.ErrPayloadTooLarge,
			"%d bytes over the %d bytes limit", len(input.Content), uc.policy.MaxUploadBytes)
	}

	mimeType := input.MimeType
	if models.NormalizeMimeType(mimeType) == "" {
		mimeType = models.MimeTypeOctetStream
	}
	if !uc.policy.IsAllowedMimeType(mimeType) {
		return models.UploadResult{}, errors.Wrapf(models.ErrUnsupportedMediaType, "type %s", mimeType)
	}

	sink, err := uc.selectSink(subject)
	if err != nil {
		return models.UploadResult{}, err
	}

	outcome := uc.redact(ctx, input, mimeType)
	redacted := !bytes.Equal(outcome.Content, input.Content)

	result, err := sink.store(ctx, subject, storedUpload{
		FileName: input.FileName,
		MimeType: mimeType,
		Content:  outcome.Content,
	})
	if err != nil {
		logger.WarnContext(ctx, "file_store_failed",
			slog.String("subject_id", subject.Id),
			slog.String("destination", string(sink.status())),
			slog.String("mime_type", mimeType),
			slog.Int("size_bytes", len(input.Content)))
		return models.UploadResult{}, errors.Mark(err, models.UpstreamDependencyError)
	}

	result.SubjectId = subject.Id
	result.MimeType = mimeType
	result.Redacted = redacted
	if len(outcome.Findings) > 0 {
		result.Findings = outcome.Findings
	}
	if input.Mode == models.UploadModeRedactFirst {
		result.RedactedTypes = redactedTypes(outcome.Findings)
	}

	event := uploadLogEvent(result.Status, redacted)
	utils.MetricUploadCount.WithLabelValues(event).Inc()
	attrs := []any{
		slog.String("subject_id", subject.Id),
		slog.String("mime_type", mimeType),
		slog.Int("size_bytes", len(input.Content)),
		slog.Bool("redacted", redacted),
	}
	if input.Mode == models.UploadModeRedactFirst {
		attrs = append(attrs, slog.Int("redacted_types", len(result.RedactedTypes)))
	}
	logger.InfoContext(ctx, event, attrs...)

	return result, nil
}

// redact sends text as text/plain and images with their own type. Other types are
// stored as is.
func (uc UploadUsecase) redact(ctx context.Context, input models.UploadInput, mimeType string) models.RedactionOutcome {
	passthrough := models.RedactionOutcome{Content: input.Content, Findings: []models.RedactionFinding{}}

	enabled := uc.policy.RedactionEnabled || input.Mode == models.UploadModeRedactFirst
	if !enabled || uc.redactionEngine == nil || !uc.redactionEngine.Ready() {
		return passthrough
	}

	class := models.ContentClassFromMimeType(mimeType)
	if !class.Redactable() {
		return passthrough
	}

	redactionMimeType := mimeType
	if class == models.ContentClassText {
		redactionMimeType = "text/plain"
	}
	return uc.redactionEngine.Redact(ctx, models.RedactionRequest{
		SubjectId: input.SubjectId,
		Content:   input.Content,
		MimeType:  redactionMimeType,
	})
}

func (uc UploadUsecase) selectSink(subject models.Subject) (uploadSink, error) {
	if !subject.UsesPipeline(uc.policy.PipelineEnabled) {
		return corpusSink{repository: uc.corpusRepository}, nil
	}
	if !subject.HasIngestionConfig() {
		return nil, models.ErrMissingIngestionConfig
	}
	if uc.ingestionQueueRepository == nil {
		return nil, errors.Wrap(models.UpstreamDependencyError, "ingestion queue is not configured")
	}
	return ingestionSink{repository: uc.ingestionQueueRepository}, nil
}

func resolveAccessibleSubject(ctx context.Context, subjects subjectRepository,
	access accessRepository, callerId, subjectId string,
) (models.Subject, error) {
	if callerId == "" {
		return models.Subject{}, errors.Wrap(models.UnAuthorizedError, "no caller in request")
	}

	subject, err := subjects.GetSubject(ctx, subjectId)
	if errors.Is(err, models.NotFoundError) {
		return models.Subject{}, errors.Wrapf(models.ErrRecipientNotFound, "recipient %s", subjectId)
	} else if err != nil {
		return models.Subject{}, err
	}

	if callerId == subject.Id {
		return subject, nil
	}
	allowed, err := access.HasCaregiverAccess(ctx, callerId, subject.Id)
	if err != nil {
		return models.Subject{}, err
	}
	if !allowed {
		return models.Subject{}, errors.Wrapf(models.ForbiddenError,
			"caller %s has no access to recipient %s", callerId, subject.Id)
	}
	return subject, nil
}

func redactedTypes(findings []models.RedactionFinding) []string {
	types := set.New[string](len(findings))
	for _, f := range findings {
		types.Insert(f.InfoType)
	}
	sorted := types.Slice()
	slices.Sort(sorted)
	return sorted
}

func uploadLogEvent(status models.UploadStatus, redacted bool) string {
	switch {
	case status == models.UploadStatusQueued && redacted:
		return "file_redact_queued"
	case status == models.UploadStatusQueued:
		return "file_queued"
	case redacted:
		return "file_redact_uploaded"
	default:
		return "file_uploaded"
	}
}
