package usecases

import (
	"context"

	"github.com/checkmarble/caregiver-uploads/models"

	"github.com/cockroachdb/errors"
)

type storedUpload struct {
	FileName string
	MimeType string
	Content  []byte
}

// uploadSink is where the (possibly redacted) bytes of an upload end up.
type uploadSink interface {
	status() models.UploadStatus
	store(ctx context.Context, subject models.Subject, upload storedUpload) (models.UploadResult, error)
}

type corpusSink struct {
	repository corpusRepository
}

func (corpusSink) status() models.UploadStatus { return models.UploadStatusUploaded }

func (s corpusSink) store(ctx context.Context, subject models.Subject, upload storedUpload) (models.UploadResult, error) {
	if subject.CorpusUri == "" {
		return models.UploadResult{}, errors.Newf("recipient %s has no corpus", subject.Id)
	}

	doc, err := s.repository.UploadDocument(ctx, models.CorpusDocumentInput{
		CorpusUri: subject.CorpusUri,
		FileName:  upload.FileName,
		MimeType:  upload.MimeType,
		Content:   upload.Content,
	})
	if err != nil {
		return models.UploadResult{}, err
	}
	return models.UploadResult{Status: s.status(), Document: &doc}, nil
}

type ingestionSink struct {
	repository ingestionQueueRepository
}

func (ingestionSink) status() models.UploadStatus { return models.UploadStatusQueued }

func (s ingestionSink) store(ctx context.Context, subject models.Subject, upload storedUpload) (models.UploadResult, error) {
	job, err := s.repository.EnqueueIngestion(ctx, models.EnqueueIngestionInput{
		SubjectId:   subject.Id,
		ProjectId:   subject.GcpProjectId,
		TempBucket:  subject.TempBucket,
		FileName:    upload.FileName,
		ContentType: upload.MimeType,
		Content:     upload.Content,
	})
	if err != nil {
		return models.UploadResult{}, err
	}
	return models.UploadResult{Status: s.status(), Job: &job}, nil
}
