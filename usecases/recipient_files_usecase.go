package usecases

import (
	"context"

	"github.com/checkmarble/caregiver-uploads/models"

	"github.com/cockroachdb/errors"
)

// RecipientFilesUsecase reads and deletes the documents already stored in a recipient's corpus.
type RecipientFilesUsecase struct {
	subjectRepository subjectRepository
	accessRepository  accessRepository
	corpusRepository  corpusRepository
}

func (uc RecipientFilesUsecase) ListFiles(ctx context.Context, callerId, subjectId string) ([]models.CorpusDocument, error) {
	subject, err := resolveAccessibleSubject(ctx, uc.subjectRepository, uc.accessRepository, callerId, subjectId)
	if err != nil {
		return nil, err
	}
	if subject.CorpusUri == "" {
		return []models.CorpusDocument{}, nil
	}

	docs, err := uc.corpusRepository.ListDocuments(ctx, subject.CorpusUri)
	if err != nil {
		return nil, corpusError(err)
	}
	return docs, nil
}

func (uc RecipientFilesUsecase) GetFile(ctx context.Context, callerId, subjectId, docId string) (models.CorpusDocument, error) {
	subject, err := resolveAccessibleSubject(ctx, uc.subjectRepository, uc.accessRepository, callerId, subjectId)
	if err != nil {
		return models.CorpusDocument{}, err
	}
	if subject.CorpusUri == "" {
		return models.CorpusDocument{}, errors.Wrapf(models.NotFoundError, "recipient %s has no corpus", subject.Id)
	}

	doc, err := uc.corpusRepository.GetDocument(ctx, subject.CorpusUri, docId)
	if err != nil {
		return models.CorpusDocument{}, corpusError(err)
	}
	return doc, nil
}

func (uc RecipientFilesUsecase) DeleteFile(ctx context.Context, callerId, subjectId, docId string) error {
	subject, err := resolveAccessibleSubject(ctx, uc.subjectRepository, uc.accessRepository, callerId, subjectId)
	if err != nil {
		return err
	}
	if subject.CorpusUri == "" {
		return errors.Wrapf(models.NotFoundError, "recipient %s has no corpus", subject.Id)
	}

	if err := uc.corpusRepository.DeleteDocument(ctx, subject.CorpusUri, docId); err != nil {
		return corpusError(err)
	}
	return nil
}

// corpusError keeps not found errors as such and turns anything else into an upstream failure.
func corpusError(err error) error {
	if errors.Is(err, models.NotFoundError) {
		return err
	}
	return errors.Mark(err, models.UpstreamDependencyError)
}
