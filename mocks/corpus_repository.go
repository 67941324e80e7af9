package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/caregiver-uploads/models"
)

type CorpusRepository struct {
	mock.Mock
}

func (m *CorpusRepository) UploadDocument(ctx context.Context, input models.CorpusDocumentInput) (models.CorpusDocument, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.CorpusDocument), args.Error(1)
}

func (m *CorpusRepository) ListDocuments(ctx context.Context, corpusUri string) ([]models.CorpusDocument, error) {
	args := m.Called(ctx, corpusUri)
	return args.Get(0).([]models.CorpusDocument), args.Error(1)
}

func (m *CorpusRepository) GetDocument(ctx context.Context, corpusUri, docId string) (models.CorpusDocument, error) {
	args := m.Called(ctx, corpusUri, docId)
	return args.Get(0).(models.CorpusDocument), args.Error(1)
}

func (m *CorpusRepository) DeleteDocument(ctx context.Context, corpusUri, docId string) error {
	args := m.Called(ctx, corpusUri, docId)
	return args.Error(0)
}
