package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/caregiver-uploads/models"
)

type IngestionQueueRepository struct {
	mock.Mock
}

func (m *IngestionQueueRepository) EnqueueIngestion(ctx context.Context, input models.EnqueueIngestionInput) (models.IngestionJob, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(models.IngestionJob), args.Error(1)
}
