package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/caregiver-uploads/models"
)

type DetectionProvider struct {
	mock.Mock
}

func (m *DetectionProvider) Inspect(ctx context.Context, text string, cfg models.DetectionConfig) ([]models.RedactionFinding, error) {
	args := m.Called(ctx, text, cfg)
	return args.Get(0).([]models.RedactionFinding), args.Error(1)
}

func (m *DetectionProvider) Deidentify(ctx context.Context, text string, cfg models.DetectionConfig) (string, error) {
	args := m.Called(ctx, text, cfg)
	return args.String(0), args.Error(1)
}

func (m *DetectionProvider) RedactImage(ctx context.Context, content []byte, mimeType string, cfg models.DetectionConfig) ([]byte, error) {
	args := m.Called(ctx, content, mimeType, cfg)
	return args.Get(0).([]byte), args.Error(1)
}
