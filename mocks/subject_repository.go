package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/checkmarble/caregiver-uploads/models"
)

type SubjectRepository struct {
	mock.Mock
}

func (m *SubjectRepository) GetSubject(ctx context.Context, subjectId string) (models.Subject, error) {
	args := m.Called(ctx, subjectId)
	return args.Get(0).(models.Subject), args.Error(1)
}

type AccessRepository struct {
	mock.Mock
}

func (m *AccessRepository) HasCaregiverAccess(ctx context.Context, caregiverId, recipientId string) (bool, error) {
	args := m.Called(ctx, caregiverId, recipientId)
	return args.Bool(0), args.Error(1)
}
