package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medcollab/internal/domain"
)

type CaseRepository struct {
	mock.Mock
}

func (m *CaseRepository) Create(ctx context.Context, c *domain.CollaborationCase) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CollaborationCase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CollaborationCase), args.Error(1)
}

func (m *CaseRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, params domain.PaginationParams) ([]domain.CollaborationCase, int64, error) {
	args := m.Called(ctx, doctorID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CollaborationCase), args.Get(1).(int64), args.Error(2)
}

func (m *CaseRepository) ListByPatient(ctx context.Context, patientID string, params domain.PaginationParams) ([]domain.CollaborationCase, int64, error) {
	args := m.Called(ctx, patientID, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.CollaborationCase), args.Get(1).(int64), args.Error(2)
}

func (m *CaseRepository) AddCollaborator(ctx context.Context, id uuid.UUID, doctorID string) error {
	args := m.Called(ctx, id, doctorID)
	return args.Error(0)
}

func (m *CaseRepository) Close(ctx context.Context, id uuid.UUID, decision domain.FinalDecision) error {
	args := m.Called(ctx, id, decision)
	return args.Error(0)
}

func (m *CaseRepository) CountOpenByDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CaseRepository) CountOpenByPatient(ctx context.Context, patientID string) (int64, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).(int64), args.Error(1)
}
