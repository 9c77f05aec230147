package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medcollab/internal/domain"
)

type FabricClient struct {
	mock.Mock
}

func (m *FabricClient) GetRecord(ctx context.Context, recordID string) (*domain.Record, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Record), args.Error(1)
}

func (m *FabricClient) ListByPatient(ctx context.Context, patientID string) ([]domain.Record, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *FabricClient) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Record, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *FabricClient) GrantAccess(ctx context.Context, recordID, doctorID string) error {
	args := m.Called(ctx, recordID, doctorID)
	return args.Error(0)
}

func (m *FabricClient) RevokeAccess(ctx context.Context, recordID, doctorID string) error {
	args := m.Called(ctx, recordID, doctorID)
	return args.Error(0)
}
