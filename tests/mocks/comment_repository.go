package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"medcollab/internal/domain"
)

type CommentRepository struct {
	mock.Mock
}

func (m *CommentRepository) Create(ctx context.Context, row *domain.CommentRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *CommentRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.CommentRow, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommentRow), args.Error(1)
}

func (m *CommentRepository) Exists(ctx context.Context, roomID, commentID string) (bool, error) {
	args := m.Called(ctx, roomID, commentID)
	return args.Bool(0), args.Error(1)
}

func (m *CommentRepository) LikedBy(ctx context.Context, roomID string, userID uuid.UUID) (map[string]bool, error) {
	args := m.Called(ctx, roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *CommentRepository) ToggleLike(ctx context.Context, roomID, commentID string, userID uuid.UUID) (int, bool, error) {
	args := m.Called(ctx, roomID, commentID, userID)
	return args.Int(0), args.Bool(1), args.Error(2)
}
