package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"medcollab/internal/domain"
	"medcollab/internal/realtime"
	"medcollab/internal/service/thread"
	"medcollab/tests/mocks"
)

func newThreadService(repo *mocks.CommentRepository) thread.Service {
	return thread.NewService(repo, nil, realtime.NewHub()) // Redis nil
}

func TestThreadService_AddComment(t *testing.T) {
	ctx := context.Background()
	author := domain.Author{Name: "Dr. Wilson", Avatar: "w.png", Specialty: "Oncology"}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("Create", ctx, mock.MatchedBy(func(row *domain.CommentRow) bool {
			return row.RoomID == "room-1" &&
				row.ParentID == nil &&
				row.Content == "First observation" &&
				row.AuthorName != nil && *row.AuthorName == "Dr. Wilson"
		})).Return(nil).Once()

		c, err := svc.AddComment(ctx, "room-1", author, "First observation")

		assert.NoError(t, err)
		assert.NotNil(t, c)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Just now", c.Timestamp)
		assert.Equal(t, 0, c.Likes)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Storage Failure Propagates", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("db down")).Once()

		c, err := svc.AddComment(ctx, "room-1", author, "x")

		assert.Error(t, err)
		assert.Nil(t, c)
	})
}

func TestThreadService_AddReply(t *testing.T) {
	ctx := context.Background()
	author := domain.Author{Name: "Dr. Wilson"}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("Exists", ctx, "room-1", "parent-1").Return(true, nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(row *domain.CommentRow) bool {
			return row.ParentID != nil && *row.ParentID == "parent-1"
		})).Return(nil).Once()

		reply, err := svc.AddReply(ctx, "room-1", "parent-1", author, "Agreed")

		assert.NoError(t, err)
		assert.NotNil(t, reply)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Unknown Parent Is Silently Ignored", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("Exists", ctx, "room-1", "ghost").Return(false, nil).Once()

		reply, err := svc.AddReply(ctx, "room-1", "ghost", author, "Agreed")

		assert.NoError(t, err)
		assert.Nil(t, reply)
		mockRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})
}

func TestThreadService_ToggleLike(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("ToggleLike", ctx, "room-1", "c1", viewerID).Return(3, true, nil).Once()

		likes, found, err := svc.ToggleLike(ctx, "room-1", "c1", viewerID)

		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 3, likes)
	})

	t.Run("Unknown Comment Is Silently Ignored", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("ToggleLike", ctx, "room-1", "ghost", viewerID).Return(0, false, nil).Once()

		likes, found, err := svc.ToggleLike(ctx, "room-1", "ghost", viewerID)

		assert.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, 0, likes)
	})
}

func TestThreadService_ListByRoom(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	name := "Dr. Wilson"
	parent := "c1"

	rows := []domain.CommentRow{
		{ID: "c1", RoomID: "room-1", AuthorName: &name, Content: "root", CreatedAt: base},
		{ID: "c2", RoomID: "room-1", ParentID: &parent, AuthorName: &name, Content: "reply", CreatedAt: base.Add(time.Minute)},
		{ID: "c3", RoomID: "room-1", Content: "no author", CreatedAt: base.Add(2 * time.Minute)},
	}

	t.Run("Builds Tree And Drops Authorless Entries", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		mockRepo.On("ListByRoom", ctx, "room-1").Return(rows, nil).Once()

		tree, err := svc.ListByRoom(ctx, "room-1", uuid.Nil, 0)

		assert.NoError(t, err)
		assert.Len(t, tree, 1)
		assert.Equal(t, "c1", tree[0].ID)
		assert.Len(t, tree[0].Replies, 1)
		assert.Equal(t, "c2", tree[0].Replies[0].ID)
	})

	t.Run("Marks The Viewer Likes", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)
		viewerID := uuid.New()

		mockRepo.On("ListByRoom", ctx, "room-1").Return(rows, nil).Once()
		mockRepo.On("LikedBy", ctx, "room-1", viewerID).
			Return(map[string]bool{"c2": true}, nil).Once()

		tree, err := svc.ListByRoom(ctx, "room-1", viewerID, 0)

		assert.NoError(t, err)
		assert.False(t, tree[0].UserLiked)
		assert.True(t, tree[0].Replies[0].UserLiked)
	})

	t.Run("Prunes Below The Display Depth", func(t *testing.T) {
		mockRepo := new(mocks.CommentRepository)
		svc := newThreadService(mockRepo)

		deep := make([]domain.CommentRow, 0, 7)
		var parentID *string
		for i := 0; i < 7; i++ {
			id := string(rune('a' + i))
			row := domain.CommentRow{ID: id, RoomID: "room-2", AuthorName: &name, Content: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
			if parentID != nil {
				p := *parentID
				row.ParentID = &p
			}
			deep = append(deep, row)
			parentID = &id
		}
		mockRepo.On("ListByRoom", ctx, "room-2").Return(deep, nil).Once()

		tree, err := svc.ListByRoom(ctx, "room-2", uuid.Nil, 0)

		assert.NoError(t, err)
		depth := 0
		for node := tree; len(node) > 0; node = node[0].Replies {
			depth++
		}
		// Roots plus four levels of replies.
		assert.Equal(t, 5, depth)
	})
}
