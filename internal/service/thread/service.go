package thread

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"medcollab/internal/domain"
	"medcollab/internal/realtime"
	"medcollab/internal/repository"
)

// DefaultMaxDepth caps how deep reply nesting is rendered. Deeper replies
// stay in storage; the cutoff is display-only.
const DefaultMaxDepth = 4

const cacheTTL = 5 * time.Minute

type Service interface {
	ListByRoom(ctx context.Context, roomID string, viewerID uuid.UUID, maxDepth int) ([]domain.Comment, error)
	AddComment(ctx context.Context, roomID string, author domain.Author, content string) (*domain.Comment, error)
	AddReply(ctx context.Context, roomID, parentID string, author domain.Author, content string) (*domain.Comment, error)
	ToggleLike(ctx context.Context, roomID, commentID string, viewerID uuid.UUID) (int, bool, error)

	// BindRealtime subscribes the thread handlers to the hub and returns a
	// single disposer releasing all of them.
	BindRealtime(hub *realtime.Hub) realtime.Disposer
}

type service struct {
	commentRepo repository.CommentRepository
	redis       *redis.Client
	hub         *realtime.Hub
}

func NewService(commentRepo repository.CommentRepository, redis *redis.Client, hub *realtime.Hub) Service {
	return &service{
		commentRepo: commentRepo,
		redis:       redis,
		hub:         hub,
	}
}

func cacheKey(roomID string) string {
	return fmt.Sprintf("thread:%s", roomID)
}

// loadTree returns the viewer-agnostic tree for a room, from cache when warm.
func (s *service) loadTree(ctx context.Context, roomID string) ([]domain.Comment, error) {
	key := cacheKey(roomID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var tree []domain.Comment
			if json.Unmarshal([]byte(cached), &tree) == nil {
				return tree, nil
			}
		}
	}

	rows, err := s.commentRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	tree := Build(rows)

	if s.redis != nil {
		if raw, err := json.Marshal(tree); err == nil {
			_ = s.redis.Set(ctx, key, raw, cacheTTL).Err()
		}
	}

	return tree, nil
}

func (s *service) invalidate(ctx context.Context, roomID string) {
	if s.redis != nil {
		_ = s.redis.Del(ctx, cacheKey(roomID)).Err()
	}
}

func (s *service) ListByRoom(ctx context.Context, roomID string, viewerID uuid.UUID, maxDepth int) ([]domain.Comment, error) {
	tree, err := s.loadTree(ctx, roomID)
	if err != nil {
		return nil, err
	}

	tree, dropped := Sanitize(tree)
	if dropped > 0 {
		log.Printf("thread: skipped %d comment(s) without author in room %s", dropped, roomID)
	}

	if viewerID != uuid.Nil {
		liked, err := s.commentRepo.LikedBy(ctx, roomID, viewerID)
		if err != nil {
			return nil, err
		}
		tree = Annotate(tree, liked)
	}

	if maxDepth == 0 {
		maxDepth = DefaultMaxDepth
	}
	return Prune(tree, maxDepth), nil
}

func (s *service) AddComment(ctx context.Context, roomID string, author domain.Author, content string) (*domain.Comment, error) {
	comment := domain.NewComment(author, content)
	if err := s.persist(ctx, roomID, nil, &comment); err != nil {
		return nil, err
	}

	s.invalidate(ctx, roomID)
	s.hub.EmitToRoom(roomID, nil, realtime.EventNewComment, commentEvent{
		RoomID:  roomID,
		Comment: comment,
	})
	return &comment, nil
}

func (s *service) AddReply(ctx context.Context, roomID, parentID string, author domain.Author, content string) (*domain.Comment, error) {
	exists, err := s.commentRepo.Exists(ctx, roomID, parentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		// Deliberate no-op: replies can reference parents this client has
		// not seen yet, and availability wins over strict errors here.
		log.Printf("thread: reply to unknown comment %s in room %s ignored", parentID, roomID)
		return nil, nil
	}

	reply := domain.NewComment(author, content)
	if err := s.persist(ctx, roomID, &parentID, &reply); err != nil {
		return nil, err
	}

	s.invalidate(ctx, roomID)
	s.hub.EmitToRoom(roomID, nil, realtime.EventNewReply, replyEvent{
		RoomID:   roomID,
		ParentID: parentID,
		Reply:    reply,
	})
	return &reply, nil
}

func (s *service) ToggleLike(ctx context.Context, roomID, commentID string, viewerID uuid.UUID) (int, bool, error) {
	likes, found, err := s.commentRepo.ToggleLike(ctx, roomID, commentID, viewerID)
	if err != nil {
		return 0, false, err
	}
	if !found {
		log.Printf("thread: like toggle on unknown comment %s in room %s ignored", commentID, roomID)
		return 0, false, nil
	}

	s.invalidate(ctx, roomID)
	return likes, true, nil
}

func (s *service) persist(ctx context.Context, roomID string, parentID *string, c *domain.Comment) error {
	row := &domain.CommentRow{
		ID:       c.ID,
		RoomID:   roomID,
		ParentID: parentID,
		Content:  c.Content,
		Likes:    c.Likes,
	}
	if c.Author != nil {
		row.AuthorName = &c.Author.Name
		row.AuthorAvatar = &c.Author.Avatar
		if c.Author.Specialty != "" {
			row.AuthorSpecialty = &c.Author.Specialty
		}
	}
	return s.commentRepo.Create(ctx, row)
}

// Wire payloads, field names shared with the browser clients.

type commentEvent struct {
	RoomID  string         `json:"roomId"`
	Comment domain.Comment `json:"comment"`
}

type replyEvent struct {
	RoomID   string         `json:"roomId"`
	ParentID string         `json:"parentId"`
	Reply    domain.Comment `json:"reply"`
}

// BindRealtime routes inbound thread events. Clients post optimistically and
// broadcast afterwards, so the handler persists the client's comment as-is
// (keeping its id) and relays it to the rest of the room.
func (s *service) BindRealtime(hub *realtime.Hub) realtime.Disposer {
	disposers := []realtime.Disposer{
		hub.Subscribe(realtime.EventNewComment, s.onWireComment),
		hub.Subscribe(realtime.EventNewReply, s.onWireReply),
	}
	return func() {
		for _, dispose := range disposers {
			dispose()
		}
	}
}

func (s *service) onWireComment(c *realtime.Client, data json.RawMessage) {
	var ev commentEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("thread: malformed new_comment payload: %v", err)
		return
	}
	if ev.RoomID == "" || ev.Comment.Content == "" {
		return
	}
	if ev.Comment.ID == "" {
		ev.Comment.ID = uuid.New().String()
	}

	ctx := context.Background()
	if err := s.persist(ctx, ev.RoomID, nil, &ev.Comment); err != nil {
		log.Printf("thread: failed to persist wire comment in room %s: %v", ev.RoomID, err)
		return
	}

	s.invalidate(ctx, ev.RoomID)
	s.hub.EmitToRoom(ev.RoomID, c, realtime.EventNewComment, ev)
}

func (s *service) onWireReply(c *realtime.Client, data json.RawMessage) {
	var ev replyEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Printf("thread: malformed new_reply payload: %v", err)
		return
	}
	if ev.RoomID == "" || ev.ParentID == "" || ev.Reply.Content == "" {
		return
	}
	if ev.Reply.ID == "" {
		ev.Reply.ID = uuid.New().String()
	}

	ctx := context.Background()
	exists, err := s.commentRepo.Exists(ctx, ev.RoomID, ev.ParentID)
	if err != nil {
		log.Printf("thread: parent lookup failed in room %s: %v", ev.RoomID, err)
		return
	}
	if !exists {
		log.Printf("thread: wire reply to unknown comment %s in room %s ignored", ev.ParentID, ev.RoomID)
		return
	}

	if err := s.persist(ctx, ev.RoomID, &ev.ParentID, &ev.Reply); err != nil {
		log.Printf("thread: failed to persist wire reply in room %s: %v", ev.RoomID, err)
		return
	}

	s.invalidate(ctx, ev.RoomID)
	s.hub.EmitToRoom(ev.RoomID, c, realtime.EventNewReply, ev)
}
