package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is one node of a discussion thread. Replies nest without a depth
// limit in the data model; listing prunes below a display depth but storage
// always keeps the full tree.
type Comment struct {
	ID        string    `json:"id"`
	Author    *Author   `json:"author"`
	Content   string    `json:"content"`
	Timestamp string    `json:"timestamp"`
	Likes     int       `json:"likes"`
	UserLiked bool      `json:"userLiked"`
	Replies   []Comment `json:"replies"`
}

// Author is a snapshot of the posting user taken at creation time, not a live
// reference. A later profile change does not rewrite existing comments.
type Author struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Specialty string `json:"specialty,omitempty"`
}

// CommentRow is the persisted form of a comment: flat rows linked by
// parent_id, assembled into a tree on load.
type CommentRow struct {
	ID              string     `db:"comment_id"`
	RoomID          string     `db:"room_id"`
	ParentID        *string    `db:"parent_id"`
	AuthorName      *string    `db:"author_name"`
	AuthorAvatar    *string    `db:"author_avatar"`
	AuthorSpecialty *string    `db:"author_specialty"`
	Content         string     `db:"content"`
	Likes           int        `db:"likes"`
	CreatedAt       time.Time  `db:"created_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type CreateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type CreateReplyInput struct {
	ParentID string `json:"parent_id" validate:"required"`
	Content  string `json:"content" validate:"required,min=1,max=2000"`
}

// NewComment builds a fresh leaf comment the way the client renders one:
// zero likes, not liked by the viewer, no replies yet.
func NewComment(author Author, content string) Comment {
	return Comment{
		ID:        uuid.New().String(),
		Author:    &author,
		Content:   content,
		Timestamp: "Just now",
		Likes:     0,
		UserLiked: false,
		Replies:   []Comment{},
	}
}
