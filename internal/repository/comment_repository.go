package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"medcollab/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, row *domain.CommentRow) error
	ListByRoom(ctx context.Context, roomID string) ([]domain.CommentRow, error)
	Exists(ctx context.Context, roomID, commentID string) (bool, error)
	LikedBy(ctx context.Context, roomID string, userID uuid.UUID) (map[string]bool, error)
	ToggleLike(ctx context.Context, roomID, commentID string, userID uuid.UUID) (int, bool, error)
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, row *domain.CommentRow) error {
	query := `
		INSERT INTO comments (comment_id, room_id, parent_id, author_name, author_avatar, author_specialty, content, likes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		row.ID, row.RoomID, row.ParentID, row.AuthorName, row.AuthorAvatar, row.AuthorSpecialty, row.Content, row.Likes,
	).Scan(&row.CreatedAt)
}

func (r *commentRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.CommentRow, error) {
	var rows []domain.CommentRow
	query := `
		SELECT comment_id, room_id, parent_id, author_name, author_avatar, author_specialty, content, likes, created_at, deleted_at
		FROM comments
		WHERE room_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC, comment_id ASC`

	err := r.db.SelectContext(ctx, &rows, query, roomID)
	return rows, err
}

func (r *commentRepository) Exists(ctx context.Context, roomID, commentID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM comments WHERE comment_id = $1 AND room_id = $2 AND deleted_at IS NULL)`
	err := r.db.GetContext(ctx, &exists, query, commentID, roomID)
	return exists, err
}

func (r *commentRepository) LikedBy(ctx context.Context, roomID string, userID uuid.UUID) (map[string]bool, error) {
	var ids []string
	query := `
		SELECT cl.comment_id
		FROM comment_likes cl
		INNER JOIN comments c ON c.comment_id = cl.comment_id
		WHERE c.room_id = $1 AND cl.user_id = $2`

	if err := r.db.SelectContext(ctx, &ids, query, roomID, userID); err != nil {
		return nil, err
	}

	liked := make(map[string]bool, len(ids))
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// ToggleLike flips the viewer's like inside one transaction and returns the
// new counter. The counter and the membership row move together so they can
// never diverge; a missing comment id is reported, not an error.
func (r *commentRepository) ToggleLike(ctx context.Context, roomID, commentID string, userID uuid.UUID) (int, bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = tx.Rollback() }()

	var likes int
	err = tx.GetContext(ctx, &likes,
		`SELECT likes FROM comments WHERE comment_id = $1 AND room_id = $2 AND deleted_at IS NULL FOR UPDATE`,
		commentID, roomID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var liked bool
	if err := tx.GetContext(ctx, &liked,
		`SELECT EXISTS(SELECT 1 FROM comment_likes WHERE comment_id = $1 AND user_id = $2)`,
		commentID, userID); err != nil {
		return 0, false, err
	}

	if liked {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM comment_likes WHERE comment_id = $1 AND user_id = $2`,
			commentID, userID); err != nil {
			return 0, false, err
		}
		if err := tx.GetContext(ctx, &likes,
			`UPDATE comments SET likes = GREATEST(likes - 1, 0) WHERE comment_id = $1 RETURNING likes`,
			commentID); err != nil {
			return 0, false, err
		}
	} else {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO comment_likes (comment_id, user_id) VALUES ($1, $2)`,
			commentID, userID); err != nil {
			return 0, false, err
		}
		if err := tx.GetContext(ctx, &likes,
			`UPDATE comments SET likes = likes + 1 WHERE comment_id = $1 RETURNING likes`,
			commentID); err != nil {
			return 0, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, false, err
	}
	return likes, true, nil
}
