package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medcollab/internal/domain"
)

func c(id string, replies ...domain.Comment) domain.Comment {
	return domain.Comment{
		ID:      id,
		Author:  &domain.Author{Name: "Dr. " + id},
		Content: "content " + id,
		Replies: replies,
	}
}

func sampleTree() []domain.Comment {
	return []domain.Comment{
		c("1",
			c("1.1",
				c("1.1.1")),
			c("1.2")),
		c("2"),
	}
}

func TestToggleLike(t *testing.T) {
	t.Run("Like Then Unlike", func(t *testing.T) {
		tree := sampleTree()

		liked, ok := ToggleLike(tree, "1.1.1")
		assert.True(t, ok)
		node := Find(liked, "1.1.1")
		assert.True(t, node.UserLiked)
		assert.Equal(t, 1, node.Likes)

		unliked, ok := ToggleLike(liked, "1.1.1")
		assert.True(t, ok)
		node = Find(unliked, "1.1.1")
		assert.False(t, node.UserLiked)
		assert.Equal(t, 0, node.Likes)
	})

	t.Run("Unknown ID Leaves Tree Unchanged", func(t *testing.T) {
		tree := sampleTree()

		out, ok := ToggleLike(tree, "nope")

		assert.False(t, ok)
		assert.Equal(t, tree, out)
	})

	t.Run("Likes Never Go Negative", func(t *testing.T) {
		tree := []domain.Comment{c("1")}
		tree[0].UserLiked = true
		tree[0].Likes = 0

		out, ok := ToggleLike(tree, "1")

		assert.True(t, ok)
		assert.False(t, out[0].UserLiked)
		assert.Equal(t, 0, out[0].Likes)
	})

	t.Run("Input Tree Is Not Mutated", func(t *testing.T) {
		tree := sampleTree()

		_, ok := ToggleLike(tree, "1.2")

		assert.True(t, ok)
		assert.Equal(t, 0, Find(tree, "1.2").Likes)
		assert.False(t, Find(tree, "1.2").UserLiked)
	})
}

func TestAddReply(t *testing.T) {
	t.Run("Appends As Last Sibling", func(t *testing.T) {
		tree := sampleTree()

		out, ok := AddReply(tree, "1.1", c("1.1.2"))

		assert.True(t, ok)
		replies := Find(out, "1.1").Replies
		assert.Len(t, replies, 2)
		assert.Equal(t, "1.1.2", replies[1].ID)
	})

	t.Run("Unknown Parent Is A No-Op", func(t *testing.T) {
		tree := sampleTree()

		out, ok := AddReply(tree, "nope", c("x"))

		assert.False(t, ok)
		assert.Equal(t, Count(tree), Count(out))
	})

	t.Run("Input Tree Is Not Mutated", func(t *testing.T) {
		tree := sampleTree()
		before := Count(tree)

		_, ok := AddReply(tree, "1.1.1", c("deep"))

		assert.True(t, ok)
		assert.Equal(t, before, Count(tree))
	})
}

func TestPrune(t *testing.T) {
	tree := []domain.Comment{
		c("1", c("2", c("3", c("4", c("5", c("6")))))),
	}

	t.Run("Cuts Below Max Depth", func(t *testing.T) {
		out := Prune(tree, 4)

		assert.NotNil(t, Find(out, "5"))
		assert.Nil(t, Find(out, "6"))
	})

	t.Run("Depth Zero Keeps Roots Only", func(t *testing.T) {
		out := Prune(tree, 0)

		assert.Len(t, out, 1)
		assert.Empty(t, out[0].Replies)
	})

	t.Run("Negative Depth Disables Cutoff", func(t *testing.T) {
		out := Prune(tree, -1)

		assert.NotNil(t, Find(out, "6"))
	})

	t.Run("Input Tree Is Not Mutated", func(t *testing.T) {
		_ = Prune(tree, 0)

		assert.NotNil(t, Find(tree, "6"))
	})
}

func TestAnnotate(t *testing.T) {
	tree := sampleTree()

	out := Annotate(tree, map[string]bool{"1.1": true, "2": true})

	assert.True(t, Find(out, "1.1").UserLiked)
	assert.True(t, Find(out, "2").UserLiked)
	assert.False(t, Find(out, "1").UserLiked)
	assert.False(t, Find(tree, "1.1").UserLiked)
}

func TestSanitize(t *testing.T) {
	tree := sampleTree()
	tree[0].Replies[0].Author = nil // "1.1" carries "1.1.1" with it

	out, dropped := Sanitize(tree)

	assert.Equal(t, 2, dropped)
	assert.Nil(t, Find(out, "1.1"))
	assert.Nil(t, Find(out, "1.1.1"))
	assert.NotNil(t, Find(out, "1.2"))
	assert.NotNil(t, Find(out, "2"))
}

func row(id string, parentID *string, createdAt time.Time) domain.CommentRow {
	name := "Dr. " + id
	return domain.CommentRow{
		ID:         id,
		RoomID:     "room-1",
		ParentID:   parentID,
		AuthorName: &name,
		Content:    "content " + id,
		CreatedAt:  createdAt,
	}
}

func TestBuild(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p1 := "1"

	t.Run("Assembles Nested Tree In Insertion Order", func(t *testing.T) {
		rows := []domain.CommentRow{
			row("2", nil, base.Add(2*time.Minute)),
			row("1", nil, base),
			row("1.1", &p1, base.Add(time.Minute)),
		}

		tree := Build(rows)

		assert.Len(t, tree, 2)
		assert.Equal(t, "1", tree[0].ID)
		assert.Equal(t, "2", tree[1].ID)
		assert.Len(t, tree[0].Replies, 1)
		assert.Equal(t, "1.1", tree[0].Replies[0].ID)
	})

	t.Run("Orphans Are Lifted To The Root", func(t *testing.T) {
		missing := "gone"
		rows := []domain.CommentRow{
			row("1", nil, base),
			row("stray", &missing, base.Add(time.Minute)),
		}

		tree := Build(rows)

		assert.Len(t, tree, 2)
		assert.Equal(t, "stray", tree[1].ID)
	})

	t.Run("Tiebreaks Equal Timestamps By ID", func(t *testing.T) {
		rows := []domain.CommentRow{
			row("b", nil, base),
			row("a", nil, base),
		}

		tree := Build(rows)

		assert.Equal(t, "a", tree[0].ID)
		assert.Equal(t, "b", tree[1].ID)
	})
}
