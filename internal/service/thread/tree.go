package thread

import (
	"sort"

	"medcollab/internal/domain"
)

// Pure tree operations. Every mutation is copy-on-write: nodes on the path to
// the target are copied, untouched siblings are shared with the input tree.
// Lookups are total — a missing id leaves the tree unchanged instead of
// failing, because events can arrive before their parent over the realtime
// channel.

// ToggleLike flips the viewer's like on the comment with the given id,
// adjusting the counter by exactly one in the matching direction. The second
// return reports whether the id was found.
func ToggleLike(comments []domain.Comment, id string) ([]domain.Comment, bool) {
	found := false
	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		if !found && c.ID == id {
			c.UserLiked = !c.UserLiked
			if c.UserLiked {
				c.Likes++
			} else if c.Likes > 0 {
				c.Likes--
			}
			out[i] = c
			found = true
			continue
		}
		if !found && len(c.Replies) > 0 {
			if replies, ok := ToggleLike(c.Replies, id); ok {
				c.Replies = replies
				found = true
			}
		}
		out[i] = c
	}
	if !found {
		return comments, false
	}
	return out, true
}

// AddReply appends a reply to the comment with the given parent id. The reply
// becomes the last element of the parent's replies; insertion order is
// display order.
func AddReply(comments []domain.Comment, parentID string, reply domain.Comment) ([]domain.Comment, bool) {
	found := false
	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		if !found && c.ID == parentID {
			replies := make([]domain.Comment, len(c.Replies), len(c.Replies)+1)
			copy(replies, c.Replies)
			c.Replies = append(replies, reply)
			out[i] = c
			found = true
			continue
		}
		if !found && len(c.Replies) > 0 {
			if replies, ok := AddReply(c.Replies, parentID, reply); ok {
				c.Replies = replies
				found = true
			}
		}
		out[i] = c
	}
	if !found {
		return comments, false
	}
	return out, true
}

// Find returns the comment with the given id at any depth, or nil.
func Find(comments []domain.Comment, id string) *domain.Comment {
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i]
		}
		if c := Find(comments[i].Replies, id); c != nil {
			return c
		}
	}
	return nil
}

// Count returns the total number of comments in the tree.
func Count(comments []domain.Comment) int {
	n := 0
	for _, c := range comments {
		n += 1 + Count(c.Replies)
	}
	return n
}

// Prune cuts replies nested deeper than maxDepth levels below the roots. A
// display concern only: storage always keeps the full tree. maxDepth < 0
// disables the cutoff.
func Prune(comments []domain.Comment, maxDepth int) []domain.Comment {
	if maxDepth < 0 {
		return comments
	}
	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		if maxDepth == 0 {
			c.Replies = []domain.Comment{}
		} else {
			c.Replies = Prune(c.Replies, maxDepth-1)
		}
		out[i] = c
	}
	return out
}

// Annotate marks UserLiked on every comment whose id is in the viewer's liked
// set. Trees are cached viewer-agnostic and personalized on read.
func Annotate(comments []domain.Comment, liked map[string]bool) []domain.Comment {
	if len(liked) == 0 {
		return comments
	}
	out := make([]domain.Comment, len(comments))
	for i, c := range comments {
		c.UserLiked = liked[c.ID]
		if len(c.Replies) > 0 {
			c.Replies = Annotate(c.Replies, liked)
		}
		out[i] = c
	}
	return out
}

// Sanitize drops comments with no author so one malformed entry cannot take
// down the walk; siblings and the rest of the tree are kept. Returns the
// number of entries dropped.
func Sanitize(comments []domain.Comment) ([]domain.Comment, int) {
	dropped := 0
	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		if c.Author == nil || c.Author.Name == "" {
			dropped += 1 + Count(c.Replies)
			continue
		}
		replies, d := Sanitize(c.Replies)
		c.Replies = replies
		dropped += d
		out = append(out, c)
	}
	return out, dropped
}

// Build assembles flat rows into a tree. Roots and sibling groups keep
// insertion order (created_at, id as tiebreaker). Rows whose parent is
// missing are lifted to the root rather than lost.
func Build(rows []domain.CommentRow) []domain.Comment {
	sorted := make([]domain.CommentRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	type node struct {
		comment  domain.Comment
		children []*node
	}

	byID := make(map[string]*node, len(sorted))
	for _, row := range sorted {
		byID[row.ID] = &node{comment: fromRow(row)}
	}

	var roots []*node
	for _, row := range sorted {
		n := byID[row.ID]
		if row.ParentID != nil {
			if parent, ok := byID[*row.ParentID]; ok && parent != n {
				parent.children = append(parent.children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	var materialize func(n *node) domain.Comment
	materialize = func(n *node) domain.Comment {
		c := n.comment
		c.Replies = make([]domain.Comment, 0, len(n.children))
		for _, child := range n.children {
			c.Replies = append(c.Replies, materialize(child))
		}
		return c
	}

	out := make([]domain.Comment, 0, len(roots))
	for _, r := range roots {
		out = append(out, materialize(r))
	}
	return out
}

func fromRow(row domain.CommentRow) domain.Comment {
	c := domain.Comment{
		ID:        row.ID,
		Content:   row.Content,
		Timestamp: timeAgo(row.CreatedAt),
		Likes:     row.Likes,
		UserLiked: false,
		Replies:   []domain.Comment{},
	}
	if row.AuthorName != nil && *row.AuthorName != "" {
		author := domain.Author{Name: *row.AuthorName}
		if row.AuthorAvatar != nil {
			author.Avatar = *row.AuthorAvatar
		}
		if row.AuthorSpecialty != nil {
			author.Specialty = *row.AuthorSpecialty
		}
		c.Author = &author
	}
	return c
}
