package issue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxAuthorNameChars = 80
	maxMessageChars    = 1000
)

// Comment is an immutable timeline entry on a report. Comments are only ever
// appended, never edited or deleted.
type Comment struct {
	CommentID  string     `json:"comment_id"`
	AuthorName string     `json:"author_name"`
	AuthorRole AuthorRole `json:"author_role"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewComment validates and builds a comment. The author role must be one of
// the closed role set; name and message lengths are enforced post-trim.
func NewComment(authorName string, authorRole string, message string, createdAt time.Time) (Comment, error) {
	role, err := ParseAuthorRole(authorRole)
	if err != nil {
		return Comment{}, err
	}

	name := strings.TrimSpace(authorName)
	if name == "" || len([]rune(name)) > maxAuthorNameChars {
		return Comment{}, fmt.Errorf("author name must be 1-%d characters", maxAuthorNameChars)
	}

	body := strings.TrimSpace(message)
	if body == "" || len([]rune(body)) > maxMessageChars {
		return Comment{}, fmt.Errorf("comment message must be 1-%d characters", maxMessageChars)
	}

	return Comment{
		CommentID:  uuid.NewString(),
		AuthorName: name,
		AuthorRole: role,
		Message:    body,
		CreatedAt:  createdAt.UTC(),
	}, nil
}
