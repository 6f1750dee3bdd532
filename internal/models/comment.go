package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment belongs to exactly one blog and one author. A non-nil ParentID
// marks it as a reply; Children lists direct replies in creation order.
// While a comment exists its id is present in its parent's Children list.
type Comment struct {
	ID           uuid.UUID    `json:"_id"`
	BlogID       uuid.UUID    `json:"blog_id"`
	BlogAuthorID uuid.UUID    `json:"blog_author"`
	Content      string       `json:"comment"`
	CommentedBy  uuid.UUID    `json:"commented_by"`
	Commenter    *UserSummary `json:"commented_by_info,omitempty"`
	IsReply      bool         `json:"isReply"`
	ParentID     *uuid.UUID   `json:"parent,omitempty"`
	Children     []uuid.UUID  `json:"children"`
	CommentedAt  time.Time    `json:"commentedAt"`
}
