package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types. One record is emitted per like/comment/reply event.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationReply   = "reply"
)

// BlogSummary is the blog slice embedded in a populated notification.
type BlogSummary struct {
	Title string `json:"title"`
	Slug  string `json:"blog_id"`
}

// CommentSummary carries just the text of a referenced comment.
type CommentSummary struct {
	Content string `json:"comment"`
}

// Notification records a single like/comment/reply event addressed to
// NotificationFor and sourced from UserID. Reply points at the comment a
// recipient wrote back from the notification tray; deleting that comment
// unsets Reply but keeps the notification.
type Notification struct {
	ID               uuid.UUID  `json:"_id"`
	Type             string     `json:"type"`
	BlogID           uuid.UUID  `json:"-"`
	NotificationFor  uuid.UUID  `json:"notification_for"`
	UserID           uuid.UUID  `json:"-"`
	CommentID        *uuid.UUID `json:"-"`
	RepliedOnComment *uuid.UUID `json:"-"`
	Reply            *uuid.UUID `json:"-"`
	Seen             bool       `json:"seen"`
	CreatedAt        time.Time  `json:"createdAt"`

	// Populated references, filled in by the notification actor.
	User             *UserSummary    `json:"user,omitempty"`
	Blog             *BlogSummary    `json:"blog,omitempty"`
	Comment          *CommentSummary `json:"comment,omitempty"`
	RepliedOnExcerpt *CommentSummary `json:"replied_on_comment,omitempty"`
	ReplyExcerpt     *CommentSummary `json:"reply,omitempty"`
}
