package models

import (
	"time"

	"github.com/google/uuid"
)

// Activity holds a blog's aggregate counters. They are maintained with
// atomic store-level increments and may drift under concurrent writes.
type Activity struct {
	TotalLikes          int `json:"total_likes"`
	TotalComments       int `json:"total_comments"`
	TotalReads          int `json:"total_reads"`
	TotalParentComments int `json:"total_parent_comments"`
}

// Blog is a post. Slug is the human-readable blog_id used in URLs; ID is
// the document key every other entity references.
type Blog struct {
	ID          uuid.UUID              `json:"_id"`
	Slug        string                 `json:"blog_id"`
	Title       string                 `json:"title"`
	Des         string                 `json:"des"`
	Banner      string                 `json:"banner"`
	Content     map[string]interface{} `json:"content,omitempty"`
	Tags        []string               `json:"tags"`
	AuthorID    uuid.UUID              `json:"author_id"`
	Author      *UserSummary           `json:"author,omitempty"`
	Activity    Activity               `json:"activity"`
	Comments    []uuid.UUID            `json:"-"`
	Draft       bool                   `json:"draft"`
	PublishedAt time.Time              `json:"publishedAt"`
}
