package database

import (
	"context"

	"github.com/algrissette/uvavine/internal/models"
	"github.com/google/uuid"
)

// BlogFilter narrows blog queries. Zero values are ignored. Draft is a
// tri-state: nil matches everything, otherwise it must equal the flag.
type BlogFilter struct {
	Tag         string
	TitleQuery  string
	AuthorID    uuid.UUID
	ExcludeSlug string
	Draft       *bool
}

// Store defines the common interface for document-store operations.
// MongoDB is the production backend; MemoryStore backs tests and local
// development.
type Store interface {
	// Connection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	// User methods
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)
	UpdateUserPassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	UpdateUserProfile(ctx context.Context, id uuid.UUID, username, bio string, socialLinks map[string]string) error
	UpdateUserProfileImg(ctx context.Context, id uuid.UUID, url string) error
	AddBlogToUser(ctx context.Context, userID, blogID uuid.UUID, postDelta int) error
	RemoveBlogFromUser(ctx context.Context, userID, blogID uuid.UUID) error
	IncrementUserReads(ctx context.Context, userID uuid.UUID, delta int) error

	// Blog methods
	SaveBlog(ctx context.Context, blog *models.Blog) error
	GetBlog(ctx context.Context, id uuid.UUID) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	IncrementBlogReads(ctx context.Context, slug string, delta int) (*models.Blog, error)
	IncrementBlogLikes(ctx context.Context, blogID uuid.UUID, delta int) (*models.Blog, error)
	ListLatestBlogs(ctx context.Context, skip, limit int) ([]*models.Blog, error)
	ListTrendingBlogs(ctx context.Context, limit int) ([]*models.Blog, error)
	SearchBlogs(ctx context.Context, filter BlogFilter, skip, limit int) ([]*models.Blog, error)
	CountBlogs(ctx context.Context, filter BlogFilter) (int64, error)
	AddCommentToBlog(ctx context.Context, blogID, commentID uuid.UUID, parentDelta int) error
	RemoveCommentFromBlog(ctx context.Context, blogID, commentID uuid.UUID, parentDelta int) error
	DeleteBlog(ctx context.Context, blogID uuid.UUID) error

	// Comment methods
	SaveComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	AddChildComment(ctx context.Context, parentID, childID uuid.UUID) (*models.Comment, error)
	RemoveChildComment(ctx context.Context, parentID, childID uuid.UUID) error
	GetBlogComments(ctx context.Context, blogID uuid.UUID, skip, limit int) ([]*models.Comment, error)
	GetCommentReplies(ctx context.Context, commentID uuid.UUID, skip, limit int) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	DeleteBlogComments(ctx context.Context, blogID uuid.UUID) (int64, error)

	// Notification methods
	SaveNotification(ctx context.Context, notification *models.Notification) error
	DeleteLikeNotification(ctx context.Context, userID, blogID uuid.UUID) error
	LikeNotificationExists(ctx context.Context, userID, blogID uuid.UUID) (bool, error)
	HasUnseenNotifications(ctx context.Context, userID uuid.UUID) (bool, error)
	ListNotifications(ctx context.Context, userID uuid.UUID, typeFilter string, skip, limit int) ([]*models.Notification, error)
	MarkNotificationsSeen(ctx context.Context, userID uuid.UUID, typeFilter string) error
	CountNotifications(ctx context.Context, userID uuid.UUID, typeFilter string) (int64, error)
	AttachReplyToNotification(ctx context.Context, notificationID, commentID uuid.UUID) error
	DeleteCommentNotifications(ctx context.Context, commentID uuid.UUID) error
	DetachReplyNotifications(ctx context.Context, commentID uuid.UUID) error
	DeleteBlogNotifications(ctx context.Context, blogID uuid.UUID) (int64, error)
}
