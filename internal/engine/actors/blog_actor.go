// internal/engine/actors/blog_actor.go
package actors

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
)

// Message types for blog operations
type (
	// CreateBlogMsg publishes a new blog or, when ExistingSlug is set,
	// rewrites the content of a blog the author already owns.
	CreateBlogMsg struct {
		AuthorID     uuid.UUID
		ExistingSlug string
		Title        string
		Des          string
		Banner       string
		Content      map[string]interface{}
		Tags         []string
		Draft        bool
	}

	// GetBlogMsg reads one blog. Mode "edit" suppresses the read-counter
	// bump; Draft must be set to read an unpublished blog.
	GetBlogMsg struct {
		Slug  string
		Draft bool
		Mode  string
	}

	// LikeBlogMsg toggles a like. The client reports its current liked
	// state and the server applies the opposite transition.
	LikeBlogMsg struct {
		BlogID        uuid.UUID
		UserID        uuid.UUID
		IsLikedByUser bool
	}

	IsLikedMsg struct {
		BlogID uuid.UUID
		UserID uuid.UUID
	}

	DeleteBlogMsg struct {
		Slug   string
		UserID uuid.UUID
	}

	ListLatestBlogsMsg struct {
		Skip  int
		Limit int
	}

	ListTrendingBlogsMsg struct {
		Limit int
	}

	SearchBlogsMsg struct {
		Filter database.BlogFilter
		Skip   int
		Limit  int
	}

	CountBlogsMsg struct {
		Filter database.BlogFilter
	}
)

// BlogIDResponse returns the slug of a created or updated blog
type BlogIDResponse struct {
	ID string `json:"id"`
}

// LikeResult reports the liked state after a toggle
type LikeResult struct {
	LikedByUser bool `json:"liked_by_user"`
}

// LikeStatus answers an isliked-by-user probe
type LikeStatus struct {
	Result bool `json:"result"`
}

// CountResponse wraps a collection count
type CountResponse struct {
	TotalDocs int64 `json:"totalDocs"`
}

const (
	desLimit = 200
	maxTags  = 10
)

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the title and collapses everything else to dashes
func slugify(title string) string {
	slug := nonAlnumRegex.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// BlogActor handles blog lifecycle, reads and the like toggle
type BlogActor struct {
	db        database.Store
	metrics   *utils.MetricsCollector
	userCache map[uuid.UUID]*models.UserSummary
}

func NewBlogActor(db database.Store, metrics *utils.MetricsCollector) *BlogActor {
	return &BlogActor{
		db:        db,
		metrics:   metrics,
		userCache: make(map[uuid.UUID]*models.UserSummary),
	}
}

func (a *BlogActor) Receive(actorCtx actor.Context) {
	switch msg := actorCtx.Message().(type) {
	case *CreateBlogMsg:
		a.handleCreateBlog(actorCtx, msg)
	case *GetBlogMsg:
		a.handleGetBlog(actorCtx, msg)
	case *LikeBlogMsg:
		a.handleLikeBlog(actorCtx, msg)
	case *IsLikedMsg:
		a.handleIsLiked(actorCtx, msg)
	case *DeleteBlogMsg:
		a.handleDeleteBlog(actorCtx, msg)
	case *ListLatestBlogsMsg:
		a.handleListLatest(actorCtx, msg)
	case *ListTrendingBlogsMsg:
		a.handleListTrending(actorCtx, msg)
	case *SearchBlogsMsg:
		a.handleSearchBlogs(actorCtx, msg)
	case *CountBlogsMsg:
		a.handleCountBlogs(actorCtx, msg)
	}
}

// getAuthorSummary resolves and caches the public slice of an author
func (a *BlogActor) getAuthorSummary(ctx context.Context, userID uuid.UUID) *models.UserSummary {
	if summary, ok := a.userCache[userID]; ok {
		return summary
	}
	user, err := a.db.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Error resolving blog author %s: %v", userID, err)
		return nil
	}
	summary := user.Summary()
	a.userCache[userID] = summary
	return summary
}

func (a *BlogActor) populateAuthors(ctx context.Context, blogs []*models.Blog) {
	for _, blog := range blogs {
		blog.Author = a.getAuthorSummary(ctx, blog.AuthorID)
	}
}

func validateBlogDraft(msg *CreateBlogMsg) *utils.AppError {
	if strings.TrimSpace(msg.Title) == "" {
		return utils.NewAppError(utils.ErrInvalidInput, "You must provide a title", nil)
	}
	if msg.Draft {
		return nil
	}
	if strings.TrimSpace(msg.Des) == "" || len(msg.Des) > desLimit {
		return utils.NewAppError(utils.ErrInvalidInput,
			"You must provide blog description under 200 characters", nil)
	}
	if msg.Banner == "" {
		return utils.NewAppError(utils.ErrInvalidInput, "You must provide blog banner to publish it", nil)
	}
	blocks, ok := msg.Content["blocks"].([]interface{})
	if !ok || len(blocks) == 0 {
		return utils.NewAppError(utils.ErrInvalidInput, "There must be some blog content to publish it", nil)
	}
	if len(msg.Tags) == 0 || len(msg.Tags) > maxTags {
		return utils.NewAppError(utils.ErrInvalidInput,
			"Provide tags in order to publish the blog, Maximum 10", nil)
	}
	return nil
}

func (a *BlogActor) handleCreateBlog(actorCtx actor.Context, msg *CreateBlogMsg) {
	start := time.Now()
	ctx := context.Background()

	if appErr := validateBlogDraft(msg); appErr != nil {
		actorCtx.Respond(appErr)
		return
	}

	tags := make([]string, len(msg.Tags))
	for i, tag := range msg.Tags {
		tags[i] = strings.ToLower(tag)
	}

	// Edit path: the slug identifies a blog this author already owns
	if msg.ExistingSlug != "" {
		blog, err := a.db.GetBlogBySlug(ctx, msg.ExistingSlug)
		if err != nil {
			actorCtx.Respond(utils.NewAppError(utils.ErrNotFound, "Blog not found", err))
			return
		}
		if blog.AuthorID != msg.AuthorID {
			actorCtx.Respond(utils.NewAppError(utils.ErrForbidden, "You are not the author of this blog", nil))
			return
		}

		blog.Title = msg.Title
		blog.Des = msg.Des
		blog.Banner = msg.Banner
		blog.Content = msg.Content
		blog.Tags = tags
		blog.Draft = msg.Draft

		if err := a.db.SaveBlog(ctx, blog); err != nil {
			log.Printf("Error updating blog %s: %v", blog.Slug, err)
			actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update blog", err))
			return
		}

		a.metrics.AddOperationLatency("update_blog", time.Since(start))
		actorCtx.Respond(&BlogIDResponse{ID: blog.Slug})
		return
	}

	blog := &models.Blog{
		ID:          uuid.New(),
		Slug:        slugify(msg.Title) + "-" + shortuuid.New(),
		Title:       msg.Title,
		Des:         msg.Des,
		Banner:      msg.Banner,
		Content:     msg.Content,
		Tags:        tags,
		AuthorID:    msg.AuthorID,
		Comments:    []uuid.UUID{},
		Draft:       msg.Draft,
		PublishedAt: time.Now(),
	}

	if err := a.db.SaveBlog(ctx, blog); err != nil {
		log.Printf("Error saving blog: %v", err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create blog", err))
		return
	}

	postDelta := 1
	if msg.Draft {
		postDelta = 0
	}
	if err := a.db.AddBlogToUser(ctx, msg.AuthorID, blog.ID, postDelta); err != nil {
		log.Printf("Error linking blog %s to author %s: %v", blog.ID, msg.AuthorID, err)
	}

	a.metrics.AddOperationLatency("create_blog", time.Since(start))
	log.Printf("Blog created: %s by %s", blog.Slug, msg.AuthorID)
	actorCtx.Respond(&BlogIDResponse{ID: blog.Slug})
}

func (a *BlogActor) handleGetBlog(actorCtx actor.Context, msg *GetBlogMsg) {
	ctx := context.Background()

	delta := 1
	if msg.Mode == "edit" {
		delta = 0
	}

	blog, err := a.db.IncrementBlogReads(ctx, msg.Slug, delta)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			actorCtx.Respond(appErr)
			return
		}
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get blog", err))
		return
	}

	// Drafts are only served when the caller asks for a draft
	if blog.Draft && !msg.Draft {
		actorCtx.Respond(utils.NewAppError(utils.ErrForbidden, "You can not access draft blogs", nil))
		return
	}

	if delta != 0 {
		if err := a.db.IncrementUserReads(ctx, blog.AuthorID, delta); err != nil {
			log.Printf("Error bumping author reads for %s: %v", blog.AuthorID, err)
		}
	}

	blog.Author = a.getAuthorSummary(ctx, blog.AuthorID)
	actorCtx.Respond(blog)
}

func (a *BlogActor) handleLikeBlog(actorCtx actor.Context, msg *LikeBlogMsg) {
	start := time.Now()
	ctx := context.Background()

	delta := 1
	if msg.IsLikedByUser {
		delta = -1
	}

	blog, err := a.db.IncrementBlogLikes(ctx, msg.BlogID, delta)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			actorCtx.Respond(appErr)
			return
		}
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to like blog", err))
		return
	}

	if !msg.IsLikedByUser {
		notification := &models.Notification{
			ID:              uuid.New(),
			Type:            models.NotificationLike,
			BlogID:          blog.ID,
			NotificationFor: blog.AuthorID,
			UserID:          msg.UserID,
			CreatedAt:       time.Now(),
		}
		if err := a.db.SaveNotification(ctx, notification); err != nil {
			log.Printf("Error saving like notification for blog %s: %v", blog.ID, err)
		}
	} else {
		if err := a.db.DeleteLikeNotification(ctx, msg.UserID, blog.ID); err != nil {
			log.Printf("Error removing like notification for blog %s: %v", blog.ID, err)
		}
	}

	a.metrics.AddOperationLatency("like_blog", time.Since(start))
	actorCtx.Respond(&LikeResult{LikedByUser: !msg.IsLikedByUser})
}

func (a *BlogActor) handleIsLiked(actorCtx actor.Context, msg *IsLikedMsg) {
	exists, err := a.db.LikeNotificationExists(context.Background(), msg.UserID, msg.BlogID)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check like status", err))
		return
	}
	actorCtx.Respond(&LikeStatus{Result: exists})
}

// handleDeleteBlog removes the blog and everything hanging off it. Each
// cleanup step is attempted even if an earlier one fails; failures are
// logged and the next step runs anyway.
func (a *BlogActor) handleDeleteBlog(actorCtx actor.Context, msg *DeleteBlogMsg) {
	start := time.Now()
	ctx := context.Background()

	blog, err := a.db.GetBlogBySlug(ctx, msg.Slug)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			actorCtx.Respond(appErr)
			return
		}
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete blog", err))
		return
	}

	if blog.AuthorID != msg.UserID {
		actorCtx.Respond(utils.NewAppError(utils.ErrForbidden, "You are not the author of this blog", nil))
		return
	}

	if err := a.db.DeleteBlog(ctx, blog.ID); err != nil {
		log.Printf("Error deleting blog %s: %v", blog.ID, err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete blog", err))
		return
	}

	if deleted, err := a.db.DeleteBlogNotifications(ctx, blog.ID); err != nil {
		log.Printf("Error deleting notifications for blog %s: %v", blog.ID, err)
	} else {
		log.Printf("Deleted %d notifications for blog %s", deleted, blog.ID)
	}

	if deleted, err := a.db.DeleteBlogComments(ctx, blog.ID); err != nil {
		log.Printf("Error deleting comments for blog %s: %v", blog.ID, err)
	} else {
		log.Printf("Deleted %d comments for blog %s", deleted, blog.ID)
	}

	if err := a.db.RemoveBlogFromUser(ctx, msg.UserID, blog.ID); err != nil {
		log.Printf("Error unlinking blog %s from author %s: %v", blog.ID, msg.UserID, err)
	}

	a.metrics.AddOperationLatency("delete_blog", time.Since(start))
	actorCtx.Respond(&models.StatusResponse{Success: true, Message: "Blog deleted"})
}

func (a *BlogActor) handleListLatest(actorCtx actor.Context, msg *ListLatestBlogsMsg) {
	ctx := context.Background()

	blogs, err := a.db.ListLatestBlogs(ctx, msg.Skip, msg.Limit)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list blogs", err))
		return
	}
	a.populateAuthors(ctx, blogs)
	actorCtx.Respond(blogs)
}

func (a *BlogActor) handleListTrending(actorCtx actor.Context, msg *ListTrendingBlogsMsg) {
	ctx := context.Background()

	blogs, err := a.db.ListTrendingBlogs(ctx, msg.Limit)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list trending blogs", err))
		return
	}
	a.populateAuthors(ctx, blogs)
	actorCtx.Respond(blogs)
}

func (a *BlogActor) handleSearchBlogs(actorCtx actor.Context, msg *SearchBlogsMsg) {
	ctx := context.Background()

	blogs, err := a.db.SearchBlogs(ctx, msg.Filter, msg.Skip, msg.Limit)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to search blogs", err))
		return
	}
	a.populateAuthors(ctx, blogs)
	actorCtx.Respond(blogs)
}

func (a *BlogActor) handleCountBlogs(actorCtx actor.Context, msg *CountBlogsMsg) {
	count, err := a.db.CountBlogs(context.Background(), msg.Filter)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to count blogs", err))
		return
	}
	actorCtx.Respond(&CountResponse{TotalDocs: count})
}
