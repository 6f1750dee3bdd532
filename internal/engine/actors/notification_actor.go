// internal/engine/actors/notification_actor.go
package actors

import (
	"context"
	"log"

	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for notification operations
type (
	CheckNewNotificationsMsg struct {
		UserID uuid.UUID
	}

	// ListNotificationsMsg pages the tray. DeletedDocCount shifts the
	// skip back when the client removed documents since its last page.
	ListNotificationsMsg struct {
		UserID          uuid.UUID
		Page            int
		Filter          string
		DeletedDocCount int
	}

	CountNotificationsMsg struct {
		UserID uuid.UUID
		Filter string
	}
)

// NewNotificationStatus answers the unseen probe
type NewNotificationStatus struct {
	Available bool `json:"new_notification_available"`
}

const notificationPageSize = 10

// NotificationActor serves the notification tray
type NotificationActor struct {
	db        database.Store
	metrics   *utils.MetricsCollector
	userCache map[uuid.UUID]*models.UserSummary
}

func NewNotificationActor(db database.Store, metrics *utils.MetricsCollector) *NotificationActor {
	return &NotificationActor{
		db:        db,
		metrics:   metrics,
		userCache: make(map[uuid.UUID]*models.UserSummary),
	}
}

func (a *NotificationActor) Receive(actorCtx actor.Context) {
	switch msg := actorCtx.Message().(type) {
	case *CheckNewNotificationsMsg:
		a.handleCheckNew(actorCtx, msg)
	case *ListNotificationsMsg:
		a.handleList(actorCtx, msg)
	case *CountNotificationsMsg:
		a.handleCount(actorCtx, msg)
	}
}

func (a *NotificationActor) handleCheckNew(actorCtx actor.Context, msg *CheckNewNotificationsMsg) {
	available, err := a.db.HasUnseenNotifications(context.Background(), msg.UserID)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to check notifications", err))
		return
	}
	actorCtx.Respond(&NewNotificationStatus{Available: available})
}

func (a *NotificationActor) getUserSummary(ctx context.Context, userID uuid.UUID) *models.UserSummary {
	if summary, ok := a.userCache[userID]; ok {
		return summary
	}
	user, err := a.db.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Error resolving notification actor user %s: %v", userID, err)
		return nil
	}
	summary := user.Summary()
	a.userCache[userID] = summary
	return summary
}

func (a *NotificationActor) commentExcerpt(ctx context.Context, commentID *uuid.UUID) *models.CommentSummary {
	if commentID == nil {
		return nil
	}
	comment, err := a.db.GetComment(ctx, *commentID)
	if err != nil {
		// Referenced comment may have been deleted since
		return nil
	}
	return &models.CommentSummary{Content: comment.Content}
}

// populate fills the referenced user, blog and comment slices of each
// notification
func (a *NotificationActor) populate(ctx context.Context, notifications []*models.Notification) {
	for _, n := range notifications {
		n.User = a.getUserSummary(ctx, n.UserID)

		if blog, err := a.db.GetBlog(ctx, n.BlogID); err == nil {
			n.Blog = &models.BlogSummary{Title: blog.Title, Slug: blog.Slug}
		} else {
			log.Printf("Error resolving notification blog %s: %v", n.BlogID, err)
		}

		n.Comment = a.commentExcerpt(ctx, n.CommentID)
		n.RepliedOnExcerpt = a.commentExcerpt(ctx, n.RepliedOnComment)
		n.ReplyExcerpt = a.commentExcerpt(ctx, n.Reply)
	}
}

// handleList returns one page of the tray and marks it seen. Every
// notification that goes over the wire is considered read.
func (a *NotificationActor) handleList(actorCtx actor.Context, msg *ListNotificationsMsg) {
	ctx := context.Background()

	page := msg.Page
	if page < 1 {
		page = 1
	}
	skip := (page-1)*notificationPageSize - msg.DeletedDocCount
	if skip < 0 {
		skip = 0
	}

	notifications, err := a.db.ListNotifications(ctx, msg.UserID, msg.Filter, skip, notificationPageSize)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list notifications", err))
		return
	}

	a.populate(ctx, notifications)

	if err := a.db.MarkNotificationsSeen(ctx, msg.UserID, msg.Filter); err != nil {
		log.Printf("Error marking notifications seen for %s: %v", msg.UserID, err)
	}

	actorCtx.Respond(notifications)
}

func (a *NotificationActor) handleCount(actorCtx actor.Context, msg *CountNotificationsMsg) {
	count, err := a.db.CountNotifications(context.Background(), msg.UserID, msg.Filter)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to count notifications", err))
		return
	}
	actorCtx.Respond(&CountResponse{TotalDocs: count})
}
