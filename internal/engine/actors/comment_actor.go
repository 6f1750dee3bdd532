// internal/engine/actors/comment_actor.go
package actors

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
)

// Message types for comment operations
type (
	// AddCommentMsg creates a comment or, when ReplyingTo is set, a
	// reply. NotificationID optionally names the notification the
	// recipient replied from, so the reply gets attached to it.
	AddCommentMsg struct {
		BlogID         uuid.UUID
		BlogAuthorID   uuid.UUID
		UserID         uuid.UUID
		Content        string
		ReplyingTo     *uuid.UUID
		NotificationID *uuid.UUID
	}

	DeleteCommentMsg struct {
		CommentID uuid.UUID
		UserID    uuid.UUID
	}

	GetBlogCommentsMsg struct {
		BlogID uuid.UUID
		Skip   int
	}

	GetRepliesMsg struct {
		CommentID uuid.UUID
		Skip      int
	}
)

// CommentCreatedResponse is the slice of a new comment the client needs
// to render it in place
type CommentCreatedResponse struct {
	ID          uuid.UUID   `json:"_id"`
	Content     string      `json:"comment"`
	CommentedAt time.Time   `json:"commentedAt"`
	UserID      uuid.UUID   `json:"user_id"`
	Children    []uuid.UUID `json:"children"`
}

const commentPageSize = 5

// CommentActor handles the comment tree: creation with notification
// fan-out, paged reads, and cascading deletes.
type CommentActor struct {
	db        database.Store
	metrics   *utils.MetricsCollector
	userCache map[uuid.UUID]*models.UserSummary
}

func NewCommentActor(db database.Store, metrics *utils.MetricsCollector) *CommentActor {
	return &CommentActor{
		db:        db,
		metrics:   metrics,
		userCache: make(map[uuid.UUID]*models.UserSummary),
	}
}

func (a *CommentActor) Receive(actorCtx actor.Context) {
	switch msg := actorCtx.Message().(type) {
	case *AddCommentMsg:
		a.handleAddComment(actorCtx, msg)
	case *DeleteCommentMsg:
		a.handleDeleteComment(actorCtx, msg)
	case *GetBlogCommentsMsg:
		a.handleGetBlogComments(actorCtx, msg)
	case *GetRepliesMsg:
		a.handleGetReplies(actorCtx, msg)
	}
}

// getCommenter resolves and caches the public slice of a comment author
func (a *CommentActor) getCommenter(ctx context.Context, userID uuid.UUID) *models.UserSummary {
	if summary, ok := a.userCache[userID]; ok {
		return summary
	}
	user, err := a.db.GetUser(ctx, userID)
	if err != nil {
		log.Printf("Error resolving commenter %s: %v", userID, err)
		return nil
	}
	summary := user.Summary()
	a.userCache[userID] = summary
	return summary
}

func (a *CommentActor) populateCommenters(ctx context.Context, comments []*models.Comment) {
	for _, comment := range comments {
		comment.Commenter = a.getCommenter(ctx, comment.CommentedBy)
	}
}

// handleAddComment runs the comment fan-out in a fixed order: save the
// comment, link it to the blog and bump the counters, link it under its
// parent, emit the notification, and attach the reply to the
// notification it answers. Only the initial save can fail the request;
// later steps log and carry on.
func (a *CommentActor) handleAddComment(actorCtx actor.Context, msg *AddCommentMsg) {
	start := time.Now()
	ctx := context.Background()

	if strings.TrimSpace(msg.Content) == "" {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Write something to leave a comment", nil))
		return
	}

	// Resolve the parent up front so a reply to a vanished comment
	// fails before anything is written
	var parent *models.Comment
	if msg.ReplyingTo != nil {
		var err error
		parent, err = a.db.GetComment(ctx, *msg.ReplyingTo)
		if err != nil {
			actorCtx.Respond(utils.NewAppError(utils.ErrNotFound, "Replied comment not found", err))
			return
		}
	}

	comment := &models.Comment{
		ID:           uuid.New(),
		BlogID:       msg.BlogID,
		BlogAuthorID: msg.BlogAuthorID,
		Content:      msg.Content,
		CommentedBy:  msg.UserID,
		IsReply:      msg.ReplyingTo != nil,
		ParentID:     msg.ReplyingTo,
		Children:     []uuid.UUID{},
		CommentedAt:  time.Now(),
	}

	if err := a.db.SaveComment(ctx, comment); err != nil {
		log.Printf("Error saving comment: %v", err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to save comment", err))
		return
	}

	parentDelta := 1
	if comment.IsReply {
		parentDelta = 0
	}
	if err := a.db.AddCommentToBlog(ctx, msg.BlogID, comment.ID, parentDelta); err != nil {
		log.Printf("Error linking comment %s to blog %s: %v", comment.ID, msg.BlogID, err)
	}

	// Replies notify the parent comment's author, top-level comments
	// notify the blog author
	recipient := msg.BlogAuthorID
	notificationType := models.NotificationComment
	notification := &models.Notification{
		ID:        uuid.New(),
		BlogID:    msg.BlogID,
		UserID:    msg.UserID,
		CommentID: &comment.ID,
		CreatedAt: time.Now(),
	}

	if comment.IsReply {
		if _, err := a.db.AddChildComment(ctx, *msg.ReplyingTo, comment.ID); err != nil {
			log.Printf("Error linking reply %s under %s: %v", comment.ID, *msg.ReplyingTo, err)
		}
		recipient = parent.CommentedBy
		notificationType = models.NotificationReply
		notification.RepliedOnComment = msg.ReplyingTo
	}

	notification.Type = notificationType
	notification.NotificationFor = recipient

	if err := a.db.SaveNotification(ctx, notification); err != nil {
		log.Printf("Error saving %s notification for comment %s: %v", notificationType, comment.ID, err)
	}

	if msg.NotificationID != nil {
		if err := a.db.AttachReplyToNotification(ctx, *msg.NotificationID, comment.ID); err != nil {
			log.Printf("Error attaching reply %s to notification %s: %v", comment.ID, *msg.NotificationID, err)
		}
	}

	a.metrics.AddOperationLatency("add_comment", time.Since(start))
	log.Printf("Comment created: %s on blog %s (reply=%v)", comment.ID, msg.BlogID, comment.IsReply)
	actorCtx.Respond(&CommentCreatedResponse{
		ID:          comment.ID,
		Content:     comment.Content,
		CommentedAt: comment.CommentedAt,
		UserID:      msg.UserID,
		Children:    comment.Children,
	})
}

// handleDeleteComment removes a comment and its whole reply subtree.
// The subtree is walked with an explicit worklist instead of recursion,
// so arbitrarily deep threads cannot blow the stack. Per-node failures
// are logged and the walk continues.
func (a *CommentActor) handleDeleteComment(actorCtx actor.Context, msg *DeleteCommentMsg) {
	start := time.Now()
	ctx := context.Background()

	root, err := a.db.GetComment(ctx, msg.CommentID)
	if err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			actorCtx.Respond(appErr)
			return
		}
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to delete comment", err))
		return
	}

	// The comment author and the blog author may delete
	if msg.UserID != root.CommentedBy && msg.UserID != root.BlogAuthorID {
		actorCtx.Respond(utils.NewAppError(utils.ErrForbidden, "You can not delete this comment", nil))
		return
	}

	removed := 0
	stack := []uuid.UUID{msg.CommentID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		comment, err := a.db.GetComment(ctx, id)
		if err != nil {
			log.Printf("Error loading comment %s during cascade: %v", id, err)
			continue
		}

		if comment.ParentID != nil {
			if err := a.db.RemoveChildComment(ctx, *comment.ParentID, id); err != nil {
				log.Printf("Error unlinking comment %s from parent %s: %v", id, *comment.ParentID, err)
			}
		}

		if err := a.db.DeleteCommentNotifications(ctx, id); err != nil {
			log.Printf("Error deleting notifications for comment %s: %v", id, err)
		}
		if err := a.db.DetachReplyNotifications(ctx, id); err != nil {
			log.Printf("Error detaching reply notifications for comment %s: %v", id, err)
		}

		parentDelta := 1
		if comment.ParentID != nil {
			parentDelta = 0
		}
		if err := a.db.RemoveCommentFromBlog(ctx, comment.BlogID, id, parentDelta); err != nil {
			log.Printf("Error unlinking comment %s from blog %s: %v", id, comment.BlogID, err)
		}

		stack = append(stack, comment.Children...)

		if err := a.db.DeleteComment(ctx, id); err != nil {
			log.Printf("Error deleting comment %s: %v", id, err)
			continue
		}
		removed++
	}

	a.metrics.AddOperationLatency("delete_comment", time.Since(start))
	log.Printf("Comment cascade for %s removed %d comments", msg.CommentID, removed)
	actorCtx.Respond(&models.StatusResponse{Success: true, Message: "Comment deleted"})
}

func (a *CommentActor) handleGetBlogComments(actorCtx actor.Context, msg *GetBlogCommentsMsg) {
	ctx := context.Background()

	comments, err := a.db.GetBlogComments(ctx, msg.BlogID, msg.Skip, commentPageSize)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get comments", err))
		return
	}
	a.populateCommenters(ctx, comments)
	actorCtx.Respond(comments)
}

func (a *CommentActor) handleGetReplies(actorCtx actor.Context, msg *GetRepliesMsg) {
	ctx := context.Background()

	replies, err := a.db.GetCommentReplies(ctx, msg.CommentID, msg.Skip, commentPageSize)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to get replies", err))
		return
	}
	a.populateCommenters(ctx, replies)
	actorCtx.Respond(replies)
}
