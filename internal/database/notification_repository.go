// internal/database/notification_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationDocument represents notification data in MongoDB
type NotificationDocument struct {
	ID               string    `bson:"_id"`
	Type             string    `bson:"type"`
	BlogID           string    `bson:"blog"`
	NotificationFor  string    `bson:"notification_for"`
	UserID           string    `bson:"user"`
	CommentID        *string   `bson:"comment,omitempty"`
	RepliedOnComment *string   `bson:"replied_on_comment,omitempty"`
	Reply            *string   `bson:"reply,omitempty"`
	Seen             bool      `bson:"seen"`
	CreatedAt        time.Time `bson:"createdAt"`
}

func notificationModelToDocument(n *models.Notification) *NotificationDocument {
	doc := &NotificationDocument{
		ID:              n.ID.String(),
		Type:            n.Type,
		BlogID:          n.BlogID.String(),
		NotificationFor: n.NotificationFor.String(),
		UserID:          n.UserID.String(),
		Seen:            n.Seen,
		CreatedAt:       n.CreatedAt,
	}
	if n.CommentID != nil {
		s := n.CommentID.String()
		doc.CommentID = &s
	}
	if n.RepliedOnComment != nil {
		s := n.RepliedOnComment.String()
		doc.RepliedOnComment = &s
	}
	if n.Reply != nil {
		s := n.Reply.String()
		doc.Reply = &s
	}
	return doc
}

func notificationDocumentToModel(doc *NotificationDocument) (*models.Notification, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid notification ID: %v", err)
	}

	blogID, err := uuid.Parse(doc.BlogID)
	if err != nil {
		return nil, fmt.Errorf("invalid blog ID: %v", err)
	}

	notificationFor, err := uuid.Parse(doc.NotificationFor)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient ID: %v", err)
	}

	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid actor ID: %v", err)
	}

	parseOptional := func(s *string) (*uuid.UUID, error) {
		if s == nil {
			return nil, nil
		}
		parsed, err := uuid.Parse(*s)
		if err != nil {
			return nil, fmt.Errorf("invalid comment reference: %v", err)
		}
		return &parsed, nil
	}

	commentID, err := parseOptional(doc.CommentID)
	if err != nil {
		return nil, err
	}
	repliedOn, err := parseOptional(doc.RepliedOnComment)
	if err != nil {
		return nil, err
	}
	reply, err := parseOptional(doc.Reply)
	if err != nil {
		return nil, err
	}

	return &models.Notification{
		ID:               id,
		Type:             doc.Type,
		BlogID:           blogID,
		NotificationFor:  notificationFor,
		UserID:           userID,
		CommentID:        commentID,
		RepliedOnComment: repliedOn,
		Reply:            reply,
		Seen:             doc.Seen,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

// notificationQuery is the base filter for a recipient's tray: their own
// actions never notify them.
func notificationQuery(userID uuid.UUID, typeFilter string) bson.M {
	query := bson.M{
		"notification_for": userID.String(),
		"user":             bson.M{"$ne": userID.String()},
	}
	if typeFilter != "" && typeFilter != "all" {
		query["type"] = typeFilter
	}
	return query
}

// SaveNotification persists a notification record
func (m *MongoDB) SaveNotification(ctx context.Context, notification *models.Notification) error {
	doc := notificationModelToDocument(notification)

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}

	_, err := m.Notifications.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save notification: %v", err)
	}
	return nil
}

// DeleteLikeNotification removes the like notification for a (user, blog)
// pair
func (m *MongoDB) DeleteLikeNotification(ctx context.Context, userID, blogID uuid.UUID) error {
	_, err := m.Notifications.DeleteOne(ctx, bson.M{
		"user": userID.String(),
		"blog": blogID.String(),
		"type": models.NotificationLike,
	})
	if err != nil {
		return fmt.Errorf("failed to delete like notification: %v", err)
	}
	return nil
}

// LikeNotificationExists is the authoritative liked-state check
func (m *MongoDB) LikeNotificationExists(ctx context.Context, userID, blogID uuid.UUID) (bool, error) {
	count, err := m.Notifications.CountDocuments(ctx, bson.M{
		"user": userID.String(),
		"blog": blogID.String(),
		"type": models.NotificationLike,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasUnseenNotifications reports whether the user has any unseen
// notification from someone else
func (m *MongoDB) HasUnseenNotifications(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := notificationQuery(userID, "")
	query["seen"] = false

	count, err := m.Notifications.CountDocuments(ctx, query, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListNotifications pages through a user's notifications, newest first
func (m *MongoDB) ListNotifications(ctx context.Context, userID uuid.UUID, typeFilter string, skip, limit int) ([]*models.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := m.Notifications.Find(ctx, notificationQuery(userID, typeFilter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []*models.Notification
	for cursor.Next(ctx) {
		var doc NotificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode notification: %v", err)
		}
		notification, err := notificationDocumentToModel(&doc)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, nil
}

// MarkNotificationsSeen marks a user's notifications as seen
func (m *MongoDB) MarkNotificationsSeen(ctx context.Context, userID uuid.UUID, typeFilter string) error {
	_, err := m.Notifications.UpdateMany(ctx,
		notificationQuery(userID, typeFilter),
		bson.M{"$set": bson.M{"seen": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications seen: %v", err)
	}
	return nil
}

// CountNotifications counts a user's notifications matching the filter
func (m *MongoDB) CountNotifications(ctx context.Context, userID uuid.UUID, typeFilter string) (int64, error) {
	count, err := m.Notifications.CountDocuments(ctx, notificationQuery(userID, typeFilter))
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %v", err)
	}
	return count, nil
}

// AttachReplyToNotification records the comment a user wrote back from an
// existing notification
func (m *MongoDB) AttachReplyToNotification(ctx context.Context, notificationID, commentID uuid.UUID) error {
	result, err := m.Notifications.UpdateOne(ctx,
		bson.M{"_id": notificationID.String()},
		bson.M{"$set": bson.M{"reply": commentID.String()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update notification: %v", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewAppError(utils.ErrNotFound, "Notification not found", nil)
	}
	return nil
}

// DeleteCommentNotifications removes notifications originated by a comment
func (m *MongoDB) DeleteCommentNotifications(ctx context.Context, commentID uuid.UUID) error {
	_, err := m.Notifications.DeleteMany(ctx, bson.M{"comment": commentID.String()})
	if err != nil {
		return fmt.Errorf("failed to delete comment notifications: %v", err)
	}
	return nil
}

// DetachReplyNotifications unsets the reply reference on notifications
// pointing at a deleted comment, keeping the notification itself
func (m *MongoDB) DetachReplyNotifications(ctx context.Context, commentID uuid.UUID) error {
	_, err := m.Notifications.UpdateMany(ctx,
		bson.M{"reply": commentID.String()},
		bson.M{"$unset": bson.M{"reply": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to detach reply notifications: %v", err)
	}
	return nil
}

// DeleteBlogNotifications removes every notification referencing a blog
func (m *MongoDB) DeleteBlogNotifications(ctx context.Context, blogID uuid.UUID) (int64, error) {
	result, err := m.Notifications.DeleteMany(ctx, bson.M{"blog": blogID.String()})
	if err != nil {
		return 0, fmt.Errorf("failed to delete blog notifications: %v", err)
	}
	return result.DeletedCount, nil
}
