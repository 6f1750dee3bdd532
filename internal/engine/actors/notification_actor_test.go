package actors

import (
	"context"
	"testing"
	"time"

	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnNotificationActor(store database.Store) (*actor.ActorSystem, *actor.PID) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewNotificationActor(store, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func seedNotification(t *testing.T, store database.Store, notificationType string,
	recipient, sender uuid.UUID, blogID uuid.UUID, commentID *uuid.UUID) *models.Notification {
	t.Helper()
	notification := &models.Notification{
		ID:              uuid.New(),
		Type:            notificationType,
		BlogID:          blogID,
		NotificationFor: recipient,
		UserID:          sender,
		CommentID:       commentID,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, store.SaveNotification(context.Background(), notification))
	return notification
}

func TestCheckNewNotifications(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnNotificationActor(store)

	author := seedTestUser(t, store, "author")
	reader := seedTestUser(t, store, "reader")
	blog := seedTestBlog(t, store, author.ID)

	status := ask(t, system, pid, &CheckNewNotificationsMsg{UserID: author.ID}).(*NewNotificationStatus)
	assert.False(t, status.Available)

	seedNotification(t, store, models.NotificationLike, author.ID, reader.ID, blog.ID, nil)

	status = ask(t, system, pid, &CheckNewNotificationsMsg{UserID: author.ID}).(*NewNotificationStatus)
	assert.True(t, status.Available)

	// Listing the tray marks everything seen
	ask(t, system, pid, &ListNotificationsMsg{UserID: author.ID, Page: 1})

	status = ask(t, system, pid, &CheckNewNotificationsMsg{UserID: author.ID}).(*NewNotificationStatus)
	assert.False(t, status.Available)
}

func TestListNotificationsPopulates(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnNotificationActor(store)

	author := seedTestUser(t, store, "author")
	reader := seedTestUser(t, store, "reader")
	blog := seedTestBlog(t, store, author.ID)

	comment := &models.Comment{
		ID:           uuid.New(),
		BlogID:       blog.ID,
		BlogAuthorID: author.ID,
		Content:      "What a post",
		CommentedBy:  reader.ID,
		Children:     []uuid.UUID{},
		CommentedAt:  time.Now(),
	}
	require.NoError(t, store.SaveComment(ctx, comment))

	seedNotification(t, store, models.NotificationComment, author.ID, reader.ID, blog.ID, &comment.ID)

	notifications := ask(t, system, pid, &ListNotificationsMsg{
		UserID: author.ID, Page: 1,
	}).([]*models.Notification)
	require.Len(t, notifications, 1)

	n := notifications[0]
	require.NotNil(t, n.User)
	assert.Equal(t, reader.Username, n.User.Username)
	require.NotNil(t, n.Blog)
	assert.Equal(t, blog.Title, n.Blog.Title)
	assert.Equal(t, blog.Slug, n.Blog.Slug)
	require.NotNil(t, n.Comment)
	assert.Equal(t, "What a post", n.Comment.Content)
}

func TestNotificationsExcludeSelf(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnNotificationActor(store)

	author := seedTestUser(t, store, "author")
	reader := seedTestUser(t, store, "reader")
	blog := seedTestBlog(t, store, author.ID)

	// An author interacting with their own blog generates no visible
	// notification
	seedNotification(t, store, models.NotificationLike, author.ID, author.ID, blog.ID, nil)
	seedNotification(t, store, models.NotificationLike, author.ID, reader.ID, blog.ID, nil)

	notifications := ask(t, system, pid, &ListNotificationsMsg{
		UserID: author.ID, Page: 1,
	}).([]*models.Notification)
	require.Len(t, notifications, 1)
	assert.Equal(t, reader.ID, notifications[0].UserID)

	count := ask(t, system, pid, &CountNotificationsMsg{UserID: author.ID}).(*CountResponse)
	assert.Equal(t, int64(1), count.TotalDocs)
}

func TestNotificationFilterAndCount(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnNotificationActor(store)

	author := seedTestUser(t, store, "author")
	reader := seedTestUser(t, store, "reader")
	blog := seedTestBlog(t, store, author.ID)

	seedNotification(t, store, models.NotificationLike, author.ID, reader.ID, blog.ID, nil)
	seedNotification(t, store, models.NotificationComment, author.ID, reader.ID, blog.ID, nil)
	seedNotification(t, store, models.NotificationComment, author.ID, reader.ID, blog.ID, nil)

	likes := ask(t, system, pid, &ListNotificationsMsg{
		UserID: author.ID, Page: 1, Filter: models.NotificationLike,
	}).([]*models.Notification)
	assert.Len(t, likes, 1)

	count := ask(t, system, pid, &CountNotificationsMsg{
		UserID: author.ID, Filter: models.NotificationComment,
	}).(*CountResponse)
	assert.Equal(t, int64(2), count.TotalDocs)

	total := ask(t, system, pid, &CountNotificationsMsg{UserID: author.ID}).(*CountResponse)
	assert.Equal(t, int64(3), total.TotalDocs)
}

func TestListNotificationsPaging(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnNotificationActor(store)

	author := seedTestUser(t, store, "author")
	reader := seedTestUser(t, store, "reader")
	blog := seedTestBlog(t, store, author.ID)

	for i := 0; i < 12; i++ {
		seedNotification(t, store, models.NotificationLike, author.ID, reader.ID, blog.ID, nil)
		time.Sleep(time.Millisecond)
	}

	page1 := ask(t, system, pid, &ListNotificationsMsg{
		UserID: author.ID, Page: 1,
	}).([]*models.Notification)
	assert.Len(t, page1, 10)

	page2 := ask(t, system, pid, &ListNotificationsMsg{
		UserID: author.ID, Page: 2,
	}).([]*models.Notification)
	assert.Len(t, page2, 2)

	// A deleted-document correction shifts the window back
	shifted := ask(t, system, pid, &ListNotificationsMsg{
		UserID: author.ID, Page: 2, DeletedDocCount: 2,
	}).([]*models.Notification)
	assert.Len(t, shifted, 4)
}
