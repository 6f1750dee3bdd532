package actors

import (
	"context"
	"testing"

	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnBlogActor(store database.Store) (*actor.ActorSystem, *actor.PID) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewBlogActor(store, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func validCreateBlogMsg(authorID uuid.UUID) *CreateBlogMsg {
	return &CreateBlogMsg{
		AuthorID: authorID,
		Title:    "My First Post",
		Des:      "Short description",
		Banner:   "https://example.com/banner.jpeg",
		Content:  map[string]interface{}{"blocks": []interface{}{map[string]interface{}{"type": "paragraph"}}},
		Tags:     []string{"Go", "Testing"},
	}
}

func TestCreateBlog(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)

	author := seedTestUser(t, store, "writer")

	result := ask(t, system, pid, validCreateBlogMsg(author.ID))
	created := result.(*BlogIDResponse)
	assert.Contains(t, created.ID, "my-first-post-")

	blog, err := store.GetBlogBySlug(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, blog.AuthorID)
	assert.Equal(t, []string{"go", "testing"}, blog.Tags)
	assert.False(t, blog.Draft)

	// Publishing counts toward the author's totals
	updated, err := store.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalPosts)
	assert.Contains(t, updated.Blogs, blog.ID)
}

func TestCreateBlogValidation(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)
	author := seedTestUser(t, store, "writer")

	cases := []struct {
		name   string
		mutate func(*CreateBlogMsg)
	}{
		{"missing title", func(m *CreateBlogMsg) { m.Title = "" }},
		{"missing description", func(m *CreateBlogMsg) { m.Des = "" }},
		{"missing banner", func(m *CreateBlogMsg) { m.Banner = "" }},
		{"empty content", func(m *CreateBlogMsg) { m.Content = map[string]interface{}{"blocks": []interface{}{}} }},
		{"no tags", func(m *CreateBlogMsg) { m.Tags = nil }},
		{"too many tags", func(m *CreateBlogMsg) {
			m.Tags = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := validCreateBlogMsg(author.ID)
			tc.mutate(msg)
			result := ask(t, system, pid, msg)
			appErr, ok := result.(*utils.AppError)
			require.True(t, ok)
			assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestCreateDraftSkipsValidationAndPostCount(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)
	author := seedTestUser(t, store, "writer")

	// A draft only needs a title
	result := ask(t, system, pid, &CreateBlogMsg{
		AuthorID: author.ID,
		Title:    "Work in progress",
		Content:  map[string]interface{}{},
		Draft:    true,
	})
	created := result.(*BlogIDResponse)

	blog, err := store.GetBlogBySlug(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, blog.Draft)

	updated, err := store.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.TotalPosts)
	assert.Contains(t, updated.Blogs, blog.ID)
}

func TestUpdateBlogBySlug(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)
	author := seedTestUser(t, store, "writer")

	created := ask(t, system, pid, validCreateBlogMsg(author.ID)).(*BlogIDResponse)

	msg := validCreateBlogMsg(author.ID)
	msg.ExistingSlug = created.ID
	msg.Title = "Retitled"
	updated := ask(t, system, pid, msg).(*BlogIDResponse)

	// The slug is stable across edits
	assert.Equal(t, created.ID, updated.ID)

	blog, err := store.GetBlogBySlug(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Retitled", blog.Title)

	// Only the author may edit
	msg = validCreateBlogMsg(uuid.New())
	msg.ExistingSlug = created.ID
	result := ask(t, system, pid, msg)
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
}

func TestGetBlogReadCounters(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)
	author := seedTestUser(t, store, "writer")

	created := ask(t, system, pid, validCreateBlogMsg(author.ID)).(*BlogIDResponse)

	result := ask(t, system, pid, &GetBlogMsg{Slug: created.ID})
	blog := result.(*models.Blog)
	assert.Equal(t, 1, blog.Activity.TotalReads)
	require.NotNil(t, blog.Author)
	assert.Equal(t, author.Username, blog.Author.Username)

	// The author's aggregate read count follows the blog's
	updated, err := store.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.TotalReads)

	// Edit mode reads do not count
	result = ask(t, system, pid, &GetBlogMsg{Slug: created.ID, Mode: "edit"})
	blog = result.(*models.Blog)
	assert.Equal(t, 1, blog.Activity.TotalReads)
}

func TestGetBlogDraftAccess(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)
	author := seedTestUser(t, store, "writer")

	created := ask(t, system, pid, &CreateBlogMsg{
		AuthorID: author.ID,
		Title:    "Secret draft",
		Content:  map[string]interface{}{},
		Draft:    true,
	}).(*BlogIDResponse)

	result := ask(t, system, pid, &GetBlogMsg{Slug: created.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = ask(t, system, pid, &GetBlogMsg{Slug: created.ID, Draft: true, Mode: "edit"})
	blog, ok := result.(*models.Blog)
	require.True(t, ok)
	assert.Equal(t, "Secret draft", blog.Title)
}

func TestLikeToggle(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)

	author := seedTestUser(t, store, "writer")
	reader := seedTestUser(t, store, "reader")

	created := ask(t, system, pid, validCreateBlogMsg(author.ID)).(*BlogIDResponse)
	blog, err := store.GetBlogBySlug(ctx, created.ID)
	require.NoError(t, err)

	// Like
	result := ask(t, system, pid, &LikeBlogMsg{BlogID: blog.ID, UserID: reader.ID, IsLikedByUser: false})
	assert.True(t, result.(*LikeResult).LikedByUser)

	liked, err := store.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Activity.TotalLikes)

	status := ask(t, system, pid, &IsLikedMsg{BlogID: blog.ID, UserID: reader.ID}).(*LikeStatus)
	assert.True(t, status.Result)

	notifications, err := store.ListNotifications(ctx, author.ID, models.NotificationLike, 0, 10)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)

	// Unlike restores the original state
	result = ask(t, system, pid, &LikeBlogMsg{BlogID: blog.ID, UserID: reader.ID, IsLikedByUser: true})
	assert.False(t, result.(*LikeResult).LikedByUser)

	unliked, err := store.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unliked.Activity.TotalLikes)

	status = ask(t, system, pid, &IsLikedMsg{BlogID: blog.ID, UserID: reader.ID}).(*LikeStatus)
	assert.False(t, status.Result)

	notifications, err = store.ListNotifications(ctx, author.ID, models.NotificationLike, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestDeleteBlogCascade(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	blogSystem, blogPID := spawnBlogActor(store)
	commentSystem, commentPID := spawnCommentActor(store)

	author := seedTestUser(t, store, "writer")
	reader := seedTestUser(t, store, "reader")

	created := ask(t, blogSystem, blogPID, validCreateBlogMsg(author.ID)).(*BlogIDResponse)
	blog, err := store.GetBlogBySlug(ctx, created.ID)
	require.NoError(t, err)

	ask(t, commentSystem, commentPID, &AddCommentMsg{
		BlogID: blog.ID, BlogAuthorID: author.ID, UserID: reader.ID, Content: "great read",
	})
	ask(t, blogSystem, blogPID, &LikeBlogMsg{BlogID: blog.ID, UserID: reader.ID, IsLikedByUser: false})

	// A stranger cannot delete
	result := ask(t, blogSystem, blogPID, &DeleteBlogMsg{Slug: created.ID, UserID: reader.ID})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	result = ask(t, blogSystem, blogPID, &DeleteBlogMsg{Slug: created.ID, UserID: author.ID})
	status := result.(*models.StatusResponse)
	assert.True(t, status.Success)

	// The blog, its comments and its notifications are gone
	_, err = store.GetBlogBySlug(ctx, created.ID)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))

	comments, err := store.GetBlogComments(ctx, blog.ID, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, comments)

	notifications, err := store.ListNotifications(ctx, author.ID, "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, notifications)

	// The author's post count is back to zero
	updated, err := store.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.TotalPosts)
	assert.NotContains(t, updated.Blogs, blog.ID)
}

func TestSearchAndCountBlogs(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnBlogActor(store)
	author := seedTestUser(t, store, "writer")

	first := validCreateBlogMsg(author.ID)
	first.Title = "Go Concurrency Patterns"
	first.Tags = []string{"go"}
	ask(t, system, pid, first)

	second := validCreateBlogMsg(author.ID)
	second.Title = "Cooking With Cast Iron"
	second.Tags = []string{"cooking"}
	ask(t, system, pid, second)

	published := false
	byTag := ask(t, system, pid, &SearchBlogsMsg{
		Filter: database.BlogFilter{Tag: "go", Draft: &published},
		Limit:  5,
	}).([]*models.Blog)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Go Concurrency Patterns", byTag[0].Title)
	require.NotNil(t, byTag[0].Author)

	byQuery := ask(t, system, pid, &SearchBlogsMsg{
		Filter: database.BlogFilter{TitleQuery: "cast iron", Draft: &published},
		Limit:  5,
	}).([]*models.Blog)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Cooking With Cast Iron", byQuery[0].Title)

	count := ask(t, system, pid, &CountBlogsMsg{
		Filter: database.BlogFilter{Draft: &published},
	}).(*CountResponse)
	assert.Equal(t, int64(2), count.TotalDocs)
}
