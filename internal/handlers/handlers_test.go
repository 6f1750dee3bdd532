package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/algrissette/uvavine/internal/auth"
	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/engine"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	middleware.InitJWT("test-secret-key")
	os.Exit(m.Run())
}

type stubSigner struct{}

func (stubSigner) SignUploadURL(ctx context.Context) (string, error) {
	return "https://uvavine-media.s3.us-east-2.amazonaws.com/test.jpeg", nil
}

type stubVerifier struct{}

func (stubVerifier) Verify(ctx context.Context, accessToken string) (*auth.Identity, error) {
	return &auth.Identity{
		Email:   "google-user@example.com",
		Name:    "Google User",
		Picture: "https://example.com/avatar.jpeg",
	}, nil
}

func newTestHandler() (http.Handler, *database.MemoryStore) {
	store := database.NewMemoryStore()
	metrics := utils.NewMetricsCollector()
	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, store, metrics)
	server := NewServer(system, eng, store, metrics, stubSigner{}, stubVerifier{})

	routes := map[string]http.HandlerFunc{
		"/health":                  server.HandleHealth,
		"/signup":                  server.HandleSignup,
		"/signin":                  server.HandleSignin,
		"/google-auth":             server.HandleGoogleAuth,
		"/get-upload-url":          server.HandleGetUploadURL,
		"/create-blog":             server.HandleCreateBlog,
		"/latest-blogs":            server.HandleLatestBlogs,
		"/get-blog":                server.HandleGetBlog,
		"/like-blog":               server.HandleLikeBlog,
		"/isliked-by-user":         server.HandleIsLikedByUser,
		"/delete-blog":             server.HandleDeleteBlog,
		"/add-comment":             server.HandleAddComment,
		"/get-blog-comments":       server.HandleGetBlogComments,
		"/get-replies":             server.HandleGetReplies,
		"/delete-comment":          server.HandleDeleteComment,
		"/new-notification":        server.HandleNewNotification,
		"/notifications":           server.HandleNotifications,
		"/all-notifications-count": server.HandleAllNotificationsCount,
	}

	mux := http.NewServeMux()
	for path, handler := range routes {
		mux.HandleFunc(path, middleware.ApplyJWTMiddleware(handler, path))
	}
	return mux, store
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestIntegrationFlow(t *testing.T) {
	handler, _ := newTestHandler()

	// Step 1: sign up the blog author and a reader
	w := doRequest(t, handler, "POST", "/signup", "", map[string]string{
		"fullname": "Avery Author",
		"email":    "avery@example.com",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	authorToken := decode(t, w)["access_token"].(string)

	w = doRequest(t, handler, "POST", "/signup", "", map[string]string{
		"fullname": "Riley Reader",
		"email":    "riley@example.com",
		"password": "Passw0rd",
	})
	require.Equal(t, http.StatusOK, w.Code)
	readerToken := decode(t, w)["access_token"].(string)

	// Step 2: requests without a token are rejected on protected routes
	w = doRequest(t, handler, "POST", "/create-blog", "", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Step 3: the author publishes a blog
	w = doRequest(t, handler, "POST", "/create-blog", authorToken, map[string]interface{}{
		"title":   "Hello World",
		"des":     "An introduction",
		"banner":  "https://example.com/banner.jpeg",
		"content": map[string]interface{}{"blocks": []interface{}{map[string]interface{}{"type": "paragraph"}}},
		"tags":    []string{"intro"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	slug := decode(t, w)["id"].(string)
	t.Logf("Blog published with slug: %s", slug)

	// Step 4: the blog shows up on the public latest feed
	w = doRequest(t, handler, "POST", "/latest-blogs", "", map[string]int{"page": 1})
	require.Equal(t, http.StatusOK, w.Code)
	blogs := decode(t, w)["blogs"].([]interface{})
	require.Len(t, blogs, 1)

	// Step 5: reading the blog bumps its read counter
	w = doRequest(t, handler, "POST", "/get-blog", "", map[string]string{"blog_id": slug})
	require.Equal(t, http.StatusOK, w.Code)
	blog := decode(t, w)["blog"].(map[string]interface{})
	blogID := blog["_id"].(string)
	authorUsername := blog["author"].(map[string]interface{})["username"].(string)
	assert.Equal(t, "avery", authorUsername)
	assert.Equal(t, float64(1), blog["activity"].(map[string]interface{})["total_reads"])

	// Step 6: the reader likes the blog
	w = doRequest(t, handler, "POST", "/like-blog", readerToken, map[string]interface{}{
		"_id": blogID, "islikedByUser": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["liked_by_user"])

	w = doRequest(t, handler, "POST", "/isliked-by-user", readerToken, map[string]string{"_id": blogID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["result"])

	// Step 7: the reader comments
	w = doRequest(t, handler, "POST", "/add-comment", readerToken, map[string]interface{}{
		"_id":         blogID,
		"comment":     "Looking forward to more",
		"blog_author": blog["author_id"],
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	commentID := decode(t, w)["_id"].(string)
	t.Logf("Comment created with ID: %s", commentID)

	// Step 8: the author has a new notification and reads the tray
	w = doRequest(t, handler, "GET", "/new-notification", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["new_notification_available"])

	w = doRequest(t, handler, "POST", "/notifications", authorToken, map[string]interface{}{
		"page": 1, "filter": "all",
	})
	require.Equal(t, http.StatusOK, w.Code)
	notifications := decode(t, w)["notifications"].([]interface{})
	require.Len(t, notifications, 2)

	w = doRequest(t, handler, "GET", "/new-notification", authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["new_notification_available"])

	// Step 9: the author replies to the comment
	w = doRequest(t, handler, "POST", "/add-comment", authorToken, map[string]interface{}{
		"_id":         blogID,
		"comment":     "Thanks for reading!",
		"blog_author": blog["author_id"],
		"replying_to": commentID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, handler, "POST", "/get-replies", "", map[string]interface{}{
		"_id": commentID, "skip": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	replies := decode(t, w)["replies"].([]interface{})
	require.Len(t, replies, 1)

	// Step 10: deleting the parent comment removes the reply too
	w = doRequest(t, handler, "POST", "/delete-comment", readerToken, map[string]string{"_id": commentID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, handler, "POST", "/get-blog-comments", "", map[string]interface{}{
		"blog_id": blogID, "skip": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var comments []interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	assert.Empty(t, comments)

	// Step 11: only the author can delete the blog
	w = doRequest(t, handler, "POST", "/delete-blog", readerToken, map[string]string{"blog_id": slug})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, handler, "POST", "/delete-blog", authorToken, map[string]string{"blog_id": slug})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, handler, "POST", "/get-blog", "", map[string]string{"blog_id": slug})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGoogleAuthEndpoint(t *testing.T) {
	handler, _ := newTestHandler()

	w := doRequest(t, handler, "POST", "/google-auth", "", map[string]string{
		"access_token": "provider-token",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode(t, w)
	assert.NotEmpty(t, result["access_token"])
	assert.Equal(t, "https://example.com/avatar.jpeg", result["profile_img"])
}

func TestGetUploadURLEndpoint(t *testing.T) {
	handler, _ := newTestHandler()

	w := doRequest(t, handler, "GET", "/get-upload-url", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["uploadURL"], "s3")
}

func TestHealthEndpoint(t *testing.T) {
	handler, _ := newTestHandler()

	w := doRequest(t, handler, "GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode(t, w)
	assert.Equal(t, "ok", result["status"])
	assert.Equal(t, "ok", result["database"])
}

func TestInvalidTokenRejected(t *testing.T) {
	handler, _ := newTestHandler()

	w := doRequest(t, handler, "POST", "/create-blog", "not-a-token", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
