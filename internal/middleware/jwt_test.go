package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	InitJWT("test-secret-key")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "uvavine-api", claims.Issuer)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New())
	require.NoError(t, err)

	InitJWT("a-different-secret")
	defer InitJWT("test-secret-key")

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func protectedProbe(t *testing.T) (http.HandlerFunc, *uuid.UUID) {
	seen := &uuid.UUID{}
	handler := func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserIDFromContext(r.Context())
		require.True(t, ok)
		*seen = userID
		w.WriteHeader(http.StatusOK)
	}
	return handler, seen
}

func TestMiddlewareProtectedRoute(t *testing.T) {
	handler, seen := protectedProbe(t)
	wrapped := ApplyJWTMiddleware(handler, "/create-blog")

	// No token
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest("POST", "/create-blog", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Malformed token
	req := httptest.NewRequest("POST", "/create-blog", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Valid token resolves to the signed-in user
	userID := uuid.New()
	token, err := GenerateToken(userID)
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/create-blog", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, *seen)
}

func TestMiddlewareUnprotectedRoute(t *testing.T) {
	called := false
	wrapped := ApplyJWTMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, "/latest-blogs")

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest("POST", "/latest-blogs", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}
