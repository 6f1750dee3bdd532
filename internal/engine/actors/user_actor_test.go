package actors

import (
	"context"
	"os"
	"testing"

	"github.com/algrissette/uvavine/internal/api"
	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	middleware.InitJWT("test-secret-key")
	os.Exit(m.Run())
}

func spawnUserActor(store database.Store) (*actor.ActorSystem, *actor.PID) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(store, utils.NewMetricsCollector())
	})
	return system, system.Root.Spawn(props)
}

func TestSignupValidation(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	cases := []struct {
		name string
		msg  *SignupMsg
	}{
		{"short fullname", &SignupMsg{Fullname: "Jo", Email: "jo@example.com", Password: "Passw0rd"}},
		{"invalid email", &SignupMsg{Fullname: "Jordan", Email: "not-an-email", Password: "Passw0rd"}},
		{"short password", &SignupMsg{Fullname: "Jordan", Email: "jo@example.com", Password: "Ab1"}},
		{"no uppercase", &SignupMsg{Fullname: "Jordan", Email: "jo@example.com", Password: "passw0rd"}},
		{"no digit", &SignupMsg{Fullname: "Jordan", Email: "jo@example.com", Password: "Password"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ask(t, system, pid, tc.msg)
			appErr, ok := result.(*utils.AppError)
			require.True(t, ok)
			assert.Equal(t, utils.ErrInvalidInput, appErr.Code)
		})
	}
}

func TestSignupAndSignin(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	result := ask(t, system, pid, &SignupMsg{
		Fullname: "Jordan Blake",
		Email:    "jordan@example.com",
		Password: "Passw0rd",
	})
	auth := result.(*api.AuthResponse)
	assert.NotEmpty(t, auth.AccessToken)
	assert.Equal(t, "jordan", auth.Username)
	assert.Equal(t, "Jordan Blake", auth.Fullname)

	// The stored password is hashed
	user, err := store.GetUserByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd", user.HashedPassword)
	assert.NotEmpty(t, user.HashedPassword)

	// Duplicate email
	result = ask(t, system, pid, &SignupMsg{
		Fullname: "Other Jordan",
		Email:    "jordan@example.com",
		Password: "Passw0rd",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	// Wrong password
	result = ask(t, system, pid, &SigninMsg{Email: "jordan@example.com", Password: "Wrong0ne"})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)

	// Unknown email
	result = ask(t, system, pid, &SigninMsg{Email: "nobody@example.com", Password: "Passw0rd"})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)

	// Correct credentials
	result = ask(t, system, pid, &SigninMsg{Email: "jordan@example.com", Password: "Passw0rd"})
	auth = result.(*api.AuthResponse)
	assert.NotEmpty(t, auth.AccessToken)
}

func TestUsernameCollisionGetsSuffix(t *testing.T) {
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	first := ask(t, system, pid, &SignupMsg{
		Fullname: "Sam One", Email: "sam@example.com", Password: "Passw0rd",
	}).(*api.AuthResponse)
	assert.Equal(t, "sam", first.Username)

	second := ask(t, system, pid, &SignupMsg{
		Fullname: "Sam Two", Email: "sam@another.com", Password: "Passw0rd",
	}).(*api.AuthResponse)
	assert.NotEqual(t, "sam", second.Username)
	assert.Contains(t, second.Username, "sam")
}

func TestGoogleAuth(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	result := ask(t, system, pid, &GoogleAuthMsg{
		Email:   "g@example.com",
		Name:    "Google User",
		Picture: "https://example.com/avatar.jpeg",
	})
	auth := result.(*api.AuthResponse)
	assert.NotEmpty(t, auth.AccessToken)
	assert.Equal(t, "https://example.com/avatar.jpeg", auth.ProfileImg)

	user, err := store.GetUserByEmail(ctx, "g@example.com")
	require.NoError(t, err)
	assert.True(t, user.GoogleAuth)

	// Password signin on a google account is rejected
	result = ask(t, system, pid, &SigninMsg{Email: "g@example.com", Password: "Passw0rd"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)

	// Returning google user signs straight in
	result = ask(t, system, pid, &GoogleAuthMsg{Email: "g@example.com", Name: "Google User"})
	_, ok = result.(*api.AuthResponse)
	assert.True(t, ok)

	// Google auth against a password account is rejected
	ask(t, system, pid, &SignupMsg{
		Fullname: "Password User", Email: "p@example.com", Password: "Passw0rd",
	})
	result = ask(t, system, pid, &GoogleAuthMsg{Email: "p@example.com", Name: "Password User"})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrForbidden, appErr.Code)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	ask(t, system, pid, &SignupMsg{
		Fullname: "Jordan Blake", Email: "jordan@example.com", Password: "Passw0rd",
	})
	user, err := store.GetUserByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)

	// Wrong current password
	result := ask(t, system, pid, &ChangePasswordMsg{
		UserID: user.ID, CurrentPassword: "Wrong0ne", NewPassword: "NewPassw0rd",
	})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidCredentials, appErr.Code)

	result = ask(t, system, pid, &ChangePasswordMsg{
		UserID: user.ID, CurrentPassword: "Passw0rd", NewPassword: "NewPassw0rd",
	})
	status := result.(*models.StatusResponse)
	assert.True(t, status.Success)

	// Only the new password works now
	result = ask(t, system, pid, &SigninMsg{Email: "jordan@example.com", Password: "Passw0rd"})
	_, ok = result.(*utils.AppError)
	assert.True(t, ok)

	result = ask(t, system, pid, &SigninMsg{Email: "jordan@example.com", Password: "NewPassw0rd"})
	_, ok = result.(*api.AuthResponse)
	assert.True(t, ok)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	ask(t, system, pid, &SignupMsg{
		Fullname: "Jordan Blake", Email: "jordan@example.com", Password: "Passw0rd",
	})
	ask(t, system, pid, &SignupMsg{
		Fullname: "Taylor Reed", Email: "taylor@example.com", Password: "Passw0rd",
	})
	user, err := store.GetUserByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)

	// Short username
	result := ask(t, system, pid, &UpdateProfileMsg{UserID: user.ID, Username: "jo"})
	appErr, ok := result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Social link without scheme
	result = ask(t, system, pid, &UpdateProfileMsg{
		UserID: user.ID, Username: "jordanb",
		SocialLinks: map[string]string{"twitter": "twitter.com/jordan"},
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Social link on the wrong host
	result = ask(t, system, pid, &UpdateProfileMsg{
		UserID: user.ID, Username: "jordanb",
		SocialLinks: map[string]string{"twitter": "https://facebook.com/jordan"},
	})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrInvalidInput, appErr.Code)

	// Taken username
	result = ask(t, system, pid, &UpdateProfileMsg{UserID: user.ID, Username: "taylor"})
	appErr, ok = result.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrDuplicate, appErr.Code)

	result = ask(t, system, pid, &UpdateProfileMsg{
		UserID:   user.ID,
		Username: "jordanb",
		Bio:      "Writes about Go",
		SocialLinks: map[string]string{
			"twitter": "https://twitter.com/jordanb",
			"website": "https://jordanb.dev",
		},
	})
	updated := result.(*UsernameResponse)
	assert.Equal(t, "jordanb", updated.Username)

	stored, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jordanb", stored.Username)
	assert.Equal(t, "Writes about Go", stored.Bio)
	assert.Equal(t, "https://twitter.com/jordanb", stored.SocialLinks["twitter"])
}

func TestUpdateProfileImg(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	system, pid := spawnUserActor(store)

	ask(t, system, pid, &SignupMsg{
		Fullname: "Jordan Blake", Email: "jordan@example.com", Password: "Passw0rd",
	})
	user, err := store.GetUserByEmail(ctx, "jordan@example.com")
	require.NoError(t, err)

	result := ask(t, system, pid, &UpdateProfileImgMsg{
		UserID: user.ID,
		URL:    "https://example.com/new-avatar.jpeg",
	})
	resp := result.(*ProfileImgResponse)
	assert.Equal(t, "https://example.com/new-avatar.jpeg", resp.ProfileImg)

	stored, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/new-avatar.jpeg", stored.ProfileImg)
}
