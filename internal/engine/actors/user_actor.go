// internal/engine/actors/user_actor.go
package actors

import (
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/algrissette/uvavine/internal/api"
	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"golang.org/x/crypto/bcrypt"
)

// Message types for user operations
type (
	SignupMsg struct {
		Fullname string
		Email    string
		Password string
	}

	SigninMsg struct {
		Email    string
		Password string
	}

	// GoogleAuthMsg carries an identity already verified against the
	// provider. The actor only reconciles it with the local account.
	GoogleAuthMsg struct {
		Email   string
		Name    string
		Picture string
	}

	ChangePasswordMsg struct {
		UserID          uuid.UUID
		CurrentPassword string
		NewPassword     string
	}

	UpdateProfileMsg struct {
		UserID      uuid.UUID
		Username    string
		Bio         string
		SocialLinks map[string]string
	}

	UpdateProfileImgMsg struct {
		UserID uuid.UUID
		URL    string
	}
)

var (
	emailRegex     = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	digitRegex     = regexp.MustCompile(`[0-9]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
)

const bioLimit = 150

// UserActor handles signup, signin, federated auth and profile edits
type UserActor struct {
	db      database.Store
	metrics *utils.MetricsCollector
}

func NewUserActor(db database.Store, metrics *utils.MetricsCollector) *UserActor {
	return &UserActor{
		db:      db,
		metrics: metrics,
	}
}

func (a *UserActor) Receive(actorCtx actor.Context) {
	switch msg := actorCtx.Message().(type) {
	case *SignupMsg:
		a.handleSignup(actorCtx, msg)
	case *SigninMsg:
		a.handleSignin(actorCtx, msg)
	case *GoogleAuthMsg:
		a.handleGoogleAuth(actorCtx, msg)
	case *ChangePasswordMsg:
		a.handleChangePassword(actorCtx, msg)
	case *UpdateProfileMsg:
		a.handleUpdateProfile(actorCtx, msg)
	case *UpdateProfileImgMsg:
		a.handleUpdateProfileImg(actorCtx, msg)
	}
}

// validPassword enforces 6-20 characters with at least one digit, one
// lowercase and one uppercase letter
func validPassword(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}
	return digitRegex.MatchString(password) &&
		lowercaseRegex.MatchString(password) &&
		uppercaseRegex.MatchString(password)
}

// generateUsername derives a username from the email local part,
// suffixing a short random string when the name is already taken
func (a *UserActor) generateUsername(ctx context.Context, email string) (string, error) {
	username := strings.SplitN(email, "@", 2)[0]

	taken, err := a.db.UsernameExists(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		username = username + shortuuid.New()[:5]
	}
	return username, nil
}

func (a *UserActor) authResponse(user *models.User) (*api.AuthResponse, error) {
	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &api.AuthResponse{
		AccessToken: token,
		ProfileImg:  user.ProfileImg,
		Username:    user.Username,
		Fullname:    user.Fullname,
	}, nil
}

func (a *UserActor) handleSignup(actorCtx actor.Context, msg *SignupMsg) {
	start := time.Now()
	ctx := context.Background()

	if len(msg.Fullname) < 3 {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Fullname must be at least 3 letters long", nil))
		return
	}
	if msg.Email == "" || !emailRegex.MatchString(msg.Email) {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Email is invalid", nil))
		return
	}
	if !validPassword(msg.Password) {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput,
			"Password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letter", nil))
		return
	}

	if _, err := a.db.GetUserByEmail(ctx, msg.Email); err == nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDuplicate, "Email already exists", nil))
		return
	} else if !utils.IsErrorCode(err, utils.ErrNotFound) {
		log.Printf("Error checking email availability: %v", err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create account", err))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), 10)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash password", err))
		return
	}

	username, err := a.generateUsername(ctx, msg.Email)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to generate username", err))
		return
	}

	user := &models.User{
		ID:             uuid.New(),
		Fullname:       msg.Fullname,
		Email:          msg.Email,
		Username:       username,
		HashedPassword: string(hashed),
		SocialLinks:    map[string]string{},
		JoinedAt:       time.Now(),
	}

	if err := a.db.SaveUser(ctx, user); err != nil {
		log.Printf("Error saving user: %v", err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create account", err))
		return
	}

	resp, err := a.authResponse(user)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to generate token", err))
		return
	}

	a.metrics.AddOperationLatency("signup", time.Since(start))
	log.Printf("User signed up: %s (%s)", user.Username, user.ID)
	actorCtx.Respond(resp)
}

func (a *UserActor) handleSignin(actorCtx actor.Context, msg *SigninMsg) {
	start := time.Now()
	ctx := context.Background()

	user, err := a.db.GetUserByEmail(ctx, msg.Email)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			actorCtx.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Email not found", nil))
			return
		}
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to sign in", err))
		return
	}

	if user.GoogleAuth {
		actorCtx.Respond(utils.NewAppError(utils.ErrForbidden,
			"Account was created using Google. Try logging in with Google.", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Incorrect password", nil))
		return
	}

	resp, err := a.authResponse(user)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to generate token", err))
		return
	}

	a.metrics.AddOperationLatency("signin", time.Since(start))
	actorCtx.Respond(resp)
}

func (a *UserActor) handleGoogleAuth(actorCtx actor.Context, msg *GoogleAuthMsg) {
	start := time.Now()
	ctx := context.Background()

	user, err := a.db.GetUserByEmail(ctx, msg.Email)
	if err == nil {
		// Existing account: only usable through Google if it was
		// created that way.
		if !user.GoogleAuth {
			actorCtx.Respond(utils.NewAppError(utils.ErrForbidden,
				"This email was signed up without google. Please log in with password to access the account", nil))
			return
		}
	} else if utils.IsErrorCode(err, utils.ErrNotFound) {
		username, genErr := a.generateUsername(ctx, msg.Email)
		if genErr != nil {
			actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to generate username", genErr))
			return
		}

		user = &models.User{
			ID:          uuid.New(),
			Fullname:    msg.Name,
			Email:       msg.Email,
			Username:    username,
			ProfileImg:  msg.Picture,
			GoogleAuth:  true,
			SocialLinks: map[string]string{},
			JoinedAt:    time.Now(),
		}
		if saveErr := a.db.SaveUser(ctx, user); saveErr != nil {
			log.Printf("Error saving google user: %v", saveErr)
			actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create account", saveErr))
			return
		}
		log.Printf("Google account created: %s (%s)", user.Username, user.ID)
	} else {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to authenticate", err))
		return
	}

	resp, err := a.authResponse(user)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to generate token", err))
		return
	}

	a.metrics.AddOperationLatency("google_auth", time.Since(start))
	actorCtx.Respond(resp)
}

func (a *UserActor) handleChangePassword(actorCtx actor.Context, msg *ChangePasswordMsg) {
	ctx := context.Background()

	if !validPassword(msg.CurrentPassword) || !validPassword(msg.NewPassword) {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput,
			"Password should be 6 to 20 characters long with a numeric, 1 lowercase and 1 uppercase letter", nil))
		return
	}

	user, err := a.db.GetUser(ctx, msg.UserID)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrNotFound, "User not found", err))
		return
	}

	if user.GoogleAuth {
		actorCtx.Respond(utils.NewAppError(utils.ErrForbidden,
			"You can't change account's password because you logged in through google", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.CurrentPassword)); err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Incorrect current password", nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.NewPassword), 10)
	if err != nil {
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to hash password", err))
		return
	}

	if err := a.db.UpdateUserPassword(ctx, msg.UserID, string(hashed)); err != nil {
		log.Printf("Error updating password for %s: %v", msg.UserID, err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to change password", err))
		return
	}

	actorCtx.Respond(&models.StatusResponse{Success: true, Message: "Password changed"})
}

// validateSocialLinks checks each provided link is a full URL whose host
// matches the platform it is filed under. "website" accepts any host.
func validateSocialLinks(links map[string]string) *utils.AppError {
	for platform, link := range links {
		if link == "" {
			continue
		}
		parsed, err := url.Parse(link)
		if err != nil || parsed.Scheme == "" || parsed.Hostname() == "" {
			return utils.NewAppError(utils.ErrInvalidInput,
				"You must provide full social links with http(s) included", nil)
		}
		if platform != "website" && !strings.Contains(parsed.Hostname(), platform+".com") {
			return utils.NewAppError(utils.ErrInvalidInput,
				platform+" link is invalid. You must enter a full link", nil)
		}
	}
	return nil
}

func (a *UserActor) handleUpdateProfile(actorCtx actor.Context, msg *UpdateProfileMsg) {
	ctx := context.Background()

	if len(msg.Username) < 3 {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Username should be at least 3 letters long", nil))
		return
	}
	if len(msg.Bio) > bioLimit {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Bio should not be more than 150 characters", nil))
		return
	}
	if appErr := validateSocialLinks(msg.SocialLinks); appErr != nil {
		actorCtx.Respond(appErr)
		return
	}

	// Reject usernames already held by another account
	if existing, err := a.db.GetUserByUsername(ctx, msg.Username); err == nil && existing.ID != msg.UserID {
		actorCtx.Respond(utils.NewAppError(utils.ErrDuplicate, "Username is already taken", nil))
		return
	}

	if err := a.db.UpdateUserProfile(ctx, msg.UserID, msg.Username, msg.Bio, msg.SocialLinks); err != nil {
		log.Printf("Error updating profile for %s: %v", msg.UserID, err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile", err))
		return
	}

	actorCtx.Respond(&UsernameResponse{Username: msg.Username})
}

func (a *UserActor) handleUpdateProfileImg(actorCtx actor.Context, msg *UpdateProfileImgMsg) {
	ctx := context.Background()

	if msg.URL == "" {
		actorCtx.Respond(utils.NewAppError(utils.ErrInvalidInput, "Image URL is required", nil))
		return
	}

	if err := a.db.UpdateUserProfileImg(ctx, msg.UserID, msg.URL); err != nil {
		log.Printf("Error updating profile image for %s: %v", msg.UserID, err)
		actorCtx.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile image", err))
		return
	}

	actorCtx.Respond(&ProfileImgResponse{ProfileImg: msg.URL})
}

// UsernameResponse echoes the updated username back to the client
type UsernameResponse struct {
	Username string `json:"username"`
}

// ProfileImgResponse echoes the stored profile image URL
type ProfileImgResponse struct {
	ProfileImg string `json:"profile_img"`
}
