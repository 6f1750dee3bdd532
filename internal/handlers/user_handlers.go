// internal/handlers/user_handlers.go
package handlers

import (
	"net/http"

	"github.com/algrissette/uvavine/internal/engine/actors"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/models"
	"github.com/algrissette/uvavine/internal/utils"
)

const userSearchLimit = 50

// HandleChangePassword swaps the caller's password after verifying the
// current one
func (s *Server) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, utils.NewAppError(utils.ErrUnauthorized, "Authentication required", nil))
		return
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetUserActor(), &actors.ChangePasswordMsg{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleUpdateProfile updates username, bio and social links
func (s *Server) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, utils.NewAppError(utils.ErrUnauthorized, "Authentication required", nil))
		return
	}

	var req struct {
		Username    string            `json:"username"`
		Bio         string            `json:"bio"`
		SocialLinks map[string]string `json:"social_links"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetUserActor(), &actors.UpdateProfileMsg{
		UserID:      userID,
		Username:    req.Username,
		Bio:         req.Bio,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleUpdateProfileImg stores a new profile image URL
func (s *Server) HandleUpdateProfileImg(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, utils.NewAppError(utils.ErrUnauthorized, "Authentication required", nil))
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetUserActor(), &actors.UpdateProfileImgMsg{
		UserID: userID,
		URL:    req.URL,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleSearchUser finds users whose username contains the query
func (s *Server) HandleSearchUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	users, err := s.Store.SearchUsers(r.Context(), req.Query, userSearchLimit)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrDatabase, "Failed to search users", err))
		return
	}

	summaries := make([]*models.UserSummary, len(users))
	for i, user := range users {
		summaries[i] = user.Summary()
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"users": summaries})
}

// HandleGetProfile returns a public profile by username
func (s *Server) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := decodeBody(r, &req); err != nil || req.Username == "" {
		invalidRequest(w)
		return
	}

	user, err := s.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		respondError(w, err)
		return
	}

	// Blog references are internal bookkeeping, not profile data
	user.Blogs = nil
	respondJSON(w, http.StatusOK, user)
}
