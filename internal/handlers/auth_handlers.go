// internal/handlers/auth_handlers.go
package handlers

import (
	"net/http"

	"github.com/algrissette/uvavine/internal/engine/actors"
	"github.com/algrissette/uvavine/internal/utils"
)

// HandleSignup creates an account from fullname/email/password
func (s *Server) HandleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Fullname string `json:"fullname"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetUserActor(), &actors.SignupMsg{
		Fullname: req.Fullname,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleSignin authenticates a password account
func (s *Server) HandleSignin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetUserActor(), &actors.SigninMsg{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleGoogleAuth verifies a Google access token with the provider and
// signs the caller in, creating the account on first use
func (s *Server) HandleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		AccessToken string `json:"access_token"`
	}
	if err := decodeBody(r, &req); err != nil || req.AccessToken == "" {
		invalidRequest(w)
		return
	}

	identity, err := s.Google.Verify(r.Context(), req.AccessToken)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidToken,
			"Failed to authenticate you with google. Try with some other google account", err))
		return
	}

	result, err := s.askActor(s.Engine.GetUserActor(), &actors.GoogleAuthMsg{
		Email:   identity.Email,
		Name:    identity.Name,
		Picture: identity.Picture,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
