// internal/handlers/notification_handlers.go
package handlers

import (
	"net/http"

	"github.com/algrissette/uvavine/internal/engine/actors"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/utils"
)

// HandleNewNotification reports whether the caller has unseen
// notifications
func (s *Server) HandleNewNotification(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, utils.NewAppError(utils.ErrUnauthorized, "Authentication required", nil))
		return
	}

	result, err := s.askActor(s.Engine.GetNotificationActor(), &actors.CheckNewNotificationsMsg{
		UserID: userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleNotifications pages the caller's notification tray. The filter
// narrows by type; "all" or empty means everything.
func (s *Server) HandleNotifications(w http.ResponseWriter, r *http.Request) {
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
		Page            int    `json:"page"`
		Filter          string `json:"filter"`
		DeletedDocCount int    `json:"deletedDocCount"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	filter := req.Filter
	if filter == "all" {
		filter = ""
	}

	result, err := s.askActor(s.Engine.GetNotificationActor(), &actors.ListNotificationsMsg{
		UserID:          userID,
		Page:            req.Page,
		Filter:          filter,
		DeletedDocCount: req.DeletedDocCount,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"notifications": result})
}

// HandleAllNotificationsCount counts the caller's notifications
func (s *Server) HandleAllNotificationsCount(w http.ResponseWriter, r *http.Request) {
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
		Filter string `json:"filter"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	filter := req.Filter
	if filter == "all" {
		filter = ""
	}

	result, err := s.askActor(s.Engine.GetNotificationActor(), &actors.CountNotificationsMsg{
		UserID: userID,
		Filter: filter,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
