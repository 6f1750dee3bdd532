// internal/handlers/comment_handlers.go
package handlers

import (
	"net/http"

	"github.com/algrissette/uvavine/internal/engine/actors"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/google/uuid"
)

func parseOptionalID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// HandleAddComment creates a comment or a reply on a blog
func (s *Server) HandleAddComment(w http.ResponseWriter, r *http.Request) {
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
		ID             string `json:"_id"`
		Comment        string `json:"comment"`
		BlogAuthor     string `json:"blog_author"`
		ReplyingTo     string `json:"replying_to"`
		NotificationID string `json:"notification_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	blogID, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid blog ID", err))
		return
	}
	blogAuthorID, err := uuid.Parse(req.BlogAuthor)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid blog author ID", err))
		return
	}
	replyingTo, err := parseOptionalID(req.ReplyingTo)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid comment ID", err))
		return
	}
	notificationID, err := parseOptionalID(req.NotificationID)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid notification ID", err))
		return
	}

	result, err := s.askActor(s.Engine.GetCommentActor(), &actors.AddCommentMsg{
		BlogID:         blogID,
		BlogAuthorID:   blogAuthorID,
		UserID:         userID,
		Content:        req.Comment,
		ReplyingTo:     replyingTo,
		NotificationID: notificationID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleGetBlogComments pages the top-level comments of a blog
func (s *Server) HandleGetBlogComments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		BlogID string `json:"blog_id"`
		Skip   int    `json:"skip"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	blogID, err := uuid.Parse(req.BlogID)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid blog ID", err))
		return
	}

	result, err := s.askActor(s.Engine.GetCommentActor(), &actors.GetBlogCommentsMsg{
		BlogID: blogID,
		Skip:   req.Skip,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleGetReplies pages the direct replies of a comment
func (s *Server) HandleGetReplies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		ID   string `json:"_id"`
		Skip int    `json:"skip"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	commentID, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid comment ID", err))
		return
	}

	result, err := s.askActor(s.Engine.GetCommentActor(), &actors.GetRepliesMsg{
		CommentID: commentID,
		Skip:      req.Skip,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"replies": result})
}

// HandleDeleteComment deletes a comment and its reply subtree
func (s *Server) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
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
		ID string `json:"_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	commentID, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid comment ID", err))
		return
	}

	result, err := s.askActor(s.Engine.GetCommentActor(), &actors.DeleteCommentMsg{
		CommentID: commentID,
		UserID:    userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
