// internal/handlers/blog_handlers.go
package handlers

import (
	"net/http"

	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/engine/actors"
	"github.com/algrissette/uvavine/internal/middleware"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/google/uuid"
)

const blogPageSize = 5

// HandleCreateBlog publishes a blog, saves a draft, or updates an
// existing blog when an id is supplied
func (s *Server) HandleCreateBlog(w http.ResponseWriter, r *http.Request) {
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
		Title   string                 `json:"title"`
		Des     string                 `json:"des"`
		Banner  string                 `json:"banner"`
		Content map[string]interface{} `json:"content"`
		Tags    []string               `json:"tags"`
		Draft   bool                   `json:"draft"`
		ID      string                 `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.CreateBlogMsg{
		AuthorID:     userID,
		ExistingSlug: req.ID,
		Title:        req.Title,
		Des:          req.Des,
		Banner:       req.Banner,
		Content:      req.Content,
		Tags:         req.Tags,
		Draft:        req.Draft,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleLatestBlogs pages published blogs, newest first
func (s *Server) HandleLatestBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		Page int `json:"page"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.ListLatestBlogsMsg{
		Skip:  (req.Page - 1) * blogPageSize,
		Limit: blogPageSize,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blogs": result})
}

// HandleTrendingBlogs returns the most-read published blogs
func (s *Server) HandleTrendingBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.ListTrendingBlogsMsg{
		Limit: blogPageSize,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blogs": result})
}

// HandleAllLatestBlogsCount counts all published blogs
func (s *Server) HandleAllLatestBlogsCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	published := false
	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.CountBlogsMsg{
		Filter: database.BlogFilter{Draft: &published},
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type searchBlogsRequest struct {
	Tag           string `json:"tag"`
	Query         string `json:"query"`
	Author        string `json:"author"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit"`
	EliminateBlog string `json:"eliminate_blog"`
}

func (req *searchBlogsRequest) toFilter() (database.BlogFilter, error) {
	published := false
	filter := database.BlogFilter{
		Tag:         req.Tag,
		TitleQuery:  req.Query,
		ExcludeSlug: req.EliminateBlog,
		Draft:       &published,
	}
	if req.Author != "" {
		authorID, err := uuid.Parse(req.Author)
		if err != nil {
			return filter, utils.NewAppError(utils.ErrInvalidInput, "Invalid author ID", err)
		}
		filter.AuthorID = authorID
	}
	return filter, nil
}

// HandleSearchBlogs pages published blogs by tag, title query or author
func (s *Server) HandleSearchBlogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req searchBlogsRequest
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = blogPageSize
	}

	filter, err := req.toFilter()
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.SearchBlogsMsg{
		Filter: filter,
		Skip:   (req.Page - 1) * req.Limit,
		Limit:  req.Limit,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blogs": result})
}

// HandleSearchBlogsCount counts blogs matching a search filter
func (s *Server) HandleSearchBlogsCount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req searchBlogsRequest
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	filter, err := req.toFilter()
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.CountBlogsMsg{Filter: filter})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleGetBlog reads one blog by slug, bumping read counters unless the
// caller is opening it for editing
func (s *Server) HandleGetBlog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req struct {
		BlogID string `json:"blog_id"`
		Draft  bool   `json:"draft"`
		Mode   string `json:"mode"`
	}
	if err := decodeBody(r, &req); err != nil || req.BlogID == "" {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.GetBlogMsg{
		Slug:  req.BlogID,
		Draft: req.Draft,
		Mode:  req.Mode,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blog": result})
}

// HandleUserWrittenBlogs pages the caller's own blogs, drafts included
func (s *Server) HandleUserWrittenBlogs(w http.ResponseWriter, r *http.Request) {
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
		Draft           bool   `json:"draft"`
		Query           string `json:"query"`
		DeletedDocCount int    `json:"deletedDocCount"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	skip := (req.Page-1)*blogPageSize - req.DeletedDocCount
	if skip < 0 {
		skip = 0
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.SearchBlogsMsg{
		Filter: database.BlogFilter{
			AuthorID:   userID,
			TitleQuery: req.Query,
			Draft:      &req.Draft,
		},
		Skip:  skip,
		Limit: blogPageSize,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"blogs": result})
}

// HandleUserWrittenBlogsCount counts the caller's own blogs
func (s *Server) HandleUserWrittenBlogsCount(w http.ResponseWriter, r *http.Request) {
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
		Draft bool   `json:"draft"`
		Query string `json:"query"`
	}
	if err := decodeBody(r, &req); err != nil {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.CountBlogsMsg{
		Filter: database.BlogFilter{
			AuthorID:   userID,
			TitleQuery: req.Query,
			Draft:      &req.Draft,
		},
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleLikeBlog toggles the caller's like on a blog
func (s *Server) HandleLikeBlog(w http.ResponseWriter, r *http.Request) {
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
		ID            string `json:"_id"`
		IsLikedByUser bool   `json:"islikedByUser"`
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

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.LikeBlogMsg{
		BlogID:        blogID,
		UserID:        userID,
		IsLikedByUser: req.IsLikedByUser,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleIsLikedByUser reports whether the caller currently likes a blog
func (s *Server) HandleIsLikedByUser(w http.ResponseWriter, r *http.Request) {
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

	blogID, err := uuid.Parse(req.ID)
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid blog ID", err))
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.IsLikedMsg{
		BlogID: blogID,
		UserID: userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// HandleDeleteBlog deletes a blog the caller authored, along with its
// comments and notifications
func (s *Server) HandleDeleteBlog(w http.ResponseWriter, r *http.Request) {
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
		BlogID string `json:"blog_id"`
	}
	if err := decodeBody(r, &req); err != nil || req.BlogID == "" {
		invalidRequest(w)
		return
	}

	result, err := s.askActor(s.Engine.GetBlogActor(), &actors.DeleteBlogMsg{
		Slug:   req.BlogID,
		UserID: userID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
