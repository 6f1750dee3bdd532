// internal/handlers/upload_handlers.go
package handlers

import (
	"net/http"

	"github.com/algrissette/uvavine/internal/utils"
)

// HandleGetUploadURL presigns a one-off S3 PUT URL for an image upload
func (s *Server) HandleGetUploadURL(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	url, err := s.Signer.SignUploadURL(r.Context())
	if err != nil {
		respondError(w, utils.NewAppError(utils.ErrDatabase, "Failed to generate upload URL", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"uploadURL": url})
}
