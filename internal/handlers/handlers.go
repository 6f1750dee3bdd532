// internal/handlers/handlers.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/algrissette/uvavine/internal/auth"
	"github.com/algrissette/uvavine/internal/database"
	"github.com/algrissette/uvavine/internal/engine"
	"github.com/algrissette/uvavine/internal/storage"
	"github.com/algrissette/uvavine/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds the HTTP-facing dependencies. Handlers decode the
// request, ask the matching actor, and encode whatever comes back.
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Store          database.Store
	Metrics        *utils.MetricsCollector
	Signer         storage.UploadSigner
	Google         auth.Verifier
	RequestTimeout time.Duration
}

func NewServer(system *actor.ActorSystem, eng *engine.Engine, store database.Store,
	metrics *utils.MetricsCollector, signer storage.UploadSigner, google auth.Verifier) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Store:          store,
		Metrics:        metrics,
		Signer:         signer,
		Google:         google,
		RequestTimeout: 5 * time.Second,
	}
}

// askActor sends a message to an actor and waits for the reply,
// converting timeouts and returned AppErrors into errors.
func (s *Server) askActor(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewAppError(utils.ErrActorTimeout, "Request timed out", err)
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*utils.AppError); ok {
		respondJSON(w, utils.AppErrorToHTTPStatus(appErr.Code), map[string]string{"error": appErr.Message})
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// decodeBody decodes a JSON request body, tolerating an empty body so
// endpoints with all-optional parameters accept bare POSTs.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && err.Error() == "EOF" {
		return nil
	}
	return err
}

func invalidRequest(w http.ResponseWriter) {
	respondError(w, utils.NewAppError(utils.ErrInvalidInput, "Invalid request body", nil))
}

func methodNotAllowed(w http.ResponseWriter) {
	respondJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
}

// HandleHealth reports process health, metrics and store reachability
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"metrics": s.Metrics.Snapshot(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Store.Ping(ctx); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	status["database"] = "ok"

	respondJSON(w, http.StatusOK, status)
}
