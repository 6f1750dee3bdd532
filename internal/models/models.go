package models

// StatusResponse is the generic success payload for mutations that return
// no entity.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
