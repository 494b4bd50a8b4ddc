package dto

import "time"

// APIResponse is the envelope for successful responses. Error responses use
// the flat payload rendered by the error middleware.
type APIResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OK wraps data in a success envelope.
func OK(message string, data any) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
