package models

import (
	"time"
)

// APIResponse is the envelope for non-collection responses: health checks
// and every error the API returns.
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ErrorDetail carries a machine-readable code and, for request validation
// failures, the offending JSON field.
type ErrorDetail struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ErrorDetail `json:"errors"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

func ErrorResponse(message string, detail interface{}) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     detail,
		Timestamp: time.Now().UTC(),
	}
}
