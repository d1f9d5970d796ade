package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse acknowledges an action that returns no entity
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
