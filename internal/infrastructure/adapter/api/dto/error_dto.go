package dto

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Details carries validation messages keyed by display ID
	Details map[string][]string `json:"details,omitempty"`
}
