package dto

// ErrorResponseDTO unifies the error body across all endpoints.
// Error is a stable machine code; Message is the human-readable text.
type ErrorResponseDTO struct {
	Error   string `json:"error" example:"storage_unavailable"`
	Message string `json:"message,omitempty" example:"database is unreachable"`
}
