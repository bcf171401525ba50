package dto

// ChatRequestDTO is the /api/chat request body.
type ChatRequestDTO struct {
	UserID  string `json:"userId" example:"u1"`
	Message string `json:"message" example:"hello"`
}

// ChatResponseDTO is the /api/chat success body. Cost and RemainingBalance
// are pointers so the zero-cost knowledge-base path can serialize cost=0
// while the system paths omit both fields, matching the wire contract.
type ChatResponseDTO struct {
	Source           string `json:"source" example:"json_brain"`
	Response         string `json:"response"`
	DetailedResponse string `json:"detailed_response,omitempty"`
	Cost             *int   `json:"cost,omitempty" example:"0"`
	RemainingBalance *int   `json:"remaining_balance,omitempty" example:"50"`
	ActionRequired   string `json:"action_required,omitempty" example:"watch_ad"`
}
