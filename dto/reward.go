package dto

// RewardRequestDTO is the /api/reward request body. Amount is trusted as-is:
// this endpoint is meant to be called by the server-side ad-reward
// confirmation step only.
type RewardRequestDTO struct {
	UserID string `json:"userId" example:"u3"`
	Amount int    `json:"amount" example:"200"`
}

// RewardResponseDTO is the /api/reward success body.
type RewardResponseDTO struct {
	Success    bool `json:"success" example:"true"`
	NewBalance int  `json:"new_balance" example:"250"`
}
