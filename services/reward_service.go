package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"brainchat/repositories"
)

// RewardService credits a user's wallet after a confirmed rewarded-video
// view. The amount is trusted: validation belongs to the caller, which is
// expected to be the server-side ad confirmation step, not the app itself.
type RewardService struct {
	ledger Ledger
}

func NewRewardService(ledger Ledger) *RewardService {
	return &RewardService{ledger: ledger}
}

// Reward credits amount to an existing account and returns the new balance.
// Unlike chat, this never creates an account on miss.
func (s *RewardService) Reward(ctx context.Context, userID string, amount int) (int, *APIError) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, invalidRequestError("User ID প্ৰয়োজন। (userId is required)")
	}

	newBalance, err := s.ledger.Credit(ctx, userID, amount)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return 0, &APIError{
			StatusCode: http.StatusNotFound,
			ErrorCode:  CodeUserNotFound,
			Message:    "User not found",
			Cause:      err,
		}
	}
	if err != nil {
		return 0, storageError(err)
	}
	return newBalance, nil
}
