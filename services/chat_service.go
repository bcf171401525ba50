package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"brainchat/brain"
	"brainchat/dto"
	"brainchat/generator"
	"brainchat/logger"
	"brainchat/models"
)

// Response source values, part of the wire contract.
const (
	SourceBrain          = "json_brain"
	SourceGemini         = "gemini_api"
	SourceSystem         = "system"
	SourceSystemFallback = "system_fallback"
)

// ActionWatchAd tells the client to show a rewarded video before retrying.
const ActionWatchAd = "watch_ad"

const (
	msgMissingFields    = "User ID আৰু Message প্ৰয়োজন। (userId and message are required)"
	msgBalanceExhausted = "আপোনাৰ AI Coins শেষ হৈছে। অনুগ্ৰহ কৰি এটা AdMob Rewarded Video চাই টোকেন ৰিচাৰ্জ কৰক।"
	msgNotUnderstood    = "দুখিত, মই আপোনাৰ প্ৰশ্নটো বুজি নাপালোঁ।"
)

// Ledger owns per-user balance state in durable storage.
type Ledger interface {
	GetOrCreate(ctx context.Context, userID string) (*models.User, error)
	Credit(ctx context.Context, userID string, amount int) (int, error)
	DebitIfSufficient(ctx context.Context, userID string, amount int) (int, bool, error)
}

// Generator is the external text-generation capability behind the paid
// fallback path. Prompt construction stays in the client so this interface
// remains trivially mockable.
type Generator interface {
	Generate(ctx context.Context, promptContext, message string) (string, *generator.CallLog, error)
}

// AILogStore records generative call usage. Best-effort; failures are
// logged, never surfaced.
type AILogStore interface {
	Insert(ctx context.Context, log models.AILog) (*mongo.InsertOneResult, error)
}

// ChatService routes a chat message: knowledge base first, then the metered
// generative fallback.
type ChatService struct {
	ledger Ledger
	brain  *brain.Brain
	gen    Generator
	aiLogs AILogStore
}

func NewChatService(ledger Ledger, b *brain.Brain, gen Generator, aiLogs AILogStore) *ChatService {
	return &ChatService{
		ledger: ledger,
		brain:  b,
		gen:    gen,
		aiLogs: aiLogs,
	}
}

// Chat resolves one message to exactly one terminal response.
//
// The paid path reserves tokens with an atomic conditional debit before
// calling the model and refunds them if generation fails. The reservation
// replaces the original check-then-debit read/write gap: two concurrent
// requests can never both spend the same tokens.
func (s *ChatService) Chat(ctx context.Context, userID, message string) (dto.ChatResponseDTO, *APIError) {
	userID = strings.TrimSpace(userID)
	message = strings.TrimSpace(message)
	if userID == "" || message == "" {
		return dto.ChatResponseDTO{}, invalidRequestError(msgMissingFields)
	}

	user, err := s.ledger.GetOrCreate(ctx, userID)
	if err != nil {
		return dto.ChatResponseDTO{}, storageError(err)
	}

	// Free tier: first matching rule answers at zero cost, no ledger mutation.
	if intent := s.brain.Match(message); intent != nil {
		cost := 0
		balance := user.WalletBalance
		return dto.ChatResponseDTO{
			Source:           SourceBrain,
			Response:         intent.Response,
			DetailedResponse: intent.DetailedResponse,
			Cost:             &cost,
			RemainingBalance: &balance,
		}, nil
	}

	if !s.brain.FallbackEnabled() {
		return dto.ChatResponseDTO{
			Source:   SourceSystemFallback,
			Response: s.fallbackReply(),
		}, nil
	}

	cost := s.brain.CostPerRequest()
	newBalance, applied, err := s.ledger.DebitIfSufficient(ctx, userID, cost)
	if err != nil {
		return dto.ChatResponseDTO{}, storageError(err)
	}
	if !applied {
		return dto.ChatResponseDTO{
			Source:         SourceSystem,
			Response:       msgBalanceExhausted,
			ActionRequired: ActionWatchAd,
		}, nil
	}

	requestedAt := time.Now()
	answer, callLog, genErr := s.gen.Generate(ctx, s.brain.PromptInjection(), message)
	if genErr != nil {
		// The user got no answer, so release the reserved tokens. If the
		// refund itself fails the drift is logged and accepted; the request
		// still reports the generation failure.
		if _, refundErr := s.ledger.Credit(ctx, userID, cost); refundErr != nil {
			logger.ErrorWithFields("token refund failed after generation failure", logger.Fields{
				"user_id": userID,
				"amount":  cost,
				"error":   refundErr.Error(),
			})
		}
		s.recordAILog(userID, message, 0, callLog, genErr, requestedAt)
		return dto.ChatResponseDTO{}, generationError(genErr)
	}

	s.recordAILog(userID, message, cost, callLog, nil, requestedAt)

	return dto.ChatResponseDTO{
		Source:           SourceGemini,
		Response:         answer,
		Cost:             &cost,
		RemainingBalance: &newBalance,
	}, nil
}

// fallbackReply prefers the reserved catch-all rule's text from the
// knowledge base over the built-in default.
func (s *ChatService) fallbackReply() string {
	if intent := s.brain.FallbackIntent(); intent != nil && strings.TrimSpace(intent.Response) != "" {
		return intent.Response
	}
	return msgNotUnderstood
}

func (s *ChatService) recordAILog(userID, question string, charged int, callLog *generator.CallLog, genErr error, requestedAt time.Time) {
	if s.aiLogs == nil {
		return
	}

	record := models.AILog{
		UserID:      userID,
		Question:    question,
		ChargedCost: charged,
		Success:     genErr == nil,
		RequestedAt: requestedAt,
		CompletedAt: time.Now(),
	}
	if callLog != nil {
		record.ModelName = callLog.ModelName
		record.ModelVersion = callLog.ModelVersion
		record.DurationMs = callLog.LatencyMs
		record.InputTokens = callLog.InputTokens
		record.OutputTokens = callLog.OutputTokens
		record.TotalTokens = callLog.TotalTokens
	}
	if genErr != nil {
		msg := genErr.Error()
		record.ErrorMessage = &msg
	}

	// Detached context: the usage log should land even if the request
	// context was cancelled right after the model call.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := s.aiLogs.Insert(ctx, record); err != nil {
		logger.ErrorWithFields("failed to insert ai usage log", logger.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}
