package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"brainchat/api/handlers"
	"brainchat/brain"
	"brainchat/generator"
	"brainchat/models"
	"brainchat/repositories"
	"brainchat/services"
)

type stubLedger struct {
	balances map[string]int
}

func (s *stubLedger) GetOrCreate(_ context.Context, userID string) (*models.User, error) {
	if _, ok := s.balances[userID]; !ok {
		s.balances[userID] = models.DefaultWalletBalance
	}
	return &models.User{UserID: userID, WalletBalance: s.balances[userID]}, nil
}

func (s *stubLedger) Credit(_ context.Context, userID string, amount int) (int, error) {
	if _, ok := s.balances[userID]; !ok {
		return 0, repositories.ErrUserNotFound
	}
	s.balances[userID] += amount
	return s.balances[userID], nil
}

func (s *stubLedger) DebitIfSufficient(_ context.Context, userID string, amount int) (int, bool, error) {
	balance, ok := s.balances[userID]
	if !ok || balance < amount {
		return 0, false, nil
	}
	s.balances[userID] = balance - amount
	return s.balances[userID], true, nil
}

type stubGenerator struct {
	answer string
}

func (s *stubGenerator) Generate(_ context.Context, _, _ string) (string, *generator.CallLog, error) {
	return s.answer, &generator.CallLog{ModelName: "gemini-1.5-pro"}, nil
}

type noopAILogStore struct{}

func (noopAILogStore) Insert(_ context.Context, _ models.AILog) (*mongo.InsertOneResult, error) {
	return &mongo.InsertOneResult{}, nil
}

func newTestEngine(t *testing.T, balances map[string]int) (*gin.Engine, *stubLedger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kb, err := brain.Parse([]byte(`{
		"intents": [
			{"intent_id": "greeting_001", "patterns": ["hello", "hi"], "response": "canned reply", "detailed_response": "canned detail"},
			{"intent_id": "system_fallback_unknown_999", "patterns": [], "response": "not understood"}
		],
		"dynamic_knowledge_retrieval_engine": {"enabled": true, "cost_per_request": 100, "fallback_prompt_injection": "context"}
	}`))
	if err != nil {
		t.Fatalf("failed to parse test brain: %v", err)
	}

	if balances == nil {
		balances = map[string]int{}
	}
	ledger := &stubLedger{balances: balances}
	chatSvc := services.NewChatService(ledger, kb, &stubGenerator{answer: "generated text"}, noopAILogStore{})
	rewardSvc := services.NewRewardService(ledger)

	r := gin.New()
	r.POST("/api/chat", handlers.ChatHandler(chatSvc))
	r.POST("/api/reward", handlers.RewardHandler(rewardSvc))
	return r, ledger
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	request.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(recorder, request)
	return recorder
}

func TestChatHandlerBrainMatch(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	recorder := postJSON(t, r, "/api/chat", `{"userId": "u1", "message": "hello"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["source"] != "json_brain" {
		t.Fatalf("expected source json_brain, got %v", body["source"])
	}
	if body["cost"] != float64(0) {
		t.Fatalf("expected cost 0, got %v", body["cost"])
	}
	if body["remaining_balance"] != float64(50) {
		t.Fatalf("expected remaining_balance 50, got %v", body["remaining_balance"])
	}
}

func TestChatHandlerMissingFields(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	testCases := []struct {
		name string
		body string
	}{
		{name: "empty body", body: `{}`},
		{name: "missing message", body: `{"userId": "u1"}`},
		{name: "missing user id", body: `{"message": "hello"}`},
		{name: "malformed json", body: `{"userId": `},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			recorder := postJSON(t, r, "/api/chat", testCase.body)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, recorder.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode response body: %v", err)
			}
			if body["error"] != services.CodeInvalidRequest {
				t.Fatalf("expected error %q, got %q", services.CodeInvalidRequest, body["error"])
			}
		})
	}
}

func TestChatHandlerPaidFallback(t *testing.T) {
	r, ledger := newTestEngine(t, map[string]int{"u3": 150})

	recorder := postJSON(t, r, "/api/chat", `{"userId": "u3", "message": "unmatched question"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["source"] != "gemini_api" {
		t.Fatalf("expected source gemini_api, got %v", body["source"])
	}
	if body["cost"] != float64(100) {
		t.Fatalf("expected cost 100, got %v", body["cost"])
	}
	if body["remaining_balance"] != float64(50) {
		t.Fatalf("expected remaining_balance 50, got %v", body["remaining_balance"])
	}
	if ledger.balances["u3"] != 50 {
		t.Fatalf("expected stored balance 50, got %d", ledger.balances["u3"])
	}
}

func TestChatHandlerInsufficientBalance(t *testing.T) {
	r, ledger := newTestEngine(t, map[string]int{"u2": 50})

	recorder := postJSON(t, r, "/api/chat", `{"userId": "u2", "message": "unmatched question"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["source"] != "system" {
		t.Fatalf("expected source system, got %v", body["source"])
	}
	if body["action_required"] != "watch_ad" {
		t.Fatalf("expected action_required watch_ad, got %v", body["action_required"])
	}
	if ledger.balances["u2"] != 50 {
		t.Fatalf("expected balance unchanged at 50, got %d", ledger.balances["u2"])
	}
}

func TestRewardHandler(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"u3": 50})

	recorder := postJSON(t, r, "/api/reward", `{"userId": "u3", "amount": 200}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, recorder.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success true, got %v", body["success"])
	}
	if body["new_balance"] != float64(250) {
		t.Fatalf("expected new_balance 250, got %v", body["new_balance"])
	}
}

func TestRewardHandlerUnknownUser(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	recorder := postJSON(t, r, "/api/reward", `{"userId": "ghost", "amount": 200}`)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, recorder.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body["error"] != services.CodeUserNotFound {
		t.Fatalf("expected error %q, got %q", services.CodeUserNotFound, body["error"])
	}
}
