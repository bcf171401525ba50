// Package brain holds the static knowledge base: a list of intent rules
// matched before the paid generative fallback is ever considered.
package brain

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// FallbackIntentID marks the reserved catch-all rule in the knowledge base.
// It carries the "could not understand" reply and is excluded from matching.
const FallbackIntentID = "system_fallback_unknown_999"

// DefaultCostPerRequest is charged per successful generative call when the
// knowledge base does not override it.
const DefaultCostPerRequest = 100

// Intent is a single pattern-to-canned-response rule.
type Intent struct {
	IntentID         string   `json:"intent_id"`
	Patterns         []string `json:"patterns"`
	Response         string   `json:"response"`
	DetailedResponse string   `json:"detailed_response"`
}

// RetrievalEngine gates and prices the generative fallback path.
type RetrievalEngine struct {
	Enabled                 bool   `json:"enabled"`
	CostPerRequest          int    `json:"cost_per_request"`
	FallbackPromptInjection string `json:"fallback_prompt_injection"`
}

// Brain is the immutable knowledge base, loaded once at startup.
// It is safe to share across requests without synchronization.
type Brain struct {
	Intents         []Intent        `json:"intents"`
	RetrievalEngine RetrievalEngine `json:"dynamic_knowledge_retrieval_engine"`
}

// Load reads and parses the knowledge base file.
func Load(path string) (*Brain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read brain file: %w", err)
	}
	return Parse(data)
}

// Parse builds a Brain from raw JSON.
func Parse(data []byte) (*Brain, error) {
	var b Brain
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse brain json: %w", err)
	}
	if b.RetrievalEngine.CostPerRequest <= 0 {
		b.RetrievalEngine.CostPerRequest = DefaultCostPerRequest
	}
	return &b, nil
}

// Match scans the active rules in declaration order and returns the first
// intent with a pattern that occurs, case-insensitively, as a substring of
// message. Declaration order is the precedence contract: an earlier rule
// wins over any later rule on overlapping triggers. Returns nil when no
// rule matches or the message is blank.
func (b *Brain) Match(message string) *Intent {
	lowered := strings.ToLower(strings.TrimSpace(message))
	if lowered == "" {
		return nil
	}

	for i := range b.Intents {
		intent := &b.Intents[i]
		if intent.IntentID == FallbackIntentID {
			continue
		}
		for _, pattern := range intent.Patterns {
			p := strings.ToLower(strings.TrimSpace(pattern))
			if p == "" {
				continue
			}
			if strings.Contains(lowered, p) {
				return intent
			}
		}
	}
	return nil
}

// FallbackIntent returns the reserved catch-all rule, or nil when the
// knowledge base does not declare one.
func (b *Brain) FallbackIntent() *Intent {
	for i := range b.Intents {
		if b.Intents[i].IntentID == FallbackIntentID {
			return &b.Intents[i]
		}
	}
	return nil
}

// FallbackEnabled reports whether the generative fallback may be used.
func (b *Brain) FallbackEnabled() bool {
	return b.RetrievalEngine.Enabled
}

// CostPerRequest is the fixed price of one generative call.
func (b *Brain) CostPerRequest() int {
	return b.RetrievalEngine.CostPerRequest
}

// PromptInjection is the context string prepended to every generative request.
func (b *Brain) PromptInjection() string {
	return b.RetrievalEngine.FallbackPromptInjection
}
