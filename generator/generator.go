// Package generator wraps the Gemini text-generation capability used as the
// paid fallback when the knowledge base has no answer.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const SYSTEM_INSTRUCTION = `
You are the assistant behind a bilingual (Assamese/English) knowledge chat app.
Answer the user's question directly and concisely.
Reply in the language the question was asked in; prefer Assamese when the
question is in Assamese.
Do not mention that you are a language model and do not wrap the answer in
markdown code blocks.
`

// CallLog captures latency and token usage of one generative call.
type CallLog struct {
	ModelName    string
	ModelVersion string
	LatencyMs    int64
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
}

// New builds a fallback client. timeoutSeconds bounds a single call;
// 0 or below leaves only the caller's context deadline in effect.
func New(apiKey, model string, timeoutSeconds int) *Client {
	var timeout time.Duration
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		timeout: timeout,
	}
}

// Generate sends one combined prompt (injected knowledge-base context plus
// the user's question) to the model and returns the generated text.
// No retries are performed; every failure is terminal for the call.
func (c *Client) Generate(ctx context.Context, promptContext, message string) (string, *CallLog, error) {
	if c.apiKey == "" {
		return "", nil, errors.New("GEMINI_API_KEY is not configured")
	}
	if c.model == "" {
		return "", nil, errors.New("gemini model is not configured")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", nil, err
	}

	prompt := strings.TrimSpace(message)
	if injection := strings.TrimSpace(promptContext); injection != "" {
		prompt = fmt.Sprintf("%s\n\nপ্ৰশ্ন: %s", injection, prompt)
	}

	result, err := client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SYSTEM_INSTRUCTION}}},
		},
	)
	if err != nil {
		return "", nil, err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", nil, errors.New("model returned an empty response")
	}

	callLog := &CallLog{
		ModelName:    c.model,
		ModelVersion: result.ModelVersion,
		LatencyMs:    time.Since(startTime).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		callLog.InputTokens = int64(result.UsageMetadata.PromptTokenCount)
		callLog.OutputTokens = int64(result.UsageMetadata.CandidatesTokenCount)
		callLog.TotalTokens = int64(result.UsageMetadata.TotalTokenCount)
	}

	return text, callLog, nil
}
