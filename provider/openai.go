package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/minios-linux/sitekit/langmeta"
)

// DefaultModel is the model used when the configuration names none.
const DefaultModel = "gpt-4o-mini"

// OpenAIConfig configures the OpenAI-compatible backend.
type OpenAIConfig struct {
	// APIKey authenticates the client.
	APIKey string
	// Model is the model identifier (DefaultModel if empty).
	Model string
	// BaseURL points at a compatible non-OpenAI endpoint when set.
	BaseURL string
	// Timeout bounds each HTTP request (no limit if zero).
	Timeout time.Duration
	// Temperature for generation (0.3 if zero).
	Temperature float32
	// Retry bounds backoff on transient failures.
	Retry RetryConfig
}

// OpenAI implements Provider against an OpenAI-compatible chat API.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	retry       RetryConfig
}

// NewOpenAI creates the backend.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	retry := cfg.Retry
	if retry.MaxRetries == 0 && retry.BaseDelay == 0 {
		retry = DefaultRetryConfig()
	}
	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: temperature,
		retry:       retry,
	}
}

// Model returns the configured model identifier.
func (p *OpenAI) Model() string {
	return p.model
}

// Translate performs one unit of work with bounded retry.
func (p *OpenAI) Translate(ctx context.Context, req Request) (Result, error) {
	return withRetry(ctx, p.retry, func() (Result, error) {
		return p.translateOnce(ctx, req)
	})
}

func (p *OpenAI) translateOnce(ctx context.Context, req Request) (Result, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: userMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return Result{}, &Error{
			Message:   "chat completion failed",
			Cause:     err,
			Retryable: retryableAPIError(err),
		}
	}
	if len(resp.Choices) == 0 {
		return Result{}, &Error{Message: "empty completion", Retryable: true}
	}
	return ParseResult(resp.Choices[0].Message.Content)
}

// ---------------------------------------------------------------------------
// Prompt construction
// ---------------------------------------------------------------------------

// defaultInstruction is the system prompt used when the configuration
// carries no override. {{targetLang}} is replaced with the target
// language's English name.
const defaultInstruction = `You are a professional translator for a multilingual content website. You translate Markdown documents and their metadata fields.

TRANSLATION PRINCIPLES:
- Translate for naturalness and fluency in {{targetLang}}, not word-for-word.
- Preserve the author's tone and intent while using idiomatic {{targetLang}}.
- Keep brand names, proper nouns, and technical identifiers unchanged.

MARKDOWN SAFETY:
- Preserve all Markdown structure: headings, lists, links, emphasis markers.
- Do NOT translate code blocks, inline code, URLs, or link targets.
- Do NOT translate template placeholders like {{name}} or %s.

OUTPUT FORMAT:
Return a single JSON object:
{ "fields": { "<field name>": "<translated value>", ... }, "body": "<translated Markdown body>" }
- "fields" must contain exactly the field names you were given, no others.
- Do NOT wrap the JSON in Markdown code blocks.`

func systemPrompt(req Request) string {
	instr := req.Instruction
	if instr == "" {
		instr = defaultInstruction
	}
	return strings.ReplaceAll(instr, "{{targetLang}}", langmeta.EnglishName(req.TargetLang))
}

func userMessage(req Request) string {
	fields := make(map[string]string, len(req.Fields))
	var order []string
	for _, f := range req.Fields {
		fields[f.Key] = f.Value
		order = append(order, f.Key)
	}
	payload := map[string]any{
		"sourceLang": req.SourceLang,
		"targetLang": req.TargetLang,
		"fieldOrder": order,
		"fields":     fields,
		"body":       req.Body,
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

// ---------------------------------------------------------------------------
// Response parsing
// ---------------------------------------------------------------------------

// ParseResult decodes a completion into a Result. Stray Markdown fences
// around the JSON are tolerated.
func ParseResult(content string) (Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var res Result
	if err := json.Unmarshal([]byte(content), &res); err != nil {
		return Result{}, &Error{
			Message: fmt.Sprintf("invalid response JSON: %v", err),
		}
	}
	if res.Fields == nil {
		res.Fields = map[string]string{}
	}
	return res, nil
}

// retryableAPIError classifies transport-level failures. Rate limits and
// server-side errors are worth retrying; auth and request shape errors
// are not.
func retryableAPIError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	msg := err.Error()
	for _, pattern := range []string{"rate limit", "timeout", "connection refused", "connection reset", "EOF"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
