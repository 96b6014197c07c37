// Package grammar provides a pluggable interface for LLM grammar checkers.
package grammar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/qalam/internal/model"
)

// ErrEmptyResponse is returned when the provider answers without content.
var ErrEmptyResponse = errors.New("grammar: empty provider response")

// Checker reviews a text and returns the suggestions the provider made.
type Checker interface {
	Check(ctx context.Context, text string) ([]model.GrammarSuggestion, error)
}

const (
	DefaultGeminiModel   = "gemini-2.0-flash"
	DefaultGeminiURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultOpenAIURL     = "https://api.openai.com/v1"
	DefaultTemperature   = 0.8
	defaultClientTimeout = 60 * time.Second
)

// --- Gemini Provider ---

// GeminiChecker calls the Gemini generateContent API.
type GeminiChecker struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature      float64 `json:"temperature"`
		ResponseMimeType string  `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewGeminiChecker creates a checker for the Gemini API. Unset fields fall
// back to their defaults.
func NewGeminiChecker(baseURL, apiKey, model string, temperature float64) *GeminiChecker {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiChecker{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: defaultClientTimeout},
	}
}

func (c *GeminiChecker) Check(ctx context.Context, text string) ([]model.GrammarSuggestion, error) {
	var reqBody geminiRequest
	reqBody.Contents = []geminiContent{{Parts: []geminiPart{{Text: SystemPrompt + "\n\n" + GrammarPrompt(text)}}}}
	reqBody.GenerationConfig.Temperature = c.temperature
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))
	raw, err := postJSON(ctx, c.client, endpoint, nil, reqBody)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	var resp geminiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("gemini: API error: %s", resp.Error.Message)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseSuggestions(resp.Candidates[0].Content.Parts[0].Text)
}

// --- OpenAI-compatible Provider ---

// OpenAIChecker uses any OpenAI-compatible chat completions API.
type OpenAIChecker struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewOpenAIChecker creates a checker using an OpenAI-compatible API.
func NewOpenAIChecker(baseURL, apiKey, model string, temperature float64) *OpenAIChecker {
	if baseURL == "" {
		baseURL = DefaultOpenAIURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIChecker{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: defaultClientTimeout},
	}
}

// json_object mode requires an object, so the array is wrapped.
const openAIFormatHint = `Wrap the array in an object: {"suggestions": [...]}.`

func (c *OpenAIChecker) Check(ctx context.Context, text string) ([]model.GrammarSuggestion, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt + "\n" + openAIFormatHint},
			{Role: "user", Content: GrammarPrompt(text)},
		},
		Temperature:    c.temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	var header http.Header
	if c.apiKey != "" {
		header = http.Header{"Authorization": {"Bearer " + c.apiKey}}
	}
	raw, err := postJSON(ctx, c.client, c.baseURL+"/chat/completions", header, reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: API error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}
	return ParseSuggestions(resp.Choices[0].Message.Content)
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, header http.Header, body any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// ParseSuggestions decodes provider output: a JSON array of suggestions or
// an object holding one under "suggestions", optionally wrapped in a
// Markdown code fence. Items that do not quote exactly one phrase are
// dropped.
func ParseSuggestions(content string) ([]model.GrammarSuggestion, error) {
	content = stripMarkdownFence(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var items []model.GrammarSuggestion
	if strings.HasPrefix(content, "{") {
		var wrapped struct {
			Suggestions []model.GrammarSuggestion `json:"suggestions"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, fmt.Errorf("parse suggestions: %w", err)
		}
		items = wrapped.Suggestions
	} else if err := json.Unmarshal([]byte(content), &items); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	out := make([]model.GrammarSuggestion, 0, len(items))
	for _, s := range items {
		if s.Validate() == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

// stripMarkdownFence removes optional ```json ... ``` wrapping from LLM output.
func stripMarkdownFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// --- Factory ---

// NewFromEnv creates a checker from environment variables.
// QALAM_GRAMMAR_PROVIDER: "gemini" | "openai" | "" (disabled)
// QALAM_GRAMMAR_MODEL: model name
// QALAM_GRAMMAR_URL: base URL override
// QALAM_GRAMMAR_TEMPERATURE: sampling temperature (default 0.8)
// GEMINI_API_KEY, OPENAI_API_KEY: provider credentials
func NewFromEnv() (Checker, error) {
	provider := os.Getenv("QALAM_GRAMMAR_PROVIDER")
	model := os.Getenv("QALAM_GRAMMAR_MODEL")
	baseURL := os.Getenv("QALAM_GRAMMAR_URL")

	temperature := DefaultTemperature
	if v := os.Getenv("QALAM_GRAMMAR_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil || t < 0 {
			return nil, fmt.Errorf("invalid QALAM_GRAMMAR_TEMPERATURE %q", v)
		}
		temperature = t
	}

	switch provider {
	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, errors.New("gemini provider needs GEMINI_API_KEY")
		}
		return NewGeminiChecker(baseURL, key, model, temperature), nil
	case "openai":
		return NewOpenAIChecker(baseURL, os.Getenv("OPENAI_API_KEY"), model, temperature), nil
	case "":
		return nil, nil // grammar checks disabled
	default:
		return nil, fmt.Errorf("unknown grammar provider %q (use gemini or openai)", provider)
	}
}
