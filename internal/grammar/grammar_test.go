package grammar

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"array", `[{"error":"الى","explanation":"همزة","suggestion":"إلى"}]`, 1, false},
		{"object", `{"suggestions":[{"nonStandardPhrase":"مش","explanation":"عامية","suggestion":"ليس"}]}`, 1, false},
		{"fenced", "```json\n[{\"error\":\"الى\",\"explanation\":\"\",\"suggestion\":\"إلى\"}]\n```", 1, false},
		{"empty array", `[]`, 0, false},
		{"drops invalid", `[{"explanation":"none"},{"error":"a","nonStandardPhrase":"b"},{"error":"c"}]`, 1, false},
		{"blank", "  ", 0, true},
		{"garbage", "not json", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSuggestions(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSuggestions error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("got %d suggestions, want %d: %+v", len(got), tt.want, got)
			}
		})
	}
}

func TestGeminiChecker_Check(t *testing.T) {
	var gotPath, gotKey string
	var gotReq geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"[{\"error\":\"الى\",\"explanation\":\"همزة القطع\",\"suggestion\":\"إلى\"}]"}]}}]}`)
	}))
	defer srv.Close()

	c := NewGeminiChecker(srv.URL, "secret", "", 0.2)
	got, err := c.Check(context.Background(), "ذهبت الى السوق")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(got) != 1 || got[0].ErrorText != "الى" || got[0].SuggestionText != "إلى" {
		t.Errorf("unexpected suggestions: %+v", got)
	}
	if gotPath != "/models/"+DefaultGeminiModel+":generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("key = %q, want secret", gotKey)
	}
	if gotReq.GenerationConfig.ResponseMimeType != "application/json" || gotReq.GenerationConfig.Temperature != 0.2 {
		t.Errorf("generationConfig = %+v", gotReq.GenerationConfig)
	}
	if len(gotReq.Contents) != 1 || !strings.Contains(gotReq.Contents[0].Parts[0].Text, "ذهبت الى السوق") {
		t.Errorf("prompt does not carry the text: %+v", gotReq.Contents)
	}
}

func TestGeminiChecker_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := NewGeminiChecker(srv.URL, "k", "", 0).Check(context.Background(), "نص")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestGeminiChecker_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGeminiChecker(srv.URL, "k", "", 0).Check(context.Background(), "نص")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestOpenAIChecker_Check(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotReq)
		io.WriteString(w, `{"choices":[{"message":{"content":"{\"suggestions\":[{\"nonStandardPhrase\":\"مش\",\"explanation\":\"عامية\",\"suggestion\":\"ليس\"}]}"}}]}`)
	}))
	defer srv.Close()

	c := NewOpenAIChecker(srv.URL, "sk-test", "m", 0)
	got, err := c.Check(context.Background(), "هذا مش صحيح")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(got) != 1 || got[0].NonStandardPhraseText != "مش" {
		t.Errorf("unexpected suggestions: %+v", got)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReq.Model != "m" || gotReq.ResponseFormat["type"] != "json_object" {
		t.Errorf("request = %+v", gotReq)
	}
}

func TestOpenAIChecker_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"message":"bad key"}}`)
	}))
	defer srv.Close()

	_, err := NewOpenAIChecker(srv.URL, "", "", 0).Check(context.Background(), "نص")
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Errorf("expected API error, got %v", err)
	}
}

func TestCheck_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewOpenAIChecker(srv.URL, "", "", 0).Check(ctx, "نص")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv("QALAM_GRAMMAR_PROVIDER", "")
		c, err := NewFromEnv()
		if err != nil || c != nil {
			t.Errorf("expected nil checker, got %v, %v", c, err)
		}
	})
	t.Run("gemini", func(t *testing.T) {
		t.Setenv("QALAM_GRAMMAR_PROVIDER", "gemini")
		t.Setenv("GEMINI_API_KEY", "k")
		t.Setenv("QALAM_GRAMMAR_TEMPERATURE", "0.3")
		c, err := NewFromEnv()
		if err != nil {
			t.Fatal(err)
		}
		g, ok := c.(*GeminiChecker)
		if !ok || g.temperature != 0.3 || g.model != DefaultGeminiModel {
			t.Errorf("unexpected checker %#v", c)
		}
	})
	t.Run("gemini without key", func(t *testing.T) {
		t.Setenv("QALAM_GRAMMAR_PROVIDER", "gemini")
		t.Setenv("GEMINI_API_KEY", "")
		if _, err := NewFromEnv(); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("openai", func(t *testing.T) {
		t.Setenv("QALAM_GRAMMAR_PROVIDER", "openai")
		t.Setenv("QALAM_GRAMMAR_TEMPERATURE", "")
		c, err := NewFromEnv()
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := c.(*OpenAIChecker); !ok {
			t.Errorf("expected *OpenAIChecker, got %T", c)
		}
	})
	t.Run("bad temperature", func(t *testing.T) {
		t.Setenv("QALAM_GRAMMAR_PROVIDER", "openai")
		t.Setenv("QALAM_GRAMMAR_TEMPERATURE", "hot")
		if _, err := NewFromEnv(); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("unknown", func(t *testing.T) {
		t.Setenv("QALAM_GRAMMAR_PROVIDER", "ollama")
		t.Setenv("QALAM_GRAMMAR_TEMPERATURE", "")
		if _, err := NewFromEnv(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestPrompts(t *testing.T) {
	if p := GrammarPrompt("نص"); !strings.Contains(p, "'نص'") {
		t.Errorf("grammar prompt missing text: %q", p)
	}
	p := TranslationPrompt("مرحبا", "English")
	if !strings.Contains(p, "to English") || !strings.Contains(p, "'مرحبا'") {
		t.Errorf("translation prompt = %q", p)
	}
}
