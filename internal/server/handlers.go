package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rcliao/qalam/internal/assist"
	"github.com/rcliao/qalam/internal/compose"
	"github.com/rcliao/qalam/internal/logging"
	"github.com/rcliao/qalam/internal/model"
	"github.com/rcliao/qalam/internal/similarity"
	"github.com/rcliao/qalam/internal/store"
	"github.com/rcliao/qalam/internal/translate"
)

// TextRequest is the body of /v1/analyze and /v1/grammar.
type TextRequest struct {
	Text string `json:"text"`
}

// HighlightRequest is the body of /v1/highlight.
type HighlightRequest struct {
	Text        string                    `json:"text"`
	Suggestions []model.GrammarSuggestion `json:"suggestions,omitempty"`
	HTML        bool                      `json:"html,omitempty"`
}

// HighlightResponse adds optional rendered markup to a report.
type HighlightResponse struct {
	assist.Report
	HTML string `json:"html,omitempty"`
}

// SimilarityRequest is the body of /v1/similarity.
type SimilarityRequest struct {
	A         string   `json:"a"`
	B         string   `json:"b"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// SimilarityResponse reports the score and, when a threshold was given,
// whether it was met.
type SimilarityResponse struct {
	Score   float64 `json:"score"`
	Similar *bool   `json:"similar,omitempty"`
}

// TranslateRequest is the body of /v1/translate.
type TranslateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target,omitempty"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "qalam",
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Analyze(req.Text))
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req HighlightRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp := HighlightResponse{Report: s.svc.Highlight(req.Text, req.Suggestions)}
	if req.HTML {
		resp.HTML = compose.RenderHTML(req.Text, resp.Segments)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSimilarity(w http.ResponseWriter, r *http.Request) {
	var req SimilarityRequest
	if !s.decode(w, r, &req) {
		return
	}
	resp := SimilarityResponse{Score: similarity.Similarity(req.A, req.B)}
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			writeError(w, http.StatusBadRequest, "threshold must be within [0, 1]")
			return
		}
		ok := similarity.IsSimilar(req.A, req.B, *req.Threshold)
		resp.Similar = &ok
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGrammar(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.svc.Grammar(ctx, req.Text)
	if err != nil {
		s.providerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.RequestTimeout)
	defer cancel()

	res, err := s.svc.Translate(ctx, req.Text, req.Target)
	if err != nil {
		s.providerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	q, err := s.svc.Quota(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, translate.ErrUnknownLanguage):
		return http.StatusBadRequest
	case errors.Is(err, assist.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, assist.ErrNoChecker), errors.Is(err, assist.ErrNoTranslator):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, translate.ErrNoTranslation), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func (s *Server) providerError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logging.FromContext(r.Context()).Warn("provider request failed", "path", r.URL.Path, "status", status, "error", err)
	writeError(w, status, err.Error())
}
