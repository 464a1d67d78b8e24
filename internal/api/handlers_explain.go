package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/lexread/internal/explain"
	"github.com/dgallion1/lexread/internal/llm"
)

type explainRequest struct {
	// TokenID is accepted for client convenience; explanations key on the
	// word and sentence, not the token position.
	TokenID  string `json:"token_id,omitempty"`
	Word     string `json:"word"`
	Sentence string `json:"sentence"`
	// Config optionally overrides the configured provider for this one
	// request, e.g. to compare models from the settings screen.
	Config *llm.Config `json:"config,omitempty"`
}

func (s *Server) handleExplainToken(w http.ResponseWriter, r *http.Request) {
	var req explainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Word) == "" || strings.TrimSpace(req.Sentence) == "" {
		jsonError(w, "word and sentence are required", http.StatusBadRequest)
		return
	}

	res, err := s.explainer.Explain(r.Context(), req.Word, req.Sentence, req.Config)
	if err != nil {
		if errors.Is(err, explain.ErrNoProvider) {
			jsonError(w, "no model configured", http.StatusServiceUnavailable)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

type translateRequest struct {
	Text   string      `json:"text"`
	Config *llm.Config `json:"config,omitempty"`
}

func (s *Server) handleTranslateText(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	translation, err := s.explainer.Translate(r.Context(), req.Text, req.Config)
	if err != nil {
		if errors.Is(err, explain.ErrNoProvider) {
			jsonError(w, "no model configured", http.StatusServiceUnavailable)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"translation_zh": translation})
}
