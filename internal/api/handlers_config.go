package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dgallion1/lexread/internal/config"
	"github.com/dgallion1/lexread/internal/llm"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.ai.Current())
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.AIConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.ai.Update(cfg); err != nil {
		s.log.Error("config update failed", "error", err)
		jsonError(w, "failed to persist configuration", http.StatusInternalServerError)
		return
	}

	// Swap the live provider to match. Incomplete settings (e.g. a cleared
	// key) disable explanations rather than fail the save.
	active := false
	if provider, err := llm.New(cfg.LLMConfig()); err != nil {
		s.log.Warn("configured provider not usable", "provider", cfg.Provider, "error", err)
		s.explainer.SetProvider(nil)
	} else {
		s.explainer.SetProvider(provider)
		active = true
	}

	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "active": active})
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, llm.Presets)
}

// handleTestConfig does one real translation round-trip with the submitted
// settings, without persisting them.
func (s *Server) handleTestConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.AIConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	provider, err := llm.New(cfg.LLMConfig())
	if err != nil {
		jsonResponse(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	translation, err := provider.TranslateText(ctx, "Hello, world.")
	if err != nil {
		jsonResponse(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"success": true, "translation_zh": translation})
}
