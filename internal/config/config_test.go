package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port == "" {
		t.Error("port must have a default")
	}
	if cfg.MaxUploadBytes <= 0 {
		t.Error("upload limit must have a default")
	}
	if cfg.LineBreakJump <= 0 || cfg.SpaceGap <= 0 {
		t.Error("layout thresholds must have defaults")
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Error("allowed origins must have a default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("LINE_BREAK_JUMP", "7.5")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("max upload = %d", cfg.MaxUploadBytes)
	}
	if cfg.LineBreakJump != 7.5 {
		t.Errorf("line break jump = %v", cfg.LineBreakJump)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("MAX_UPLOAD_BYTES", "-5")
	t.Setenv("LINE_BREAK_JUMP", "not-a-number")

	cfg := Load()
	if cfg.MaxUploadBytes != 26214400 {
		t.Errorf("negative limit should fall back, got %d", cfg.MaxUploadBytes)
	}
	if cfg.LineBreakJump != 5 {
		t.Errorf("unparseable threshold should fall back, got %v", cfg.LineBreakJump)
	}
}

func TestAIManager_UpdateAndCurrent(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	m := NewAIManager(envPath)

	err := m.Update(AIConfig{
		Provider: "deepseek",
		APIKey:   "sk-test",
		BaseURL:  "https://api.deepseek.com/v1",
		Model:    "deepseek-chat",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got := m.Current()
	if got.Provider != "deepseek" || got.APIKey != "sk-test" || got.Model != "deepseek-chat" {
		t.Errorf("current = %+v", got)
	}

	llmCfg := got.LLMConfig()
	if llmCfg.Provider != "deepseek" || llmCfg.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("llm config = %+v", llmCfg)
	}
	if llmCfg.ID() != "deepseek/deepseek-chat" {
		t.Errorf("id = %q", llmCfg.ID())
	}
}

func TestAIManager_GeminiKeepsSeparateFields(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	m := NewAIManager(envPath)

	if err := m.Update(AIConfig{Provider: "gemini", GeminiAPIKey: "g-key"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := m.Current()
	if got.Provider != "gemini" || got.GeminiAPIKey != "g-key" {
		t.Errorf("current = %+v", got)
	}
	if got.GeminiModel != "gemini-1.5-flash" {
		t.Errorf("default gemini model missing: %+v", got)
	}
	if cfg := got.LLMConfig(); cfg.APIKey != "g-key" || cfg.Provider != "gemini" {
		t.Errorf("llm config = %+v", cfg)
	}
}

func TestAIManager_PersistsWithoutTouchingProcessEnv(t *testing.T) {
	// A stale process env value must not leak into the manager, and the
	// manager must not write back into the process env.
	t.Setenv("AI_API_KEY", "stale-env-key")

	envPath := filepath.Join(t.TempDir(), ".env")
	m := NewAIManager(envPath)
	if got := m.Current(); got.APIKey != "" {
		t.Errorf("fresh manager picked up process env: %+v", got)
	}

	err := m.Update(AIConfig{
		Provider:   "openai",
		APIKey:     "sk-persisted",
		Model:      "gpt-3.5-turbo",
		UseProxy:   true,
		HTTPSProxy: "http://proxy.test:8080",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if os.Getenv("AI_API_KEY") != "stale-env-key" {
		t.Error("update must not mutate the process environment")
	}

	// A second manager on the same file sees the persisted state.
	got := NewAIManager(envPath).Current()
	if got.APIKey != "sk-persisted" || got.Model != "gpt-3.5-turbo" {
		t.Errorf("reloaded = %+v", got)
	}
	if !got.UseProxy || got.HTTPSProxy != "http://proxy.test:8080" {
		t.Errorf("proxy settings lost on reload: %+v", got)
	}
	if cfg := got.LLMConfig(); cfg.ProxyURL != "http://proxy.test:8080" {
		t.Errorf("proxy url = %q", cfg.ProxyURL)
	}
}
