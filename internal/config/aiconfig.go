package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"

	"github.com/dgallion1/lexread/internal/llm"
)

// AIConfig is the user-editable model configuration. Gemini keeps its own
// key and model fields so switching providers back and forth does not
// clobber the OpenAI-compatible settings.
type AIConfig struct {
	Provider string `json:"provider"`

	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model_name,omitempty"`

	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model_name,omitempty"`

	UseProxy   bool   `json:"use_proxy"`
	HTTPProxy  string `json:"http_proxy,omitempty"`
	HTTPSProxy string `json:"https_proxy,omitempty"`
}

// AIManager holds the model configuration in memory and persists it to the
// .env file, so settings chosen in the UI survive restarts. The process
// environment is never touched after startup; proxy settings reach the
// providers explicitly through the provider config.
type AIManager struct {
	envPath string

	mu      sync.Mutex
	current AIConfig
}

// NewAIManager loads the persisted configuration from envPath. A missing
// file yields the defaults.
func NewAIManager(envPath string) *AIManager {
	return &AIManager{envPath: envPath, current: readAIConfig(envPath)}
}

func readAIConfig(envPath string) AIConfig {
	env, err := godotenv.Read(envPath)
	if err != nil {
		env = map[string]string{}
	}

	cfg := AIConfig{
		Provider:   env["AI_PROVIDER"],
		UseProxy:   env["USE_PROXY"] == "true",
		HTTPProxy:  env["HTTP_PROXY"],
		HTTPSProxy: env["HTTPS_PROXY"],
	}
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.Provider == "gemini" {
		cfg.GeminiAPIKey = env["GEMINI_API_KEY"]
		cfg.GeminiModel = env["GEMINI_MODEL_NAME"]
		if cfg.GeminiModel == "" {
			cfg.GeminiModel = "gemini-1.5-flash"
		}
	} else {
		cfg.APIKey = env["AI_API_KEY"]
		cfg.BaseURL = env["AI_BASE_URL"]
		cfg.Model = env["AI_MODEL_NAME"]
	}
	return cfg
}

// Current returns the active configuration.
func (m *AIManager) Current() AIConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Update persists the configuration to the .env file and makes it the
// active one. Keys not managed here (ports, paths) are left untouched in
// the file.
func (m *AIManager) Update(cfg AIConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.Provider == "gemini" && cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-1.5-flash"
	}

	env, err := godotenv.Read(m.envPath)
	if err != nil {
		// First write creates the file.
		env = map[string]string{}
	}

	env["AI_PROVIDER"] = cfg.Provider
	if cfg.UseProxy {
		env["USE_PROXY"] = "true"
	} else {
		env["USE_PROXY"] = "false"
	}
	if cfg.HTTPProxy != "" {
		env["HTTP_PROXY"] = cfg.HTTPProxy
	}
	if cfg.HTTPSProxy != "" {
		env["HTTPS_PROXY"] = cfg.HTTPSProxy
	}
	if cfg.Provider == "gemini" {
		env["GEMINI_API_KEY"] = cfg.GeminiAPIKey
		env["GEMINI_MODEL_NAME"] = cfg.GeminiModel
	} else {
		env["AI_API_KEY"] = cfg.APIKey
		env["AI_BASE_URL"] = cfg.BaseURL
		env["AI_MODEL_NAME"] = cfg.Model
	}

	if err := godotenv.Write(env, m.envPath); err != nil {
		return fmt.Errorf("persist ai config: %w", err)
	}
	m.current = cfg
	return nil
}

// LLMConfig converts the user configuration to a provider config.
func (c AIConfig) LLMConfig() llm.Config {
	proxy := ""
	if c.UseProxy {
		proxy = c.HTTPSProxy
		if proxy == "" {
			proxy = c.HTTPProxy
		}
	}
	if c.Provider == "gemini" {
		return llm.Config{
			Provider: "gemini",
			APIKey:   c.GeminiAPIKey,
			Model:    c.GeminiModel,
			ProxyURL: proxy,
		}
	}
	return llm.Config{
		Provider: c.Provider,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
		Model:    c.Model,
		ProxyURL: proxy,
	}
}
