// Package llm talks to chat-completion providers for word explanation and
// translation. All providers share one interface; the OpenAI-compatible
// client covers everything except Gemini, which has a native SDK.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Config selects and parameterizes a provider.
type Config struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
	Model    string `json:"model"`
	// ProxyURL routes provider traffic through an HTTP proxy. It never
	// goes through the process environment, so changing it at runtime
	// takes effect on the next provider build.
	ProxyURL string `json:"proxy_url,omitempty"`
}

// ID returns a stable identifier used in cache keys. The zero config (no
// provider and no model) maps to the empty string so entries written before
// per-request overrides existed stay addressable.
func (c Config) ID() string {
	if c.Provider == "" && c.Model == "" {
		return ""
	}
	return c.Provider + "/" + c.Model
}

// Provider produces Chinese glosses and translations.
type Provider interface {
	// ExplainWord returns the contextual meaning of word inside sentence:
	// a short gloss and a one-sentence explanation, both in Chinese.
	ExplainWord(ctx context.Context, word, sentence string) (meaning, explanation string, err error)
	// TranslateText translates English text to Chinese.
	TranslateText(ctx context.Context, text string) (string, error)
}

// New builds a provider for the config. Gemini gets its native client;
// every other provider speaks the OpenAI chat-completions dialect.
func New(cfg Config) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key missing for provider %q", cfg.Provider)
	}
	if cfg.Provider == "gemini" {
		return NewGemini(cfg)
	}
	return NewOpenAICompatible(cfg)
}

// proxyClient builds an HTTP client for an explicit proxy URL. An empty
// URL returns nil and the SDK's default client is used.
func proxyClient(proxyURL string) (*http.Client, error) {
	if proxyURL == "" {
		return nil, nil
	}
	u, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("llm: proxy url %q: %w", proxyURL, err)
	}
	return &http.Client{Transport: &http.Transport{Proxy: http.ProxyURL(u)}}, nil
}

// Preset is a known provider's default endpoint and model.
type Preset struct {
	Name         string `json:"name"`
	ProviderType string `json:"provider_type"`
	BaseURL      string `json:"base_url"`
	Model        string `json:"model_name"`
	NeedsAPIKey  bool   `json:"needs_api_key"`
}

// Presets lists the providers the settings UI offers.
var Presets = map[string]Preset{
	"doubao": {
		Name:         "豆包 (Doubao)",
		ProviderType: "openai",
		BaseURL:      "https://ark.cn-beijing.volces.com/api/v3",
		Model:        "doubao-pro-4k",
		NeedsAPIKey:  true,
	},
	"qwen": {
		Name:         "通义千问 (Qwen)",
		ProviderType: "openai",
		BaseURL:      "https://dashscope.aliyuncs.com/compatible-mode/v1",
		Model:        "qwen-turbo",
		NeedsAPIKey:  true,
	},
	"deepseek": {
		Name:         "DeepSeek",
		ProviderType: "openai",
		BaseURL:      "https://api.deepseek.com/v1",
		Model:        "deepseek-chat",
		NeedsAPIKey:  true,
	},
	"openai": {
		Name:         "OpenAI",
		ProviderType: "openai",
		BaseURL:      "https://api.openai.com/v1",
		Model:        "gpt-3.5-turbo",
		NeedsAPIKey:  true,
	},
	"gemini": {
		Name:         "Google Gemini",
		ProviderType: "gemini",
		Model:        "gemini-1.5-flash",
		NeedsAPIKey:  true,
	},
	"moonshot": {
		Name:         "Moonshot (月之暗面)",
		ProviderType: "openai",
		BaseURL:      "https://api.moonshot.cn/v1",
		Model:        "moonshot-v1-8k",
		NeedsAPIKey:  true,
	},
	"zhipu": {
		Name:         "智谱 AI (GLM)",
		ProviderType: "openai",
		BaseURL:      "https://open.bigmodel.cn/api/paas/v4",
		Model:        "glm-4-flash",
		NeedsAPIKey:  true,
	},
	"custom": {
		Name:         "自定义 (Custom)",
		ProviderType: "openai",
		NeedsAPIKey:  true,
	},
}

func explainPrompt(word, sentence string) string {
	return fmt.Sprintf(`你是一个专业的英语语义分析助手。

请仅根据给定句子中的上下文，
解释单词 "%s" 在该句中的具体含义。

句子：
"%s"

要求：
1. 第一行：仅输出中文含义（如：可持续的），不要包含"中文释义"等前缀。
2. 第二行：仅输出一句话的语境解释（如：描述的是发展和环境保护能够长期维持的状态。），不要包含"语义功能"等前缀。
3. 不要列出其他词义
4. 不要翻译整个句子
5. 严格只输出这两行内容
`, word, sentence)
}

func translatePrompt(text string) string {
	return fmt.Sprintf(`你是一个专业的学术英语翻译助手。

请将以下英文内容准确翻译为中文。

要求：
1. 忠实原意，不要随意扩展
2. 使用学术/正式中文表达
3. 不要添加解释或注释
4. 只输出翻译结果

英文原文：
%s
`, text)
}

// splitExplanation parses the two-line reply format: gloss on the first
// line, contextual explanation on the second. Models that collapse the
// reply into one line get it used for both.
func splitExplanation(content string) (meaning, explanation string) {
	var lines []string
	for _, ln := range strings.Split(content, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, strings.TrimSpace(ln))
		}
	}
	switch len(lines) {
	case 0:
		return "解析失败", "无法获取解释"
	case 1:
		return lines[0], lines[0]
	default:
		return lines[0], lines[1]
	}
}
