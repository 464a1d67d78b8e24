package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompatible talks to any endpoint that speaks the OpenAI
// chat-completions dialect (Doubao, Qwen, DeepSeek, Moonshot, GLM, ...).
type OpenAICompatible struct {
	client *openai.Client
	model  string
}

func NewOpenAICompatible(cfg Config) (*OpenAICompatible, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("llm: model name missing for provider %q", cfg.Provider)
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	hc, err := proxyClient(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	if hc != nil {
		clientCfg.HTTPClient = hc
	}
	return &OpenAICompatible{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

func (p *OpenAICompatible) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAICompatible) ExplainWord(ctx context.Context, word, sentence string) (string, string, error) {
	content, err := p.complete(ctx, explainPrompt(word, sentence))
	if err != nil {
		return "", "", err
	}
	meaning, explanation := splitExplanation(content)
	return meaning, explanation, nil
}

func (p *OpenAICompatible) TranslateText(ctx context.Context, text string) (string, error) {
	return p.complete(ctx, translatePrompt(text))
}
