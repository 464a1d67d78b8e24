package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Gemini uses the native SDK instead of the OpenAI compatibility layer.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(cfg Config) (*Gemini, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	hc, err := proxyClient(cfg.ProxyURL)
	if err != nil {
		return nil, err
	}
	if hc != nil {
		clientCfg.HTTPClient = hc
	}
	client, err := genai.NewClient(context.Background(), clientCfg)
	if err != nil {
		return nil, fmt.Errorf("llm: gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

func (p *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	res, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text()), nil
}

func (p *Gemini) ExplainWord(ctx context.Context, word, sentence string) (string, string, error) {
	content, err := p.generate(ctx, explainPrompt(word, sentence))
	if err != nil {
		return "", "", err
	}
	meaning, explanation := splitExplanation(content)
	return meaning, explanation, nil
}

func (p *Gemini) TranslateText(ctx context.Context, text string) (string, error) {
	return p.generate(ctx, translatePrompt(text))
}
