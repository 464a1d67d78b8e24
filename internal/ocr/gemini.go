package ocr

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const transcribePrompt = "Transcribe the text in this image, preserving the original layout and line breaks exactly. Do not add any conversational text."

// GeminiEngine transcribes images with a multimodal model. It does no
// layout analysis; the text comes back as the model prints it.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine wraps an existing genai client. A nil client makes the
// engine report ErrUnavailable.
func NewGeminiEngine(client *genai.Client, model string) *GeminiEngine {
	if model == "" {
		model = "gemini-2.0-flash-lite"
	}
	return &GeminiEngine{client: client, model: model}
}

func (e *GeminiEngine) Name() string { return "gemini-vision" }

func (e *GeminiEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if e.client == nil {
		return nil, ErrUnavailable
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	content := &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
			{Text: transcribePrompt},
		},
	}
	res, err := e.client.Models.GenerateContent(ctx, e.model, []*genai.Content{content}, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini transcription: %w", err)
	}

	return &Result{
		Text:      strings.TrimSpace(res.Text()),
		Segmented: false,
	}, nil
}
