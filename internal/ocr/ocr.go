// Package ocr turns images into text through an ordered chain of engines.
// The layout-capable engine comes first; cruder fallbacks follow.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrUnavailable marks an engine that is not configured or cannot run in
// this deployment. The chain skips it and tries the next one.
var ErrUnavailable = errors.New("ocr engine unavailable")

// Result is the structured output of one recognition attempt.
type Result struct {
	// Text is the extracted text. When Segmented is true, paragraph
	// boundaries are already encoded as blank lines (with the paragraph
	// marker where they were recovered heuristically).
	Text string
	// Confidence is the engine's own estimate, 0 when unknown.
	Confidence float32
	// Segmented reports whether the engine performed layout analysis.
	Segmented bool
	// Engine names the engine that produced the result.
	Engine string
}

// Engine is a single OCR strategy.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, data []byte, mimeType string) (*Result, error)
}

// Chain tries engines in order until one produces text.
type Chain struct {
	engines []Engine
	log     *slog.Logger
}

// NewChain builds a chain. A nil logger disables logging.
func NewChain(log *slog.Logger, engines ...Engine) *Chain {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Chain{engines: engines, log: log}
}

// Empty reports whether no engine is configured at all.
func (c *Chain) Empty() bool {
	return len(c.engines) == 0
}

// Recognize runs the chain. An ErrUnavailable engine is skipped silently;
// any other failure is logged and the next engine is tried. The error
// returned on total failure wraps the last real engine error.
func (c *Chain) Recognize(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	var lastErr error
	for _, eng := range c.engines {
		res, err := eng.Recognize(ctx, data, mimeType)
		if err != nil {
			if !errors.Is(err, ErrUnavailable) {
				c.log.Warn("ocr engine failed", "engine", eng.Name(), "error", err)
				lastErr = err
			}
			continue
		}
		if res == nil || res.Text == "" {
			continue
		}
		res.Engine = eng.Name()
		return res, nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("all ocr engines failed: %w", lastErr)
	}
	return nil, fmt.Errorf("no ocr engine produced text: %w", ErrUnavailable)
}
