package extract

import (
	"context"
	"fmt"

	"github.com/dgallion1/lexread/internal/ocr"
	"github.com/dgallion1/lexread/internal/textnorm"
)

// imageExtractor runs the OCR chain and normalizes its output. Scanned
// exam sheets are the dominant image upload, so the exam and section
// marker fixups run here.
type imageExtractor struct {
	chain    *ocr.Chain
	mimeType string
}

func (e *imageExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	if e.chain == nil || e.chain.Empty() {
		return nil, fmt.Errorf("no ocr engine configured: %w", ocr.ErrUnavailable)
	}
	res, err := e.chain.Recognize(ctx, data, e.mimeType)
	if err != nil {
		return nil, fmt.Errorf("recognize image: %w", err)
	}

	text := textnorm.DecodeEscapedNewlines(res.Text)
	text = textnorm.Clean(text)
	text = textnorm.NormalizeExamMarkers(text)
	text = textnorm.NormalizeSectionMarkers(text)
	return &Result{Text: text, SourceType: "image"}, nil
}
