package extract

import (
	"context"
	"strings"

	"github.com/dgallion1/lexread/internal/textnorm"
)

// textExtractor handles plain text uploads.
type textExtractor struct{}

func (textExtractor) Extract(_ context.Context, data []byte, _ string) (*Result, error) {
	text := string(data)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return &Result{Text: textnorm.Clean(text), SourceType: "text"}, nil
}
