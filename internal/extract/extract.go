// Package extract turns uploaded files into plain text, with word-level
// position maps where the format carries layout (PDF, converted DOCX) and
// OCR where it carries pixels.
package extract

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/lexread/internal/convert"
	"github.com/dgallion1/lexread/internal/layout"
	"github.com/dgallion1/lexread/internal/ocr"
)

// Result is the extraction output for one file.
type Result struct {
	// Text is the reconstructed text stream.
	Text string
	// Words maps character ranges of Text to page coordinates. Nil when
	// the source has no layout or the coarse fallback was used.
	Words []layout.MappedWord
	// Pages describes source page dimensions, parallel to the Words map.
	Pages []layout.PageMeta
	// SourceType is the logical input kind: pdf, docx, image, text,
	// markdown or html.
	SourceType string
	// ConvertedPDF holds the PDF produced from an office document, so the
	// caller can store it for side-by-side rendering.
	ConvertedPDF []byte
}

// Extractor converts raw file bytes into a Result.
type Extractor interface {
	Extract(ctx context.Context, data []byte, filename string) (*Result, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
	".png":      true,
	".jpg":      true,
	".jpeg":     true,
	".webp":     true,
	".gif":      true,
	".bmp":      true,
}

var imageMIMETypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
}

// Set bundles the collaborators extractors need and dispatches by
// extension.
type Set struct {
	OCR       *ocr.Chain
	Converter *convert.SofficeConverter
	Layout    layout.Config
	Log       *slog.Logger
}

// NewSet builds a dispatch set. A nil logger disables logging.
func NewSet(chain *ocr.Chain, converter *convert.SofficeConverter, cfg layout.Config, log *slog.Logger) *Set {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Set{OCR: chain, Converter: converter, Layout: cfg, Log: log}
}

// ForFile returns the appropriate extractor for a filename.
func (s *Set) ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &textExtractor{}, nil
	case ".md", ".markdown":
		return &markdownExtractor{}, nil
	case ".html", ".htm":
		return &htmlExtractor{}, nil
	case ".pdf":
		return &pdfExtractor{layout: s.Layout, log: s.Log}, nil
	case ".docx":
		return &docxExtractor{set: s}, nil
	case ".png", ".jpg", ".jpeg", ".webp", ".gif", ".bmp":
		return &imageExtractor{chain: s.OCR, mimeType: imageMIMETypes[ext]}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupported checks if a file extension is supported.
func IsSupported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
