// Package convert shells out to LibreOffice to turn office documents into
// PDF, which gives DOCX uploads the same positioned-word treatment as
// native PDFs.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// SofficeConverter drives the soffice binary in headless mode.
type SofficeConverter struct {
	bin string
}

// NewSofficeConverter locates the binary. An explicit path wins; otherwise
// PATH is searched. Returns nil when LibreOffice is not installed, which
// callers treat as conversion being unavailable.
func NewSofficeConverter(bin string) *SofficeConverter {
	if bin == "" {
		bin = "soffice"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil
	}
	return &SofficeConverter{bin: path}
}

// ToPDF converts a document to PDF in a scratch directory. ext is the
// input extension, e.g. ".docx".
func (c *SofficeConverter) ToPDF(ctx context.Context, data []byte, ext string) ([]byte, error) {
	dir, err := os.MkdirTemp("", "lexread-convert-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	src := filepath.Join(dir, "input"+ext)
	if err := os.WriteFile(src, data, 0o600); err != nil {
		return nil, fmt.Errorf("write scratch input: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.bin,
		"--headless", "--convert-to", "pdf", "--outdir", dir, src)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("soffice convert: %w: %s", err, strings.TrimSpace(string(out)))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "input.pdf"))
	if err != nil {
		return nil, fmt.Errorf("read converted pdf: %w", err)
	}
	return pdf, nil
}
