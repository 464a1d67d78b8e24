// Package filestore keeps uploaded originals (and PDFs produced by
// conversion) on disk under content-derived names, so the frontend can
// render the source document next to the parsed text.
package filestore

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}

// Store writes files under a single uploads directory. Names are the first
// ten hex digits of the content hash, so saving the same bytes twice is a
// no-op and never collides with a different document in practice.
type Store struct {
	dir     string
	baseURL string
}

// New creates the uploads directory under dataDir. baseURL is the public
// path prefix the files are served from, without trailing slash.
func New(dataDir, baseURL string) (*Store, error) {
	dir := filepath.Join(dataDir, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under its content hash with the given extension and
// returns the public URL path. Existing files are left untouched.
func (s *Store) Save(data []byte, ext string) (string, error) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	name := ContentHashHex(data)[:10] + ext
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return s.baseURL + "/" + name, nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return s.baseURL + "/" + name, nil
}
