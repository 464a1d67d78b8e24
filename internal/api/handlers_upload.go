package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/lexread/internal/extract"
	"github.com/dgallion1/lexread/internal/layout"
	"github.com/dgallion1/lexread/internal/segment"
)

type parseResponse struct {
	Sentences  []segment.Sentence `json:"sentences"`
	RawText    string             `json:"raw_text"`
	FileURL    string             `json:"file_url,omitempty"`
	Pages      []layout.PageMeta  `json:"pages"`
	SourceType string             `json:"source_type,omitempty"`
}

func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with headroom for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !extract.IsSupported(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	extractor, err := s.extractors.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := extractor.Extract(r.Context(), data, filename)
	if err != nil {
		s.log.Error("extraction failed", "file", filename, "error", err)
		jsonError(w, "failed to parse file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if strings.TrimSpace(res.Text) == "" {
		jsonError(w, "file is empty or unreadable", http.StatusBadRequest)
		return
	}

	fileURL := s.storeOriginal(data, filename, res)

	sentences, err := s.segmenter.Segment(res.Text, res.Words)
	if err != nil {
		s.log.Error("segmentation failed", "file", filename, "error", err)
		jsonError(w, "failed to analyze text", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, http.StatusOK, parseResponse{
		Sentences:  nonNil(sentences),
		RawText:    res.Text,
		FileURL:    fileURL,
		Pages:      nonNilPages(res.Pages),
		SourceType: res.SourceType,
	})
}

// storeOriginal saves the viewable document: uploaded PDFs as-is, office
// documents as their converted PDF. Storage failures only cost the preview.
func (s *Server) storeOriginal(data []byte, filename string, res *extract.Result) string {
	var blob []byte
	switch {
	case strings.EqualFold(filepath.Ext(filename), ".pdf"):
		blob = data
	case res.ConvertedPDF != nil:
		blob = res.ConvertedPDF
	default:
		return ""
	}
	url, err := s.files.Save(blob, ".pdf")
	if err != nil {
		s.log.Warn("saving upload failed", "file", filename, "error", err)
		return ""
	}
	return url
}

type parseTextRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParseText(w http.ResponseWriter, r *http.Request) {
	var req parseTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	sentences, err := s.segmenter.Segment(req.Text, nil)
	if err != nil {
		s.log.Error("segmentation failed", "error", err)
		jsonError(w, "failed to analyze text", http.StatusInternalServerError)
		return
	}

	jsonResponse(w, http.StatusOK, parseResponse{
		Sentences: nonNil(sentences),
		RawText:   req.Text,
		Pages:     []layout.PageMeta{},
	})
}

func nonNil(sentences []segment.Sentence) []segment.Sentence {
	if sentences == nil {
		return []segment.Sentence{}
	}
	return sentences
}

func nonNilPages(pages []layout.PageMeta) []layout.PageMeta {
	if pages == nil {
		return []layout.PageMeta{}
	}
	return pages
}

func jsonResponse(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
