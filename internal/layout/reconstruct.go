// Package layout reconstructs a text stream from positioned word boxes and
// keeps an offset map tying character ranges back to page coordinates.
package layout

import "strings"

// BBox is a word bounding box in page layout units, origin top-left.
type BBox struct {
	X0     float64 `json:"x0"`
	Top    float64 `json:"top"`
	X1     float64 `json:"x1"`
	Bottom float64 `json:"bottom"`
}

// Word is a positioned word as produced by a page scan, in reading order.
type Word struct {
	Text string
	BBox BBox
}

// Page is one source page with its words in reading order
// (left-to-right, top-to-bottom).
type Page struct {
	Width  float64
	Height float64
	Words  []Word
}

// PageMeta describes a source page in the reconstruction result.
type PageMeta struct {
	PageIdx int     `json:"page_idx"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// MappedWord ties a half-open character range of the reconstructed text to
// the source word box. Start values are monotonically non-decreasing and
// ranges never overlap.
type MappedWord struct {
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Text       string  `json:"text"`
	BBox       BBox    `json:"bbox"`
	Page       int     `json:"page"`
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
}

// Config holds the reconstruction thresholds. The defaults are empirical,
// tuned against common PDF renderers; treat them as calibration starting
// points rather than constants.
type Config struct {
	// LineBreakJump is the vertical top-coordinate jump that signals a new line.
	LineBreakJump float64
	// SpaceGap is the horizontal gap beyond which an inter-word space is inserted.
	SpaceGap float64
}

// DefaultConfig returns the tuned thresholds.
func DefaultConfig() Config {
	return Config{
		LineBreakJump: 5,
		SpaceGap:      2,
	}
}

// Reconstruct converts per-page word boxes into a single text stream plus an
// offset map. Line breaks are inferred from vertical jumps, inter-word spaces
// from horizontal gaps, and every page is terminated with a paragraph break.
func Reconstruct(pages []Page, cfg Config) (string, []MappedWord, []PageMeta) {
	if cfg.LineBreakJump <= 0 {
		cfg.LineBreakJump = 5
	}
	if cfg.SpaceGap <= 0 {
		cfg.SpaceGap = 2
	}

	var buf strings.Builder
	var words []MappedWord
	meta := make([]PageMeta, 0, len(pages))
	cursor := 0

	for pageIdx, page := range pages {
		meta = append(meta, PageMeta{PageIdx: pageIdx, Width: page.Width, Height: page.Height})
		if len(page.Words) == 0 {
			continue
		}

		lastX1 := 0.0
		for i, w := range page.Words {
			if i > 0 && w.BBox.Top-page.Words[i-1].BBox.Top > cfg.LineBreakJump {
				buf.WriteByte('\n')
				cursor++
				lastX1 = 0
			}

			if lastX1 > 0 && w.BBox.X0-lastX1 > cfg.SpaceGap && !hyphenAdjacent(buf.String(), w.Text) {
				buf.WriteByte(' ')
				cursor++
			}

			start := cursor
			end := start + len(w.Text)
			words = append(words, MappedWord{
				Start:      start,
				End:        end,
				Text:       w.Text,
				BBox:       w.BBox,
				Page:       pageIdx,
				PageWidth:  page.Width,
				PageHeight: page.Height,
			})

			buf.WriteString(w.Text)
			cursor = end
			lastX1 = w.BBox.X1
		}

		buf.WriteString("\n\n")
		cursor += 2
	}

	return buf.String(), words, meta
}

// hyphenAdjacent reports whether inserting a space would split a hyphenated
// compound: the next word starts with a hyphen, or the buffer ends with one.
func hyphenAdjacent(sofar, next string) bool {
	if strings.HasPrefix(next, "-") {
		return true
	}
	return strings.HasSuffix(sofar, "-")
}

// NonWhitespaceLen counts non-whitespace bytes, used as the "extraction
// likely failed" signal by callers deciding whether to fall back to coarse
// whole-page extraction.
func NonWhitespaceLen(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
		default:
			n++
		}
	}
	return n
}
