package ocr

import (
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/lexread/internal/textnorm"
)

// Line is one recognized text line with its vertical extent and left edge,
// in pixels.
type Line struct {
	Text   string
	Top    float64
	Bottom float64
	Left   float64
}

// indentStep is the horizontal shift, in pixels, treated as a change of
// indentation level.
const indentStep = 24.0

// SegmentLines recovers paragraph structure from line-level OCR output.
// Lines are sorted by vertical position; a paragraph break is inserted when
// the gap to the previous line exceeds a threshold derived from the median
// gap and the typical line height, or when the indentation level changes.
// Paragraph boundaries are encoded with the paragraph marker so downstream
// segmentation cannot collapse them.
func SegmentLines(lines []Line) string {
	if len(lines) == 0 {
		return ""
	}

	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Top < sorted[j].Top
	})

	gaps := make([]float64, 0, len(sorted)-1)
	heights := make([]float64, 0, len(sorted))
	for i, ln := range sorted {
		heights = append(heights, ln.Bottom-ln.Top)
		if i > 0 {
			gaps = append(gaps, ln.Top-sorted[i-1].Bottom)
		}
	}

	threshold := math.Inf(1)
	if len(gaps) > 0 {
		medianGap := median(gaps)
		avgHeight := mean(heights)
		threshold = math.Max(medianGap*1.2, medianGap+0.4*avgHeight)
	}

	var paragraphs []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = nil
		}
	}

	for i, ln := range sorted {
		if i > 0 {
			gap := ln.Top - sorted[i-1].Bottom
			indentChanged := math.Abs(ln.Left-sorted[i-1].Left) >= indentStep
			if gap > threshold || indentChanged {
				flush()
			}
		}
		current = append(current, ln.Text)
	}
	flush()

	return strings.Join(paragraphs, "\n\n"+textnorm.ParagraphMarker+" ")
}

func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
