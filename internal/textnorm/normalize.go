// Package textnorm holds pure text-transform utilities shared by the
// document extractors: whitespace/paragraph canonicalization, escaped-newline
// decoding, and layout fixes for exam-style OCR output.
package textnorm

import (
	"regexp"
	"strings"
)

// ParagraphMarker is inserted by OCR paragraph segmentation to protect a
// paragraph boundary through later processing. It is never whitespace, so
// tokenizers keep it as a token; the segmenter discards it.
const ParagraphMarker = "¶"

const paragraphBreak = "<PARAGRAPH_BREAK>"

var (
	hyphenSplitRe   = regexp.MustCompile(`(\w+)-\s*\n\s*(\w+)`)
	paragraphGapRe  = regexp.MustCompile(`\n\s*\n`)
	examGuardRe     = regexp.MustCompile(`\b\d{1,2}\.[A-D]\)`)
	examNumberRe    = regexp.MustCompile(`\s*(\d{1,2}\.[A-D]\))`)
	examOptionRe    = regexp.MustCompile(`\s([A-D]\))`)
	excessBlanksRe  = regexp.MustCompile(`\n\s*\n\s*\n+`)
	sectionMarkerRe = regexp.MustCompile(`^[A-Z]\)`)
	loneSectionRe   = regexp.MustCompile(`(?m)^([A-Z]\))\s*\n\s*`)
	inlineSectionRe = regexp.MustCompile(`([.!?]["”']?)\s*([A-Z]\))`)
)

// Clean canonicalizes extracted text while preserving paragraph structure
// and indentation. Page-number lines (digits only) are dropped, trailing
// whitespace is trimmed per line, hyphenated line-break splits are stitched
// back together, blank-line runs become a single paragraph break, and all
// remaining line breaks collapse to a space (they are line-wrap artifacts,
// not semantic breaks).
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			cleaned = append(cleaned, "")
			continue
		}
		if isDigits(stripped) {
			continue
		}
		cleaned = append(cleaned, strings.TrimRight(line, " \t\r"))
	}

	out := strings.Join(cleaned, "\n")
	out = hyphenSplitRe.ReplaceAllString(out, "$1$2")

	// Protect paragraph breaks before collapsing line-wrap newlines.
	out = paragraphGapRe.ReplaceAllString(out, paragraphBreak)
	out = strings.ReplaceAll(out, "\n", " ")
	out = strings.ReplaceAll(out, paragraphBreak, "\n\n")

	return strings.TrimSpace(out)
}

// DecodeEscapedNewlines turns literal two-character escape sequences
// (as emitted as text by some model APIs) into real line breaks.
func DecodeEscapedNewlines(text string) string {
	text = strings.ReplaceAll(text, `\r\n`, "\n")
	text = strings.ReplaceAll(text, `\n\r`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")
	return text
}

// NormalizeExamMarkers fixes the layout of OCR'd exam sheets that mix
// numbered items ("17.A)") and options ("B)") into running text. It only
// activates when at least one numbered-option marker is present, so ordinary
// prose passes through untouched.
func NormalizeExamMarkers(text string) string {
	if !examGuardRe.MatchString(text) {
		return text
	}

	out := examNumberRe.ReplaceAllString(text, "\n$1")
	out = examOptionRe.ReplaceAllString(out, "\n$1")
	out = excessBlanksRe.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}

// NormalizeSectionMarkers repairs single-letter section markers ("K)", "L)")
// that OCR tends to glue onto surrounding text: a marker following content
// gets a blank line before it, a marker stranded alone on its own line is
// merged with the following line, and a marker appearing right after
// sentence-ending punctuation mid-line gets a paragraph break.
func NormalizeSectionMarkers(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		stripped := strings.TrimLeft(line, " \t")
		if sectionMarkerRe.MatchString(stripped) && len(out) > 0 {
			if strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}

	normalized := strings.Join(out, "\n")
	normalized = loneSectionRe.ReplaceAllString(normalized, "$1 ")
	normalized = inlineSectionRe.ReplaceAllString(normalized, "$1\n\n$2")

	return normalized
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
