// Package segment splits normalized text into paragraphs, sentences, and
// tokens, merges clitic suffixes, and attaches page coordinates to tokens
// when an offset map is available.
package segment

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/lexread/internal/layout"
	"github.com/dgallion1/lexread/internal/textnorm"
)

// BBox is a token bounding box on a source page, the union of the word
// boxes the token overlaps.
type BBox struct {
	Page   int     `json:"page"`
	X0     float64 `json:"x0"`
	Top    float64 `json:"top"`
	X1     float64 `json:"x1"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Token is one word-level unit of a sentence. Start/End are absolute
// offsets into the processed text; consecutive token ranges never overlap.
type Token struct {
	TokenID       string `json:"token_id"`
	Text          string `json:"text"`
	Lemma         string `json:"lemma"`
	POS           string `json:"pos"`
	Tag           string `json:"tag"`
	Dep           string `json:"dep"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
	HasSpaceAfter bool   `json:"has_space_after"`
	BBox          *BBox  `json:"bbox,omitempty"`
}

// Layout carries paragraph-start status and indentation for a sentence.
type Layout struct {
	IsNewParagraph bool `json:"is_new_paragraph"`
	IndentLevel    int  `json:"indent_level"`
}

// Sentence is one segmented sentence with absolute offsets into the
// processed text.
type Sentence struct {
	Text   string  `json:"text"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Layout Layout  `json:"layout"`
	Tokens []Token `json:"tokens"`
}

// Span is a half-open character range local to an analyzed buffer.
type Span struct {
	Start int
	End   int
}

// RawToken is a token as produced by the linguistic analyzer, with offsets
// local to the analyzed sentence.
type RawToken struct {
	Text  string
	Lemma string
	POS   string
	Tag   string
	Dep   string
	Start int
	End   int
}

// Analyzer is the linguistic-analysis collaborator: sentence-boundary
// detection and tokenization with part-of-speech features.
type Analyzer interface {
	// Sentences returns sentence spans of text, in order.
	Sentences(text string) ([]Span, error)
	// Tokens tokenizes a single sentence.
	Tokens(sentence string) ([]RawToken, error)
}

// cliticSuffixes are contraction fragments that are never emitted as
// standalone tokens; they merge into the preceding token.
var cliticSuffixes = map[string]bool{
	"n't": true,
	"'s":  true,
	"'ll": true,
	"'re": true,
	"'ve": true,
	"'m":  true,
	"'d":  true,
}

// paragraphSplitRe matches a paragraph break: a run of blank lines,
// whitespace between the newlines allowed.
var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// Segmenter turns normalized text into sentences and tokens.
type Segmenter struct {
	analyzer Analyzer
	log      *slog.Logger
}

// New creates a Segmenter. A nil logger disables trace output.
func New(analyzer Analyzer, log *slog.Logger) *Segmenter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Segmenter{analyzer: analyzer, log: log}
}

// Segment processes text into sentences. When words is non-nil it is the
// offset map of the same text buffer, and matching tokens get bounding
// boxes. Paragraph breaks in the text are authoritative: each paragraph is
// analyzed independently so the analyzer can never merge sentences across
// a paragraph boundary.
func (s *Segmenter) Segment(text string, words []layout.MappedWord) ([]Sentence, error) {
	sentences := []Sentence{}
	sentIdx := 0

	for _, chunk := range splitParagraphs(text) {
		first := true
		spans, err := s.analyzer.Sentences(chunk.text)
		if err != nil {
			return nil, fmt.Errorf("sentence segmentation: %w", err)
		}

		for _, span := range spans {
			sentText := chunk.text[span.Start:span.End]
			raw, err := s.analyzer.Tokens(sentText)
			if err != nil {
				return nil, fmt.Errorf("tokenize: %w", err)
			}

			tokens := s.buildTokens(raw, text, chunk.offset+span.Start, sentIdx, words)
			if len(tokens) == 0 {
				continue
			}

			sentences = append(sentences, Sentence{
				Text:  sentText,
				Start: chunk.offset + span.Start,
				End:   chunk.offset + span.End,
				Layout: Layout{
					IsNewParagraph: first,
				},
				Tokens: tokens,
			})
			first = false
			sentIdx++
		}
	}

	s.log.Debug("segmented text",
		"chars", len(text),
		"sentences", len(sentences),
	)
	return sentences, nil
}

// buildTokens converts raw analyzer tokens to absolute tokens, dropping
// whitespace and paragraph-marker tokens and merging clitic suffixes.
func (s *Segmenter) buildTokens(raw []RawToken, text string, base, sentIdx int, words []layout.MappedWord) []Token {
	var merged []Token

	for _, rt := range raw {
		if strings.TrimSpace(rt.Text) == "" || rt.Text == textnorm.ParagraphMarker {
			continue
		}

		start := base + rt.Start
		end := base + rt.End

		if len(merged) > 0 && cliticSuffixes[strings.ToLower(rt.Text)] {
			prev := &merged[len(merged)-1]
			prev.Text += rt.Text
			prev.End = end
			prev.HasSpaceAfter = spaceAfter(text, end)
			continue
		}

		tok := Token{
			TokenID:       fmt.Sprintf("sent-%d-token-%d", sentIdx, len(merged)),
			Text:          rt.Text,
			Lemma:         rt.Lemma,
			POS:           rt.POS,
			Tag:           rt.Tag,
			Dep:           rt.Dep,
			Start:         start,
			End:           end,
			HasSpaceAfter: spaceAfter(text, end),
		}
		if len(words) > 0 {
			tok.BBox = matchBBox(start, end, words)
		}
		merged = append(merged, tok)
	}

	return merged
}

// matchBBox finds all positioned words overlapping [start,end) and unions
// their boxes. Cross-page tokens are not supported; the first match's page
// wins.
func matchBBox(start, end int, words []layout.MappedWord) *BBox {
	var box *BBox
	for _, w := range words {
		if max(start, w.Start) >= min(end, w.End) {
			continue
		}
		if box == nil {
			box = &BBox{
				Page:   w.Page,
				X0:     w.BBox.X0,
				Top:    w.BBox.Top,
				X1:     w.BBox.X1,
				Bottom: w.BBox.Bottom,
			}
			continue
		}
		box.X0 = min(box.X0, w.BBox.X0)
		box.Top = min(box.Top, w.BBox.Top)
		box.X1 = max(box.X1, w.BBox.X1)
		box.Bottom = max(box.Bottom, w.BBox.Bottom)
	}
	if box != nil {
		box.Width = box.X1 - box.X0
		box.Height = box.Bottom - box.Top
	}
	return box
}

func spaceAfter(text string, end int) bool {
	if end >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[end:])
	return unicode.IsSpace(r)
}

type paragraphChunk struct {
	text   string
	offset int
}

// splitParagraphs splits on blank-line runs, keeping each chunk's absolute
// offset. Empty chunks still advance the offset by the break length.
func splitParagraphs(text string) []paragraphChunk {
	var chunks []paragraphChunk
	breaks := paragraphSplitRe.FindAllStringIndex(text, -1)

	pos := 0
	for _, br := range breaks {
		if br[0] > pos {
			chunks = append(chunks, paragraphChunk{text: text[pos:br[0]], offset: pos})
		}
		pos = br[1]
	}
	if pos < len(text) {
		chunks = append(chunks, paragraphChunk{text: text[pos:], offset: pos})
	}
	return chunks
}
