package segment

import (
	"strings"
	"testing"
	"unicode"

	"github.com/dgallion1/lexread/internal/layout"
)

// stubAnalyzer is a deterministic stand-in for the linguistic collaborator:
// sentences end at ./!/? and tokens are letter runs with clitic suffixes
// split off, the way a Treebank tokenizer does.
type stubAnalyzer struct{}

func (stubAnalyzer) Sentences(text string) ([]Span, error) {
	var spans []Span
	start := -1
	for i, r := range text {
		if start < 0 {
			if unicode.IsSpace(r) {
				continue
			}
			start = i
		}
		if r == '.' || r == '!' || r == '?' {
			spans = append(spans, Span{Start: start, End: i + 1})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, Span{Start: start, End: len(text)})
	}
	return spans, nil
}

var stubSuffixes = []string{"n't", "'s", "'ll", "'re", "'ve", "'m", "'d"}

func (stubAnalyzer) Tokens(sentence string) ([]RawToken, error) {
	var tokens []RawToken
	add := func(text string, start int) {
		tokens = append(tokens, RawToken{
			Text:  text,
			Lemma: strings.ToLower(text),
			POS:   "X",
			Tag:   "XX",
			Start: start,
			End:   start + len(text),
		})
	}

	i := 0
	for i < len(sentence) {
		c := sentence[i]
		if c == ' ' || c == '\n' || c == '\t' {
			i++
			continue
		}
		j := i
		for j < len(sentence) && isWordByte(sentence[j]) {
			j++
		}
		if j == i {
			add(string(c), i)
			i++
			continue
		}
		word := sentence[i:j]
		split := false
		for _, suf := range stubSuffixes {
			if len(word) > len(suf) && strings.HasSuffix(strings.ToLower(word), suf) {
				add(word[:len(word)-len(suf)], i)
				add(word[len(word)-len(suf):], i+len(word)-len(suf))
				split = true
				break
			}
		}
		if !split {
			add(word, i)
		}
		i = j
	}
	return tokens, nil
}

func isWordByte(b byte) bool {
	return b == '\'' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' ||
		b >= '0' && b <= '9' || b >= 0x80 // multi-byte runes (the marker)
}

func newTestSegmenter() *Segmenter {
	return New(stubAnalyzer{}, nil)
}

func TestSegment_CliticMerge(t *testing.T) {
	sentences, err := newTestSegmenter().Segment("I can't go.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sentences))
	}

	var texts []string
	for _, tok := range sentences[0].Tokens {
		texts = append(texts, tok.Text)
		if tok.Text == "n't" {
			t.Error("standalone clitic token emitted")
		}
	}
	found := false
	for _, txt := range texts {
		if txt == "can't" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected merged token \"can't\", got %v", texts)
	}
}

func TestSegment_OffsetInvariant(t *testing.T) {
	text := "I can't go.\n\nShe isn't here."
	sentences, err := newTestSegmenter().Segment(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sent := range sentences {
		if text[sent.Start:sent.End] != sent.Text {
			t.Errorf("sentence span mismatch: %q vs %q", text[sent.Start:sent.End], sent.Text)
		}
		prevEnd := -1
		for _, tok := range sent.Tokens {
			if tok.Start < prevEnd {
				t.Errorf("token ranges overlap at %q", tok.Text)
			}
			prevEnd = tok.End
		}
		for _, tok := range sent.Tokens {
			if got := text[tok.Start:tok.End]; got != tok.Text {
				t.Errorf("offset invariant broken: text[%d:%d] = %q, token %q", tok.Start, tok.End, got, tok.Text)
			}
		}
	}
}

func TestSegment_ParagraphDetection(t *testing.T) {
	sentences, err := newTestSegmenter().Segment("Para one.\n\nPara two starts here.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if !sentences[0].Layout.IsNewParagraph {
		t.Error("first sentence should start paragraph 0")
	}
	if !sentences[1].Layout.IsNewParagraph {
		t.Error("second sentence should start paragraph 1")
	}
}

func TestSegment_SecondSentenceSameParagraph(t *testing.T) {
	sentences, err := newTestSegmenter().Segment("First one. Second one.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if sentences[1].Layout.IsNewParagraph {
		t.Error("second sentence in same paragraph must not be flagged")
	}
}

func TestSegment_EmptyChunkAdvancesOffset(t *testing.T) {
	text := "A.\n\n\n\nB."
	sentences, err := newTestSegmenter().Segment(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if text[sentences[1].Start:sentences[1].End] != "B." {
		t.Errorf("absolute offsets drifted: got span %d:%d in %q", sentences[1].Start, sentences[1].End, text)
	}
}

func TestSegment_ParagraphMarkerDropped(t *testing.T) {
	text := "¶ Hello there."
	sentences, err := newTestSegmenter().Segment(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 1 {
		t.Fatalf("expected 1 sentence, got %d", len(sentences))
	}
	for _, tok := range sentences[0].Tokens {
		if tok.Text == "¶" {
			t.Error("paragraph marker leaked into tokens")
		}
	}
}

func TestSegment_MarkerOnlySentenceDropped(t *testing.T) {
	text := "¶\n\nReal text here."
	sentences, err := newTestSegmenter().Segment(text, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 1 {
		t.Fatalf("expected marker-only sentence dropped, got %d sentences", len(sentences))
	}
	if !sentences[0].Layout.IsNewParagraph {
		t.Error("surviving sentence should be flagged as paragraph start")
	}
}

func TestSegment_HasSpaceAfter(t *testing.T) {
	sentences, err := newTestSegmenter().Segment("Hello world.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	toks := sentences[0].Tokens
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	if !toks[0].HasSpaceAfter {
		t.Error("token before a space must have has_space_after")
	}
	if toks[1].HasSpaceAfter {
		t.Error("token glued to punctuation must not have has_space_after")
	}
	if toks[2].HasSpaceAfter {
		t.Error("final token must not have has_space_after")
	}
}

func TestSpaceAfter_MultibyteWhitespace(t *testing.T) {
	// OCR output carries no-break and ideographic spaces; the rune after a
	// token must be decoded whole, not byte by byte.
	cases := []struct {
		text string
		end  int
		want bool
	}{
		{"word next", 4, true},
		{"word\u00a0next", 4, true},
		{"word\u3000next", 4, true},
		{"word,next", 4, false},
		{"word", 4, false},
	}
	for _, c := range cases {
		if got := spaceAfter(c.text, c.end); got != c.want {
			t.Errorf("spaceAfter(%q, %d) = %v, want %v", c.text, c.end, got, c.want)
		}
	}
}

func TestSegment_BBoxUnion(t *testing.T) {
	text := "Hello world."
	words := []layout.MappedWord{
		{Start: 0, End: 3, Text: "Hel", Page: 0, BBox: layout.BBox{X0: 10, Top: 100, X1: 25, Bottom: 110}},
		{Start: 3, End: 5, Text: "lo", Page: 0, BBox: layout.BBox{X0: 25, Top: 101, X1: 35, Bottom: 111}},
		{Start: 6, End: 12, Text: "world.", Page: 0, BBox: layout.BBox{X0: 40, Top: 100, X1: 70, Bottom: 110}},
	}
	sentences, err := newTestSegmenter().Segment(text, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	toks := sentences[0].Tokens

	hello := toks[0]
	if hello.BBox == nil {
		t.Fatal("expected bbox on token overlapping mapped words")
	}
	if hello.BBox.X0 != 10 || hello.BBox.X1 != 35 || hello.BBox.Top != 100 || hello.BBox.Bottom != 111 {
		t.Errorf("expected union box {10 100 35 111}, got %+v", hello.BBox)
	}
	if hello.BBox.Width != 25 || hello.BBox.Height != 11 {
		t.Errorf("expected width/height 25/11, got %+v", hello.BBox)
	}
	if hello.BBox.Page != 0 {
		t.Errorf("expected page 0, got %d", hello.BBox.Page)
	}
}

func TestSegment_TokenIDsStableWithinResult(t *testing.T) {
	sentences, err := newTestSegmenter().Segment("One two. Three four.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sentences) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sentences))
	}
	if id := sentences[0].Tokens[0].TokenID; id != "sent-0-token-0" {
		t.Errorf("got %q", id)
	}
	if id := sentences[1].Tokens[1].TokenID; id != "sent-1-token-1" {
		t.Errorf("got %q", id)
	}
}
