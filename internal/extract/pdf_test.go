package extract

import (
	"strings"
	"testing"

	"github.com/dgallion1/lexread/internal/layout"
)

func wordLine(texts []string, top float64) []layout.Word {
	words := make([]layout.Word, 0, len(texts))
	x := 72.0
	for _, text := range texts {
		w := float64(len(text)) * 6
		words = append(words, layout.Word{
			Text: text,
			BBox: layout.BBox{X0: x, Top: top, X1: x + w, Bottom: top + 10},
		})
		x += w + 4
	}
	return words
}

func TestPositionedResult_SparseTextFallsBack(t *testing.T) {
	// A near-empty decode (well under 50 non-whitespace chars) must not be
	// trusted as the document text.
	pages := []layout.Page{{
		Width:  612,
		Height: 792,
		Words:  wordLine([]string{"Page", "3"}, 100),
	}}

	res, ok := positionedResult(pages, layout.DefaultConfig())
	if ok {
		t.Fatalf("sparse extraction accepted: %q", res.Text)
	}
	if res.Words != nil {
		t.Errorf("sparse result must carry no offset map, got %d entries", len(res.Words))
	}
	if len(res.Pages) != 1 || res.Pages[0].Width != 612 {
		t.Errorf("page metadata = %+v", res.Pages)
	}

	coarse := coarseResult("The actual page body, recovered whole.", res.Pages)
	if coarse.Words != nil {
		t.Error("coarse fallback must not carry an offset map")
	}
	if coarse.SourceType != "pdf" {
		t.Errorf("source type = %q", coarse.SourceType)
	}
	if coarse.Text != "The actual page body, recovered whole." {
		t.Errorf("coarse text = %q", coarse.Text)
	}
	if len(coarse.Pages) != 1 {
		t.Errorf("coarse pages = %+v", coarse.Pages)
	}
}

func TestPositionedResult_RichTextKeepsOffsetMap(t *testing.T) {
	line1 := []string{"Reading", "comprehension", "improves", "steadily", "with"}
	line2 := []string{"daily", "practice", "and", "patient", "attention."}
	pages := []layout.Page{{
		Width:  612,
		Height: 792,
		Words:  append(wordLine(line1, 100), wordLine(line2, 114)...),
	}}

	res, ok := positionedResult(pages, layout.DefaultConfig())
	if !ok {
		t.Fatalf("rich extraction rejected: %q", res.Text)
	}
	if len(res.Words) != len(line1)+len(line2) {
		t.Fatalf("mapped %d words, want %d", len(res.Words), len(line1)+len(line2))
	}
	for _, w := range res.Words {
		if got := res.Text[w.Start:w.End]; got != w.Text {
			t.Errorf("text[%d:%d] = %q, want %q", w.Start, w.End, got, w.Text)
		}
	}
	if !strings.Contains(res.Text, "\n") {
		t.Error("vertical jump between lines should produce a line break")
	}
}
