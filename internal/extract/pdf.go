package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/dgallion1/lexread/internal/layout"
	"github.com/dgallion1/lexread/internal/textnorm"
)

// coarseFallbackMin is the minimum number of non-whitespace characters the
// positioned extraction must yield; below it the page likely failed to
// decode and the whole-page plain text path is used instead.
const coarseFallbackMin = 50

// lineTolerance treats fragments within this vertical distance as the same
// line when ordering them for reading.
const lineTolerance = 2.0

// pdfExtractor reads text fragments with their positions and reconstructs
// the reading stream from them. The offset map only survives this path; the
// coarse fallback produces bare text.
type pdfExtractor struct {
	layout layout.Config
	log    *slog.Logger
}

func (p *pdfExtractor) Extract(_ context.Context, data []byte, filename string) (*Result, error) {
	// The pdf library requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "lexread-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	pages := make([]layout.Page, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, layout.Page{Width: 612, Height: 792})
			continue
		}
		pages = append(pages, readPage(page))
	}

	res, ok := positionedResult(pages, p.layout)
	if ok {
		return res, nil
	}

	p.log.Info("positioned pdf extraction too sparse, using plain text",
		"file", filename, "chars", layout.NonWhitespaceLen(res.Text))
	plain, err := plainPDFText(reader)
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return coarseResult(plain, res.Pages), nil
}

// positionedResult reconstructs the mapped text stream. ok is false when too
// little text decoded to trust the positions; the caller then takes the
// whole-page plain text path. Cleanup transforms change character positions,
// so the mapped text is returned exactly as reconstructed.
func positionedResult(pages []layout.Page, cfg layout.Config) (*Result, bool) {
	text, words, meta := layout.Reconstruct(pages, cfg)
	if layout.NonWhitespaceLen(text) < coarseFallbackMin {
		return &Result{Text: text, Pages: meta, SourceType: "pdf"}, false
	}
	return &Result{Text: text, Words: words, Pages: meta, SourceType: "pdf"}, true
}

// coarseResult carries whole-page text with no offset map.
func coarseResult(plain string, meta []layout.PageMeta) *Result {
	return &Result{Text: textnorm.Clean(plain), Pages: meta, SourceType: "pdf"}
}

// readPage converts one page's text fragments to top-origin word boxes in
// reading order.
func readPage(page pdflib.Page) layout.Page {
	width, height := pageSize(page)
	out := layout.Page{Width: width, Height: height}

	content := page.Content()
	words := make([]layout.Word, 0, len(content.Text))
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		// The PDF origin is bottom-left with Y at the baseline; flip to
		// the top-origin convention the rest of the service uses.
		bottom := height - t.Y
		top := bottom - t.FontSize
		if t.FontSize <= 0 {
			top = bottom - 1
		}
		words = append(words, layout.Word{
			Text: t.S,
			BBox: layout.BBox{X0: t.X, Top: top, X1: t.X + t.W, Bottom: bottom},
		})
	}

	sort.SliceStable(words, func(i, j int) bool {
		if math.Abs(words[i].BBox.Top-words[j].BBox.Top) > lineTolerance {
			return words[i].BBox.Top < words[j].BBox.Top
		}
		return words[i].BBox.X0 < words[j].BBox.X0
	})

	out.Words = words
	return out
}

func pageSize(page pdflib.Page) (float64, float64) {
	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return 612, 792 // US Letter in points.
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return 612, 792
	}
	return w, h
}

func plainPDFText(reader *pdflib.Reader) (string, error) {
	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
