package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// NewVisionClient creates a Cloud Vision client from the environment:
// GOOGLE_CREDENTIALS (inline JSON), GOOGLE_APPLICATION_CREDENTIALS (file
// path), or application default credentials.
func NewVisionClient(ctx context.Context) (*vision.ImageAnnotatorClient, error) {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		return vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
	}
	return vision.NewImageAnnotatorClient(ctx)
}

// VisionDocumentEngine uses document text detection, which performs full
// layout analysis: blocks and paragraphs come back already segmented.
type VisionDocumentEngine struct {
	client *vision.ImageAnnotatorClient
}

func NewVisionDocumentEngine(client *vision.ImageAnnotatorClient) *VisionDocumentEngine {
	return &VisionDocumentEngine{client: client}
}

func (e *VisionDocumentEngine) Name() string { return "vision-document" }

func (e *VisionDocumentEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if e.client == nil {
		return nil, ErrUnavailable
	}

	img, err := vision.NewImageFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("prepare image: %w", err)
	}
	ann, err := e.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return nil, fmt.Errorf("document text detection: %w", err)
	}
	if ann == nil || len(ann.Pages) == 0 {
		return nil, fmt.Errorf("no text detected")
	}

	var paragraphs []string
	var confSum float32
	var confN int
	for _, page := range ann.Pages {
		if page.Confidence > 0 {
			confSum += page.Confidence
			confN++
		}
		for _, block := range page.Blocks {
			for _, para := range block.Paragraphs {
				text := paragraphText(para)
				if text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}

	conf := float32(0)
	if confN > 0 {
		conf = confSum / float32(confN)
	}
	return &Result{
		Text:       strings.Join(paragraphs, "\n\n"),
		Confidence: conf,
		Segmented:  true,
	}, nil
}

// paragraphText joins a paragraph's words, honoring the detected breaks
// between symbols (spaces, line breaks, hyphenated wraps).
func paragraphText(para *visionpb.Paragraph) string {
	var buf strings.Builder
	for _, word := range para.Words {
		for _, sym := range word.Symbols {
			buf.WriteString(sym.Text)
			if br := detectedBreak(sym); br != "" {
				buf.WriteString(br)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

func detectedBreak(sym *visionpb.Symbol) string {
	if sym.Property == nil || sym.Property.DetectedBreak == nil {
		return ""
	}
	switch sym.Property.DetectedBreak.Type {
	case visionpb.TextAnnotation_DetectedBreak_SPACE,
		visionpb.TextAnnotation_DetectedBreak_SURE_SPACE:
		return " "
	case visionpb.TextAnnotation_DetectedBreak_EOL_SURE_SPACE,
		visionpb.TextAnnotation_DetectedBreak_LINE_BREAK:
		return "\n"
	case visionpb.TextAnnotation_DetectedBreak_HYPHEN:
		return "-\n"
	}
	return ""
}

// VisionLineEngine uses plain text detection, which returns word boxes with
// no layout analysis. Words are grouped into lines by vertical proximity and
// paragraphs are recovered with the line-gap heuristic.
type VisionLineEngine struct {
	client *vision.ImageAnnotatorClient
}

func NewVisionLineEngine(client *vision.ImageAnnotatorClient) *VisionLineEngine {
	return &VisionLineEngine{client: client}
}

func (e *VisionLineEngine) Name() string { return "vision-lines" }

func (e *VisionLineEngine) Recognize(ctx context.Context, data []byte, mimeType string) (*Result, error) {
	if e.client == nil {
		return nil, ErrUnavailable
	}

	img, err := vision.NewImageFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("prepare image: %w", err)
	}
	anns, err := e.client.DetectTexts(ctx, img, nil, 1000)
	if err != nil {
		return nil, fmt.Errorf("text detection: %w", err)
	}
	// The first annotation is the whole-image text; the rest are words.
	if len(anns) < 2 {
		return nil, fmt.Errorf("no words detected")
	}

	words := make([]wordBox, 0, len(anns)-1)
	for _, a := range anns[1:] {
		if b, ok := annotationBox(a); ok {
			words = append(words, b)
		}
	}
	lines := groupWordsIntoLines(words)

	return &Result{
		Text:      SegmentLines(lines),
		Segmented: true,
	}, nil
}

type wordBox struct {
	text                     string
	left, top, right, bottom float64
}

func annotationBox(a *visionpb.EntityAnnotation) (wordBox, bool) {
	if a.Description == "" || a.BoundingPoly == nil || len(a.BoundingPoly.Vertices) == 0 {
		return wordBox{}, false
	}
	b := wordBox{text: a.Description}
	for i, v := range a.BoundingPoly.Vertices {
		x, y := float64(v.X), float64(v.Y)
		if i == 0 {
			b.left, b.right, b.top, b.bottom = x, x, y, y
			continue
		}
		b.left = min(b.left, x)
		b.right = max(b.right, x)
		b.top = min(b.top, y)
		b.bottom = max(b.bottom, y)
	}
	return b, true
}

// groupWordsIntoLines clusters word boxes whose vertical centers fall within
// half a typical word height, then orders each line left to right.
func groupWordsIntoLines(words []wordBox) []Line {
	if len(words) == 0 {
		return nil
	}

	heights := make([]float64, 0, len(words))
	for _, w := range words {
		heights = append(heights, w.bottom-w.top)
	}
	tolerance := median(heights) / 2
	if tolerance <= 0 {
		tolerance = 1
	}

	type lineAcc struct {
		words  []wordBox
		center float64
	}
	var acc []*lineAcc
	for _, w := range words {
		center := (w.top + w.bottom) / 2
		var target *lineAcc
		for _, la := range acc {
			if abs(la.center-center) <= tolerance {
				target = la
				break
			}
		}
		if target == nil {
			target = &lineAcc{center: center}
			acc = append(acc, target)
		}
		target.words = append(target.words, w)
		// Keep the running center representative of the line.
		sum := 0.0
		for _, lw := range target.words {
			sum += (lw.top + lw.bottom) / 2
		}
		target.center = sum / float64(len(target.words))
	}

	lines := make([]Line, 0, len(acc))
	for _, la := range acc {
		sortWords := la.words
		for i := 1; i < len(sortWords); i++ {
			for j := i; j > 0 && sortWords[j].left < sortWords[j-1].left; j-- {
				sortWords[j], sortWords[j-1] = sortWords[j-1], sortWords[j]
			}
		}
		var texts []string
		ln := Line{Top: sortWords[0].top, Bottom: sortWords[0].bottom, Left: sortWords[0].left}
		for _, w := range sortWords {
			texts = append(texts, w.text)
			ln.Top = min(ln.Top, w.top)
			ln.Bottom = max(ln.Bottom, w.bottom)
			ln.Left = min(ln.Left, w.left)
		}
		ln.Text = strings.Join(texts, " ")
		lines = append(lines, ln)
	}
	return lines
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
