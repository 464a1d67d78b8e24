package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/fumiama/go-docx"
)

// docxExtractor prefers converting the document to PDF so the text gets a
// position map. Without LibreOffice it falls back to reading the paragraph
// XML directly, which loses positions but keeps paragraph structure.
type docxExtractor struct {
	set *Set
}

func (d *docxExtractor) Extract(ctx context.Context, data []byte, filename string) (*Result, error) {
	if d.set.Converter != nil {
		if res, err := d.viaPDF(ctx, data, filename); err == nil {
			return res, nil
		} else {
			d.set.Log.Warn("docx conversion failed, reading paragraphs directly",
				"file", filename, "error", err)
		}
	}
	return d.fromParagraphs(ctx, data)
}

func (d *docxExtractor) viaPDF(ctx context.Context, data []byte, filename string) (*Result, error) {
	pdfData, err := d.set.Converter.ToPDF(ctx, data, ".docx")
	if err != nil {
		return nil, err
	}
	pdfExt := &pdfExtractor{layout: d.set.Layout, log: d.set.Log}
	res, err := pdfExt.Extract(ctx, pdfData, filename)
	if err != nil {
		return nil, err
	}
	res.SourceType = "docx"
	res.ConvertedPDF = pdfData

	// Embedded images carry text the PDF conversion renders as pixels.
	if ocrText := d.embeddedImageText(ctx, data); ocrText != "" {
		if res.Words != nil {
			// Appending after the mapped range keeps existing offsets valid.
			res.Text = strings.TrimRight(res.Text, "\n") + "\n\n" + ocrText
		} else {
			res.Text += "\n\n" + ocrText
		}
	}
	return res, nil
}

// embeddedImageText OCRs images stored under word/media in the archive.
func (d *docxExtractor) embeddedImageText(ctx context.Context, data []byte) string {
	if d.set.OCR == nil || d.set.OCR.Empty() {
		return ""
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var parts []string
	for _, zf := range zr.File {
		if !strings.HasPrefix(zf.Name, "word/media/") {
			continue
		}
		mimeType, ok := imageMIMETypes[strings.ToLower(path.Ext(zf.Name))]
		if !ok {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			continue
		}
		var buf bytes.Buffer
		_, copyErr := buf.ReadFrom(rc)
		rc.Close()
		if copyErr != nil {
			continue
		}
		res, err := d.set.OCR.Recognize(ctx, buf.Bytes(), mimeType)
		if err != nil {
			d.set.Log.Warn("embedded image ocr failed", "image", zf.Name, "error", err)
			continue
		}
		if res.Text != "" {
			parts = append(parts, res.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (d *docxExtractor) fromParagraphs(ctx context.Context, data []byte) (*Result, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}

	text := strings.Join(paragraphs, "\n\n")
	if ocrText := d.embeddedImageText(ctx, data); ocrText != "" {
		if text != "" {
			text += "\n\n"
		}
		text += ocrText
	}
	return &Result{Text: text, SourceType: "docx"}, nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
