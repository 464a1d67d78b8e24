package extract

import (
	"bytes"
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/dgallion1/lexread/internal/textnorm"
)

// markdownExtractor flattens a Markdown document into paragraphs. Headings
// become their own paragraphs so the reading flow keeps them as sentences.
type markdownExtractor struct{}

func (markdownExtractor) Extract(_ context.Context, data []byte, _ string) (*Result, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(data))

	var paragraphs []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if t := nodeText(n, data); t != "" {
			paragraphs = append(paragraphs, t)
		}
	}

	return &Result{
		Text:       textnorm.Clean(strings.Join(paragraphs, "\n\n")),
		SourceType: "markdown",
	}, nil
}

// nodeText gets the text content of a goldmark AST node.
func nodeText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			if inner := nodeText(c, src); inner != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(inner)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
