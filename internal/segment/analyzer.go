package segment

import (
	"fmt"
	"strings"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"
)

// proseAnalyzer implements Analyzer with prose (sentence boundaries,
// tokenization, Penn Treebank tags) and golem (English lemmas). prose does
// not expose character offsets, so spans are recovered by scanning the
// analyzer output against the source buffer in order.
type proseAnalyzer struct {
	lemmatizer *golem.Lemmatizer
}

// NewProseAnalyzer builds the default linguistic analyzer.
func NewProseAnalyzer() (Analyzer, error) {
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}
	return &proseAnalyzer{lemmatizer: lem}, nil
}

func (a *proseAnalyzer) Sentences(text string) ([]Span, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithExtraction(false),
		prose.WithTagging(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	var spans []Span
	cursor := 0
	for _, sent := range doc.Sentences() {
		idx := strings.Index(text[cursor:], sent.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(sent.Text)
		spans = append(spans, Span{Start: start, End: end})
		cursor = end
	}
	return spans, nil
}

func (a *proseAnalyzer) Tokens(sentence string) ([]RawToken, error) {
	if strings.TrimSpace(sentence) == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(sentence,
		prose.WithExtraction(false),
		prose.WithSegmentation(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	var tokens []RawToken
	cursor := 0
	for _, tok := range doc.Tokens() {
		idx := strings.Index(sentence[cursor:], tok.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(tok.Text)
		cursor = end

		tokens = append(tokens, RawToken{
			Text:  tok.Text,
			Lemma: a.lemmatizer.Lemma(tok.Text),
			POS:   coarsePOS(tok.Tag),
			Tag:   tok.Tag,
			Start: start,
			End:   end,
		})
	}
	return tokens, nil
}

// coarsePOS maps a Penn Treebank tag to a universal-style coarse class.
func coarsePOS(tag string) string {
	switch {
	case strings.HasPrefix(tag, "NNP"):
		return "PROPN"
	case strings.HasPrefix(tag, "NN"):
		return "NOUN"
	case strings.HasPrefix(tag, "VB"):
		return "VERB"
	case strings.HasPrefix(tag, "JJ"):
		return "ADJ"
	case strings.HasPrefix(tag, "RB"):
		return "ADV"
	case strings.HasPrefix(tag, "PRP"), tag == "WP", tag == "WP$":
		return "PRON"
	case tag == "DT", tag == "PDT", tag == "WDT":
		return "DET"
	case tag == "IN":
		return "ADP"
	case tag == "CC":
		return "CCONJ"
	case tag == "CD":
		return "NUM"
	case tag == "UH":
		return "INTJ"
	case tag == "MD":
		return "AUX"
	case tag == "TO", tag == "RP", tag == "POS", tag == "EX", tag == "FW":
		return "PART"
	case isPunctTag(tag):
		return "PUNCT"
	default:
		return "X"
	}
}

func isPunctTag(tag string) bool {
	switch tag {
	case ".", ",", ":", "(", ")", "``", "''", "$", "#", "-LRB-", "-RRB-", "HYPH", "SYM":
		return true
	}
	return false
}
