package textnorm

import (
	"strings"
	"testing"
)

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"Para one.\n\nPara two starts here.",
		"A line\nwrapped here.\n\n  Indented para.\n42\nMore text.",
		"word-\nbreak across lines.",
		"",
		"   \n\n\n  ",
		"single line",
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("Clean not idempotent for %q:\nonce:  %q\ntwice: %q", in, once, twice)
		}
	}
}

func TestClean_DropsPageNumberLines(t *testing.T) {
	got := Clean("First line.\n42\nSecond line.")
	if strings.Contains(got, "42") {
		t.Errorf("expected digit-only line removed, got %q", got)
	}
	if got != "First line. Second line." {
		t.Errorf("expected joined lines, got %q", got)
	}
}

func TestClean_PreservesIndentation(t *testing.T) {
	got := Clean("  Indented start.")
	if got != "Indented start." {
		// Leading whitespace survives the per-line pass but the final
		// TrimSpace removes it at the very start of the document.
		t.Errorf("got %q", got)
	}
	got = Clean("Para one.\n\n  Indented para two.")
	if !strings.Contains(got, "\n\n  Indented") {
		t.Errorf("expected paragraph indentation preserved, got %q", got)
	}
}

func TestClean_JoinsHyphenatedLineBreaks(t *testing.T) {
	got := Clean("The develop-\nment of language.")
	if !strings.Contains(got, "development") {
		t.Errorf("expected hyphen split joined, got %q", got)
	}
}

func TestClean_CollapsesWrapNewlinesButKeepsParagraphs(t *testing.T) {
	got := Clean("Line one\nline two.\n\nNew paragraph.")
	want := "Line one line two.\n\nNew paragraph."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestClean_BlankLineWithSpacesIsParagraphBreak(t *testing.T) {
	got := Clean("Para one.\n   \nPara two.")
	if !strings.Contains(got, "\n\n") {
		t.Errorf("expected paragraph break, got %q", got)
	}
}

func TestDecodeEscapedNewlines(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`one\ntwo`, "one\ntwo"},
		{`one\r\ntwo`, "one\ntwo"},
		{`one\n\rtwo`, "one\ntwo"},
		{"already\nreal", "already\nreal"},
	}
	for _, c := range cases {
		if got := DecodeEscapedNewlines(c.in); got != c.want {
			t.Errorf("DecodeEscapedNewlines(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeExamMarkers_NoOpWithoutPattern(t *testing.T) {
	inputs := []string{
		"Ordinary prose with no markers at all.",
		"A) a bare option without a numbered item",
		"Version 2.5 shipped in March. See section D) of the appendix.",
	}
	for _, in := range inputs {
		if got := NormalizeExamMarkers(in); got != in {
			t.Errorf("expected pass-through for %q, got %q", in, got)
		}
	}
}

func TestNormalizeExamMarkers_SplitsItemsAndOptions(t *testing.T) {
	in := "17.A) first choice B) second choice C) third choice D) fourth choice 18.A) next"
	got := NormalizeExamMarkers(in)

	for _, marker := range []string{"17.A)", "B)", "C)", "D)", "18.A)"} {
		found := false
		for _, line := range strings.Split(got, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), marker) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %q at start of a line in:\n%s", marker, got)
		}
	}
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("expected blank-line runs collapsed, got %q", got)
	}
}

func TestNormalizeSectionMarkers_InsertsBlankLineBeforeMarker(t *testing.T) {
	in := "Some preceding paragraph text.\nK) The research of Gigi Luk shows something."
	got := NormalizeSectionMarkers(in)
	if !strings.Contains(got, "text.\n\nK)") {
		t.Errorf("expected blank line before section marker, got %q", got)
	}
}

func TestNormalizeSectionMarkers_MergesLoneMarkerWithNextLine(t *testing.T) {
	in := "K)\nThe research continues here."
	got := NormalizeSectionMarkers(in)
	if !strings.Contains(got, "K) The research continues here.") {
		t.Errorf("expected lone marker merged with following line, got %q", got)
	}
}

func TestNormalizeSectionMarkers_BreaksAfterSentenceEnd(t *testing.T) {
	in := "cornerstone of comprehension. L) How did this happen?"
	got := NormalizeSectionMarkers(in)
	if !strings.Contains(got, "comprehension.\n\nL)") {
		t.Errorf("expected paragraph break before inline marker, got %q", got)
	}
}
