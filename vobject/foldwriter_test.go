package vobject

import (
	"strings"
	"testing"
)

func TestFoldedLineWriterNoFoldWhenShort(t *testing.T) {
	var b strings.Builder
	w := NewFoldedLineWriter(&b)
	if err := w.Write("short value", false, ""); err != nil {
		t.Fatal(err)
	}
	if err := w.Writeln(); err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "short value\r\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFoldedLineWriterFoldsLongLines(t *testing.T) {
	var b strings.Builder
	w := NewFoldedLineWriter(&b)
	if err := w.SetLineLength(20); err != nil {
		t.Fatal(err)
	}
	value := "This is a fairly long line of text that should fold."
	if err := w.Write(value, false, ""); err != nil {
		t.Fatal(err)
	}
	w.Writeln()

	out := b.String()
	if !strings.Contains(out, "\r\n ") {
		t.Fatalf("expected at least one folded continuation, got %q", out)
	}
	// Unfold and compare against original.
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	unfolded = strings.TrimSuffix(unfolded, "\r\n")
	if unfolded != value {
		t.Fatalf("round trip mismatch: got %q want %q", unfolded, value)
	}
}

func TestFoldedLineWriterNeverBreaksQPTriple(t *testing.T) {
	var b strings.Builder
	w := NewFoldedLineWriter(&b)
	if err := w.SetLineLength(10); err != nil {
		t.Fatal(err)
	}
	// Encodes to "x=3D=3D...", so the fold column lands inside a triple.
	if err := w.Write("x==========", true, "UTF-8"); err != nil {
		t.Fatal(err)
	}
	w.Writeln()
	out := b.String()
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		line = strings.TrimPrefix(line, " ")
		line = strings.TrimSuffix(line, "=") // soft line break
		if strings.HasSuffix(line, "=3") || strings.HasSuffix(line, "=2") {
			t.Fatalf("line ends mid quoted-printable triple: %q", line)
		}
	}
}

func TestFoldedLineWriterAvoidsBreakingOnWhitespace(t *testing.T) {
	var b strings.Builder
	w := NewFoldedLineWriter(&b)
	if err := w.SetLineLength(10); err != nil {
		t.Fatal(err)
	}
	value := "aaaaaaaaa    bbbbbbbbb"
	if err := w.Write(value, false, ""); err != nil {
		t.Fatal(err)
	}
	w.Writeln()
	out := b.String()

	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "  ") {
			t.Fatalf("continuation line should carry exactly the one-character fold indent, not extra whitespace: %q", line)
		}
	}
	unfolded := strings.ReplaceAll(out, "\r\n ", "")
	unfolded = strings.TrimSuffix(unfolded, "\r\n")
	if unfolded != value {
		t.Fatalf("round trip mismatch: got %q want %q", unfolded, value)
	}
}

func TestFoldedLineWriterEmbeddedNewlineResetsColumn(t *testing.T) {
	var b strings.Builder
	w := NewFoldedLineWriter(&b)
	if err := w.SetLineLength(5); err != nil {
		t.Fatal(err)
	}
	if err := w.Write("ab\r\ncd", false, ""); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if strings.Count(out, "\r\n") != 1 {
		t.Fatalf("expected exactly the one embedded CRLF, no fold inserted for such a short line: %q", out)
	}
}
