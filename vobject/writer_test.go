package vobject

import (
	"strings"
	"testing"
)

func TestWriterOldNewlineBecomesQuotedPrintable(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, Old)
	p := NewProperty("NOTE", "one\r\ntwo")
	if err := w.WriteProperty(p); err != nil {
		t.Fatal(err)
	}
	want := "NOTE;ENCODING=QUOTED-PRINTABLE;CHARSET=UTF-8:one=0D=0Atwo\r\n"
	if got := b.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	// The caller's Parameters must not have been mutated.
	if p.Parameters.Len() != 0 {
		t.Fatalf("caller parameters mutated: %v", p.Parameters.Keys())
	}
}

func TestWriterNewEscapesNewlines(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, New)
	p := NewProperty("NOTE", "one\r\ntwo")
	if err := w.WriteProperty(p); err != nil {
		t.Fatal(err)
	}
	want := "NOTE:one\\ntwo\r\n"
	if got := b.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWriterOldRepeatsParameterSegments(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, Old)
	var p Property
	p.Name = "TEL"
	p.Parameters.Add("TYPE", "home")
	p.Parameters.Add("TYPE", "voice")
	p.Value = "+1 555 0100"
	if err := w.WriteProperty(p); err != nil {
		t.Fatal(err)
	}
	want := "TEL;TYPE=home;TYPE=voice:+1 555 0100\r\n"
	if got := b.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWriterNewCombinesParameterValues(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, New)
	var p Property
	p.Name = "TEL"
	p.Parameters.Add("TYPE", "home")
	p.Parameters.Add("TYPE", "voice")
	p.Value = "+1 555 0100"
	if err := w.WriteProperty(p); err != nil {
		t.Fatal(err)
	}
	want := "TEL;TYPE=home,voice:+1 555 0100\r\n"
	if got := b.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWriterNewQuotesParameterValueWithDelimiters(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, New)
	var p Property
	p.Name = "NOTE"
	p.Parameters.Add("X-A", "a,b")
	p.Value = "hi"
	if err := w.WriteProperty(p); err != nil {
		t.Fatal(err)
	}
	want := "NOTE;X-A=\"a,b\":hi\r\n"
	if got := b.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWriterValidationRejectsIllegalCharacters(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, New)
	w.SetStrict(true)
	p := NewProperty("bad name", "value")
	err := w.WriteProperty(p)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !asValidationError(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v (%T)", err, err)
	}
	if b.Len() != 0 {
		t.Fatalf("no output should be written on validation failure, got %q", b.String())
	}
}

func asValidationError(err error, target **ValidationError) bool {
	if ve, ok := err.(*ValidationError); ok {
		*target = ve
		return true
	}
	return false
}

func TestWriteReadRoundTrip(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b, New)
	orig := NewProperty("NOTE", "hello, world; \"quoted\"")
	if err := w.WriteProperty(orig); err != nil {
		t.Fatal(err)
	}

	r := NewReader(strings.NewReader(b.String()), nil)
	var l recordingListener
	if err := r.Parse(&l); err != nil {
		t.Fatal(err)
	}
	if len(l.properties) != 1 {
		t.Fatalf("expected 1 property, got %d", len(l.properties))
	}
	if got := l.properties[0].Value; got != orig.Value {
		t.Fatalf("round trip value = %q, want %q", got, orig.Value)
	}
}
