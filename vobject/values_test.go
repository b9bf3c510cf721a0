package vobject

import (
	"reflect"
	"testing"
)

func TestUnescapeValue(t *testing.T) {
	cases := []struct{ in, want string }{
		{`a\,b`, "a,b"},
		{`a\;b`, "a;b"},
		{`a\\b`, `a\b`},
		{`a\nb`, "a\nb"},
		{`a\Nb`, "a\nb"},
		{`a\zb`, `a\zb`},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := UnescapeValue(c.in); got != c.want {
			t.Errorf("UnescapeValue(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(`a,b\,c,d`)
	want := []string{"a", "b,c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := ParseList(""); len(got) != 0 {
		t.Fatalf("empty input should yield empty slice, got %v", got)
	}
}

func TestParseSemiStructuredWithLimit(t *testing.T) {
	got := ParseSemiStructured("a;b;c;d", 2)
	want := []string{"a", "b;c;d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseStructuredEmptyComponent(t *testing.T) {
	got := ParseStructured("a,b;;c")
	if len(got) != 3 {
		t.Fatalf("expected 3 components, got %v", got)
	}
	if !reflect.DeepEqual(got[0], []string{"a", "b"}) {
		t.Fatalf("component 0 = %v", got[0])
	}
	if len(got[1]) != 0 {
		t.Fatalf("empty component should be zero-length, got %v", got[1])
	}
	if !reflect.DeepEqual(got[2], []string{"c"}) {
		t.Fatalf("component 2 = %v", got[2])
	}
}

func TestWriteStructuredTrimsTrailingEmpty(t *testing.T) {
	got := WriteStructured([][]string{{"a"}, {"b", "c"}, {}}, false)
	if want := "a;b,c"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestListRoundTrip(t *testing.T) {
	values := []string{"a,b", "c;d", `e\f`, "plain"}
	s := WriteList(values)
	got := ParseList(s)
	if !reflect.DeepEqual(got, values) {
		t.Fatalf("round trip: got %v want %v", got, values)
	}
}

func TestParseMultimap(t *testing.T) {
	p := ParseMultimap("a=1,2;b;c=3")
	if got := p.Get("A"); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("A = %v", got)
	}
	if got := p.Get("B"); !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("B = %v", got)
	}
	if got := p.Get("C"); !reflect.DeepEqual(got, []string{"3"}) {
		t.Fatalf("C = %v", got)
	}
}

func TestSemiStructuredBuilder(t *testing.T) {
	b := NewSemiStructuredBuilder(SemiStructuredWriteOptions{EscapeCommas: true})
	b.Append("a").Append("b,c").Append("")
	if got, want := b.String(), "a;b\\,c"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
