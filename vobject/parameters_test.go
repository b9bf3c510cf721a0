package vobject

import "testing"

func TestParametersAddGetOrder(t *testing.T) {
	var p Parameters
	p.Add("type", "home")
	p.Add("TYPE", "work")
	p.Add("language", "en")

	if got := p.Keys(); len(got) != 2 || got[0] != "TYPE" || got[1] != "LANGUAGE" {
		t.Fatalf("keys = %v", got)
	}
	if got := p.Get("type"); len(got) != 2 || got[0] != "home" || got[1] != "work" {
		t.Fatalf("Get(type) = %v", got)
	}
	if v, ok := p.First("language"); !ok || v != "en" {
		t.Fatalf("First(language) = %q, %v", v, ok)
	}
	if _, ok := p.First("missing"); ok {
		t.Fatalf("First(missing) should not be found")
	}
}

func TestParametersRemoveAll(t *testing.T) {
	var p Parameters
	p.Add("a", "1")
	p.Add("b", "2")
	p.RemoveAll("a")
	if got := p.Keys(); len(got) != 1 || got[0] != "B" {
		t.Fatalf("keys after remove = %v", got)
	}
	if got := p.Get("a"); got != nil {
		t.Fatalf("Get(a) after remove = %v", got)
	}
}

func TestParametersCopyIndependence(t *testing.T) {
	var p Parameters
	p.Add("a", "1")
	cp := p.Copy()
	cp.Add("a", "2")
	if got := p.Get("a"); len(got) != 1 {
		t.Fatalf("original mutated: %v", got)
	}
	if got := cp.Get("a"); len(got) != 2 {
		t.Fatalf("copy = %v", got)
	}
}

func TestParametersIsQuotedPrintable(t *testing.T) {
	cases := []struct {
		name string
		set  func(p *Parameters)
		want bool
	}{
		{"encoding", func(p *Parameters) { p.Add("ENCODING", "QUOTED-PRINTABLE") }, true},
		{"encoding-lower", func(p *Parameters) { p.Add("encoding", "quoted-printable") }, true},
		{"nameless", func(p *Parameters) { p.Add("", "QUOTED-PRINTABLE") }, true},
		{"other", func(p *Parameters) { p.Add("ENCODING", "8BIT") }, false},
		{"none", func(p *Parameters) {}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var p Parameters
			c.set(&p)
			if got := p.IsQuotedPrintable(); got != c.want {
				t.Fatalf("IsQuotedPrintable() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestParametersEqual(t *testing.T) {
	var a, b Parameters
	a.Add("x", "1")
	a.Add("y", "2")
	b.Add("x", "1")
	b.Add("y", "2")
	if !a.Equal(b) {
		t.Fatalf("expected equal")
	}
	b.Add("y", "3")
	if a.Equal(b) {
		t.Fatalf("expected not equal after divergence")
	}
}
