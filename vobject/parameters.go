package vobject

import "strings"

// Parameters is a case-insensitive, ordered multimap of vobject property
// parameters. Keys are canonicalized to upper-case ASCII on every mutation
// and lookup. The empty string key represents a legacy "nameless" parameter,
// e.g. the bare ";QUOTED-PRINTABLE" flag found in OLD-dialect input.
//
// The zero value is an empty, usable Parameters.
type Parameters struct {
	keys   []string
	values map[string][]string
}

func sanitizeParamKey(name string) string {
	return toUpperASCII(name)
}

// Add appends value to the sequence stored under name, creating the key (at
// the end of iteration order) if it does not already exist.
func (p *Parameters) Add(name, value string) {
	name = sanitizeParamKey(name)
	if p.values == nil {
		p.values = map[string][]string{}
	}
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	p.values[name] = append(p.values[name], value)
}

// Set replaces the entire sequence stored under name with values, creating
// the key if needed and removing it if values is empty.
func (p *Parameters) Set(name string, values ...string) {
	name = sanitizeParamKey(name)
	if len(values) == 0 {
		p.RemoveAll(name)
		return
	}
	if p.values == nil {
		p.values = map[string][]string{}
	}
	if _, ok := p.values[name]; !ok {
		p.keys = append(p.keys, name)
	}
	cp := make([]string, len(values))
	copy(cp, values)
	p.values[name] = cp
}

// Get returns the sequence of values stored under name, or nil if absent.
// The returned slice must not be mutated by the caller.
func (p *Parameters) Get(name string) []string {
	if p.values == nil {
		return nil
	}
	return p.values[sanitizeParamKey(name)]
}

// First returns the first value stored under name, and whether name is
// present at all (with at least one value).
func (p *Parameters) First(name string) (string, bool) {
	vs := p.Get(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// RemoveAll removes every value stored under name.
func (p *Parameters) RemoveAll(name string) {
	name = sanitizeParamKey(name)
	if p.values == nil {
		return
	}
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	for i, k := range p.keys {
		if k == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Clear removes every key and value.
func (p *Parameters) Clear() {
	p.keys = nil
	p.values = nil
}

// Keys returns the parameter names in insertion order. The caller must not
// mutate the returned slice.
func (p *Parameters) Keys() []string {
	return p.keys
}

// Len returns the number of distinct keys.
func (p *Parameters) Len() int {
	return len(p.keys)
}

// Copy returns an independent copy of p; mutating the result never affects p.
func (p *Parameters) Copy() Parameters {
	var np Parameters
	if len(p.keys) == 0 {
		return np
	}
	np.keys = make([]string, len(p.keys))
	copy(np.keys, p.keys)
	np.values = make(map[string][]string, len(p.values))
	for k, vs := range p.values {
		cp := make([]string, len(vs))
		copy(cp, vs)
		np.values[k] = cp
	}
	return np
}

// Equal reports whether p and o hold the same keys, in the same order, with
// the same values in the same order under each key.
func (p *Parameters) Equal(o Parameters) bool {
	if len(p.keys) != len(o.keys) {
		return false
	}
	for i, k := range p.keys {
		if o.keys[i] != k {
			return false
		}
		a, b := p.values[k], o.values[k]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

// IsQuotedPrintable reports whether the property this Parameters belongs to
// declares a quoted-printable value, either via ENCODING=QUOTED-PRINTABLE or
// the legacy nameless ";QUOTED-PRINTABLE" flag.
func (p *Parameters) IsQuotedPrintable() bool {
	for _, v := range p.Get("ENCODING") {
		if strings.EqualFold(v, "QUOTED-PRINTABLE") {
			return true
		}
	}
	for _, v := range p.Get("") {
		if strings.EqualFold(v, "QUOTED-PRINTABLE") {
			return true
		}
	}
	return false
}

// CharsetName returns the raw value of the CHARSET parameter, if present.
// Resolving it to an encoding.Encoding is handled by ResolveCharset in
// charset.go, which returns the same kind of error for every name it cannot
// resolve; an illegal name and an unsupported one are not told apart.
func (p *Parameters) CharsetName() (string, bool) {
	return p.First("CHARSET")
}
