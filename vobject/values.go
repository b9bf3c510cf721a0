package vobject

import "strings"

// The value-codec helpers below share one escaping convention, applied
// inside a composite property value (after the vobject line framing has
// already been removed): '\\' -> '\', '\;' -> ';', '\,' -> ',', and '\n' or
// '\N' -> a literal newline. Any other backslash-prefixed character passes
// both characters through unchanged. This is a property-value-level escape,
// distinct from the parameter-value escapes the Reader/Writer apply at the
// line-framing level.

// UnescapeValue reverses the shared backslash escaping described above.
func UnescapeValue(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '\\' || i+1 >= len(runes) {
			b.WriteRune(c)
			continue
		}
		next := runes[i+1]
		switch next {
		case '\\':
			b.WriteRune('\\')
		case ';':
			b.WriteRune(';')
		case ',':
			b.WriteRune(',')
		case 'n', 'N':
			b.WriteRune('\n')
		default:
			b.WriteRune(c)
			b.WriteRune(next)
		}
		i++
	}
	return b.String()
}

// escapeValue applies the shared backslash escaping. escapeComma controls
// whether ',' is escaped, since semi-structured OLD-dialect values
// historically leave commas alone.
func escapeValue(s string, escapeComma bool) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			if escapeComma {
				b.WriteString(`\,`)
			} else {
				b.WriteRune(r)
			}
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitUnescaped splits s on unescaped occurrences of sep, honoring the
// shared backslash escape convention (an escaped separator does not split).
// If limit > 0, stops after producing limit pieces, leaving any remaining
// separators in the final piece.
func splitUnescaped(s string, sep rune, limit int) []string {
	var pieces []string
	var cur strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			cur.WriteRune(c)
			cur.WriteRune(runes[i+1])
			i++
			continue
		}
		if c == sep && (limit <= 0 || len(pieces)+1 < limit) {
			pieces = append(pieces, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	pieces = append(pieces, cur.String())
	return pieces
}

// ParseList parses a comma-separated property value into its unescaped
// elements. An empty input yields an empty (non-nil) slice.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := splitUnescaped(s, ',', 0)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = UnescapeValue(p)
	}
	return out
}

// WriteList renders values as a comma-separated property value.
func WriteList(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = escapeValue(v, true)
	}
	return strings.Join(parts, ",")
}

// ParseSemiStructured parses a ';'-separated property value. If limit > 0,
// at most limit elements are produced, with any remaining ';' characters
// left inside the final element.
func ParseSemiStructured(s string, limit int) []string {
	if s == "" {
		return []string{}
	}
	parts := splitUnescaped(s, ';', limit)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = UnescapeValue(p)
	}
	return out
}

// SemiStructuredWriteOptions controls WriteSemiStructured's output shape.
type SemiStructuredWriteOptions struct {
	// EscapeCommas escapes ',' inside each element. OLD-dialect
	// semi-structured values historically leave commas unescaped.
	EscapeCommas bool
	// IncludeTrailingSemicolons keeps trailing empty elements instead of
	// trimming them.
	IncludeTrailingSemicolons bool
}

// WriteSemiStructured renders values as a ';'-separated property value.
func WriteSemiStructured(values []string, opts SemiStructuredWriteOptions) string {
	if !opts.IncludeTrailingSemicolons {
		for len(values) > 0 && values[len(values)-1] == "" {
			values = values[:len(values)-1]
		}
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = escapeValue(v, opts.EscapeCommas)
	}
	return strings.Join(parts, ";")
}

// ParseStructured parses a value composed of ';'-separated components, each
// itself a ','-separated list of sub-values. A component that yields a
// single empty sub-value is represented as an empty component slice, never
// as a one-element slice holding "".
func ParseStructured(s string) [][]string {
	comps := splitUnescaped(s, ';', 0)
	out := make([][]string, len(comps))
	for i, comp := range comps {
		if comp == "" {
			out[i] = []string{}
			continue
		}
		subs := splitUnescaped(comp, ',', 0)
		vals := make([]string, len(subs))
		for j, v := range subs {
			vals[j] = UnescapeValue(v)
		}
		out[i] = vals
	}
	return out
}

// WriteStructured renders a structured value. Trailing empty components are
// trimmed unless keepTrailingEmpty is set.
func WriteStructured(components [][]string, keepTrailingEmpty bool) string {
	if !keepTrailingEmpty {
		for len(components) > 0 && len(components[len(components)-1]) == 0 {
			components = components[:len(components)-1]
		}
	}
	parts := make([]string, len(components))
	for i, comp := range components {
		subs := make([]string, len(comp))
		for j, v := range comp {
			subs[j] = escapeValue(v, true)
		}
		parts[i] = strings.Join(subs, ",")
	}
	return strings.Join(parts, ";")
}

// ParseMultimap parses a ';'-separated sequence of "KEY=v1,v2" pairs into an
// ordered multimap, canonicalizing keys to upper-case ASCII. A pair without
// '=' is stored under its (canonicalized) text with a single empty value.
// Empty keys are skipped.
func ParseMultimap(s string) *Parameters {
	p := &Parameters{}
	if s == "" {
		return p
	}
	for _, pair := range splitUnescaped(s, ';', 0) {
		if pair == "" {
			continue
		}
		key := pair
		val := ""
		hasVal := false
		if idx := unescapedIndex(pair, '='); idx >= 0 {
			key = pair[:idx]
			val = pair[idx+1:]
			hasVal = true
		}
		key = toUpperASCII(UnescapeValue(key))
		if key == "" {
			continue
		}
		if !hasVal {
			p.Add(key, "")
			continue
		}
		for _, v := range splitUnescaped(val, ',', 0) {
			p.Add(key, UnescapeValue(v))
		}
	}
	return p
}

// WriteMultimap renders a Parameters value as a ';'-separated "KEY=v1,v2"
// sequence, in key insertion order.
func WriteMultimap(p *Parameters) string {
	var parts []string
	for _, key := range p.Keys() {
		vals := p.Get(key)
		escaped := make([]string, len(vals))
		for i, v := range vals {
			escaped[i] = escapeValue(v, true)
		}
		parts = append(parts, key+"="+strings.Join(escaped, ","))
	}
	return strings.Join(parts, ";")
}

func unescapedIndex(s string, sep rune) int {
	runes := []rune(s)
	byteIdx := 0
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c == '\\' && i+1 < len(runes) {
			byteIdx += len(string(c)) + len(string(runes[i+1]))
			i++
			continue
		}
		if c == sep {
			return byteIdx
		}
		byteIdx += len(string(c))
	}
	return -1
}

// SemiStructuredBuilder accumulates elements for a single semi-structured
// property value before rendering it once, mirroring the streaming builder
// convenience the value codecs offer alongside the plain parse/write
// functions.
type SemiStructuredBuilder struct {
	values []string
	opts   SemiStructuredWriteOptions
}

// NewSemiStructuredBuilder returns an empty builder using opts for the
// eventual String() rendering.
func NewSemiStructuredBuilder(opts SemiStructuredWriteOptions) *SemiStructuredBuilder {
	return &SemiStructuredBuilder{opts: opts}
}

// Append adds one more element.
func (b *SemiStructuredBuilder) Append(v string) *SemiStructuredBuilder {
	b.values = append(b.values, v)
	return b
}

// String renders the accumulated elements.
func (b *SemiStructuredBuilder) String() string {
	return WriteSemiStructured(b.values, b.opts)
}

// StructuredBuilder accumulates components for a single structured property
// value before rendering it once.
type StructuredBuilder struct {
	components [][]string
}

// NewStructuredBuilder returns an empty builder.
func NewStructuredBuilder() *StructuredBuilder {
	return &StructuredBuilder{}
}

// AppendComponent adds one component made of the given sub-values.
func (b *StructuredBuilder) AppendComponent(values ...string) *StructuredBuilder {
	b.components = append(b.components, values)
	return b
}

// String renders the accumulated components, trimming trailing empty ones.
func (b *StructuredBuilder) String() string {
	return WriteStructured(b.components, false)
}
