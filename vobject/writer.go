package vobject

import (
	"fmt"
	"io"
	"strings"

	"github.com/mjl-/vobject/mlog"
)

// ValidationError is returned by Writer.WriteProperty when a group, name,
// parameter name, or parameter value contains a character that is not
// permitted for its position and dialect. No output is written when a
// property fails validation.
type ValidationError struct {
	Field   string // "group", "name", "parameter name", or "parameter value"
	Value   string
	Allowed AllowedCharacters
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vobject: illegal character in %s %q, not allowed: %s", e.Field, e.Value, e.Allowed.Flip())
}

// Writer serializes Property values as vobject text, applying the dialect's
// escaping and folding rules.
type Writer struct {
	fw     *FoldedLineWriter
	opts   options
	dialect Dialect

	// CaretEncodingEnabled controls whether NEW-dialect parameter values use
	// the caret-escape scheme on write. Defaults to false, matching the
	// reference writer (most consumers still expect plain backslash-free
	// values unless they opt in).
	CaretEncodingEnabled bool

	strict bool
}

// NewWriter returns a Writer over w in the given dialect, folding at
// DefaultLineLength.
func NewWriter(w io.Writer, dialect Dialect, opts ...Option) *Writer {
	return &Writer{
		fw:      NewFoldedLineWriter(w),
		opts:    newOptions(opts),
		dialect: dialect,
	}
}

// SetDialect changes the dialect used for subsequent writes, e.g. after
// writing a VERSION property that switches the current component's syntax.
func (w *Writer) SetDialect(d Dialect) {
	w.dialect = d
}

// SetStrict enables strict allowed-character checking (rejecting characters
// the loose historical grammar tolerates but modern strict validators
// don't), matching AllowedCharacters' strict=true profiles.
func (w *Writer) SetStrict(strict bool) {
	w.strict = strict
}

// FoldedLineWriter exposes the underlying line-folding writer for callers
// that want to tune line length or indent.
func (w *Writer) FoldedLineWriter() *FoldedLineWriter {
	return w.fw
}

// WriteBeginComponent writes "BEGIN:name".
func (w *Writer) WriteBeginComponent(name string) error {
	return w.WriteProperty(Property{Name: "BEGIN", Value: name})
}

// WriteEndComponent writes "END:name".
func (w *Writer) WriteEndComponent(name string) error {
	return w.WriteProperty(Property{Name: "END", Value: name})
}

// WriteVersion writes "VERSION:value".
func (w *Writer) WriteVersion(value string) error {
	return w.WriteProperty(Property{Name: "VERSION", Value: value})
}

// WriteProperty validates and writes p as one logical vobject line. It never
// mutates p.Parameters; if the writer needs to add ENCODING or CHARSET it
// works on an internal copy of the parameters.
func (w *Writer) WriteProperty(p Property) error {
	if err := w.validate(p); err != nil {
		w.opts.log.Trace(mlog.LevelTrace, "rejecting invalid property "+p.Name)
		return err
	}

	params := p.Parameters
	var copied bool
	copyParams := func() {
		if !copied {
			params = params.Copy()
			copied = true
		}
	}

	value := p.Value

	switch w.dialect {
	case Old:
		if strings.ContainsAny(value, "\r\n") && !params.IsQuotedPrintable() {
			copyParams()
			params.Add("ENCODING", "QUOTED-PRINTABLE")
		}
	case New:
		value = escapeNewlines(value)
	}

	useQP := params.IsQuotedPrintable()
	qpCharset := DefaultCharset
	if useQP {
		if cs, ok := params.CharsetName(); ok && cs != "" {
			if _, err := ResolveCharset(cs); err == nil {
				qpCharset = cs
			} else {
				copyParams()
				params.Set("CHARSET", DefaultCharset)
			}
		} else {
			copyParams()
			params.Set("CHARSET", DefaultCharset)
		}
	}

	var b strings.Builder
	if p.Group != "" {
		b.WriteString(p.Group)
		b.WriteByte('.')
	}
	b.WriteString(p.Name)

	for _, key := range params.Keys() {
		vals := params.Get(key)
		if len(vals) == 0 {
			continue
		}
		if w.dialect == Old {
			for _, v := range vals {
				b.WriteByte(';')
				if key != "" {
					b.WriteString(key)
					b.WriteByte('=')
				}
				b.WriteString(sanitizeOldParamValue(v))
			}
			continue
		}
		b.WriteByte(';')
		if key != "" {
			b.WriteString(key)
			b.WriteByte('=')
		}
		for i, v := range vals {
			if i > 0 {
				b.WriteByte(',')
			}
			sv := sanitizeNewParamValue(v, w.CaretEncodingEnabled)
			if shouldQuoteParamValue(sv) {
				b.WriteByte('"')
				b.WriteString(sv)
				b.WriteByte('"')
			} else {
				b.WriteString(sv)
			}
		}
	}
	b.WriteByte(':')

	if err := w.fw.Write(b.String(), false, ""); err != nil {
		return err
	}
	if err := w.fw.Write(value, useQP, qpCharset); err != nil {
		return err
	}
	return w.fw.Writeln()
}

// Flush flushes the underlying writer.
func (w *Writer) Flush() error { return w.fw.Flush() }

// Close closes the underlying writer.
func (w *Writer) Close() error { return w.fw.Close() }

func (w *Writer) validate(p Property) error {
	if p.Group != "" {
		allowed := AllowedGroup(w.dialect, w.strict)
		if !allowed.Check(p.Group) || startsWithSpace(p.Group) {
			return &ValidationError{Field: "group", Value: p.Group, Allowed: allowed}
		}
	}
	if p.Name == "" {
		return &ValidationError{Field: "name", Value: p.Name, Allowed: AllowedPropertyName(w.dialect, w.strict)}
	}
	allowedName := AllowedPropertyName(w.dialect, w.strict)
	if !allowedName.Check(p.Name) || startsWithSpace(p.Name) {
		return &ValidationError{Field: "name", Value: p.Name, Allowed: allowedName}
	}
	for _, key := range p.Parameters.Keys() {
		if key == "" && w.dialect == New {
			return &ValidationError{Field: "parameter name", Value: key, Allowed: AllowedParameterName(w.dialect, w.strict)}
		}
		if key != "" {
			allowedParamName := AllowedParameterName(w.dialect, w.strict)
			if !allowedParamName.Check(key) {
				return &ValidationError{Field: "parameter name", Value: key, Allowed: allowedParamName}
			}
		}
		allowedParamValue := AllowedParameterValue(w.dialect, w.CaretEncodingEnabled, w.strict)
		for _, v := range p.Parameters.Get(key) {
			if !allowedParamValue.Check(v) {
				return &ValidationError{Field: "parameter value", Value: v, Allowed: allowedParamValue}
			}
		}
	}
	return nil
}

func startsWithSpace(s string) bool {
	return s != "" && isSpaceByte(s[0])
}

// sanitizeOldParamValue escapes '\' and ';' for an OLD-dialect parameter
// value, which is always written as its own ";NAME=value" segment.
func sanitizeOldParamValue(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sanitizeNewParamValue optionally applies caret-encoding to a NEW-dialect
// parameter value; the caller then decides separately whether the result
// needs surrounding double quotes.
func sanitizeNewParamValue(s string, caret bool) string {
	if !caret {
		return s
	}
	var b strings.Builder
	prev := rune(0)
	for _, r := range s {
		switch {
		case r == '^':
			b.WriteString("^^")
		case r == '"':
			b.WriteString("^'")
		case r == '\n' && prev == '\r':
			// already emitted for the '\r', collapse the pair into one escape.
		case r == '\r' || r == '\n':
			b.WriteString("^n")
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

func shouldQuoteParamValue(s string) bool {
	return strings.ContainsAny(s, ",:;")
}

// escapeNewlines replaces every CR, LF, or CRLF run in s with a single "\n",
// treating "\r\n" as one unit so it is not double-escaped.
func escapeNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	prev := rune(0)
	for _, c := range s {
		switch {
		case c == '\n' && prev == '\r':
			// second half of a CRLF pair, already escaped.
		case c == '\r' || c == '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(c)
		}
		prev = c
	}
	return b.String()
}
