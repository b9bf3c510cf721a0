package vobject

import (
	"errors"
	"io"
)

// DefaultLineLength is the default fold column used by a new
// FoldedLineWriter, matching the de facto vobject convention of 75
// characters per physical line before the CRLF.
const DefaultLineLength = 75

// FoldedLineWriter writes text to an underlying io.Writer, inserting a CRLF
// plus an indent whenever the current line would otherwise exceed a
// configured column limit. It understands three things a plain line
// wrapper does not: a value already encoded as quoted-printable must never
// be folded in the middle of an "=XX" triple, a fold must never land on
// trailing whitespace (some OLD-dialect parsers eat it as part of the fold
// indent), and literal embedded newlines in the input reset the column
// count rather than being counted against the limit.
type FoldedLineWriter struct {
	w             io.Writer
	lineLength    *int // nil disables folding
	indent        string
	curLineLength int
}

// NewFoldedLineWriter returns a FoldedLineWriter with the default line
// length and a single-space indent.
func NewFoldedLineWriter(w io.Writer) *FoldedLineWriter {
	ll := DefaultLineLength
	return &FoldedLineWriter{w: w, lineLength: &ll, indent: " "}
}

// SetLineLength sets the fold column. It must be greater than the indent
// length.
func (f *FoldedLineWriter) SetLineLength(n int) error {
	if n <= 0 {
		return errors.New("vobject: line length must be positive")
	}
	if n <= len([]rune(f.indent)) {
		return errors.New("vobject: line length must be greater than indent length")
	}
	f.lineLength = &n
	return nil
}

// DisableFolding turns off line folding entirely; text is written through
// unmodified except for embedded-newline column resets.
func (f *FoldedLineWriter) DisableFolding() {
	f.lineLength = nil
}

// SetIndent sets the whitespace written at the start of each continuation
// line. It must be non-empty and consist only of SPACE and TAB.
func (f *FoldedLineWriter) SetIndent(indent string) error {
	if indent == "" {
		return errors.New("vobject: indent must not be empty")
	}
	for _, r := range indent {
		if r != ' ' && r != '\t' {
			return errors.New("vobject: indent must consist only of space and tab")
		}
	}
	if f.lineLength != nil && *f.lineLength <= len([]rune(indent)) {
		return errors.New("vobject: line length must be greater than indent length")
	}
	f.indent = indent
	return nil
}

// Writeln writes a bare CRLF and resets the column counter.
func (f *FoldedLineWriter) Writeln() error {
	if err := f.writeRaw("\r\n"); err != nil {
		return err
	}
	f.curLineLength = 0
	return nil
}

// Write folds and writes text. When quotedPrintable is set, text is first
// encoded (using charset, defaulting to DefaultCharset) into an unwrapped
// quoted-printable ASCII string, and each fold ends the line with a "="
// soft break before the CRLF and starts the next line without an indent.
func (f *FoldedLineWriter) Write(text string, quotedPrintable bool, charset string) error {
	if quotedPrintable {
		enc, err := encodeQuotedPrintable(text, charset)
		if err != nil {
			return err
		}
		return f.writeChars([]rune(enc), true)
	}
	return f.writeChars([]rune(text), false)
}

func (f *FoldedLineWriter) writeChars(cbuf []rune, qp bool) error {
	if f.lineLength == nil {
		return f.writeRunesTrackingNewlines(cbuf)
	}

	effective := *f.lineLength
	if qp {
		effective--
	}
	indentLen := len([]rune(f.indent))

	n := len(cbuf)
	start := 0
	i := 0
	for i < n {
		c := cbuf[i]
		if c == '\r' || c == '\n' {
			j := i + 1
			if c == '\r' && j < n && cbuf[j] == '\n' {
				j++
			}
			if err := f.writeRaw(string(cbuf[start:j])); err != nil {
				return err
			}
			f.curLineLength = 0
			start, i = j, j
			continue
		}
		i++
		f.curLineLength++
		if f.curLineLength < effective {
			continue
		}
		breakAt := i
		if qp {
			breakAt = extendPastQPTriple(cbuf, breakAt)
		}
		for breakAt < n && (cbuf[breakAt] == ' ' || cbuf[breakAt] == '\t') {
			breakAt++
		}
		if breakAt > n {
			breakAt = n
		}
		seg := string(cbuf[start:breakAt])
		if qp {
			seg += "="
		}
		if err := f.writeRaw(seg); err != nil {
			return err
		}
		if qp {
			// A quoted-printable soft break is not followed by an indent.
			if err := f.writeRaw("\r\n"); err != nil {
				return err
			}
			f.curLineLength = 0
		} else {
			if err := f.writeRaw("\r\n" + f.indent); err != nil {
				return err
			}
			f.curLineLength = indentLen
		}
		start, i = breakAt, breakAt
	}
	if start < n {
		return f.writeRaw(string(cbuf[start:]))
	}
	return nil
}

// extendPastQPTriple pushes breakAt past an in-progress "=XX" triple so a
// fold never splits it: if the character just before breakAt starts a
// triple, or is its first hex digit, breakAt is pushed to the triple's end.
func extendPastQPTriple(cbuf []rune, breakAt int) int {
	n := len(cbuf)
	switch {
	case breakAt >= 1 && cbuf[breakAt-1] == '=':
		breakAt += 2
	case breakAt >= 2 && cbuf[breakAt-2] == '=':
		breakAt++
	}
	if breakAt > n {
		breakAt = n
	}
	return breakAt
}

func (f *FoldedLineWriter) writeRunesTrackingNewlines(cbuf []rune) error {
	for _, c := range cbuf {
		if c == '\r' || c == '\n' {
			f.curLineLength = 0
		} else {
			f.curLineLength++
		}
	}
	return f.writeRaw(string(cbuf))
}

func (f *FoldedLineWriter) writeRaw(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

// Flush flushes the underlying writer, if it supports flushing.
func (f *FoldedLineWriter) Flush() error {
	if fl, ok := f.w.(interface{ Flush() error }); ok {
		return fl.Flush()
	}
	return nil
}

// Close closes the underlying writer, if it supports closing.
func (f *FoldedLineWriter) Close() error {
	if c, ok := f.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
