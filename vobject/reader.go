package vobject

import (
	"bufio"
	"errors"
	"io"

	"github.com/mjl-/vobject/mlog"
)

// Listener receives events from Reader.Parse in document order. Embed
// NoopListener to implement only the methods a caller cares about.
type Listener interface {
	// OnComponentBegin is called after a BEGIN property opens name.
	OnComponentBegin(name string, ctx *Context)
	// OnComponentEnd is called after an END property closes name. When an
	// out-of-order END force-closes several nested components, this is
	// called once per closed component, innermost first.
	OnComponentEnd(name string, ctx *Context)
	// OnProperty is called for every property that is not BEGIN, END, or a
	// recognized VERSION.
	OnProperty(p Property, ctx *Context)
	// OnVersion is called when a VERSION property's value matches a rule
	// registered for the current component in the Reader's SyntaxRules.
	OnVersion(value string, ctx *Context)
	// OnWarning is called for every non-fatal anomaly. w.Property is non-nil
	// when the warning concerns a specific property.
	OnWarning(w Warning, ctx *Context)
}

// NoopListener implements Listener with no-op methods; embed it to
// implement only the events a caller needs.
type NoopListener struct{}

func (NoopListener) OnComponentBegin(string, *Context) {}
func (NoopListener) OnComponentEnd(string, *Context)   {}
func (NoopListener) OnProperty(Property, *Context)     {}
func (NoopListener) OnVersion(string, *Context)        {}
func (NoopListener) OnWarning(Warning, *Context)       {}

// Reader tokenizes a vobject character stream into Listener events. It is
// single-threaded and forward-only: each byte of the underlying io.Reader is
// consumed exactly once, in order.
type Reader struct {
	r    *bufio.Reader
	opts options

	rules *SyntaxRules
	stack *componentStack

	// DefaultQuotedPrintableCharset is used to decode a quoted-printable
	// value whose CHARSET parameter is absent, illegal, or unsupported.
	DefaultQuotedPrintableCharset string

	// CaretDecodingEnabled controls whether NEW-dialect parameter values
	// are decoded using the caret-escape scheme (^^, ^n, ^'). Defaults to
	// true, matching the reference reader.
	CaretDecodingEnabled bool

	buf        buffer
	lineNumber int
	leftOver   rune
	haveLeft   bool
	eos        bool
}

// NewReader returns a Reader over r using rules to resolve VERSION-driven
// dialect switches. If rules is nil, NewSyntaxRules(Old) is used (plain OLD
// dialect throughout, no VERSION handling).
func NewReader(r io.Reader, rules *SyntaxRules, opts ...Option) *Reader {
	if rules == nil {
		rules = NewSyntaxRules(Old)
	}
	return &Reader{
		r:                             bufio.NewReader(r),
		opts:                          newOptions(opts),
		rules:                         rules,
		stack:                         newComponentStack(rules.DefaultDialect),
		DefaultQuotedPrintableCharset: DefaultCharset,
		CaretDecodingEnabled:          true,
		lineNumber:                    1,
	}
}

// Parse reads and delivers events to l until the stream ends or l stops
// parsing via Context.Stop. A subsequent call to Parse resumes from the next
// character. It returns a non-nil error only for a genuine I/O failure from
// the underlying reader (io.EOF is not returned; end of stream is signaled
// by Parse returning with no further events available on the next call).
func (r *Reader) Parse(l Listener) error {
	ctx := &Context{}
	for !r.eos && !ctx.stop {
		ctx.stop = false
		ctx.lineNumber = r.lineNumber
		prop, unfolded, warnings, err := r.parseProperty()
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		ctx.unfoldedLine = unfolded
		ctx.parentComponents = r.stack.path()
		if len(unfolded) == 0 {
			return nil
		}
		if prop == nil {
			l.OnWarning(Warning{Kind: MalformedLine}, ctx)
			continue
		}
		for _, w := range warnings {
			l.OnWarning(w, ctx)
		}
		r.opts.log.Trace(mlog.LevelTrace, "parsed property "+prop.Name)
		r.dispatch(*prop, ctx, l)
	}
	return nil
}

func (r *Reader) dispatch(prop Property, ctx *Context, l Listener) {
	name := prop.Name
	switch {
	case equalFoldASCII(name, "BEGIN"):
		compName := trimSpaceGeneral(prop.Value)
		if compName == "" {
			l.OnWarning(Warning{Kind: EmptyBegin, Property: &prop}, ctx)
			return
		}
		r.stack.push(compName)
		ctx.parentComponents = r.stack.path()
		l.OnComponentBegin(compName, ctx)

	case equalFoldASCII(name, "END"):
		compName := trimSpaceGeneral(prop.Value)
		if compName == "" {
			l.OnWarning(Warning{Kind: EmptyEnd, Property: &prop}, ctx)
			return
		}
		count := r.stack.popCount(compName)
		if count == 0 {
			l.OnWarning(Warning{Kind: UnmatchedEnd, Property: &prop}, ctx)
			return
		}
		for i := 0; i < count; i++ {
			closed := r.stack.pop()
			ctx.parentComponents = r.stack.path()
			l.OnComponentEnd(closed, ctx)
		}

	case equalFoldASCII(name, "VERSION"):
		parent, ok := r.stack.peekName()
		component := ""
		if ok {
			component = parent
		}
		if !r.rules.HasRules(component) {
			l.OnProperty(prop, ctx)
			return
		}
		dialect, ok := r.rules.Dialect(component, prop.Value)
		if !ok {
			l.OnWarning(Warning{Kind: UnknownVersion, Property: &prop}, ctx)
			l.OnProperty(prop, ctx)
			return
		}
		r.stack.updateDialect(dialect)
		l.OnVersion(prop.Value, ctx)

	default:
		l.OnProperty(prop, ctx)
	}
}

func equalFoldASCII(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'a' <= ca && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if 'a' <= cb && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func trimSpaceGeneral(s string) string {
	start := 0
	for start < len(s) && isSpaceByte(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpaceByte(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// nextChar returns the next rune from the stream, consuming the look-ahead
// slot first if set. ok is false at end of stream.
func (r *Reader) nextChar() (rune, bool, error) {
	if r.haveLeft {
		r.haveLeft = false
		return r.leftOver, true, nil
	}
	c, _, err := r.r.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return c, true, nil
}

func (r *Reader) pushBack(c rune) {
	r.leftOver = c
	r.haveLeft = true
}

func isNewlineRune(c rune) bool {
	return c == '\r' || c == '\n'
}

func isFoldWhitespace(c rune) bool {
	return c == ' ' || c == '\t'
}

// parseProperty runs the character-level state machine for one logical
// line, returning the parsed Property (nil if no ':' was ever seen) and the
// raw unfolded text of the line for diagnostics. It implements, in the same
// priority order, the thirteen transitions of the reference tokenizer: CRLF
// collapse, line-break detection (with quoted-printable soft-break
// trimming), post-newline fold-vs-terminate dispatch, OLD multi-whitespace
// fold consumption, in-value verbatim accumulation, parameter-value escape
// resolution and initiation, group-boundary detection, ';'/':' delimiters,
// NEW multi-valued-parameter commas, '='-terminated parameter names, NEW
// quoted-value toggling, and default accumulation. The returned warnings, if
// any, concern the quoted-printable decode of the returned property and must
// be delivered to the Listener before the property itself.
func (r *Reader) parseProperty() (*Property, string, []Warning, error) {
	r.buf.clear()
	var unfolded buffer

	var prop Property
	haveName := false
	var curParamName string
	haveParamName := false
	inValue := false
	inQuotes := false
	foldedQP := false
	pendingEscape := false // parameter-value escape character seen, awaiting resolution
	var prevChar rune
	haveGroup := false

	dialect := r.stack.dialect()

	for {
		c, ok, err := r.nextChar()
		if err != nil {
			return nil, unfolded.get(), nil, err
		}
		if !ok {
			r.eos = true
			break
		}

		// 1. CRLF collapse.
		if prevChar == '\r' && c == '\n' {
			prevChar = c
			continue
		}

		// 2. Line break.
		if isNewlineRune(c) {
			if inValue && r.buf.size() > 0 && lastByte(r.buf.get()) == '=' && prop.Parameters.IsQuotedPrintable() {
				r.buf.chop()
				unfolded.chop()
				foldedQP = true
			}
			r.lineNumber++
			prevChar = c
			continue
		}

		// 3. Post-newline dispatch.
		if isNewlineRune(prevChar) {
			if isFoldWhitespace(c) {
				if dialect == Old {
					// 4. OLD: consume the whole run of fold whitespace.
					if err := r.consumeFoldWhitespaceRun(); err != nil {
						return nil, unfolded.get(), nil, err
					}
				}
				foldedQP = false
				prevChar = c
				continue
			}
			if foldedQP {
				foldedQP = false
				// fall through: c is the continuation payload, no whitespace prefix.
			} else {
				r.pushBack(c)
				break
			}
		}

		unfolded.appendString(string(c))

		// 5. In-value verbatim accumulation.
		if inValue {
			r.buf.appendString(string(c))
			prevChar = c
			continue
		}

		// 6. Escape-pending resolution.
		if pendingEscape {
			pendingEscape = false
			if dialect == Old {
				switch c {
				case '\\':
					r.buf.appendString("\\")
				case ';':
					r.buf.appendString(";")
				default:
					r.buf.appendString("\\" + string(c))
				}
			} else {
				switch c {
				case '^':
					r.buf.appendString("^")
				case 'n':
					r.buf.appendString("\n")
				case '\'':
					r.buf.appendString("\"")
				default:
					r.buf.appendString("^" + string(c))
				}
			}
			prevChar = c
			continue
		}

		// 7. Escape-initiation.
		if inParamValue(haveParamName) {
			if dialect == Old && c == '\\' {
				pendingEscape = true
				prevChar = c
				continue
			}
			if dialect == New && c == '^' && r.CaretDecodingEnabled {
				pendingEscape = true
				prevChar = c
				continue
			}
		}

		// 8. Group boundary.
		if c == '.' && !haveGroup && !haveName {
			prop.Group = r.buf.getAndClear()
			haveGroup = true
			prevChar = c
			continue
		}

		// 9. Delimiters ';' and ':' (not while NEW-quoted).
		if (c == ';' || c == ':') && !inQuotes {
			if !haveName {
				prop.Name = r.buf.getAndClear()
				haveName = true
			} else {
				val := r.buf.getAndClear()
				if dialect == Old {
					val = trimLeftSpace(val)
				}
				prop.Parameters.Add(curParamName, val)
				curParamName = ""
				haveParamName = false
			}
			if c == ':' {
				inValue = true
			}
			prevChar = c
			continue
		}

		// 10. NEW multi-valued-parameter comma.
		if c == ',' && dialect == New && haveParamName && !inQuotes {
			val := r.buf.getAndClear()
			prop.Parameters.Add(curParamName, val)
			prevChar = c
			continue
		}

		// 11. Parameter-name '='.
		if c == '=' && haveName && !haveParamName {
			name := r.buf.getAndClear()
			if dialect == Old {
				name = trimRightSpace(name)
			}
			curParamName = toUpperASCII(name)
			haveParamName = true
			prevChar = c
			continue
		}

		// 12. NEW quote toggle.
		if c == '"' && dialect == New && haveParamName {
			inQuotes = !inQuotes
			prevChar = c
			continue
		}

		// 13. Default accumulation.
		r.buf.appendString(string(c))
		prevChar = c
	}

	if !inValue {
		return nil, unfolded.get(), nil, nil
	}

	prop.Value = r.buf.getAndClear()

	var warnings []Warning
	if prop.Parameters.IsQuotedPrintable() {
		charset, hasCharset := prop.Parameters.CharsetName()
		useCharset := charset
		if hasCharset && charset != "" {
			if _, err := ResolveCharset(charset); err != nil {
				warnings = append(warnings, Warning{Kind: UnknownCharset, Property: &prop, Cause: err})
				useCharset = r.DefaultQuotedPrintableCharset
			}
		} else {
			useCharset = r.DefaultQuotedPrintableCharset
		}
		decoded, err := decodeQuotedPrintable(prop.Value, useCharset)
		if err != nil {
			warnings = append(warnings, Warning{Kind: QuotedPrintableError, Property: &prop, Cause: err})
			// value is left as-is: decodeQuotedPrintable returns the raw,
			// undecoded text on failure.
		} else {
			prop.Value = decoded
		}
	}

	return &prop, unfolded.get(), warnings, nil
}

// consumeFoldWhitespaceRun absorbs the remainder of an OLD-dialect fold's
// leading whitespace run, which may be more than one character wide, pushing
// back the first non-whitespace character it finds. The consumed whitespace
// is fold indentation, not part of the logical line, so it is not appended
// to the unfolded-line buffer.
func (r *Reader) consumeFoldWhitespaceRun() error {
	for {
		c, ok, err := r.nextChar()
		if err != nil {
			return err
		}
		if !ok {
			r.eos = true
			return nil
		}
		if !isFoldWhitespace(c) {
			r.pushBack(c)
			return nil
		}
	}
}

func lastByte(s string) byte {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

func trimLeftSpace(s string) string {
	i := 0
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	return s[i:]
}

func trimRightSpace(s string) string {
	i := len(s)
	for i > 0 && isSpaceByte(s[i-1]) {
		i--
	}
	return s[:i]
}

// inParamValue reports whether the state machine is currently accumulating a
// named parameter's value, the only position where a '\' (OLD) or '^' (NEW)
// starts an escape sequence. A parameter name being built (no '=' seen yet)
// and a legacy nameless parameter value both pass their characters through
// unescaped, matching the reference reader.
func inParamValue(haveParamName bool) bool {
	return haveParamName
}

