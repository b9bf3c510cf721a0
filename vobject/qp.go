package vobject

import (
	"bytes"
	"fmt"
	"io"
	"mime/quotedprintable"
	"strings"
)

// decodeQuotedPrintable decodes an ASCII quoted-printable string previously
// unfolded and captured verbatim (soft line breaks already stripped by the
// Reader), then transcodes the resulting bytes from charset into text. On a
// codec failure it returns the error and the original ascii string
// unchanged, matching the reference reader's fallback of keeping the raw
// value on QuotedPrintableError. An '=' that is not followed by two hex
// digits is a codec failure; mime/quotedprintable alone would pass it
// through literally.
func decodeQuotedPrintable(ascii, charset string) (string, error) {
	isHex := func(c byte) bool { return strings.IndexByte("0123456789ABCDEFabcdef", c) >= 0 }
	for i := 0; i < len(ascii); i++ {
		if ascii[i] == '=' && (i+2 >= len(ascii) || !isHex(ascii[i+1]) || !isHex(ascii[i+2])) {
			return ascii, fmt.Errorf("vobject: invalid quoted-printable escape at offset %d", i)
		}
	}
	r := quotedprintable.NewReader(bytes.NewReader([]byte(ascii)))
	raw, err := io.ReadAll(r)
	if err != nil {
		return ascii, err
	}
	text, err := decodeBytes(charset, raw)
	if err != nil {
		// Charset resolution failure is reported separately (UnknownCharset);
		// the decoded bytes are still usable as best-effort text.
		return string(raw), err
	}
	return text, nil
}

// encodeQuotedPrintable produces an unwrapped quoted-printable ASCII
// rendering of text in the given charset. Unlike mime/quotedprintable.Writer
// it never inserts soft line breaks: line folding is the Folded-Line
// Emitter's job, and it needs the whole encoded string in one piece so it
// can keep "=XX" triples intact across a fold point.
func encodeQuotedPrintable(text, charset string) (string, error) {
	raw, err := encodeBytes(charset, text)
	if err != nil {
		return "", err
	}
	var b bytes.Buffer
	for _, c := range raw {
		if isQPSafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('=')
		b.WriteByte(upperHexDigit(c >> 4))
		b.WriteByte(upperHexDigit(c & 0xf))
	}
	return b.String(), nil
}

// isQPSafe reports whether c can be written through literally in
// quoted-printable encoding. '=' itself always needs escaping, and so do CR
// and LF: a quoted-printable value's line endings are its own payload bytes
// (e.g. an OLD-dialect NOTE's embedded "\r\n"), and must round-trip as
// "=0D=0A" rather than being read back by the Folded-Line Emitter as a fold
// or a real line break.
func isQPSafe(c byte) bool {
	if c == '=' || c == '\r' || c == '\n' {
		return false
	}
	return c >= 0x20 && c < 0x7f || c == '\t'
}

func upperHexDigit(n byte) byte {
	const digits = "0123456789ABCDEF"
	return digits[n&0xf]
}
