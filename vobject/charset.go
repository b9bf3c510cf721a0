package vobject

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultCharset is used to decode/encode quoted-printable values whose
// CHARSET parameter is absent or names a charset ResolveCharset cannot
// resolve. Written out in its canonical upper-case IANA form.
const DefaultCharset = "UTF-8"

// ResolveCharset resolves an IANA/MIME charset name to an encoding.Encoding,
// the way moxio.DecodeReader resolves the charset of a decoded message part:
// try the MIME name index first, then the IANA index, and treat "", ASCII
// and UTF-8 as needing no transcoding at all (nil, nil).
func ResolveCharset(name string) (encoding.Encoding, error) {
	switch strings.ToLower(name) {
	case "", "us-ascii", "ascii", "utf-8":
		return nil, nil
	}
	if enc, err := ianaindex.MIME.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("vobject: unsupported charset %q", name)
}

// decodeBytes decodes raw bytes (already quoted-printable-decoded into an
// octet sequence) from charset into UTF-8 text. An empty charset means the
// bytes are already UTF-8; an unresolvable one returns the bytes unchanged as
// a string together with the resolution error.
func decodeBytes(charset string, raw []byte) (string, error) {
	enc, err := ResolveCharset(charset)
	if err != nil {
		return string(raw), err
	}
	if enc == nil {
		return string(raw), nil
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw), err
	}
	return string(out), nil
}

// encodeBytes encodes UTF-8 text into charset's byte representation, prior
// to quoted-printable byte escaping. An empty charset is treated as UTF-8;
// an unresolvable one is an error.
func encodeBytes(charset string, text string) ([]byte, error) {
	enc, err := ResolveCharset(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(text), nil
	}
	return enc.NewEncoder().Bytes([]byte(text))
}
