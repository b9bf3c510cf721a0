package vobject

import "strings"

// buffer is a reusable character accumulator scoped to a single Reader.
// Unlike a pool shared across goroutines, it is owned by exactly one Reader
// instance and reused across properties within that instance's lifetime, to
// avoid a fresh allocation per property.
type buffer struct {
	b strings.Builder
}

func (b *buffer) appendString(s string) {
	b.b.WriteString(s)
}

func (b *buffer) size() int {
	return b.b.Len()
}

func (b *buffer) get() string {
	return b.b.String()
}

// getAndClear returns the accumulated text and resets the buffer for reuse.
func (b *buffer) getAndClear() string {
	s := b.b.String()
	b.b.Reset()
	return s
}

func (b *buffer) clear() {
	b.b.Reset()
}

// chop removes the last byte, if any. Used to undo a trailing '='
// appended just before a quoted-printable soft line break is discovered.
func (b *buffer) chop() {
	s := b.b.String()
	if len(s) == 0 {
		return
	}
	b.b.Reset()
	b.b.WriteString(s[:len(s)-1])
}
