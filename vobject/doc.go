// Package vobject reads and writes vCard/iCalendar-family text records.
//
// It implements the shared "vobject" line syntax used by both formats: nested
// BEGIN/END components, group.name;param=value:value properties, line
// folding, quoted-printable value encoding, and the two historical dialects
// (OLD, vCard 2.1 / iCalendar 1.0, and NEW, vCard 3.0+ / iCalendar 2.0).
//
// The package does not interpret property semantics. It has no notion of
// which property names or value types a VCARD or VCALENDAR component
// requires; callers build that on top of the Reader/Writer event stream.
//
// A Reader and a Writer are each single-threaded and forward-only: reading
// consumes an io.Reader once, front to back, and writing appends to an
// io.Writer once. Neither type is safe for concurrent use.
package vobject
