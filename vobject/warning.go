package vobject

// WarningKind identifies a non-fatal anomaly the Reader encountered while
// tokenizing a property. Warnings never abort parsing; the Reader either
// discards the offending property or falls back to a best-effort
// interpretation, per the rule documented on each constant.
type WarningKind int

const (
	// MalformedLine means no ':' was found before the property line ended;
	// the property is discarded.
	MalformedLine WarningKind = iota
	// EmptyBegin means a BEGIN property had no component name; it is ignored.
	EmptyBegin
	// EmptyEnd means an END property had no component name; it is ignored.
	EmptyEnd
	// UnmatchedEnd means an END property did not match any open component.
	UnmatchedEnd
	// UnknownVersion means a VERSION value was not found in the syntax rules
	// for the current component; it is treated as an ordinary property.
	UnknownVersion
	// UnknownCharset means a CHARSET parameter named an illegal or
	// unsupported charset; the default quoted-printable charset is used.
	UnknownCharset
	// QuotedPrintableError means the quoted-printable decoder rejected the
	// value; the raw, undecoded value is kept.
	QuotedPrintableError
)

var warningMessages = [...]string{
	MalformedLine:         "skipping malformed line (no colon character found)",
	EmptyBegin:            "ignoring BEGIN property that does not have a component name",
	EmptyEnd:              "ignoring END property that does not have a component name",
	UnmatchedEnd:          "ignoring END property that does not match up with any BEGIN properties",
	UnknownVersion:        "unknown version number found, treating it as a regular property",
	UnknownCharset:        "property's character encoding is not supported, decoding with the default quoted-printable charset",
	QuotedPrintableError:  "unable to decode the property's quoted-printable value, value will be treated as plain text",
}

func (k WarningKind) String() string {
	if int(k) < 0 || int(k) >= len(warningMessages) {
		return "unknown warning"
	}
	return warningMessages[k]
}

// Warning is delivered to a Listener when the Reader encounters a non-fatal
// anomaly. Property is set when the warning is associated with a specific
// (possibly incomplete) property; Cause is set when an underlying error
// (e.g. a quoted-printable decode failure) triggered the warning.
type Warning struct {
	Kind     WarningKind
	Property *Property
	Cause    error
}

func (w Warning) Error() string {
	if w.Cause != nil {
		return w.Kind.String() + ": " + w.Cause.Error()
	}
	return w.Kind.String()
}
