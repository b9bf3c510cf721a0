package vobject

// Dialect selects which of the two historical vobject syntaxes a Reader or
// Writer follows.
type Dialect int

const (
	// Old is the vCard 2.1 / iCalendar 1.0 syntax: backslash escaping in
	// parameter values, no parameter value quoting, repeated ";NAME=value"
	// segments for multi-valued parameters.
	Old Dialect = iota

	// New is the vCard 3.0+ / iCalendar 2.0 syntax: comma-separated
	// multi-valued parameters, optional double-quoting of parameter values,
	// and an optional caret-encoding escape scheme.
	New
)

func (d Dialect) String() string {
	switch d {
	case Old:
		return "old"
	case New:
		return "new"
	default:
		return "dialect(?)"
	}
}
