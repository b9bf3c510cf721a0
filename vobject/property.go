package vobject

// Property is a single vobject line: an optional group prefix, a name, zero
// or more parameters and a value.
//
// A Reader constructs a fresh Property for each event delivered to a
// Listener; callers that need to retain one across calls must copy it (and
// its Parameters, since Parameters holds its own backing slices).
type Property struct {
	Group      string
	Name       string
	Parameters Parameters
	Value      string
}

// NewProperty returns a Property with the given name and value and no group
// or parameters.
func NewProperty(name, value string) Property {
	return Property{Name: name, Value: value}
}

// Equal reports whether p and o have the same group, name, value and an
// equal parameter set (including parameter order).
func (p Property) Equal(o Property) bool {
	return p.Group == o.Group && p.Name == o.Name && p.Value == o.Value && p.Parameters.Equal(o.Parameters)
}
