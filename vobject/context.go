package vobject

// Context accompanies every event delivered to a Listener. It exposes the
// currently open component path, the raw unfolded logical line the event was
// parsed from, and the physical line number the logical line started on.
type Context struct {
	parentComponents []string
	unfoldedLine     string
	lineNumber       int
	stop             bool
}

// ParentComponents returns the names of the components currently open,
// outermost first. The caller must not mutate the returned slice.
func (c *Context) ParentComponents() []string {
	return c.parentComponents
}

// UnfoldedLine returns the logical line (folding already removed) the
// current event was parsed from.
func (c *Context) UnfoldedLine() string {
	return c.unfoldedLine
}

// LineNumber returns the 1-based physical line number the current logical
// line started on.
func (c *Context) LineNumber() int {
	return c.lineNumber
}

// Stop requests that Reader.Parse return after the current event finishes
// being delivered. A later call to Parse resumes from the next character.
func (c *Context) Stop() {
	c.stop = true
}
