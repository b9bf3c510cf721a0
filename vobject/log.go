package vobject

import "github.com/mjl-/vobject/mlog"

// pkglog is the package-level logger, matching the convention used
// throughout the mail server this package's ambient logging is grounded on:
// each package holds one mlog.Log obtained via mlog.New(pkgname), and
// Reader/Writer constructors accept an optional override via WithLog.
var pkglog = mlog.New("vobject")

// options holds construction-time configuration shared by Reader and
// Writer, set via Option values passed to NewReader/NewWriter.
type options struct {
	log *mlog.Log
}

func newOptions(opts []Option) options {
	o := options{log: pkglog}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Reader or Writer at construction time.
type Option func(*options)

// WithLog attaches log to a Reader or Writer, replacing the package-default
// logger. Useful for embedding request-scoped fields (e.g. a connection or
// message id) into the trace-level per-property logging.
func WithLog(log *mlog.Log) Option {
	return func(o *options) {
		o.log = log
	}
}
