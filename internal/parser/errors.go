package parser

import (
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("mkparse.parser")

// Error is a fatal parse error.
type Error struct {
	Loc Loc
	Msg string
}

func (e *Error) Error() string {
	return e.Loc.String() + ": " + e.Msg
}

// ErrorSink receives fatal parse errors. Parsing of the buffer stops
// after Report returns.
type ErrorSink interface {
	Report(loc Loc, msg string)
}

// LogSink reports errors through the package logger.
type LogSink struct{}

// Report logs msg at error level.
func (LogSink) Report(loc Loc, msg string) {
	log.Errorf("%s: %s", loc, msg)
}
