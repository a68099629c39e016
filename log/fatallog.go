package log

import (
	"fmt"

	"go.uber.org/zap"
)

// Sentinel startup failures for cmd/txreconciled. Each wraps the underlying
// cause so main can log a single structured error and exit non-zero.
var (
	ErrMalformedConfig = newFatalErrorWithReason("ERR_MALFORMED_CONFIG", "config file is malformed")
	ErrBadFlags        = newFatalErrorWithArgs("ERR_BAD_FLAGS", "bad CLI flags: %v")
	ErrStartMetrics    = newFatalErrorWithReason("ERR_START_METRICS", "could not start metrics server")
	ErrDialPeer        = newFatalErrorWithArgs("ERR_DIAL_PEER", "could not dial peer %v: %v")
)

// FatalError is a startup-time error carrying a stable code, for callers
// that want to branch on failure class rather than string-match.
type FatalError struct {
	Code   string
	Text   string
	Args   []interface{}
	Reason error
}

func newFatalErrorWithArgs(code, text string) func(args ...interface{}) *FatalError {
	return func(args ...interface{}) *FatalError {
		return &FatalError{Code: code, Text: text, Args: args}
	}
}

func newFatalErrorWithReason(code, text string) func(reason error) *FatalError {
	return func(reason error) *FatalError {
		return &FatalError{Code: code, Text: text, Reason: reason}
	}
}

func (fe FatalError) Error() string {
	if fe.Reason != nil {
		return fmt.Sprintf("%v: %v", fe.Text, fe.Reason)
	}
	if len(fe.Args) != 0 {
		return fmt.Sprintf(fe.Text, fe.Args...)
	}
	return fe.Text
}

// Field renders the error as a log field, for FieldLogger.Error(msg, err.Field()).
func (fe FatalError) Field() Field {
	return Field(zap.NamedError(fe.Code, fe))
}
