// Package lr1err holds the error taxonomy shared by the grammar, table, and
// driver packages. It follows the shape of the teacher's server/serr
// package: a small set of sentinel errors usable with errors.Is, wrapped by
// a typed Error that also carries a human message and, optionally, a cause.
package lr1err

import "errors"

var (
	// ErrGrammarEmpty is the cause of an error returned when a grammar has
	// no productions after parsing its input text.
	ErrGrammarEmpty = errors.New("grammar has no productions")

	// ErrGrammarMalformed is the cause of an error returned when a grammar
	// source line could not be parsed.
	ErrGrammarMalformed = errors.New("grammar source is malformed")

	// ErrBuildConflict names a non-fatal ACTION table conflict. It is never
	// returned as a function error and is not attached to anything:
	// conflicts are reported as table.Conflict values on Table.Conflicts,
	// which carry no error.
	ErrBuildConflict = errors.New("conflicting actions proposed for the same table cell")

	// ErrParseSyntax is the cause of an error returned when ACTION[s, a] is
	// undefined for the current lookahead during driving.
	ErrParseSyntax = errors.New("unexpected token")

	// ErrParseMissingGoto is the cause of an error returned when a
	// reduction's GOTO lookup fails, indicating a corrupted or malformed
	// table.
	ErrParseMissingGoto = errors.New("no GOTO transition for reduction target")

	// ErrParseRuntimeExceeded is the cause of an error returned when the
	// driver's safety-bound step counter is exhausted.
	ErrParseRuntimeExceeded = errors.New("parser exceeded its step safety bound")

	// ErrVisualization marks a non-fatal failure to render an automaton
	// image. It is reported as a warning by the CLI and never propagated as
	// a build or parse error.
	ErrVisualization = errors.New("visualization backend unavailable")
)

// Error is a message paired with the sentinel(s) it was caused by. It
// implements errors.Is-compatible unwrapping so callers can check
// errors.Is(err, lr1err.ErrParseSyntax) without type-asserting.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and causes. If msg is empty
// and there is at least one cause, Error() falls back to the first cause's
// message.
func New(msg string, cause ...error) *Error {
	return &Error{msg: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.msg == "" && len(e.cause) > 0 {
		return e.cause[0].Error()
	}
	if len(e.cause) > 0 {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of e, for use with errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	return e.cause
}
