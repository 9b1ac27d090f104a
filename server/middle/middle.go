// Package middle contains HTTP middleware for the lr1trace server.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/corvidlabs/lr1trace/server/result"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware takes a handler and returns a new handler wrapping it with
// additional functionality.
type Middleware func(next http.Handler) http.Handler

// requestIDKey is the context key a RequestID middleware populates.
type requestIDKey int

const RequestIDKey requestIDKey = 0

// RequestID attaches a fresh UUID to each request's context so a client can
// correlate a submitted grammar/input with the response it got back, and so
// log lines for a single request can be tied together.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.New()
			w.Header().Set("X-Request-Id", id.String())
			ctx := context.WithValue(r.Context(), RequestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IDFromContext returns the request ID attached by RequestID, or the zero
// UUID if none is present.
func IDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(RequestIDKey).(uuid.UUID)
	return id
}

// DontPanic returns a Middleware that recovers from a panic in next and
// converts it into an HTTP-500 response instead of crashing the server.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		return true
	}
	return false
}
