package http

import (
	"fmt"
	"log"
	"sync"
)

// UsageError reports library misuse: sending without a URI, re-sending a
// consumed request, pointing at client-certificate files that do not exist,
// mutating parsed headers. It is always returned synchronously from the
// misused call.
type UsageError struct {
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string { return e.Message }

func usageErrorf(format string, args ...interface{}) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// ConnectionError reports a transport-level failure: the exchange could not
// be completed and no Response exists. Callers are expected to handle it.
type ConnectionError struct {
	Code    int    // native transport error code, 0 if unknown
	Message string // native transport error message
	URI     string // target of the failed request
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to connect to %q: %d %s", e.URI, e.Code, e.Message)
}

// ErrorHandler receives human-readable failure messages. A request without
// an explicit OnError callback routes messages to the process-wide sink.
type ErrorHandler func(message string)

var (
	sinkMu    sync.RWMutex
	errorSink ErrorHandler = func(message string) { log.Print(message) }
)

// SetErrorSink replaces the process-wide error sink used by requests that
// set no OnError callback. A nil handler restores the default log sink.
func SetErrorSink(h ErrorHandler) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if h == nil {
		h = func(message string) { log.Print(message) }
	}
	errorSink = h
}

func sinkError(message string) {
	sinkMu.RLock()
	h := errorSink
	sinkMu.RUnlock()
	h(message)
}
