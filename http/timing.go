package http

import "time"

// TimingInfo carries per-phase timings captured by the default transport
// while a single exchange is in flight.
type TimingInfo struct {
	// StartTime is when the request was handed to the transport.
	StartTime time.Time

	// DNSLookupTime is the time spent resolving the host.
	DNSLookupTime time.Duration

	// TCPConnectTime is the time spent establishing the TCP connection.
	TCPConnectTime time.Duration

	// TLSHandshakeTime is the time spent in the TLS handshake, for HTTPS.
	TLSHandshakeTime time.Duration

	// TimeToFirstByte is the time from the end of the last setup phase to
	// the first response byte.
	TimeToFirstByte time.Duration

	// TotalTime is the time from request start until the body was fully
	// read.
	TotalTime time.Duration
}
