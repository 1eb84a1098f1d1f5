// Package http is a fluent, content-negotiating HTTP client.
//
// Requests are built declaratively through chained calls, executed over a
// pluggable transport, and parsed back into typed bodies using the codec
// registered for the response's content type.
//
// Basic Usage:
//
//	resp, err := http.Get("https://api.example.com/users").
//	    Expects("json").
//	    WithTimeout(10 * time.Second).
//	    Send(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Status: %d\n", resp.StatusCode)
//	fmt.Printf("Body: %v\n", resp.Body)
//
// Sending a payload:
//
//	resp, err := http.Post("https://api.example.com/users",
//	    map[string]string{"name": "John"}).
//	    Mime("json").
//	    Send(context.Background())
//
// The payload is serialized by the codec for the declared content type;
// string and byte payloads are sent verbatim under the default smart
// serialization policy.
//
// New requests copy their defaults from a process-wide template, which can
// be replaced with SetTemplate and restored with ResetTemplate. A request
// is consumed by Send and cannot be sent twice.
//
// Transport failures are reported as *ConnectionError and routed through
// the request's OnError callback, or the process-wide error sink when no
// callback is set. Malformed responses are reported as *codec.ParseError.
// Library misuse (sending without a URI, mutating parsed headers) is
// reported as *UsageError.
package http
