package http

import (
	"net/url"
	"sync"
)

// The default template is process-wide state: every new request copies its
// configuration before caller configuration is applied, so replacing the
// template only affects requests created afterwards.
var (
	templateMu sync.Mutex
	template   = libraryDefaults()
)

// libraryDefaults is the template the library ships with: GET, smart
// payload serialization, automatic response parsing, TLS verification on.
// Peer verification defaults to enabled; InsecureSkipVerify is the
// explicit opt-out.
func libraryDefaults() *Request {
	return &Request{
		method:          "GET",
		queryParams:     url.Values{},
		headers:         map[string]string{},
		options:         map[string]interface{}{},
		serializers:     map[string]SerializeFunc{},
		serializeMode:   SmartSerialize,
		autoParse:       true,
		verifyTLS:       true,
		followRedirects: false,
		maxRedirects:    25,
	}
}

// SetTemplate replaces the default template with a snapshot of r. Later
// mutation of r does not leak into the stored template.
func SetTemplate(r *Request) {
	snapshot := r.clone()
	templateMu.Lock()
	template = snapshot
	templateMu.Unlock()
}

// ResetTemplate restores the library-default template.
func ResetTemplate() {
	templateMu.Lock()
	template = libraryDefaults()
	templateMu.Unlock()
}

// fromTemplate copies the current template into a fresh request.
func fromTemplate() *Request {
	templateMu.Lock()
	defer templateMu.Unlock()
	return template.clone()
}
