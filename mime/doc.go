// Package mime maps content types to codecs.
//
// It keeps two tables: a fixed mapping from short names ("json") to full
// MIME strings ("application/json"), and a process-wide registry from MIME
// string to codec. The registry starts with codecs for JSON, XML,
// form-urlencoded and CSV; callers may register additional or replacement
// codecs at any time:
//
//	mime.Register(mime.YAML, codec.YAML{})
//
// Resolving an unregistered MIME type never fails; it falls back to a
// passthrough codec that hands bodies through untouched.
package mime
