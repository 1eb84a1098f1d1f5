package mime

// Full MIME strings for the content types the library knows by short name.
const (
	JSON   = "application/json"
	XML    = "application/xml"
	XHTML  = "application/html+xml"
	Form   = "application/x-www-form-urlencoded"
	Upload = "multipart/form-data"
	Plain  = "text/plain"
	JS     = "text/javascript"
	HTML   = "text/html"
	YAML   = "application/x-yaml"
	CSV    = "text/csv"
)

// shortNames maps the convenience short names accepted anywhere a MIME type
// is expected.
var shortNames = map[string]string{
	"json":   JSON,
	"xml":    XML,
	"xhtml":  XHTML,
	"form":   Form,
	"upload": Upload,
	"plain":  Plain,
	"js":     JS,
	"html":   HTML,
	"yaml":   YAML,
	"csv":    CSV,
}

// ShortToFull expands a short content-type name to its full MIME string.
// Unrecognized input passes through unchanged, so raw MIME strings are
// accepted anywhere a short name is.
func ShortToFull(name string) string {
	if full, ok := shortNames[name]; ok {
		return full
	}
	return name
}
