package http

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/wesleyorama2/lasso/codec"
	"github.com/wesleyorama2/lasso/mime"
)

// Version is reported in the synthesized User-Agent header.
const Version = "0.1.0"

// SerializeMode controls whether an outgoing payload is run through the
// content type's codec.
type SerializeMode int

const (
	// SmartSerialize runs the payload through the codec unless it is
	// already a scalar (string, bytes, number, bool). The default.
	SmartSerialize SerializeMode = iota
	// NeverSerialize sends the payload as-is.
	NeverSerialize
	// AlwaysSerialize always runs the payload through the codec.
	AlwaysSerialize
)

// SerializeFunc overrides the codec for one content type on one request.
type SerializeFunc func(value interface{}) ([]byte, error)

// ParseFunc replaces the whole registry-driven parse for one request.
type ParseFunc func(body []byte) (interface{}, error)

// Request accumulates configuration through chained calls and is consumed
// exactly once by Send.
type Request struct {
	method      string
	uri         string
	queryParams url.Values
	headers     map[string]string
	headerOrder []string

	contentType  string
	expectedType string

	payload       interface{}
	serializeMode SerializeMode
	serializers   map[string]SerializeFunc

	authScheme AuthScheme
	username   string
	password   string

	certPath       string
	certKeyPath    string
	certPassphrase string
	certEncoding   string

	verifyTLS       bool
	followRedirects bool
	maxRedirects    int
	timeout         time.Duration
	proxy           *ProxyConfig
	options         map[string]interface{}

	autoParse   bool
	beforeSend  func(*Request)
	onError     ErrorHandler
	customParse ParseFunc

	transport Transport

	// internal, never copied from the template
	sent       bool
	rawRequest string
}

// NewRequest creates a request for an arbitrary method, seeded from the
// default template.
func NewRequest(method, uri string) *Request {
	r := fromTemplate()
	r.method = method
	r.uri = uri
	return r
}

// Get creates a GET request.
func Get(uri string) *Request { return NewRequest("GET", uri) }

// Head creates a HEAD request.
func Head(uri string) *Request { return NewRequest("HEAD", uri) }

// Options creates an OPTIONS request.
func Options(uri string) *Request { return NewRequest("OPTIONS", uri) }

// Trace creates a TRACE request.
func Trace(uri string) *Request { return NewRequest("TRACE", uri) }

// Delete creates a DELETE request.
func Delete(uri string) *Request { return NewRequest("DELETE", uri) }

// Post creates a POST request carrying payload.
func Post(uri string, payload interface{}) *Request {
	return NewRequest("POST", uri).WithBody(payload)
}

// Put creates a PUT request carrying payload.
func Put(uri string, payload interface{}) *Request {
	return NewRequest("PUT", uri).WithBody(payload)
}

// Patch creates a PATCH request carrying payload.
func Patch(uri string, payload interface{}) *Request {
	return NewRequest("PATCH", uri).WithBody(payload)
}

// WithURI replaces the target URI.
func (r *Request) WithURI(uri string) *Request {
	r.uri = uri
	return r
}

// WithHeader sets a header. Keys keep the spelling the caller used; setting
// the same key again overwrites the value but keeps its original position.
func (r *Request) WithHeader(name, value string) *Request {
	if _, ok := r.headers[name]; !ok {
		r.headerOrder = append(r.headerOrder, name)
	}
	r.headers[name] = value
	return r
}

// WithHeaders sets several headers at once.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	for name, value := range headers {
		r.WithHeader(name, value)
	}
	return r
}

// WithQueryParam adds a query parameter to the request URI.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.queryParams.Add(key, value)
	return r
}

// WithQueryParams adds multiple query parameters to the request URI.
func (r *Request) WithQueryParams(params map[string]string) *Request {
	for key, value := range params {
		r.queryParams.Add(key, value)
	}
	return r
}

// Sends declares the content type of the outgoing payload. Short names
// ("json") are accepted anywhere a MIME type is.
func (r *Request) Sends(mimeType string) *Request {
	r.contentType = mime.ShortToFull(mimeType)
	return r
}

// Expects declares the content type the response should be parsed as.
func (r *Request) Expects(mimeType string) *Request {
	r.expectedType = mime.ShortToFull(mimeType)
	return r
}

// Mime sets both the outgoing content type and the expected response type.
func (r *Request) Mime(mimeType string) *Request {
	return r.Sends(mimeType).Expects(mimeType)
}

// WithBody sets the request payload.
func (r *Request) WithBody(payload interface{}) *Request {
	r.payload = payload
	return r
}

// WithSerializeMode sets the payload serialization policy.
func (r *Request) WithSerializeMode(mode SerializeMode) *Request {
	r.serializeMode = mode
	return r
}

// RegisterSerializer overrides the codec used to serialize the payload for
// one content type on this request only. The wildcard "*" applies to every
// content type without its own override.
func (r *Request) RegisterSerializer(mimeType string, fn SerializeFunc) *Request {
	r.serializers[mime.ShortToFull(mimeType)] = fn
	return r
}

// BasicAuth attaches basic credentials.
func (r *Request) BasicAuth(username, password string) *Request {
	r.authScheme = AuthBasic
	r.username = username
	r.password = password
	return r
}

// DigestAuth attaches digest credentials. The default transport does not
// implement the digest handshake and refuses to send such a request;
// supply a Transport that does.
func (r *Request) DigestAuth(username, password string) *Request {
	r.authScheme = AuthDigest
	r.username = username
	r.password = password
	return r
}

// NTLMAuth attaches NTLM credentials. The default transport does not
// implement the NTLM handshake and refuses to send such a request; supply
// a Transport that does.
func (r *Request) NTLMAuth(username, password string) *Request {
	r.authScheme = AuthNTLM
	r.username = username
	r.password = password
	return r
}

// WithClientCert attaches a PEM client certificate and key. Both files
// must exist when the request is sent.
func (r *Request) WithClientCert(certPath, keyPath string) *Request {
	return r.WithClientCertPassphrase(certPath, keyPath, "", "PEM")
}

// WithClientCertPassphrase attaches a client certificate whose key needs a
// passphrase, in the given encoding ("PEM" or "DER").
func (r *Request) WithClientCertPassphrase(certPath, keyPath, passphrase, encoding string) *Request {
	r.certPath = certPath
	r.certKeyPath = keyPath
	r.certPassphrase = passphrase
	r.certEncoding = encoding
	return r
}

// InsecureSkipVerify disables TLS peer and host verification. Verification
// is on by default.
func (r *Request) InsecureSkipVerify(skip bool) *Request {
	r.verifyTLS = !skip
	return r
}

// FollowRedirects enables redirect following, up to the configured maximum
// hop count.
func (r *Request) FollowRedirects(follow bool) *Request {
	r.followRedirects = follow
	return r
}

// WithMaxRedirects caps the redirect hop count.
func (r *Request) WithMaxRedirects(max int) *Request {
	r.maxRedirects = max
	return r
}

// WithTimeout bounds the whole exchange. The timeout is advisory to the
// transport; there is no cancellation primitive in the core.
func (r *Request) WithTimeout(timeout time.Duration) *Request {
	r.timeout = timeout
	return r
}

// UseProxy routes the exchange through an HTTP proxy.
func (r *Request) UseProxy(host string, port int) *Request {
	r.proxy = &ProxyConfig{Host: host, Port: port}
	return r
}

// WithProxy routes the exchange through the given proxy configuration.
func (r *Request) WithProxy(proxy *ProxyConfig) *Request {
	r.proxy = proxy
	return r
}

// WithTransportOption sets a raw transport option. Options are applied
// after everything else and can shadow any derived setting; see
// DefaultTransport for recognized keys.
func (r *Request) WithTransportOption(key string, value interface{}) *Request {
	r.options[key] = value
	return r
}

// BeforeSend registers a callback invoked with the fully configured request
// just before transport execution, allowing last-moment mutation.
func (r *Request) BeforeSend(fn func(*Request)) *Request {
	r.beforeSend = fn
	return r
}

// OnError registers a callback for transport failure messages. Without
// one, messages go to the process-wide error sink.
func (r *Request) OnError(h ErrorHandler) *Request {
	r.onError = h
	return r
}

// ParseWith bypasses the MIME registry: fn becomes the sole parser for the
// response body.
func (r *Request) ParseWith(fn ParseFunc) *Request {
	r.customParse = fn
	return r
}

// AutoParse toggles response body parsing. When off, the response body is
// returned raw.
func (r *Request) AutoParse(enabled bool) *Request {
	r.autoParse = enabled
	return r
}

// WithTransport replaces the transport executing this request. Defaults to
// DefaultTransport.
func (r *Request) WithTransport(t Transport) *Request {
	r.transport = t
	return r
}

// Method returns the configured HTTP method.
func (r *Request) Method() string { return r.method }

// URI returns the configured target URI.
func (r *Request) URI() string { return r.uri }

// ContentType returns the outgoing payload's content type.
func (r *Request) ContentType() string { return r.contentType }

// ExpectedType returns the content type the response will be parsed as.
func (r *Request) ExpectedType() string { return r.expectedType }

// Header returns the caller-set header value for name, exact-case.
func (r *Request) Header(name string) string { return r.headers[name] }

// RawRequest returns the request line and header block recorded at send
// time, in the shape the wire carried. Empty before Send.
func (r *Request) RawRequest() string { return r.rawRequest }

// Send finalizes the request and executes it. A request is consumed by
// Send: a second call fails with a usage error. Transport failures are
// routed through the error callback (or the process sink) and returned as
// a *ConnectionError; malformed responses return a *codec.ParseError.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	if r.sent {
		return nil, usageErrorf("request already sent: a request can only be sent once")
	}
	if r.uri == "" {
		return nil, usageErrorf("attempting to send a request before defining a URI")
	}

	body, err := r.serializePayload()
	if err != nil {
		return nil, err
	}

	if r.beforeSend != nil {
		r.beforeSend(r)
	}

	if r.certPath != "" {
		if _, err := os.Stat(r.certPath); err != nil {
			return nil, usageErrorf("could not read client certificate file %q", r.certPath)
		}
		if _, err := os.Stat(r.certKeyPath); err != nil {
			return nil, usageErrorf("could not read client certificate key file %q", r.certKeyPath)
		}
	}

	descriptor := r.finalize(body)
	r.rawRequest = renderRawRequest(descriptor)
	r.sent = true

	transport := r.transport
	if transport == nil {
		transport = DefaultTransport
	}
	result, err := transport.Execute(ctx, descriptor)
	if err != nil {
		connErr, ok := err.(*ConnectionError)
		if !ok {
			connErr = &ConnectionError{Message: err.Error(), URI: r.uri}
		}
		message := fmt.Sprintf("the server could not be reached: %v", connErr)
		if r.onError != nil {
			r.onError(message)
		} else {
			sinkError(message)
		}
		return nil, connErr
	}

	return NewResponse(result, r)
}

// serializePayload applies the serialization policy to the configured
// payload: NEVER short-circuits to the raw payload, SMART short-circuits
// for scalars, everything else consults the per-request serializer
// overrides (exact content type wins over "*") and finally the registry's
// codec for the content type.
func (r *Request) serializePayload() ([]byte, error) {
	if r.payload == nil {
		return nil, nil
	}
	switch r.serializeMode {
	case NeverSerialize:
		return codec.Passthrough{}.Serialize(r.payload)
	case SmartSerialize:
		if isScalar(r.payload) {
			return codec.Passthrough{}.Serialize(r.payload)
		}
	}
	if fn, ok := r.serializers[r.contentType]; ok {
		return fn(r.payload)
	}
	if fn, ok := r.serializers["*"]; ok {
		return fn(r.payload)
	}
	return mime.Resolve(r.contentType).Serialize(r.payload)
}

// isScalar reports whether the payload is a primitive or string-like value
// that SMART mode sends verbatim.
func isScalar(payload interface{}) bool {
	switch payload.(type) {
	case string, []byte:
		return true
	}
	switch reflect.ValueOf(payload).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// finalize assembles the transport descriptor: transport headers first in
// fixed precedence, caller headers rendered last so explicit values are
// visible in the raw trace.
func (r *Request) finalize(body []byte) *Descriptor {
	d := &Descriptor{
		Method:          r.method,
		URL:             r.targetURL(),
		Body:            body,
		AuthScheme:      r.authScheme,
		Username:        r.username,
		Password:        r.password,
		CertPath:        r.certPath,
		CertKeyPath:     r.certKeyPath,
		CertPassphrase:  r.certPassphrase,
		CertEncoding:    r.certEncoding,
		VerifyPeer:      r.verifyTLS,
		Proxy:           r.proxy,
		Timeout:         r.timeout,
		FollowRedirects: r.followRedirects,
		MaxRedirects:    r.maxRedirects,
		Options:         r.options,
	}
	if r.verifyTLS {
		// Stricter host check only applies when verification is on at all.
		d.VerifyHost = 2
	}

	// Disable "100 Continue" negotiation.
	d.Headers = append(d.Headers, HeaderField{Name: "Expect", Value: ""})

	if _, ok := r.headers["User-Agent"]; !ok {
		d.Headers = append(d.Headers, HeaderField{Name: "User-Agent", Value: userAgent()})
	}
	if r.contentType != "" {
		d.Headers = append(d.Headers, HeaderField{Name: "Content-Type", Value: r.contentType})
	}
	if _, ok := r.headers["Accept"]; !ok && r.expectedType != "" {
		accept := "*/*; q=0.5, text/plain; q=0.8, text/html; level=3; q=0.9, " + r.expectedType
		d.Headers = append(d.Headers, HeaderField{Name: "Accept", Value: accept})
	}
	upload := r.contentType == mime.Upload
	if r.payload != nil && !upload {
		d.Headers = append(d.Headers, HeaderField{Name: "Content-Length", Value: strconv.Itoa(len(body))})
	} else if !upload {
		// Some proxies misbehave on a missing length; force zero.
		d.Headers = append(d.Headers, HeaderField{Name: "Content-Length", Value: "0"})
	}
	for _, name := range r.headerOrder {
		d.Headers = append(d.Headers, HeaderField{Name: name, Value: r.headers[name]})
	}
	return d
}

// targetURL merges accumulated query parameters into the configured URI.
func (r *Request) targetURL() string {
	if len(r.queryParams) == 0 {
		return r.uri
	}
	parsed, err := url.Parse(r.uri)
	if err != nil {
		return r.uri
	}
	query := parsed.Query()
	for key, values := range r.queryParams {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// userAgent synthesizes the default User-Agent from library and host
// environment details.
func userAgent() string {
	return fmt.Sprintf("Lasso/%s (net/http; %s; %s/%s)",
		Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// renderRawRequest records the request line and header block in the shape
// the wire carries, for diagnostics and mirroring.
func renderRawRequest(d *Descriptor) string {
	path, host := "/", ""
	if parsed, err := url.Parse(d.URL); err == nil {
		host = parsed.Host
		if parsed.Path != "" {
			path = parsed.Path
		}
		if parsed.RawQuery != "" {
			path += "?" + parsed.RawQuery
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s HTTP/1.1\r\n", d.Method, path)
	fmt.Fprintf(&sb, "Host: %s\r\n", host)
	for _, field := range d.Headers {
		fmt.Fprintf(&sb, "%s: %s\r\n", field.Name, field.Value)
	}
	return sb.String()
}

// clone deep-copies the request's configuration. Internal send state is
// not carried over.
func (r *Request) clone() *Request {
	dup := *r

	dup.queryParams = make(url.Values, len(r.queryParams))
	for key, values := range r.queryParams {
		dup.queryParams[key] = append([]string(nil), values...)
	}
	dup.headers = make(map[string]string, len(r.headers))
	for name, value := range r.headers {
		dup.headers[name] = value
	}
	dup.headerOrder = append([]string(nil), r.headerOrder...)
	dup.options = make(map[string]interface{}, len(r.options))
	for key, value := range r.options {
		dup.options[key] = value
	}
	dup.serializers = make(map[string]SerializeFunc, len(r.serializers))
	for mimeType, fn := range r.serializers {
		dup.serializers[mimeType] = fn
	}
	if r.proxy != nil {
		proxy := *r.proxy
		dup.proxy = &proxy
	}

	dup.sent = false
	dup.rawRequest = ""
	return &dup
}
