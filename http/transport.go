package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptrace"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// AuthScheme selects how credentials are injected by the transport.
type AuthScheme int

const (
	AuthNone AuthScheme = iota
	AuthBasic
	AuthDigest
	AuthNTLM
)

// String returns the scheme's lowercase wire-ish name.
func (s AuthScheme) String() string {
	switch s {
	case AuthBasic:
		return "basic"
	case AuthDigest:
		return "digest"
	case AuthNTLM:
		return "ntlm"
	}
	return "none"
}

// HeaderField is one ordered request header. The Descriptor keeps headers
// as an ordered list; collapsing duplicates is the transport's concern.
type HeaderField struct {
	Name  string
	Value string
}

// ProxyConfig routes an exchange through a proxy.
type ProxyConfig struct {
	Host     string
	Port     int
	Type     string // "http" or "socks5"; empty means "http"
	Username string
	Password string
}

// Descriptor is a finalized, transport-ready request. It is produced by
// Request.Send and consumed exactly once.
type Descriptor struct {
	Method  string
	URL     string
	Headers []HeaderField
	Body    []byte

	AuthScheme AuthScheme
	Username   string
	Password   string

	CertPath       string
	CertKeyPath    string
	CertPassphrase string
	CertEncoding   string

	VerifyPeer bool
	VerifyHost int // stricter host check level when peer verification is on

	Proxy *ProxyConfig

	Timeout         time.Duration // zero means no limit
	FollowRedirects bool
	MaxRedirects    int

	// Options are raw transport overrides, applied after everything else
	// so they can shadow any derived setting. Recognized keys are
	// documented on the default transport.
	Options map[string]interface{}
}

// Result is the raw outcome of a completed exchange: one header block per
// redirect hop, the final header block, and the body, separated by blank
// lines exactly as they appeared on the wire.
type Result struct {
	Raw           []byte
	RedirectCount int
	UsedProxy     bool
	Timing        TimingInfo
}

// Transport executes finalized requests. Implementations must honor every
// Descriptor field they can express and surface the redirect hop count on
// the Result.
type Transport interface {
	Execute(ctx context.Context, d *Descriptor) (*Result, error)
}

// TransportFunc adapts a function to the Transport interface. Useful for
// mocks and tests.
type TransportFunc func(ctx context.Context, d *Descriptor) (*Result, error)

// Execute calls f.
func (f TransportFunc) Execute(ctx context.Context, d *Descriptor) (*Result, error) {
	return f(ctx, d)
}

// DefaultTransport executes descriptors over net/http. Each Execute builds
// a private client and tears its connections down when the exchange ends,
// matching the one-shot lifecycle of a Request.
//
// Recognized Descriptor.Options keys: "timeout" (time.Duration),
// "follow_redirects" (bool), "max_redirects" (int), "verify_peer" (bool),
// "proxy" (string URL), "disable_compression" (bool).
var DefaultTransport Transport = &netTransport{}

type netTransport struct{}

func (t *netTransport) Execute(ctx context.Context, d *Descriptor) (*Result, error) {
	applyOptionOverrides(d)

	req, err := nethttp.NewRequestWithContext(ctx, d.Method, d.URL, bytes.NewReader(d.Body))
	if err != nil {
		return nil, &ConnectionError{Message: err.Error(), URI: d.URL}
	}
	for _, field := range d.Headers {
		switch {
		case strings.EqualFold(field.Name, "Host"):
			req.Host = field.Value
		case strings.EqualFold(field.Name, "Content-Length"):
			// net/http computes its own framing from the body length.
		case strings.EqualFold(field.Name, "Expect") && field.Value == "":
			// 100-continue is already off: no ExpectContinueTimeout is set.
		default:
			req.Header.Set(field.Name, field.Value)
		}
	}
	switch d.AuthScheme {
	case AuthBasic:
		req.SetBasicAuth(d.Username, d.Password)
	case AuthDigest, AuthNTLM:
		// Challenge-response schemes exist to keep the raw password off
		// the wire; net/http does not speak them natively and sending the
		// credentials preemptively would leak them. A custom Transport
		// must implement the handshake.
		return nil, &ConnectionError{
			Message: fmt.Sprintf("%s authentication is not implemented by the default transport", d.AuthScheme),
			URI:     d.URL,
		}
	}

	inner, err := t.buildTransport(d)
	if err != nil {
		return nil, err
	}
	defer inner.CloseIdleConnections()

	var hopBlocks []string
	client := &nethttp.Client{
		Transport: inner,
		Timeout:   d.Timeout,
		CheckRedirect: func(req *nethttp.Request, via []*nethttp.Request) error {
			if !d.FollowRedirects {
				return nethttp.ErrUseLastResponse
			}
			if len(via) > d.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", d.MaxRedirects)
			}
			if req.Response != nil {
				hopBlocks = append(hopBlocks, renderHeaderBlock(req.Response))
			}
			return nil
		},
	}

	timing := TimingInfo{StartTime: time.Now()}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), newTimingTrace(&timing)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ConnectionError{Code: nativeErrorCode(err), Message: err.Error(), URI: d.URL}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Code: nativeErrorCode(err), Message: err.Error(), URI: d.URL}
	}
	timing.TotalTime = time.Since(timing.StartTime)

	blocks := append(hopBlocks, renderHeaderBlock(resp))
	raw := strings.Join(blocks, "\r\n\r\n") + "\r\n\r\n" + string(body)

	return &Result{
		Raw:           []byte(raw),
		RedirectCount: len(hopBlocks),
		UsedProxy:     d.Proxy != nil,
		Timing:        timing,
	}, nil
}

func (t *netTransport) buildTransport(d *Descriptor) (*nethttp.Transport, error) {
	tlsConfig := &tls.Config{InsecureSkipVerify: !d.VerifyPeer} //nolint:gosec // caller opt-out
	if d.CertPath != "" {
		cert, err := tls.LoadX509KeyPair(d.CertPath, d.CertKeyPath)
		if err != nil {
			return nil, &ConnectionError{Message: fmt.Sprintf("loading client certificate: %v", err), URI: d.URL}
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	inner := &nethttp.Transport{
		TLSClientConfig: tlsConfig,
		Proxy:           nil,
	}
	if d.Proxy != nil {
		scheme := d.Proxy.Type
		if scheme == "" {
			scheme = "http"
		}
		proxyURL := &url.URL{Scheme: scheme, Host: fmt.Sprintf("%s:%d", d.Proxy.Host, d.Proxy.Port)}
		if d.Proxy.Username != "" {
			proxyURL.User = url.UserPassword(d.Proxy.Username, d.Proxy.Password)
		}
		inner.Proxy = nethttp.ProxyURL(proxyURL)
	}
	if disable, ok := d.Options["disable_compression"].(bool); ok {
		inner.DisableCompression = disable
	}
	return inner, nil
}

// applyOptionOverrides lets raw option entries shadow derived settings.
func applyOptionOverrides(d *Descriptor) {
	for key, value := range d.Options {
		switch key {
		case "timeout":
			if v, ok := value.(time.Duration); ok {
				d.Timeout = v
			}
		case "follow_redirects":
			if v, ok := value.(bool); ok {
				d.FollowRedirects = v
			}
		case "max_redirects":
			if v, ok := value.(int); ok {
				d.MaxRedirects = v
			}
		case "verify_peer":
			if v, ok := value.(bool); ok {
				d.VerifyPeer = v
				if v {
					d.VerifyHost = 2
				} else {
					d.VerifyHost = 0
				}
			}
		case "proxy":
			if v, ok := value.(string); ok {
				if u, err := url.Parse(v); err == nil {
					p := &ProxyConfig{Host: u.Hostname(), Type: u.Scheme}
					fmt.Sscanf(u.Port(), "%d", &p.Port) //nolint:errcheck // empty port stays zero
					if u.User != nil {
						p.Username = u.User.Username()
						p.Password, _ = u.User.Password()
					}
					d.Proxy = p
				}
			}
		}
	}
}

// renderHeaderBlock reconstructs the wire form of one response's status
// line and headers, without the trailing blank line.
func renderHeaderBlock(resp *nethttp.Response) string {
	var sb strings.Builder
	sb.WriteString(resp.Proto)
	sb.WriteString(" ")
	sb.WriteString(resp.Status)
	for name, values := range resp.Header {
		for _, value := range values {
			sb.WriteString("\r\n")
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(value)
		}
	}
	return sb.String()
}

// newTimingTrace wires an httptrace hook set that fills in timing as the
// exchange progresses.
func newTimingTrace(timing *TimingInfo) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsStart time.Time
	lastPhaseEnd := timing.StartTime

	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) { dnsStart = time.Now() },
		DNSDone: func(httptrace.DNSDoneInfo) {
			timing.DNSLookupTime = time.Since(dnsStart)
			lastPhaseEnd = time.Now()
		},
		ConnectStart: func(string, string) { connectStart = time.Now() },
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				timing.TCPConnectTime = time.Since(connectStart)
				lastPhaseEnd = time.Now()
			}
		},
		TLSHandshakeStart: func() { tlsStart = time.Now() },
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err == nil {
				timing.TLSHandshakeTime = time.Since(tlsStart)
				lastPhaseEnd = time.Now()
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
}

// nativeErrorCode digs a numeric error code out of a transport failure,
// when the platform surfaced one.
func nativeErrorCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return 0
}
