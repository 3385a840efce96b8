// Package fetch provides an HTTP fetcher for retrieving web pages with
// timeouts, redirect validation, and SSRF protection.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/c360studio/wikioutline/weburl"
)

// Fetcher fetches web content with security checks.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	maxContentSize int64
	allowPatterns  []string
	insecure       bool
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithAllowlist restricts fetches to URLs whose host/path match one of the
// given doublestar patterns (see weburl.MatchesAllowlist).
func WithAllowlist(patterns []string) Option {
	return func(f *Fetcher) { f.allowPatterns = patterns }
}

// AllowInsecure disables HTTPS enforcement and private-IP blocking.
// It exists for tests that fetch from a loopback httptest server and must
// never be used for production traffic.
func AllowInsecure() Option {
	return func(f *Fetcher) { f.insecure = true }
}

// New creates a Fetcher with the given request timeout, User-Agent header,
// and maximum response body size.
func New(timeout time.Duration, userAgent string, maxContentSize int64, opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:      userAgent,
		maxContentSize: maxContentSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	// Custom DialContext that validates resolved IPs to prevent DNS
	// rebinding attacks.
	safeDialContext := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}

		for _, ipAddr := range ips {
			if weburl.IsPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			connAddr := net.JoinHostPort(ipAddr.IP.String(), port)
			conn, err := dialer.DialContext(ctx, network, connAddr)
			if err == nil {
				return conn, nil
			}
		}

		return nil, fmt.Errorf("failed to connect to any resolved IP")
	}

	transport := &http.Transport{
		DialContext:           safeDialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}
	if f.insecure {
		transport.DialContext = dialer.DialContext
	}

	f.client = &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects (max 5)")
			}
			if err := f.validate(req.URL.String()); err != nil {
				return fmt.Errorf("redirect blocked: %w", err)
			}
			return nil
		},
	}

	return f
}

// validate applies URL security checks and the host allowlist.
func (f *Fetcher) validate(urlStr string) error {
	if !f.insecure {
		if err := weburl.ValidateURL(urlStr); err != nil {
			return err
		}
	}
	if !weburl.MatchesAllowlist(urlStr, f.allowPatterns) {
		return fmt.Errorf("URL %s is not in the fetch allowlist", urlStr)
	}
	return nil
}

// Fetch retrieves the body at the given URL. It follows redirects
// (revalidating each hop), sends the configured User-Agent, and enforces
// the response size cap. Non-2xx responses return a *StatusError and
// transport failures return a *NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	if err := f.validate(urlStr); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: urlStr, Code: resp.StatusCode}
	}

	limitReader := io.LimitReader(resp.Body, f.maxContentSize+1)
	body, err := io.ReadAll(limitReader)
	if err != nil {
		return nil, &NetworkError{URL: urlStr, Err: err}
	}

	if int64(len(body)) > f.maxContentSize {
		return nil, fmt.Errorf("content too large (exceeds %d bytes)", f.maxContentSize)
	}

	return body, nil
}
