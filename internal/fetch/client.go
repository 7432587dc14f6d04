// Package fetch retrieves pages and binaries from the gallery host.
package fetch

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
	defaultMaxRedirects   = 5
	defaultMaxBodyBytes   = 10 << 20 // 10 MiB
)

// Page is the result of a successful (or non-2xx) fetch.
type Page struct {
	StatusCode   int
	Body         []byte
	Header       http.Header
	EffectiveURL string
	FetchedAt    time.Time
}

// Client issues GET requests with a browser-like header profile.
type Client struct {
	httpClient   *http.Client
	userAgent    string
	extraHeaders map[string]string
	maxBodyBytes int64

	timeout        time.Duration
	connectTimeout time.Duration
	maxRedirects   int
	insecureTLS    bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the total request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.connectTimeout = d }
}

// WithMaxRedirects caps redirect following.
func WithMaxRedirects(n int) Option {
	return func(c *Client) { c.maxRedirects = n }
}

// WithUserAgent overrides the default desktop browser User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHeaders adds extra request headers.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.extraHeaders[k] = v
		}
	}
}

// WithInsecureTLS disables certificate verification. Verification is on by
// default; this is the explicit opt-out for hosts with broken chains.
func WithInsecureTLS(insecure bool) Option {
	return func(c *Client) { c.insecureTLS = insecure }
}

// WithMaxBodyBytes caps the decoded response body size.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) { c.maxBodyBytes = n }
}

// NewClient creates a fetch client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		userAgent:      defaultUserAgent,
		extraHeaders:   make(map[string]string),
		maxBodyBytes:   defaultMaxBodyBytes,
		timeout:        defaultTimeout,
		connectTimeout: defaultConnectTimeout,
		maxRedirects:   defaultMaxRedirects,
	}
	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: c.connectTimeout, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   c.connectTimeout,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if c.insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit config opt-out
	}

	maxRedirects := c.maxRedirects
	c.httpClient = &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
	return c
}

// Get fetches a URL. Non-2xx responses return both the page and a
// *StatusError wrapping ErrStatus; transport failures wrap ErrTransport.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	for k, v := range c.extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w: %w", rawURL, ErrTransport, err)
	}

	body, err := c.readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}

	effective := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		effective = resp.Request.URL.String()
	}

	page := &Page{
		StatusCode:   resp.StatusCode,
		Body:         body,
		Header:       resp.Header.Clone(),
		EffectiveURL: effective,
		FetchedAt:    time.Now(),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return page, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return page, nil
}

// ResolveBase parses and normalizes the configured base URL.
func ResolveBase(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", raw)
	}
	return u, nil
}

func (c *Client) readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, errors.New("empty response body")
	}

	reader := io.Reader(resp.Body)
	closers := []io.Closer{resp.Body}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		reader = gz
		closers = append(closers, gz)
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = fl
		closers = append(closers, fl)
	}

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	limited := io.LimitReader(reader, c.maxBodyBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body: %w: %w", ErrTransport, err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds limit of %d bytes", c.maxBodyBytes)
	}
	return body, nil
}
