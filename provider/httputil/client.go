package httputil

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultUserAgent = "valuto/0.0.0"

// Defaults mirror the limits the rate sync has always run with: bounded
// connect and total time, at most two redirects.
const (
	DefaultConnectTimeout = 20 * time.Second
	DefaultTotalTimeout   = 20 * time.Second
	DefaultMaxRedirects   = 2
)

var (
	ErrStatusCode = errors.New("http status != 200")
	ErrRedirects  = errors.New("too many redirects")
)

// Error wraps a failed fetch so callers can tell a timeout from any other
// transport fault without inspecting net internals.
type Error struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("fetch %s: timeout: %v", e.URL, e.Err)
	}

	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a transport timeout.
func IsTimeout(err error) bool {
	var terr *Error
	return errors.As(err, &terr) && terr.Timeout
}

type Options struct {
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
	MaxRedirects   int
}

// DefaultSourceHTTPClient return preconfigured HTTP client with the default
// connect/total timeouts and redirect bound
func DefaultSourceHTTPClient() SourceHTTPClient {
	return NewSourceHTTPClient(Options{
		ConnectTimeout: DefaultConnectTimeout,
		TotalTimeout:   DefaultTotalTimeout,
		MaxRedirects:   DefaultMaxRedirects,
	})
}

// NewSourceHTTPClient return SourceHTTPClient built from Options; zero fields
// fall back to the defaults
func NewSourceHTTPClient(opts Options) SourceHTTPClient {
	return SourceHTTPClient{client: NewBoundedClient(opts)}
}

// NewBoundedClient return an http.Client carrying the connect/total timeouts
// and the redirect bound from Options; zero fields fall back to the defaults
func NewBoundedClient(opts Options) *http.Client {
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}

	if opts.TotalTimeout == 0 {
		opts.TotalTimeout = DefaultTotalTimeout
	}

	if opts.MaxRedirects == 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}

	maxRedirects := opts.MaxRedirects

	return &http.Client{
		Timeout: opts.TotalTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   opts.ConnectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return ErrRedirects
			}

			return nil
		},
	}
}

// NewHTTPClient return SourceHTTPClient over a caller supplied http.Client
func NewHTTPClient(client *http.Client) SourceHTTPClient {
	return SourceHTTPClient{client: client}
}

type SourceHTTPClient struct {
	client *http.Client
}

func (f SourceHTTPClient) UserAgent() string {
	return defaultUserAgent
}

// Get implements HTTP method GET client and returns the slice byte from the body
func (f SourceHTTPClient) Get(ctx context.Context, u url.URL) ([]byte, error) {
	return f.fetch(ctx, u)
}

func (f SourceHTTPClient) fetch(ctx context.Context, u url.URL) ([]byte, error) {
	req, err := f.prepareRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("build HTTP request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: u.Redacted(), Timeout: isTimeoutErr(err), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &Error{
			URL: u.Redacted(),
			Err: fmt.Errorf("http status: %d, %s: %w", resp.StatusCode, resp.Status, ErrStatusCode),
		}
	}

	defer resp.Body.Close()

	var reader io.ReadCloser
	contentType := resp.Header.Get("Content-Type")
	contentEncoding := resp.Header.Get("Content-Encoding")
	switch {
	case strings.Contains(contentType, "zip"), strings.Contains(contentType, "application/x-gzip"), strings.Contains(contentEncoding, "gzip"):
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("unable create gzip.NewReader: %w", err)
		}
		reader = gz
		defer reader.Close()

	default:
		reader = resp.Body
	}

	b, err := io.ReadAll(reader)
	if err != nil {
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &Error{URL: u.Redacted(), Timeout: isTimeoutErr(err), Err: fmt.Errorf("read body: %w", err)}
		}
	}

	return b, nil
}

func (f SourceHTTPClient) prepareRequest(ctx context.Context, u url.URL) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	return req, nil
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
