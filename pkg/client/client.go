package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultTimeout = 5 * time.Second

	maxBodySize = 1 << 20
)

type Request struct {
	Method  string
	Path    string
	Body    []byte
	Headers map[string]string

	// Timeout overrides the client's default timeout when set.
	Timeout time.Duration
}

type Response struct {
	StatusCode  int
	Status      string
	ContentType string
	Body        []byte
}

// FirstLine returns the first non-empty line of the body.
func (r *Response) FirstLine() string {
	return firstLine(string(r.Body))
}

// Client issues single, bounded requests against one base URL.
type Client struct {
	baseURL    *url.URL
	address    string
	httpClient *http.Client
	timeout    time.Duration
}

// New validates baseURL and returns a client for it. A non-positive timeout
// selects DefaultTimeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := ParseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient, address := buildHTTPClientAndAddress(u)

	return &Client{
		baseURL:    u,
		address:    address,
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// URL joins the base URL and path. The path is appended verbatim, so it may
// carry a query string.
func (c *Client) URL(path string) string {
	return c.address + path
}

// Do performs req and reads the whole response body. Cancelling ctx does
// not abort a request that is already in flight; only the request timeout
// does. Failures to complete the request are returned as *NetworkError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	target := c.URL(req.Path)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, method, target, body)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Err: err}
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	res, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Timeout: isTimeout(err), Err: err}
	}
	defer res.Body.Close()

	out, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{Method: method, URL: target, Timeout: isTimeout(err), Err: err}
	}

	log.WithFields(log.Fields{
		"kind":     "http",
		"method":   method,
		"url":      target,
		"status":   res.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("request completed")

	return &Response{
		StatusCode:  res.StatusCode,
		Status:      res.Status,
		ContentType: res.Header.Get("Content-Type"),
		Body:        out,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
