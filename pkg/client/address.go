package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ParseBaseURL validates the root address of the service under test. Besides
// http and https, "unix:///path/to/socket" addresses a service listening on
// a unix domain socket.
func ParseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ConfigError{Field: "base URL", Reason: "must not be empty"}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ConfigError{Field: "base URL", Reason: "cannot be parsed", Err: err}
	}

	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return nil, &ConfigError{Field: "base URL", Reason: "host is missing in " + raw}
		}
	case "unix":
		if u.Path == "" {
			return nil, &ConfigError{Field: "base URL", Reason: "socket path is missing in " + raw}
		}
	default:
		return nil, &ConfigError{Field: "base URL", Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}

	if u.RawQuery != "" || u.Fragment != "" {
		return nil, &ConfigError{Field: "base URL", Reason: "must not contain a query or fragment"}
	}

	return u, nil
}

func buildHTTPClientAndAddress(u *url.URL) (*http.Client, string) {
	if u.Scheme != "unix" {
		return &http.Client{}, strings.TrimRight(u.String(), "/")
	}

	socketPath := u.Path
	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", socketPath)
			},
		},
	}, "http://unix"
}
