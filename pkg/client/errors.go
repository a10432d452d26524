package client

import (
	"fmt"
	"strings"
)

// ConfigError reports an unusable base URL or spec list. It is the only
// error that aborts a run, and it is always raised before any request.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NetworkError means a request did not complete: connection refused, DNS
// failure, timeout.
type NetworkError struct {
	Method  string
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s %s: request timed out", e.Method, e.URL)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UnexpectedResponseError means the request completed but the response did
// not match: a different status code, or a failed body assertion.
type UnexpectedResponseError struct {
	ExpectedStatus int
	ObservedStatus int
	Reason         string
}

func (e *UnexpectedResponseError) Error() string {
	if e.ExpectedStatus != 0 && e.ExpectedStatus != e.ObservedStatus {
		return fmt.Sprintf("expected status %d, got %d", e.ExpectedStatus, e.ObservedStatus)
	}
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("unexpected response with status %d", e.ObservedStatus)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
