package client_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/mittwald/smoketest/pkg/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseURL(t *testing.T) {
	valid := []string{
		"http://localhost:8862",
		"https://registry.example.com/prefix",
		"unix:///var/run/registry.sock",
	}
	for _, raw := range valid {
		_, err := client.ParseBaseURL(raw)
		assert.NoError(t, err, raw)
	}

	invalid := []string{
		"",
		"localhost:8862",
		"ftp://localhost",
		"http://",
		"http://localhost:8862/?a=b",
		"unix://",
		"http://[::1",
	}
	for _, raw := range invalid {
		_, err := client.ParseBaseURL(raw)

		var cfgErr *client.ConfigError
		assert.True(t, errors.As(err, &cfgErr), "expected ConfigError for %q, got %v", raw, err)
	}
}

func TestDoSendsRequestAndReadsResponse(t *testing.T) {
	r := mux.NewRouter()
	r.Path("/api/v1/query").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		assert.Equal(t, `{"query":"hi"}`, string(body))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "3", req.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"query_id":"q-1"}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	c, err := client.New(srv.URL+"/", 0)
	require.NoError(t, err)
	assert.Equal(t, client.DefaultTimeout, c.Timeout())
	assert.Equal(t, srv.URL+"/api/v1/query?limit=3", c.URL("/api/v1/query?limit=3"))

	res, err := c.Do(context.Background(), client.Request{
		Method:  "post",
		Path:    "/api/v1/query?limit=3",
		Body:    []byte(`{"query":"hi"}`),
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "application/json", res.ContentType)
	assert.Equal(t, `{"query_id":"q-1"}`, string(res.Body))
}

func TestDoReportsTimeoutAsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c, err := client.New(srv.URL, 50*time.Millisecond)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), client.Request{Path: "/slow"})

	var netErr *client.NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.True(t, netErr.Timeout)
	assert.Contains(t, netErr.Error(), "timed out")
}

func TestDoReportsConnectionRefusedAsNetworkError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	c, err := client.New("http://"+addr, time.Second)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), client.Request{Path: "/health"})

	var netErr *client.NetworkError
	require.True(t, errors.As(err, &netErr), "got %v", err)
	assert.False(t, netErr.Timeout)
	assert.Equal(t, http.MethodGet, netErr.Method)
}

func TestDoIgnoresCancellationOfInFlightRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	res, err := c.Do(ctx, client.Request{Path: "/"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestDoOverUnixSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "smk")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	socket := filepath.Join(dir, "api.sock")
	l, err := net.Listen("unix", socket)
	require.NoError(t, err)

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok\nsecond line"))
	}))
	srv.Listener = l
	srv.Start()
	defer srv.Close()

	c, err := client.New("unix://"+socket, time.Second)
	require.NoError(t, err)

	res, err := c.Do(context.Background(), client.Request{Path: "/health"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.FirstLine())
}

func TestUnexpectedResponseErrorMessage(t *testing.T) {
	err := &client.UnexpectedResponseError{ExpectedStatus: 200, ObservedStatus: 503}
	assert.Equal(t, "expected status 200, got 503", err.Error())

	err = &client.UnexpectedResponseError{ExpectedStatus: 200, ObservedStatus: 200, Reason: "body predicate failed"}
	assert.Equal(t, "body predicate failed", err.Error())
}
