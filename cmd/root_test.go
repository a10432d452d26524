package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRegistry is a minimal function registry: registered functions are
// counted and rejected ids answer with 409.
type fakeRegistry struct {
	mu       sync.Mutex
	total    int
	healthy  bool
	rejected map[string]bool
	hits     int32
}

func (f *fakeRegistry) router() http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			atomic.AddInt32(&f.hits, 1)
			next.ServeHTTP(w, req)
		})
	})
	r.Path("/health").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if !f.healthy {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Path("/api/v1/registry/functions").Methods(http.MethodGet).HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_, _ = fmt.Fprintf(w, `{"functions":[],"total":%d}`, f.total)
	})
	r.Path("/api/v1/registry/functions").Methods(http.MethodPost).HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var payload map[string]interface{}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		id, _ := payload["function_id"].(string)
		if f.rejected[id] {
			http.Error(w, "function already exists", http.StatusConflict)
			return
		}

		f.mu.Lock()
		f.total++
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	return r
}

func (f *fakeRegistry) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

const testChecks = `
check "health endpoint" {
  path         = "/health"
  bodyContains = "ok"
}

check "registered functions" {
  path        = "/api/v1/registry/functions?limit=1"
  extract     = "total"
  requireData = true
}
`

const testFixtures = `
seed {
  endpoint = "/api/v1/registry/functions"
  idField  = "function_id"
}

fixture "weather" {
  name = "Current Weather"
  payload = {
    domain = "weather"
  }
}

fixture "currency" {
  name = "Currency Conversion"
  payload = {
    domain = "finance"
  }
}

fixture "holidays" {
  name = "Public Holidays"
  payload = {
    domain = "calendar"
  }
}
`

func writeConfigDir(t *testing.T, baseURL string, extra ...string) string {
	dir := t.TempDir()

	target := fmt.Sprintf("target \"default\" {\n  baseUrl = %q\n  timeout = \"2s\"\n}\n", baseURL)
	files := map[string]string{
		"10-target.hcl":   target,
		"20-checks.hcl":   testChecks,
		"30-fixtures.hcl": testFixtures,
	}
	for i, content := range extra {
		files[fmt.Sprintf("40-extra-%d.hcl", i)] = content
	}

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func startRegistry(t *testing.T, f *fakeRegistry) string {
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return srv.URL
}

func closedAddress(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer

	rootCmd := newRootCommand()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	code := execute(rootCmd, append(args, "--no-color"))
	return code, stdout.String(), stderr.String()
}

func TestHealthExitCodes(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		baseURL := startRegistry(t, &fakeRegistry{healthy: true, total: 3})

		code, stdout, _ := runCLI("health", "-c", writeConfigDir(t, baseURL))

		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "healthy")
		assert.Contains(t, stdout, "total=3")
	})

	t.Run("empty", func(t *testing.T) {
		baseURL := startRegistry(t, &fakeRegistry{healthy: true})

		code, stdout, _ := runCLI("health", "-c", writeConfigDir(t, baseURL))

		assert.Equal(t, 3, code)
		assert.Contains(t, stdout, "no data")
	})

	t.Run("unhealthy", func(t *testing.T) {
		baseURL := startRegistry(t, &fakeRegistry{total: 3})

		code, stdout, _ := runCLI("health", "-c", writeConfigDir(t, baseURL))

		assert.Equal(t, 1, code)
		assert.Contains(t, stdout, "expected status 200, got 503")
	})

	t.Run("unreachable", func(t *testing.T) {
		code, stdout, _ := runCLI("health", "-c", writeConfigDir(t, closedAddress(t)))

		assert.Equal(t, 2, code)
		assert.Contains(t, stdout, "unreachable")
	})

	t.Run("configuration error", func(t *testing.T) {
		code, stdout, stderr := runCLI("health", "-c", writeConfigDir(t, "ftp://localhost"))

		assert.Equal(t, ExitConfigError, code)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "unsupported scheme")
	})
}

func TestHealthJSONReport(t *testing.T) {
	baseURL := startRegistry(t, &fakeRegistry{healthy: true, total: 7})

	code, stdout, _ := runCLI("health", "-c", writeConfigDir(t, baseURL), "-o", "json")
	require.Equal(t, 0, code)

	var report struct {
		BaseURL   string `json:"baseUrl"`
		AllPassed bool   `json:"allPassed"`
		Outcome   string `json:"outcome"`
		Results   []struct {
			Label   string `json:"label"`
			Measure *struct {
				Value int64 `json:"value"`
				Found bool  `json:"found"`
			} `json:"measure"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, baseURL, report.BaseURL)
	assert.True(t, report.AllPassed)
	assert.Equal(t, "healthy", report.Outcome)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "health endpoint", report.Results[0].Label)
	require.NotNil(t, report.Results[1].Measure)
	assert.Equal(t, int64(7), report.Results[1].Measure.Value)
}

func TestBaseURLPrecedence(t *testing.T) {
	baseURL := startRegistry(t, &fakeRegistry{healthy: true, total: 1})
	configDir := writeConfigDir(t, closedAddress(t))

	t.Run("environment overrides target block", func(t *testing.T) {
		t.Setenv("SMOKETEST_BASE_URL", baseURL)

		code, _, _ := runCLI("health", "-c", configDir)
		assert.Equal(t, 0, code)
	})

	t.Run("flag overrides environment", func(t *testing.T) {
		t.Setenv("SMOKETEST_BASE_URL", closedAddress(t))

		code, _, _ := runCLI("health", "-c", configDir, "--base-url", baseURL)
		assert.Equal(t, 0, code)
	})
}

func TestTargetSelection(t *testing.T) {
	baseURL := startRegistry(t, &fakeRegistry{healthy: true, total: 1})
	staging := fmt.Sprintf("target \"staging\" {\n  baseUrl = %q\n}\n", baseURL)
	configDir := writeConfigDir(t, closedAddress(t), staging)

	code, _, _ := runCLI("health", "-c", configDir, "--target", "staging")
	assert.Equal(t, 0, code)

	code, _, stderr := runCLI("health", "-c", configDir, "--target", "production")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "production")
}

func TestInvalidSettings(t *testing.T) {
	configDir := writeConfigDir(t, "http://localhost:8862")

	cases := map[string][]string{
		"unknown output format": {"health", "-c", configDir, "-o", "xml"},
		"unknown log level":     {"health", "-c", configDir, "--log-level", "chatty"},
		"unknown flag":          {"health", "--frobnicate"},
		"unknown fixture":       {"seed", "-c", configDir, "--only", "does-not-exist"},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			code, _, stderr := runCLI(args...)
			assert.Equal(t, ExitConfigError, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestInvalidConfigFile(t *testing.T) {
	configDir := writeConfigDir(t, "http://localhost:8862", `check "broken" {`)

	code, _, stderr := runCLI("health", "-c", configDir)

	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "could not parse configuration file")
}

func TestSeedCommand(t *testing.T) {
	t.Run("all fixtures seeded", func(t *testing.T) {
		registry := &fakeRegistry{healthy: true}
		baseURL := startRegistry(t, registry)

		code, stdout, _ := runCLI("seed", "-c", writeConfigDir(t, baseURL))

		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "3 of 3 fixtures seeded")
		assert.Equal(t, 3, registry.count())
	})

	t.Run("partial failure", func(t *testing.T) {
		registry := &fakeRegistry{healthy: true, rejected: map[string]bool{"currency": true}}
		baseURL := startRegistry(t, registry)

		code, stdout, _ := runCLI("seed", "-c", writeConfigDir(t, baseURL), "-o", "json")
		assert.Equal(t, 1, code)

		var report struct {
			Total     int `json:"total"`
			Succeeded int `json:"succeeded"`
			Failed    int `json:"failed"`
			Results   []struct {
				DisplayName string `json:"displayName"`
				Succeeded   bool   `json:"succeeded"`
				HTTPStatus  *int   `json:"httpStatus"`
				Error       string `json:"error"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal([]byte(stdout), &report))

		assert.Equal(t, 3, report.Total)
		assert.Equal(t, 2, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, "Currency Conversion", report.Results[1].DisplayName)
		require.NotNil(t, report.Results[1].HTTPStatus)
		assert.Equal(t, http.StatusConflict, *report.Results[1].HTTPStatus)
		assert.Equal(t, "function already exists", report.Results[1].Error)
		assert.True(t, report.Results[2].Succeeded, "the batch continues after a rejection")
	})

	t.Run("only selected fixtures", func(t *testing.T) {
		registry := &fakeRegistry{healthy: true}
		baseURL := startRegistry(t, registry)

		code, stdout, _ := runCLI("seed", "-c", writeConfigDir(t, baseURL), "--only", "weather,holidays")

		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "2 of 2 fixtures seeded")
		assert.Equal(t, 2, registry.count())
	})
}

func TestRunSeedsAnEmptyService(t *testing.T) {
	registry := &fakeRegistry{healthy: true}
	baseURL := startRegistry(t, registry)

	code, stdout, _ := runCLI("run", "-c", writeConfigDir(t, baseURL), "-o", "yaml")

	assert.Equal(t, 0, code)
	assert.Equal(t, 3, registry.count())
	assert.Contains(t, stdout, "outcome: empty")
	assert.Contains(t, stdout, "outcome: healthy")
}

func TestRunRejectsSeedConfigurationBeforeAnyRequest(t *testing.T) {
	cases := map[string][]string{
		"unknown fixture":   {"--only", "nope"},
		"relative endpoint": {"--endpoint", "api/v1/registry/functions"},
	}

	for name, flags := range cases {
		t.Run(name, func(t *testing.T) {
			registry := &fakeRegistry{healthy: true, total: 1}
			baseURL := startRegistry(t, registry)

			args := append([]string{"run", "-c", writeConfigDir(t, baseURL)}, flags...)
			code, stdout, stderr := runCLI(args...)

			assert.Equal(t, ExitConfigError, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "invalid configuration")
			assert.Equal(t, int32(0), atomic.LoadInt32(&registry.hits), "no request may be sent")
		})
	}
}

func TestRunDoesNotSeedAnUnreachableService(t *testing.T) {
	code, stdout, _ := runCLI("run", "-c", writeConfigDir(t, closedAddress(t)), "-o", "yaml")

	assert.Equal(t, 2, code)
	assert.NotContains(t, stdout, "seed:")
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI("version")

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "smoketest, version unknown")
}
