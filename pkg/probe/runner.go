package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mittwald/smoketest/pkg/client"
	log "github.com/sirupsen/logrus"
)

const detailSkipped = "skipped: run interrupted"

// Runner executes check lists sequentially against one base URL.
type Runner struct {
	timeout time.Duration
}

// NewRunner returns a runner using timeout for every request that does not
// set its own. A non-positive timeout selects client.DefaultTimeout.
func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	return &Runner{timeout: timeout}
}

// Run executes specs in order, followed by the dependency probes. It yields
// exactly one result per spec and per dependency. The only error returned
// is a *client.ConfigError, raised before any request is made; request
// failures are recorded in the results. When ctx is cancelled, the specs
// not yet started are recorded as skipped.
func (r *Runner) Run(ctx context.Context, baseURL string, specs []CheckSpec, dependencies ...Dependency) (*Report, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}

	c, err := client.New(baseURL, r.timeout)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     uuid.New().String(),
		BaseURL:   c.BaseURL(),
		StartedAt: time.Now(),
		Results:   make([]CheckResult, 0, len(specs)),
	}

	logger := log.WithFields(log.Fields{"kind": "probe", "run": report.RunID})
	logger.Infof("running %d checks against %s", len(specs), report.BaseURL)

	for i := range specs {
		if ctx.Err() != nil {
			report.Interrupted = true
			report.Results = append(report.Results, skipped(specs[i].Label))
			continue
		}

		result := r.check(ctx, c, withDefaults(specs[i]))
		logResult(logger, result)
		report.Results = append(report.Results, result)
	}

	for _, dep := range dependencies {
		if ctx.Err() != nil {
			report.Interrupted = true
			report.Dependencies = append(report.Dependencies, skipped(dep.Label))
			continue
		}

		result := r.probe(ctx, dep)
		logResult(logger, result)
		report.Dependencies = append(report.Dependencies, result)
	}

	report.AllPassed = allPassed(report.Results) && allPassed(report.Dependencies)
	report.Outcome = Classify(report.Results, report.Dependencies)
	report.Duration = time.Since(report.StartedAt)

	return report, nil
}

// ValidateSpecs rejects spec lists that cannot be run.
func ValidateSpecs(specs []CheckSpec) error {
	if len(specs) == 0 {
		return &client.ConfigError{Field: "checks", Reason: "no checks configured"}
	}

	for i, spec := range specs {
		field := fmt.Sprintf("check %d (%q)", i, spec.Label)

		if strings.TrimSpace(spec.Label) == "" {
			return &client.ConfigError{Field: field, Reason: "label must not be empty"}
		}
		if spec.Method != "" && !validMethod(spec.Method) {
			return &client.ConfigError{Field: field, Reason: fmt.Sprintf("method %q is not a valid HTTP method", spec.Method)}
		}
		if !strings.HasPrefix(spec.Path, "/") {
			return &client.ConfigError{Field: field, Reason: fmt.Sprintf("path %q must begin with /", spec.Path)}
		}
		if spec.ExpectedStatus != 0 && (spec.ExpectedStatus < 100 || spec.ExpectedStatus > 599) {
			return &client.ConfigError{Field: field, Reason: fmt.Sprintf("expected status %d is not an HTTP status", spec.ExpectedStatus)}
		}
		if spec.Timeout < 0 {
			return &client.ConfigError{Field: field, Reason: "timeout must not be negative"}
		}
		if spec.RequireData && spec.Extract == "" {
			return &client.ConfigError{Field: field, Reason: "requireData needs a field to extract"}
		}
	}

	return nil
}

// validMethod accepts letters only; methods are sent upper-cased.
func validMethod(method string) bool {
	for _, c := range method {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

func withDefaults(spec CheckSpec) CheckSpec {
	if spec.Method == "" {
		spec.Method = http.MethodGet
	}
	spec.Method = strings.ToUpper(spec.Method)
	if spec.ExpectedStatus == 0 {
		spec.ExpectedStatus = http.StatusOK
	}
	return spec
}

func (r *Runner) check(ctx context.Context, c *client.Client, spec CheckSpec) CheckResult {
	result := CheckResult{Label: spec.Label}

	res, err := c.Do(ctx, client.Request{
		Method:  spec.Method,
		Path:    spec.Path,
		Body:    spec.Body,
		Headers: spec.Headers,
		Timeout: spec.Timeout,
	})
	if err != nil {
		result.Err = err
		result.Detail = err.Error()
		if spec.Extract != "" {
			result.Measure = &Measure{Key: spec.Extract, Required: spec.RequireData}
		}
		return result
	}

	status := res.StatusCode
	result.ObservedStatus = &status

	var details []string

	switch {
	case status != spec.ExpectedStatus:
		result.Err = &client.UnexpectedResponseError{ExpectedStatus: spec.ExpectedStatus, ObservedStatus: status}
		details = append(details, result.Err.Error())
	case spec.BodyPredicate != nil && !spec.BodyPredicate(res.Body):
		result.Err = &client.UnexpectedResponseError{ObservedStatus: status, Reason: "body predicate failed"}
		details = append(details, result.Err.Error())
	default:
		result.Passed = true
	}

	if spec.Extract != "" {
		value, found := ExtractInt(res.Body, spec.Extract)
		result.Measure = &Measure{Key: spec.Extract, Value: value, Found: found, Required: spec.RequireData}
		details = append(details, result.Measure.String())
	}

	result.Detail = strings.Join(details, "; ")
	return result
}

func (r *Runner) probe(ctx context.Context, dep Dependency) CheckResult {
	probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := dep.Probe.Exec(probeCtx); err != nil {
		return CheckResult{Label: dep.Label, Detail: err.Error(), Err: err}
	}
	return CheckResult{Label: dep.Label, Passed: true}
}

func (m *Measure) String() string {
	if !m.Found {
		return m.Key + ": not found"
	}
	return fmt.Sprintf("%s=%d", m.Key, m.Value)
}

func skipped(label string) CheckResult {
	return CheckResult{Label: label, Skipped: true, Detail: detailSkipped}
}

func logResult(logger *log.Entry, result CheckResult) {
	entry := logger.WithField("name", result.Label)
	if result.ObservedStatus != nil {
		entry = entry.WithField("status", *result.ObservedStatus)
	}

	if result.Passed {
		entry.Debug("check passed")
		return
	}
	entry.WithField("detail", result.Detail).Warn("check failed")
}
