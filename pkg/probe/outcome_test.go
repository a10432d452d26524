package probe_test

import (
	"testing"

	"github.com/mittwald/smoketest/pkg/probe"
	"github.com/stretchr/testify/assert"
)

func status(code int) *int {
	return &code
}

func TestClassify(t *testing.T) {
	healthy := probe.CheckResult{Label: "health", Passed: true, ObservedStatus: status(200)}
	failed := probe.CheckResult{Label: "examples", ObservedStatus: status(500)}
	down := probe.CheckResult{Label: "health", Detail: "connection refused"}
	count := func(value int64, found bool) probe.CheckResult {
		return probe.CheckResult{
			Label:          "count",
			Passed:         true,
			ObservedStatus: status(200),
			Measure:        &probe.Measure{Key: "total", Value: value, Found: found, Required: true},
		}
	}

	cases := []struct {
		name     string
		results  []probe.CheckResult
		deps     []probe.CheckResult
		expected probe.Outcome
	}{
		{"all passed with data", []probe.CheckResult{healthy, count(3, true)}, nil, probe.OutcomeHealthy},
		{"no data", []probe.CheckResult{healthy, count(0, true)}, nil, probe.OutcomeEmpty},
		{"data unavailable", []probe.CheckResult{healthy, count(0, false)}, nil, probe.OutcomeUnhealthy},
		{"one check failed", []probe.CheckResult{healthy, failed, count(3, true)}, nil, probe.OutcomeUnhealthy},
		{"nothing answered", []probe.CheckResult{down, down}, nil, probe.OutcomeUnreachable},
		{"failed dependency", []probe.CheckResult{healthy}, []probe.CheckResult{{Label: "redis", Detail: "refused"}}, probe.OutcomeUnhealthy},
		{"everything skipped", []probe.CheckResult{{Label: "x", Skipped: true}}, nil, probe.OutcomeUnhealthy},
		{"failure wins over empty", []probe.CheckResult{failed, count(0, true)}, nil, probe.OutcomeUnhealthy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, probe.Classify(tc.results, tc.deps))
		})
	}
}

func TestOutcomeExitCodesAreDistinct(t *testing.T) {
	assert.Equal(t, 0, probe.OutcomeHealthy.ExitCode())

	codes := map[int]probe.Outcome{}
	for _, o := range []probe.Outcome{probe.OutcomeHealthy, probe.OutcomeUnhealthy, probe.OutcomeUnreachable, probe.OutcomeEmpty} {
		_, dup := codes[o.ExitCode()]
		assert.False(t, dup, "exit code of %s is shared", o)
		codes[o.ExitCode()] = o
	}
}
