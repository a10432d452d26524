package probe

import (
	"context"
	"time"
)

// BodyPredicate inspects a response body. It must be pure.
type BodyPredicate func(body []byte) bool

// CheckSpec is one HTTP probe. Specs are immutable once built.
type CheckSpec struct {
	Label          string
	Method         string
	Path           string
	ExpectedStatus int
	Body           []byte
	Headers        map[string]string
	Timeout        time.Duration
	BodyPredicate  BodyPredicate

	// Extract names a numeric JSON field that is surfaced in the result
	// whether or not the check passes.
	Extract string
	// RequireData marks the extracted value as the data-presence indicator
	// of the service: it must exist and be positive for a healthy outcome.
	RequireData bool
}

// Measure is a numeric value taken from a response body. Found is false
// when the field was absent, which is different from a value of zero.
type Measure struct {
	Key      string `json:"key" yaml:"key"`
	Value    int64  `json:"value" yaml:"value"`
	Found    bool   `json:"found" yaml:"found"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// CheckResult is the outcome of one CheckSpec or dependency probe.
// ObservedStatus is nil when no response was received.
type CheckResult struct {
	Label          string   `json:"label" yaml:"label"`
	Passed         bool     `json:"passed" yaml:"passed"`
	ObservedStatus *int     `json:"observedStatus,omitempty" yaml:"observedStatus,omitempty"`
	Detail         string   `json:"detail,omitempty" yaml:"detail,omitempty"`
	Measure        *Measure `json:"measure,omitempty" yaml:"measure,omitempty"`
	Skipped        bool     `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Err            error    `json:"-" yaml:"-"`
}

// Report is everything a run produced, in check order.
type Report struct {
	RunID        string        `json:"runId" yaml:"runId"`
	BaseURL      string        `json:"baseUrl" yaml:"baseUrl"`
	StartedAt    time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	Results      []CheckResult `json:"results" yaml:"results"`
	Dependencies []CheckResult `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	AllPassed    bool          `json:"allPassed" yaml:"allPassed"`
	Interrupted  bool          `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
	Outcome      Outcome       `json:"outcome" yaml:"outcome"`
}

// Probe checks a backing service of the target directly.
type Probe interface {
	Exec(ctx context.Context) error
}

type Dependency struct {
	Label string
	Probe Probe
}
