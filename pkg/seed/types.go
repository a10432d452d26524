package seed

import (
	"fmt"
	"strings"
)

// FixtureSpec is one record to submit. IDs are expected to be unique within
// a run; the seeder does not enforce it.
type FixtureSpec struct {
	ID          string
	DisplayName string
	Payload     map[string]interface{}
	// Template makes the seeder render the payload with RenderPayload.
	Template    bool
}

// SeedResult is the outcome of one submission. HTTPStatus is nil when no
// response was received.
type SeedResult struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Succeeded   bool   `json:"succeeded" yaml:"succeeded"`
	HTTPStatus  *int   `json:"httpStatus,omitempty" yaml:"httpStatus,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
	Skipped     bool   `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SeedReport summarizes a seeding run. Results are in input order and
// Succeeded+Failed always equals Total.
type SeedReport struct {
	RunID       string       `json:"runId" yaml:"runId"`
	BaseURL     string       `json:"baseUrl" yaml:"baseUrl"`
	Endpoint    string       `json:"endpoint" yaml:"endpoint"`
	Total       int          `json:"total" yaml:"total"`
	Succeeded   int          `json:"succeeded" yaml:"succeeded"`
	Failed      int          `json:"failed" yaml:"failed"`
	Results     []SeedResult `json:"results" yaml:"results"`
	Interrupted bool         `json:"interrupted,omitempty" yaml:"interrupted,omitempty"`
}

// Failures returns the failed results in input order.
func (r *SeedReport) Failures() []SeedResult {
	var failed []SeedResult
	for _, res := range r.Results {
		if !res.Succeeded {
			failed = append(failed, res)
		}
	}
	return failed
}

// FailedIDs lists the ids of failed fixtures, suitable for a retry run.
func (r *SeedReport) FailedIDs() []string {
	var ids []string
	for _, res := range r.Failures() {
		ids = append(ids, res.ID)
	}
	return ids
}

// Err returns a *PartialBatchFailure if any fixture failed, nil otherwise.
func (r *SeedReport) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}

	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.DisplayName)
	}
	return &PartialBatchFailure{Total: r.Total, Failed: names}
}

// PartialBatchFailure means some fixtures of a batch were not seeded.
type PartialBatchFailure struct {
	Total  int
	Failed []string
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("%d of %d fixtures failed to seed: %s", len(e.Failed), e.Total, strings.Join(e.Failed, ", "))
}
