package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mittwald/smoketest/pkg/client"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const errSkipped = "skipped: run interrupted"

// Seeder submits fixtures one after another. A failing fixture never stops
// the batch.
type Seeder struct {
	timeout time.Duration
	idField string
}

type Option func(*Seeder)

// WithIDField makes the seeder add the fixture id to payloads that lack the
// given field.
func WithIDField(field string) Option {
	return func(s *Seeder) {
		s.idField = field
	}
}

func NewSeeder(timeout time.Duration, opts ...Option) *Seeder {
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}

	s := &Seeder{timeout: timeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Seed POSTs every fixture payload as JSON to baseURL+endpoint. The only
// error returned is a *client.ConfigError, raised before any request;
// failed submissions are recorded in the report, see SeedReport.Err. When
// ctx is cancelled, fixtures not yet submitted are recorded as skipped.
func (s *Seeder) Seed(ctx context.Context, baseURL, endpoint string, fixtures []FixtureSpec) (*SeedReport, error) {
	if err := ValidateFixtures(endpoint, fixtures); err != nil {
		return nil, err
	}

	c, err := client.New(baseURL, s.timeout)
	if err != nil {
		return nil, err
	}

	report := &SeedReport{
		RunID:    uuid.New().String(),
		BaseURL:  c.BaseURL(),
		Endpoint: endpoint,
		Total:    len(fixtures),
		Results:  make([]SeedResult, 0, len(fixtures)),
	}

	logger := log.WithFields(log.Fields{"kind": "seed", "run": report.RunID})
	logger.Infof("seeding %d fixtures to %s", len(fixtures), c.URL(endpoint))
	warnDuplicates(logger, fixtures)

	for i := range fixtures {
		var result SeedResult
		if ctx.Err() != nil {
			report.Interrupted = true
			result = SeedResult{ID: fixtures[i].ID, DisplayName: displayName(fixtures[i]), Skipped: true, Error: errSkipped}
		} else {
			result = s.submit(ctx, c, endpoint, fixtures[i])
		}

		entry := logger.WithFields(log.Fields{"name": result.DisplayName, "id": result.ID})
		if result.Succeeded {
			report.Succeeded++
			entry.Debug("fixture seeded")
		} else {
			report.Failed++
			entry.WithField("error", result.Error).Warn("fixture not seeded")
		}

		report.Results = append(report.Results, result)
	}

	return report, nil
}

// ValidateFixtures rejects an endpoint or fixture list that cannot be seeded.
func ValidateFixtures(endpoint string, fixtures []FixtureSpec) error {
	if !strings.HasPrefix(endpoint, "/") {
		return &client.ConfigError{Field: "seed endpoint", Reason: fmt.Sprintf("path %q must begin with /", endpoint)}
	}

	for i, f := range fixtures {
		if strings.TrimSpace(f.ID) == "" {
			return &client.ConfigError{Field: fmt.Sprintf("fixture %d (%q)", i, f.DisplayName), Reason: "id must not be empty"}
		}
	}
	return nil
}

func (s *Seeder) submit(ctx context.Context, c *client.Client, endpoint string, fixture FixtureSpec) SeedResult {
	result := SeedResult{ID: fixture.ID, DisplayName: displayName(fixture)}

	body, err := s.encode(fixture)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	res, err := c.Do(ctx, client.Request{
		Method:  http.MethodPost,
		Path:    endpoint,
		Body:    body,
		Headers: map[string]string{"Content-Type": "application/json", "Accept": "application/json"},
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	status := res.StatusCode
	result.HTTPStatus = &status

	if status >= 200 && status <= 299 {
		result.Succeeded = true
		return result
	}

	result.Error = res.FirstLine()
	if result.Error == "" {
		result.Error = res.Status
	}
	return result
}

func (s *Seeder) encode(fixture FixtureSpec) ([]byte, error) {
	payload := copyPayload(fixture.Payload)
	if fixture.Template {
		rendered, err := RenderPayload(fixture.ID, fixture.Payload)
		if err != nil {
			return nil, err
		}
		payload = rendered
	}

	if payload == nil {
		payload = map[string]interface{}{}
	}
	if s.idField != "" {
		if _, ok := payload[s.idField]; !ok {
			payload[s.idField] = fixture.ID
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode payload of fixture %s", fixture.ID)
	}
	return body, nil
}

// copyPayload copies the top level so the id field can be added without
// touching the fixture.
func copyPayload(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func displayName(f FixtureSpec) string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.ID
}

func warnDuplicates(logger *log.Entry, fixtures []FixtureSpec) {
	seen := make(map[string]bool, len(fixtures))
	for _, f := range fixtures {
		if seen[f.ID] {
			logger.WithField("id", f.ID).Warn("fixture id is declared more than once; the target decides whether it is rejected or overwritten")
		}
		seen[f.ID] = true
	}
}
