package seed

import (
	"fmt"

	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/pkg/client"
)

// BuildFixturesFromConfig returns the configured fixtures in declaration
// order. When only is not empty, just the fixtures with these ids are
// returned; unknown ids are a configuration error.
func BuildFixturesFromConfig(cfg *config.Ignition, only ...string) ([]FixtureSpec, error) {
	fixtures := make([]FixtureSpec, 0, len(cfg.Fixtures))
	for _, f := range cfg.Fixtures {
		fixtures = append(fixtures, FixtureSpec{
			ID:          f.ID,
			DisplayName: f.Name,
			Payload:     f.Payload,
			Template:    f.Template,
		})
	}

	if len(only) == 0 {
		return fixtures, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, id := range only {
		wanted[id] = true
	}

	found := make(map[string]bool, len(only))
	var selected []FixtureSpec
	for _, f := range fixtures {
		if wanted[f.ID] {
			selected = append(selected, f)
			found[f.ID] = true
		}
	}

	for _, id := range only {
		if !found[id] {
			return nil, &client.ConfigError{Field: "fixture selection", Reason: fmt.Sprintf("fixture %q is not configured", id)}
		}
	}

	return selected, nil
}
