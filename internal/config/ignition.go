package config

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultBaseURL = "http://localhost:8862"

//go:embed defaults/*.hcl
var defaultFiles embed.FS

// GenerateFromConfigDir merges all .hcl files below configDir into the
// ignition config. Files are read in lexical order and their blocks are
// appended, so one file may hold the checks and another the fixtures.
func (ignition *Ignition) GenerateFromConfigDir(configDir string) error {
	configDir = strings.TrimRight(configDir, "/")

	matches, err := findFilesInPath(configDir)
	if err != nil {
		return err
	}

	for _, m := range matches {
		log.Infof("found config file: %s", m)

		contents, err := os.ReadFile(m)
		if err != nil {
			return errors.Wrapf(err, "failed to read configuration file %s", m)
		}

		if err := ignition.merge(m, contents); err != nil {
			return err
		}
	}

	return nil
}

// GenerateFromDefaults loads the configuration embedded into the binary.
func (ignition *Ignition) GenerateFromDefaults() error {
	entries, err := defaultFiles.ReadDir("defaults")
	if err != nil {
		return errors.Wrap(err, "failed to list embedded defaults")
	}

	for _, e := range entries {
		name := path.Join("defaults", e.Name())
		contents, err := defaultFiles.ReadFile(name)
		if err != nil {
			return errors.Wrapf(err, "failed to read embedded configuration %s", name)
		}

		if err := ignition.merge(name, contents); err != nil {
			return err
		}
	}

	return nil
}

// Load reads configDir, falling back to the embedded defaults if the
// directory does not exist.
func Load(configDir string) (*Ignition, error) {
	ignition := &Ignition{}

	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		log.Infof("config dir %s does not exist, using built-in defaults", configDir)
		if err := ignition.GenerateFromDefaults(); err != nil {
			return nil, err
		}
		return ignition, nil
	}

	if err := ignition.GenerateFromConfigDir(configDir); err != nil {
		return nil, err
	}
	return ignition, nil
}

func (ignition *Ignition) merge(name string, contents []byte) error {
	part := Ignition{}
	if err := hcl.Unmarshal(contents, &part); err != nil {
		return errors.Wrapf(err, "could not parse configuration file %s", name)
	}

	for i := range part.Fixtures {
		part.Fixtures[i].Payload = normalizeMap(part.Fixtures[i].Payload)
	}

	ignition.Targets = append(ignition.Targets, part.Targets...)
	ignition.Checks = append(ignition.Checks, part.Checks...)
	ignition.Fixtures = append(ignition.Fixtures, part.Fixtures...)
	ignition.Dependencies = append(ignition.Dependencies, part.Dependencies...)
	if part.Seed != nil {
		if ignition.Seed != nil {
			log.Warnf("seed block in %s overrides a previously declared one", name)
		}
		ignition.Seed = part.Seed
	}

	return nil
}

// SelectTarget returns the target called name. An empty name selects the
// target called "default", or the first declared one. Without any declared
// target, a target pointing at DefaultBaseURL is returned.
func (ignition *Ignition) SelectTarget(name string) (Target, error) {
	if name == "" {
		for _, t := range ignition.Targets {
			if t.Name == "default" {
				return t, nil
			}
		}
		if len(ignition.Targets) > 0 {
			return ignition.Targets[0], nil
		}
		return Target{Name: "default", BaseURL: DefaultBaseURL}, nil
	}

	for _, t := range ignition.Targets {
		if t.Name == name {
			return t, nil
		}
	}
	return Target{}, fmt.Errorf("target %q is not configured", name)
}

func (ignition *Ignition) SeedEndpoint() Seed {
	if ignition.Seed == nil {
		return Seed{}
	}
	return *ignition.Seed
}

// normalizeMap undoes the list wrapping HCL applies to nested objects when
// decoding into interface{} values.
func normalizeMap(in map[string]interface{}) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case []map[string]interface{}:
		if len(val) == 1 {
			return normalizeMap(val[0])
		}
		list := make([]interface{}, len(val))
		for i := range val {
			list[i] = normalizeMap(val[i])
		}
		return list
	case map[string]interface{}:
		return normalizeMap(val)
	case []interface{}:
		list := make([]interface{}, len(val))
		for i := range val {
			list[i] = normalizeValue(val[i])
		}
		return list
	default:
		return v
	}
}
