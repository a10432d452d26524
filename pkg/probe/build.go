package probe

import (
	"fmt"
	"time"

	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	"github.com/mittwald/smoketest/pkg/client"
)

// NewCheckSpec turns a declarative check block into a CheckSpec.
func NewCheckSpec(cfg *config.Check) (CheckSpec, error) {
	spec := CheckSpec{
		Label:          cfg.Label,
		Method:         helper.SetDefaultStringIfEmpty(helper.ResolveEnv(cfg.Method), "GET", "method", "check", cfg.Label),
		Path:           helper.ResolveEnv(cfg.Path),
		ExpectedStatus: helper.SetDefaultIntIfZero(cfg.ExpectStatus, 200),
		Headers:        helper.ResolveEnvMap(cfg.Headers),
		Extract:        cfg.Extract,
		RequireData:    cfg.RequireData,
	}

	if cfg.Payload != "" {
		spec.Body = []byte(helper.ResolveEnv(cfg.Payload))
	}

	if cfg.Timeout != "" {
		timeout, err := time.ParseDuration(helper.ResolveEnv(cfg.Timeout))
		if err != nil {
			return CheckSpec{}, &client.ConfigError{Field: fmt.Sprintf("check %q", cfg.Label), Reason: "invalid timeout duration", Err: err}
		}
		spec.Timeout = timeout
	}

	var predicates []BodyPredicate
	if cfg.BodyContains != "" {
		predicates = append(predicates, BodyContains(helper.ResolveEnv(cfg.BodyContains)))
	}
	if cfg.JSONField != "" {
		predicates = append(predicates, BodyHasJSONField(cfg.JSONField))
	}
	spec.BodyPredicate = AllOf(predicates...)

	return spec, nil
}

// BuildChecksFromConfig builds and validates all configured checks.
func BuildChecksFromConfig(cfg *config.Ignition) ([]CheckSpec, error) {
	specs := make([]CheckSpec, 0, len(cfg.Checks))
	for i := range cfg.Checks {
		spec, err := NewCheckSpec(&cfg.Checks[i])
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// BuildDependenciesFromConfig builds the configured dependency probes in
// declaration order.
func BuildDependenciesFromConfig(cfg *config.Ignition) ([]Dependency, error) {
	result := make([]Dependency, 0, len(cfg.Dependencies))
	for i := range cfg.Dependencies {
		d := &cfg.Dependencies[i]

		var p Probe
		switch {
		case d.Filesystem != "":
			p = NewFilesystemProbe(d.Filesystem)
		case d.MySQL != nil:
			p = NewMySQLProbe(d.MySQL)
		case d.Redis != nil:
			p = NewRedisProbe(d.Redis)
		case d.MongoDB != nil:
			p = NewMongoDBProbe(d.MongoDB)
		case d.Amqp != nil:
			p = NewAmqpProbe(d.Amqp)
		case d.SMTP != nil:
			p = NewSmtpProbe(d.SMTP)
		default:
			return nil, &client.ConfigError{Field: fmt.Sprintf("dependency %q", d.Label), Reason: "no probe kind configured"}
		}

		result = append(result, Dependency{Label: d.Label, Probe: p})
	}
	return result, nil
}
