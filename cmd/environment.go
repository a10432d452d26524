package cmd

import (
	"time"

	"github.com/mittwald/smoketest/internal/config"
	"github.com/mittwald/smoketest/internal/helper"
	"github.com/mittwald/smoketest/pkg/client"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// environment is everything a command needs to address one target.
type environment struct {
	ignition *config.Ignition
	target   string
	baseURL  string
	timeout  time.Duration
}

// loadEnvironment merges the configuration directory with flags and
// SMOKETEST_* variables. Precedence is flag, then environment, then the
// selected target block, then config.DefaultBaseURL.
func loadEnvironment(v *viper.Viper) (*environment, error) {
	ignition, err := config.Load(v.GetString("config-dir"))
	if err != nil {
		return nil, err
	}

	target, err := ignition.SelectTarget(v.GetString("target"))
	if err != nil {
		return nil, &client.ConfigError{Field: "target", Reason: err.Error()}
	}

	env := &environment{
		ignition: ignition,
		target:   target.Name,
		baseURL:  v.GetString("base-url"),
		timeout:  v.GetDuration("timeout"),
	}

	if env.baseURL == "" {
		env.baseURL = helper.SetDefaultStringIfEmpty(helper.ResolveEnv(target.BaseURL), config.DefaultBaseURL, "baseUrl", "target")
	}

	if env.timeout <= 0 && target.Timeout != "" {
		timeout, err := time.ParseDuration(helper.ResolveEnv(target.Timeout))
		if err != nil {
			return nil, &client.ConfigError{Field: "target " + target.Name + " timeout", Reason: "invalid duration " + target.Timeout, Err: err}
		}
		env.timeout = timeout
	}
	if env.timeout <= 0 {
		env.timeout = client.DefaultTimeout
	}

	log.WithFields(log.Fields{
		"kind":    "config",
		"target":  env.target,
		"baseUrl": env.baseURL,
		"timeout": env.timeout,
	}).Debug("resolved target")

	return env, nil
}
