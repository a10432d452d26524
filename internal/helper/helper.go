package helper

import (
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const envPrefix = "ENV:"

// ResolveEnv replaces values of the form "ENV:NAME" with the content of the
// environment variable NAME.
func ResolveEnv(in string) string {
	if strings.HasPrefix(in, envPrefix) {
		return os.Getenv(in[len(envPrefix):])
	}
	return in
}

func ResolveEnvMap(in map[string]string) map[string]string {
	if len(in) == 0 {
		return in
	}

	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = ResolveEnv(v)
	}
	return out
}

// SetDefaultStringIfEmpty returns defaultValue when value is empty. The
// optional context (field name, block kind) is only used for logging.
func SetDefaultStringIfEmpty(value, defaultValue string, context ...string) string {
	if len(value) > 0 {
		return value
	}

	if len(context) > 0 {
		log.WithFields(log.Fields{"field": context[0], "kind": strings.Join(context[1:], ",")}).
			Debugf("no value specified, assuming default %q", defaultValue)
	}
	return defaultValue
}

func SetDefaultIntIfZero(value, defaultValue int) int {
	if value == 0 {
		return defaultValue
	}
	return value
}
