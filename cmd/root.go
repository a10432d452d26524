package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mittwald/smoketest/pkg/client"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ExitConfigError = 4
	ExitInterrupted = 130
)

const defaultConfigDir = "/etc/smoketest.d"

// exitStatus ends a command with a specific exit code. err is rendered
// before exiting if set; a nil err means the command already reported.
type exitStatus struct {
	code int
	err  error
}

func (e *exitStatus) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitStatus) Unwrap() error {
	return e.err
}

func configFailure(err error) error {
	return &exitStatus{code: ExitConfigError, err: err}
}

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SMOKETEST")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           "smoketest",
		Short:         "smoketest - health verification and fixture seeding for the function registry",
		Long:          "smoketest probes a running deployment of the function registry service, reports whether it is healthy and can populate it with sample fixtures.",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(v.GetString("log-level"), v.GetString("log-format"))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-dir", "c", defaultConfigDir, "set directory to where your .hcl-configs are located")
	flags.String("base-url", "", "base URL of the service under test (overrides the selected target)")
	flags.String("target", "", "name of the configured target to address")
	flags.Duration("timeout", 0, "per-request timeout (overrides the selected target)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.StringP("output", "o", outputText, "report format (text, json, yaml)")
	flags.Bool("no-color", false, "disable colored output")

	if err := v.BindPFlags(flags); err != nil {
		log.Fatalf("failed to bind flags: %s", err)
	}

	rootCmd.AddCommand(
		newHealthCommand(v),
		newSeedCommand(v),
		newRunCommand(v),
		newVersionCommand(),
	)

	return rootCmd
}

func configureLogging(level, format string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return configFailure(&client.ConfigError{Field: "log-level", Reason: "unknown level " + level})
	}
	log.SetLevel(lvl)

	switch format {
	case "text":
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return configFailure(&client.ConfigError{Field: "log-format", Reason: "unknown format " + format})
	}

	return nil
}

func Execute() {
	os.Exit(execute(newRootCommand(), os.Args[1:]))
}

// execute runs rootCmd with args and maps the result to an exit code.
func execute(rootCmd *cobra.Command, args []string) int {
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var status *exitStatus
	if errors.As(err, &status) {
		if status.err != nil {
			fmt.Fprintln(rootCmd.ErrOrStderr(), renderError(status.err))
		}
		return status.code
	}

	// flag and argument errors
	fmt.Fprintln(rootCmd.ErrOrStderr(), renderError(err))
	return ExitConfigError
}
