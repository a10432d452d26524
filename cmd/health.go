package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mittwald/smoketest/pkg/probe"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHealthCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check whether the service is healthy",
		Long: "This sub-command runs the configured checks and dependency probes against the selected target.\n\n" +
			"Exit codes: 0 healthy, 1 unhealthy, 2 unreachable, 3 healthy but empty, 4 configuration error, 130 interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, out, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := runHealth(ctx, env)
			if err != nil {
				return configFailure(err)
			}

			if err := out.print(report, func() string { return renderHealthReport(report, env.target) }); err != nil {
				return err
			}

			return healthStatus(report)
		},
	}
}

// prepare resolves the target and the report printer shared by all
// commands that talk to the service.
func prepare(cmd *cobra.Command, v *viper.Viper) (*environment, *printer, error) {
	out, err := newPrinter(cmd.OutOrStdout(), v.GetString("output"), v.GetBool("no-color"))
	if err != nil {
		return nil, nil, configFailure(err)
	}

	env, err := loadEnvironment(v)
	if err != nil {
		return nil, nil, configFailure(err)
	}

	return env, out, nil
}

func runHealth(ctx context.Context, env *environment) (*probe.Report, error) {
	specs, err := probe.BuildChecksFromConfig(env.ignition)
	if err != nil {
		return nil, err
	}

	dependencies, err := probe.BuildDependenciesFromConfig(env.ignition)
	if err != nil {
		return nil, err
	}

	return probe.NewRunner(env.timeout).Run(ctx, env.baseURL, specs, dependencies...)
}

func healthStatus(report *probe.Report) error {
	if report.Interrupted {
		return &exitStatus{code: ExitInterrupted}
	}

	if code := report.Outcome.ExitCode(); code != probe.ExitHealthy {
		return &exitStatus{code: code}
	}
	return nil
}
