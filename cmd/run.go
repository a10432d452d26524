package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mittwald/smoketest/pkg/probe"
	"github.com/mittwald/smoketest/pkg/seed"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runReport is the combined result of the run command.
type runReport struct {
	Before *probe.Report    `json:"before" yaml:"before"`
	Seed   *seed.SeedReport `json:"seed,omitempty" yaml:"seed,omitempty"`
	After  *probe.Report    `json:"after,omitempty" yaml:"after,omitempty"`
}

func newRunCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Check, seed and check again",
		Long: "This sub-command checks the service, seeds the configured fixtures and verifies the service once more. " +
			"Seeding is skipped when the service is unreachable.\n\n" +
			"The exit code is the one of the final health check; if that is healthy but some fixtures failed to seed, it is 1.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, out, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			only, _ := cmd.Flags().GetStringSlice("only")
			endpoint, _ := cmd.Flags().GetString("endpoint")

			batch, err := planSeed(env, endpoint, only)
			if err != nil {
				return configFailure(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result := runReport{}
			var sections []string
			render := func() string { return strings.Join(sections, "\n") }

			before, err := runHealth(ctx, env)
			if err != nil {
				return configFailure(err)
			}
			result.Before = before
			sections = append(sections, renderHealthReport(before, env.target))

			if before.Interrupted {
				return finish(out, result, render, healthStatus(before))
			}
			if before.Outcome == probe.OutcomeUnreachable {
				log.WithField("kind", "run").Warn("service is unreachable, not seeding")
				return finish(out, result, render, healthStatus(before))
			}

			seeded, err := runSeed(ctx, env, batch)
			if err != nil {
				return configFailure(err)
			}
			result.Seed = seeded
			sections = append(sections, renderSeedReport(seeded))

			if seeded.Interrupted {
				return finish(out, result, render, seedStatus(seeded))
			}

			after, err := runHealth(ctx, env)
			if err != nil {
				return configFailure(err)
			}
			result.After = after
			sections = append(sections, renderHealthReport(after, env.target))

			status := healthStatus(after)
			if status == nil {
				status = seedStatus(seeded)
			}
			return finish(out, result, render, status)
		},
	}

	addSeedFlags(cmd)

	return cmd
}

func finish(out *printer, result runReport, render func() string, status error) error {
	if err := out.print(result, render); err != nil {
		return err
	}
	return status
}
