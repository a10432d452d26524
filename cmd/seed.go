package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mittwald/smoketest/internal/helper"
	"github.com/mittwald/smoketest/pkg/seed"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSeedCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the service with the configured fixtures",
		Long: "This sub-command submits every configured fixture to the seed endpoint of the selected target. " +
			"A rejected fixture does not stop the batch.\n\n" +
			"Exit codes: 0 all fixtures seeded, 1 some fixtures failed, 4 configuration error, 130 interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, out, err := prepare(cmd, v)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			only, _ := cmd.Flags().GetStringSlice("only")
			endpoint, _ := cmd.Flags().GetString("endpoint")

			batch, err := planSeed(env, endpoint, only)
			if err != nil {
				return configFailure(err)
			}

			report, err := runSeed(ctx, env, batch)
			if err != nil {
				return configFailure(err)
			}

			if err := out.print(report, func() string { return renderSeedReport(report) }); err != nil {
				return err
			}

			return seedStatus(report)
		},
	}

	addSeedFlags(cmd)

	return cmd
}

func addSeedFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("only", nil, "seed only the fixtures with these ids")
	cmd.Flags().String("endpoint", "", "path fixtures are submitted to (overrides the seed block)")
}

// seedBatch is a validated seeding run, ready to be submitted.
type seedBatch struct {
	endpoint string
	idField  string
	fixtures []seed.FixtureSpec
}

// planSeed selects the fixtures and resolves the endpoint. All configuration
// errors of a seeding run surface here, before any request is made.
func planSeed(env *environment, endpoint string, only []string) (*seedBatch, error) {
	fixtures, err := seed.BuildFixturesFromConfig(env.ignition, only...)
	if err != nil {
		return nil, err
	}

	seedCfg := env.ignition.SeedEndpoint()
	endpoint = helper.SetDefaultStringIfEmpty(endpoint, helper.ResolveEnv(seedCfg.Endpoint))

	if err := seed.ValidateFixtures(endpoint, fixtures); err != nil {
		return nil, err
	}

	return &seedBatch{endpoint: endpoint, idField: seedCfg.IDField, fixtures: fixtures}, nil
}

func runSeed(ctx context.Context, env *environment, batch *seedBatch) (*seed.SeedReport, error) {
	seeder := seed.NewSeeder(env.timeout, seed.WithIDField(batch.idField))
	return seeder.Seed(ctx, env.baseURL, batch.endpoint, batch.fixtures)
}

func seedStatus(report *seed.SeedReport) error {
	if report.Interrupted {
		return &exitStatus{code: ExitInterrupted}
	}
	if report.Err() != nil {
		return &exitStatus{code: 1}
	}
	return nil
}
