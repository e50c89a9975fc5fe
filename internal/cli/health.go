package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// healthPollInterval is the delay between checks while waiting
const healthPollInterval = 250 * time.Millisecond

func newHealthCmd() *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := checkHealth(cmd.Context(), wait)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 0, "Keep retrying for up to this long until the server is healthy")

	return cmd
}

// checkHealth queries the health endpoint, retrying until wait has elapsed
func checkHealth(ctx context.Context, wait time.Duration) (HealthResult, error) {
	deadline := time.Now().Add(wait)
	for {
		var result HealthResult
		err := client.Get(ctx, "/api/v1/health", &result)
		if err == nil {
			return result, nil
		}
		if !time.Now().Before(deadline) {
			return HealthResult{}, err
		}

		select {
		case <-ctx.Done():
			return HealthResult{}, fmt.Errorf("waiting for server: %w", ctx.Err())
		case <-time.After(healthPollInterval):
		}
	}
}
