package cli

import (
	"fmt"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/spf13/cobra"
)

func newSweepCmd(service port.CleanupService, defaultExpiry time.Duration) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove abandoned upload tasks now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive, got %s", olderThan)
			}
			cutoff := time.Now().Add(-olderThan)
			removed, err := service.CleanupExpiredTasks(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("sweep stopped after %d task(s): %w", removed, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s) created before %s\n", removed, cutoff.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", defaultExpiry, "Remove expirable tasks created longer ago than this")

	return cmd
}
