// Package cli holds the archivectl operator commands.
package cli

import (
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/spf13/cobra"
)

// Services are the operations the commands drive
type Services struct {
	Upload  port.UploadService
	Cleanup port.CleanupService
}

// NewRootCommand builds archivectl. defaultExpiry seeds sweep --older-than.
func NewRootCommand(services Services, defaultExpiry time.Duration) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "archivectl",
		Short:         "Operate the document archive",
		Long:          "Inspect and repair chunked upload tasks and run the expiry sweep by hand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newTasksCmd(services.Upload))
	rootCmd.AddCommand(newSweepCmd(services.Cleanup, defaultExpiry))

	return rootCmd
}
