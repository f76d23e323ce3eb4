package cli

import (
	"fmt"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTasksCmd(service port.UploadService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect and repair upload tasks",
	}

	cmd.AddCommand(newTasksListCmd(service))
	cmd.AddCommand(newTasksShowCmd(service))
	cmd.AddCommand(newTasksCancelCmd(service))
	cmd.AddCommand(newTasksFailCmd(service))

	return cmd
}

func newTasksListCmd(service port.UploadService) *cobra.Command {
	var (
		states []string
		limit  int
		output string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List upload tasks, optionally filtered by state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			filter := make([]domain.TaskState, 0, len(states))
			for _, s := range states {
				state, err := domain.ParseTaskState(s)
				if err != nil {
					return err
				}
				filter = append(filter, state)
			}

			tasks, err := service.ListTasks(cmd.Context(), filter, limit)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}
			return writeTasks(cmd.OutOrStdout(), output, tasks)
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "Only list tasks in these states (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of tasks")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or yaml")

	return cmd
}

func newTasksShowCmd(service port.UploadService) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one upload task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			taskID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id: %w", err)
			}

			task, err := service.GetStatus(cmd.Context(), taskID)
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}
			return writeTask(cmd.OutOrStdout(), output, *task)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table or yaml")

	return cmd
}

func newTasksCancelCmd(service port.UploadService) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <task-id>",
		Short: "Cancel an upload task and drop its staged chunks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id: %w", err)
			}
			if err := service.CancelUpload(cmd.Context(), taskID); err != nil {
				return fmt.Errorf("failed to cancel task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s canceled\n", taskID)
			return nil
		},
	}
}

func newTasksFailCmd(service port.UploadService) *cobra.Command {
	return &cobra.Command{
		Use:   "fail <task-id>",
		Short: "Mark a task stuck in MERGING as FAILED",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id: %w", err)
			}
			if err := service.FailStuckMerge(cmd.Context(), taskID); err != nil {
				return fmt.Errorf("failed to fail task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %s marked FAILED\n", taskID)
			return nil
		},
	}
}
