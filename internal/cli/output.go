package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

type taskView struct {
	ID            string    `yaml:"id"`
	FileName      string    `yaml:"file_name"`
	FileSize      int64     `yaml:"file_size"`
	CaseID        string    `yaml:"case_id"`
	State         string    `yaml:"state"`
	TotalChunks   int       `yaml:"total_chunks"`
	Received      int       `yaml:"received_chunks"`
	MissingChunks []int     `yaml:"missing_chunks,flow"`
	StorageName   string    `yaml:"storage_name"`
	CreatedAt     time.Time `yaml:"created_at"`
	UpdatedAt     time.Time `yaml:"updated_at"`
}

func newTaskView(task domain.UploadTask) taskView {
	return taskView{
		ID:            task.ID.String(),
		FileName:      task.FileName,
		FileSize:      task.FileSize,
		CaseID:        task.CaseID.String(),
		State:         string(task.State),
		TotalChunks:   task.TotalChunks,
		Received:      task.ReceivedCount(),
		MissingChunks: task.MissingChunks(),
		StorageName:   task.StorageName,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}
}

func validateOutput(format string) error {
	switch format {
	case outputTable, outputYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputTable, outputYAML)
}

func writeTasks(w io.Writer, format string, tasks []domain.UploadTask) error {
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, newTaskView(task))
	}
	if format == outputYAML {
		return writeYAML(w, views)
	}

	if len(views) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tCHUNKS\tFILE\tCREATED")
	for _, v := range views {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\n",
			v.ID, v.State, v.Received, v.TotalChunks, v.FileName, v.CreatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

func writeTask(w io.Writer, format string, task domain.UploadTask) error {
	v := newTaskView(task)
	if format == outputYAML {
		return writeYAML(w, v)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", v.ID)
	fmt.Fprintf(tw, "File:\t%s (%d bytes)\n", v.FileName, v.FileSize)
	fmt.Fprintf(tw, "Case:\t%s\n", v.CaseID)
	fmt.Fprintf(tw, "State:\t%s\n", v.State)
	fmt.Fprintf(tw, "Chunks:\t%d/%d\n", v.Received, v.TotalChunks)
	fmt.Fprintf(tw, "Missing:\t%s\n", joinInts(v.MissingChunks))
	fmt.Fprintf(tw, "Storage name:\t%s\n", v.StorageName)
	fmt.Fprintf(tw, "Created:\t%s\n", v.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", v.UpdatedAt.Format(time.RFC3339))
	return tw.Flush()
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func joinInts(values []int) string {
	if len(values) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ",")
}
