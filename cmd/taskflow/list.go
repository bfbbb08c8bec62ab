package main

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/service"
)

const dateLayout = "2006-01-02"

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with their task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				toasts := service.NewLogToaster(a.Log)
				dir := a.Directories.Open(operator, toasts)
				if err := dir.Load(ctx); err != nil {
					return err
				}
				board := a.Boards.Open(operator, toasts)
				if err := board.Load(ctx, false); err != nil {
					return err
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"User ID", "Username", "Role", "Total", "Completed", "Active", "Joined"})
				for _, s := range dir.Stats(board.Tasks()) {
					tw.AppendRow(table.Row{s.UserID, s.Username, s.Role, s.Total, s.Completed, s.Active, s.CreatedAt.Format(dateLayout)})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func tasksCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				board := a.Boards.Open(operator, service.NewLogToaster(a.Log))
				if err := board.Load(ctx, false); err != nil {
					return err
				}

				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Title", "Status", "Priority", "Assignee", "Due"})
				for _, t := range board.Tasks() {
					if status != "" && string(t.Status) != status {
						continue
					}
					tw.AppendRow(table.Row{t.ID, t.Title, t.Status, t.Priority, assigneeName(t), dueDate(t)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only show tasks in this status")
	return cmd
}

func assigneeName(t domain.Task) string {
	if t.Assignee != nil {
		return t.Assignee.Username
	}
	return t.AssignedTo
}

func dueDate(t domain.Task) string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format(dateLayout)
}
