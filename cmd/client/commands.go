package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/client"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/models"
	"github.com/verlic4/To-Do-List---your-reminder-todo/internal/service"
)

const defaultServer = "http://localhost:8080"

type options struct {
	server  string
	timeout time.Duration
}

func (o *options) client() *client.Client {
	return client.New(o.server, nil)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func rootCmd() *cobra.Command {
	opts := &options{}

	server := os.Getenv("TASKS_SERVER")
	if server == "" {
		server = defaultServer
	}

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage tasks on a running task server",
		Long: `Command-line client for the task HTTP API.

Examples:
  tasks list --status PENDING --sort-by title --order-by asc
  tasks create "Buy milk" --description "two litres"
  tasks complete 3
  tasks delete 3
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.server, "server", server, "Task server base URL (env TASKS_SERVER)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Per-request timeout")

	cmd.AddCommand(
		listCmd(opts),
		createCmd(opts),
		getCmd(opts),
		updateCmd(opts),
		statusCmd(opts, "complete", "Mark a task as completed", models.TaskStatusCompleted),
		statusCmd(opts, "reopen", "Mark a task as pending again", models.TaskStatusPending),
		deleteCmd(opts),
		healthCmd(opts),
	)
	return cmd
}

func listCmd(opts *options) *cobra.Command {
	var (
		status  string
		sortBy  string
		orderBy string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			tasks, err := opts.client().List(ctx, client.ListOptions{
				Status:  strings.ToUpper(status),
				SortBy:  sortBy,
				OrderBy: orderBy,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), tasks)
			}
			printTable(cmd.OutOrStdout(), tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING or COMPLETED)")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort field (createdAt, updatedAt, title)")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort order (asc or desc)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func createCmd(opts *options) *cobra.Command {
	var (
		description string
		status      string
	)

	cmd := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			in := &models.CreateTaskInput{
				Title:  args[0],
				Status: models.TaskStatus(strings.ToUpper(status)),
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}

			task, err := opts.client().Create(ctx, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (defaults to PENDING)")
	return cmd
}

func getCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			task, err := opts.client().Get(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task)
		},
	}
}

func updateCmd(opts *options) *cobra.Command {
	var (
		title       string
		description string
		status      string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			in := &models.UpdateTaskInput{}
			if cmd.Flags().Changed("title") {
				in.Title = &title
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if cmd.Flags().Changed("status") {
				st := models.TaskStatus(strings.ToUpper(status))
				in.Status = &st
			}
			if in.Empty() {
				return fmt.Errorf("nothing to update: pass --title, --description or --status")
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			task, err := opts.client().Update(ctx, id, in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (empty clears it)")
	cmd.Flags().StringVar(&status, "status", "", "New status (PENDING or COMPLETED)")
	return cmd
}

func statusCmd(opts *options, use, short string, status models.TaskStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			st := status
			task, err := opts.client().Update(ctx, id, &models.UpdateTaskInput{Status: &st})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), task)
		},
	}
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			task, err := opts.client().Delete(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task %d deleted\n", task.ID)
			return nil
		},
	}
}

func parseID(raw string) (int64, error) {
	id, err := service.ParseTaskID(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", raw)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, tasks []*models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Status", "Title", "Description", "Updated"})
	table.SetAutoWrapText(false)
	for _, t := range tasks {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		table.Append([]string{
			fmt.Sprint(t.ID),
			string(t.Status),
			t.Title,
			desc,
			t.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	table.Render()
}
