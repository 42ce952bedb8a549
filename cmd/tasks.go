package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/tasks"
	"github.com/teemow/motionmcp/internal/tui"
)

// outputFlags are shared by every listing command.
type outputFlags struct {
	json    bool
	refresh bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.json, "json", false, "Print JSON instead of text")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "Bypass the response cache")
}

func (o *outputFlags) callOptions() []motion.CallOption {
	if o.refresh {
		return []motion.CallOption{motion.SkipCache()}
	}
	return nil
}

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List, search, filter and create Motion tasks",
	}

	cmd.AddCommand(newPeriodCmd("today", "Tasks due today", (*tasks.Service).Today))
	cmd.AddCommand(newPeriodCmd("tomorrow", "Tasks due tomorrow", (*tasks.Service).Tomorrow))
	cmd.AddCommand(newPeriodCmd("week", "Tasks due this week (Monday to Sunday)", (*tasks.Service).ThisWeek))
	cmd.AddCommand(newPeriodCmd("next-week", "Tasks due next week", (*tasks.Service).NextWeek))
	cmd.AddCommand(newTasksSearchCmd())
	cmd.AddCommand(newTasksFilterCmd())
	cmd.AddCommand(newTasksShowCmd())
	cmd.AddCommand(newTasksCreateCmd())

	return cmd
}

type periodFunc func(*tasks.Service, context.Context, string, ...motion.CallOption) ([]motion.Task, error)

func newPeriodCmd(use, short string, list periodFunc) *cobra.Command {
	var (
		out         outputFlags
		workspaceID string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				found, err := list(a.service, ctx, workspaceID, out.callOptions()...)
				if err != nil {
					return err
				}
				return printTasks(cmd.OutOrStdout(), found, out.json)
			})
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&workspaceID, "workspace", "", "Only list tasks of this workspace")
	return cmd
}

func newTasksSearchCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				found, err := a.service.Search(ctx, args[0], out.callOptions()...)
				if err != nil {
					return err
				}
				if len(found) == 0 && !out.json {
					fmt.Fprintf(cmd.OutOrStdout(), "No tasks found matching %q.\n", args[0])
					return nil
				}
				return printTasks(cmd.OutOrStdout(), found, out.json)
			})
		},
	}

	out.register(cmd)
	return cmd
}

func newTasksFilterCmd() *cobra.Command {
	var (
		out    outputFlags
		params tasks.FilterParams
	)

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter tasks by priority, date range, status, workspace, project, label or name",
		Long: `Filter tasks. Server-side filters (status, workspace, project, label,
name) narrow the request; priority and date range are applied locally.

Date ranges: today, tomorrow, thisWeek, nextWeek, thisMonth, nextMonth.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				found, err := a.service.Filter(ctx, params, out.callOptions()...)
				if err != nil {
					return err
				}
				if !out.json {
					if d := params.Describe(); d != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "Filters: %s\n", d)
					}
				}
				return printTasks(cmd.OutOrStdout(), found, out.json)
			})
		},
	}

	out.register(cmd)
	cmd.Flags().StringVar(&params.Priority, "priority", "", "ASAP, HIGH, MEDIUM or LOW")
	cmd.Flags().StringVar(&params.DateRange, "date-range", "", "today, tomorrow, thisWeek, nextWeek, thisMonth or nextMonth")
	cmd.Flags().StringSliceVar(&params.Status, "status", nil, "Status name (repeatable or comma-separated)")
	cmd.Flags().StringVar(&params.WorkspaceID, "workspace", "", "Workspace ID")
	cmd.Flags().StringVar(&params.ProjectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&params.Label, "label", "", "Label name")
	cmd.Flags().StringVar(&params.Name, "name", "", "Name substring")
	return cmd
}

func newTasksShowCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "show <taskId>",
		Short: "Show a task's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				task, err := a.service.TaskDetails(ctx, args[0], out.callOptions()...)
				if err != nil {
					return err
				}
				detail := tasks.FormatTaskDetail(*task)
				if out.json {
					return printJSON(cmd.OutOrStdout(), detail)
				}
				printTaskDetail(cmd.OutOrStdout(), detail)
				return nil
			})
		},
	}

	out.register(cmd)
	return cmd
}

func newTasksCreateCmd() *cobra.Command {
	var (
		in       tasks.Input
		jsonFlag bool
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an auto-scheduled task",
		Long: `Create a task in Motion with auto-scheduling enabled.

Without --workspace the first workspace is used. Without --due the task
gets a soft deadline and Motion schedules it from today.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Name = args[0]
			return withApp(cmd, func(ctx context.Context, a *app) error {
				created, err := a.service.Create(ctx, in, tasks.ModeInteractive)
				if err != nil {
					return err
				}
				if jsonFlag {
					return printJSON(cmd.OutOrStdout(), map[string]string{
						"id":  created.ID,
						"url": created.URL,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %q created successfully with autoscheduling enabled.\n", created.Request.Name)
				fmt.Fprintln(cmd.OutOrStdout(), created.URL)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print JSON instead of text")
	cmd.Flags().StringVar(&in.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.WorkspaceID, "workspace", "", "Workspace ID (default: first workspace)")
	cmd.Flags().StringVar(&in.ProjectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&in.Priority, "priority", "MEDIUM", "ASAP, HIGH, MEDIUM or LOW")
	cmd.Flags().StringVar(&in.Duration, "duration", "", "Duration in minutes, NONE or REMINDER")
	cmd.Flags().StringVar(&in.Description, "description", "", "Task description")
	cmd.Flags().StringSliceVar(&in.Labels, "label", nil, "Label (repeatable)")
	cmd.Flags().StringVar(&in.AssigneeID, "assignee", "", "Assignee user ID")
	cmd.Flags().StringVar(&in.Status, "status", "", "Initial status name")
	return cmd
}

// withApp builds the app for a single command and releases it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTasks(w io.Writer, found []motion.Task, asJSON bool) error {
	if asJSON {
		return printJSON(w, tasks.FormatTasks(found))
	}
	if len(found) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}
	for _, t := range found {
		item := tui.TaskItem{Task: t}
		fmt.Fprintln(w, item.Line())
		fmt.Fprintf(w, "    %s\n", item.URL())
	}
	fmt.Fprintf(w, "%d %s\n", len(found), plural(len(found), "task"))
	return nil
}

func printTaskDetail(w io.Writer, d tasks.TaskDetail) {
	fmt.Fprintf(w, "%s\n", d.Name)
	fmt.Fprintf(w, "  ID:        %s\n", d.ID)
	fmt.Fprintf(w, "  Priority:  %s\n", d.Priority)
	fmt.Fprintf(w, "  Status:    %s\n", d.Status)
	if d.DueDate != "" {
		fmt.Fprintf(w, "  Due:       %s\n", d.DueDate)
	}
	if dur := tasks.FormatDuration(d.Duration); dur != "" {
		fmt.Fprintf(w, "  Duration:  %s\n", dur)
	}
	fmt.Fprintf(w, "  Workspace: %s\n", d.Workspace.Name)
	if d.Project != nil {
		fmt.Fprintf(w, "  Project:   %s\n", d.Project.Name)
	}
	if d.ScheduledStart != "" {
		fmt.Fprintf(w, "  Scheduled: %s - %s\n", d.ScheduledStart, d.ScheduledEnd)
	}
	if d.SchedulingIssue {
		fmt.Fprintln(w, "  Motion could not schedule this task before its deadline.")
	}
	for _, a := range d.Assignees {
		fmt.Fprintf(w, "  Assignee:  %s <%s>\n", a.Name, a.Email)
	}
	if len(d.Labels) > 0 {
		fmt.Fprintf(w, "  Labels:    %v\n", d.Labels)
	}
	if d.Description != "" {
		fmt.Fprintf(w, "\n%s\n", d.Description)
	}
	fmt.Fprintf(w, "\n%s\n", tasks.TaskURL(d.ID))
}

func plural(n int, noun string) string {
	if n == 1 {
		return noun
	}
	return noun + "s"
}
