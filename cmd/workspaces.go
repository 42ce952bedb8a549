package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/tasks"
	"github.com/teemow/motionmcp/internal/tools/motion_tools"
)

func newWorkspacesCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "workspaces",
		Short: "List your Motion workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				workspaces, err := a.service.Workspaces(ctx, out.callOptions()...)
				if err != nil {
					return err
				}
				summaries := motion_tools.SummarizeWorkspaces(workspaces)
				if out.json {
					return printJSON(cmd.OutOrStdout(), summaries)
				}
				if len(summaries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No workspaces found.")
					return nil
				}
				for _, ws := range summaries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (%s)\n", ws.ID, ws.Name, ws.Type)
				}
				return nil
			})
		},
	}

	out.register(cmd)
	return cmd
}

func newProjectsCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "projects <workspaceId>",
		Short: "List the projects of a workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				projects, err := a.service.Projects(ctx, args[0], out.callOptions()...)
				if err != nil {
					return err
				}
				if out.json {
					return printJSON(cmd.OutOrStdout(), projects)
				}
				printProjects(cmd, args[0], projects)
				return nil
			})
		},
	}

	out.register(cmd)
	return cmd
}

func printProjects(cmd *cobra.Command, workspaceID string, projects []motion.Project) {
	w := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintf(w, "No projects found in workspace %s.\n", workspaceID)
		return
	}
	for _, p := range projects {
		fmt.Fprintf(w, "%s  %s\n", p.ID, p.Name)
	}
}

func newCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Print the Motion calendar link",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), tasks.CalendarURL)
		},
	}
}
