package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/motionmcp/internal/tui"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search tasks interactively as you type",
		Long: `Open a search-as-you-type view of your Motion tasks.

Each keystroke restarts a short quiet period (search_delay in the
settings, 300ms by default); the search runs once typing pauses. Press
enter to print the selected task's link, esc to quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				model := tui.NewSearchModel(tui.SearchOptions{
					Searcher: a.service,
					Delay:    a.cfg.SearchDelay,
					Context:  ctx,
					Query:    strings.Join(args, " "),
				})

				selected, err := model.Run()
				if err != nil {
					return fmt.Errorf("search view failed: %w", err)
				}
				if selected != nil {
					fmt.Fprintln(cmd.OutOrStdout(), selected.Task.Name)
					fmt.Fprintln(cmd.OutOrStdout(), selected.URL())
				}
				return nil
			})
		},
	}
}
