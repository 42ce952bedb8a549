package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "motionmcp",
	Short: "Motion task manager for the terminal and for AI assistants",
	Long: `motionmcp talks to the Motion task API (https://usemotion.com).

It can run as:
  - A command-line client: list, search, filter and create tasks
  - An interactive search-as-you-type view (motionmcp search)
  - An MCP (Model Context Protocol) server for AI assistants (motionmcp serve)

Set the API key once with "motionmcp auth set" or export MOTION_API_KEY.`,
	SilenceUsage: true,
}

var version = "dev"

// Persistent flags shared by every command.
var (
	configPath string
	debugMode  bool
)

// SetVersion records the build version for --version, the user agent and
// the MCP server info.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	rootCmd.SetVersionTemplate("motionmcp version {{.Version}}\n")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Settings file (default: ~/.config/motionmcp/config.yaml). Can also use MOTION_CONFIG env var.")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		newServeCmd(),
		newTasksCmd(),
		newSearchCmd(),
		newAuthCmd(),
		newWorkspacesCmd(),
		newProjectsCmd(),
		newCalendarCmd(),
		newGenerateDocsCmd(),
		newVersionCmd(),
	)
}
