package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/motion"
	"github.com/teemow/motionmcp/internal/resources"
	"github.com/teemow/motionmcp/internal/server"
	"github.com/teemow/motionmcp/internal/tasks"
	"github.com/teemow/motionmcp/internal/tools/motion_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate the MCP tool reference",
		Long: `Generate a markdown reference of every MCP tool from the registered
tool definitions, so the docs cannot drift from the schemas clients see.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(cmd.OutOrStdout(), outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

// registeredTools returns every tool with writes enabled. The tools are
// introspected only, so no API key is needed.
func registeredTools() ([]mcp.Tool, error) {
	store := credential.NewStaticStore("")
	client, err := motion.NewClient(motion.Options{Credentials: store})
	if err != nil {
		return nil, fmt.Errorf("failed to create Motion client: %w", err)
	}
	sc, err := server.NewServerContext(context.Background(), server.Options{
		Client:  client,
		Service: tasks.NewService(tasks.ServiceOptions{API: client}),
		Store:   store,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("motionmcp", version, mcpserver.WithToolCapabilities(true))
	if err := motion_tools.RegisterMotionTools(mcpSrv, sc, false); err != nil {
		return nil, fmt.Errorf("failed to register Motion tools: %w", err)
	}

	var tools []mcp.Tool
	for _, st := range mcpSrv.ListTools() {
		tools = append(tools, st.Tool)
	}
	return tools, nil
}

func runGenerateDocs(stdout io.Writer, outputFile string) error {
	tools, err := registeredTools()
	if err != nil {
		return err
	}
	markdown := toolsReference(tools)

	if outputFile == "" {
		_, err = io.WriteString(stdout, markdown)
		return err
	}
	if err := os.WriteFile(outputFile, []byte(markdown), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	return nil
}

func toolsReference(tools []mcp.Tool) string {
	byCategory := make(map[string][]mcp.Tool)
	for _, t := range tools {
		c := toolCategory(t.Name)
		byCategory[c] = append(byCategory[c], t)
	}
	categories := slices.Sorted(maps.Keys(byCategory))

	var b strings.Builder
	b.WriteString("# MCP Tools Reference\n\n")
	b.WriteString("Tools exposed by `motionmcp serve`. Generated from the tool definitions by `motionmcp generate-docs`.\n\n")

	b.WriteString("## Table of Contents\n\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- [%s](#%s)\n", c, strings.ToLower(strings.ReplaceAll(c, " ", "-")))
	}

	b.WriteString("\n## Authentication\n\n")
	b.WriteString("Every tool needs a Motion API key, taken from `MOTION_API_KEY` or the credentials file written by `motionmcp auth set`. ")
	b.WriteString("Without one each tool returns an `error` payload and makes no request.\n\n")

	b.WriteString("## Resources\n\n")
	fmt.Fprintf(&b, "- `%s`: JSON list of workspaces (`id`, `name`, `type`)\n\n", resources.WorkspacesURI)

	for _, c := range categories {
		group := byCategory[c]
		slices.SortFunc(group, func(x, y mcp.Tool) int { return strings.Compare(x.Name, y.Name) })

		fmt.Fprintf(&b, "## %s\n\n", c)
		for _, t := range group {
			b.WriteString(toolMarkdown(t))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func toolCategory(name string) string {
	switch {
	case name == "get_workspaces" || name == "get_projects":
		return "Workspace Tools"
	case strings.Contains(name, "task"):
		return "Task Tools"
	default:
		return "Other"
	}
}

// toolMarkdown renders one tool: heading, description and one bullet per
// argument in name order.
func toolMarkdown(tool mcp.Tool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", tool.Name)
	if tool.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", tool.Description)
	}

	props := tool.InputSchema.Properties
	if len(props) == 0 {
		return b.String()
	}

	b.WriteString("**Arguments:**\n")
	for _, name := range slices.Sorted(maps.Keys(props)) {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}

		presence := "optional"
		if slices.Contains(tool.InputSchema.Required, name) {
			presence = "required"
		}
		fmt.Fprintf(&b, "- `%s` (%s): ", name, presence)

		if desc, ok := prop["description"].(string); ok {
			b.WriteString(desc)
		} else {
			fmt.Fprintf(&b, "%s parameter", propertyType(prop))
		}
		if values := enumValues(prop); len(values) > 0 {
			b.WriteString(" One of: `" + strings.Join(values, "`, `") + "`.")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func propertyType(prop map[string]any) string {
	if t, ok := prop["type"].(string); ok {
		return t
	}
	return "any"
}

func enumValues(prop map[string]any) []string {
	switch enum := prop["enum"].(type) {
	case []string:
		return enum
	case []any:
		var values []string
		for _, v := range enum {
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
		return values
	}
	return nil
}
