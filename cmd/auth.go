package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/motionmcp/internal/credential"
	"github.com/teemow/motionmcp/internal/logging"
	"github.com/teemow/motionmcp/internal/motion"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Motion API key",
		Long: `Manage the Motion API key.

The key is created in Motion under Settings > API. It is stored in the
credentials file (default: ~/.config/motionmcp/credentials.yaml) and
sealed with AES-256-GCM when MOTION_ENCRYPTION_KEY is set. Changing or
clearing the key drops every cached response.

MOTION_API_KEY takes precedence over the file and makes the store
read-only.`,
	}

	cmd.AddCommand(newAuthSetCmd())
	cmd.AddCommand(newAuthClearCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthTestCmd())

	return cmd
}

func newAuthSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [api-key]",
		Short: "Store the API key (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var key string
				if len(args) == 1 {
					key = args[0]
				} else {
					fmt.Fprint(cmd.ErrOrStderr(), "Motion API key: ")
					var err error
					if key, err = readLine(cmd.InOrStdin()); err != nil {
						return fmt.Errorf("failed to read API key: %w", err)
					}
				}

				if err := a.store.Set(ctx, strings.TrimSpace(key)); err != nil {
					return storeError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
				return nil
			})
		},
	}
}

func newAuthClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.store.Clear(ctx); err != nil {
					return storeError(err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
				return nil
			})
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API key comes from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				key, err := a.store.Get(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch s := a.store.(type) {
				case *credential.FileStore:
					fmt.Fprintf(out, "Source:    %s\n", s.Path())
				case *credential.StaticStore:
					fmt.Fprintln(out, "Source:    MOTION_API_KEY")
				}
				if key == "" {
					fmt.Fprintln(out, "API key:   not configured")
					fmt.Fprintln(out, motion.MissingCredentialMessage)
					return nil
				}
				fmt.Fprintf(out, "API key:   %s\n", logging.SanitizeToken(key))
				return nil
			})
		},
	}
}

func newAuthTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the API key by listing workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				workspaces, err := a.service.Workspaces(ctx, motion.SkipCache())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "API key works: %d %s accessible.\n",
					len(workspaces), plural(len(workspaces), "workspace"))
				return nil
			})
		},
	}
}

// storeError explains a read-only store; other errors pass through.
func storeError(err error) error {
	if errors.Is(err, credential.ErrReadOnly) {
		return errors.New("the API key comes from MOTION_API_KEY; unset it to manage the stored key")
	}
	return err
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
