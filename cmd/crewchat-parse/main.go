// crewchat-parse runs the tool-call extraction engine over raw model output
// from a file or stdin and prints the outcome as JSON. It exists for
// debugging prompt formats: paste a model reply in, see which calls the
// engine recovers and what content remains.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jimxer74/find-my-crew-sub005/internal/logging"
	"github.com/jimxer74/find-my-crew-sub005/internal/shared/jsonx"
	"github.com/jimxer74/find-my-crew-sub005/internal/toolcall"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var sanitize bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "crewchat-parse [file]",
		Short: "Extract tool calls from raw model output",
		Long: `Reads model output text from a file (or stdin when no file is given),
extracts every recognized tool invocation, and prints the cleaned content
plus the call list as indented JSON.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var opts []toolcall.Option
			if verbose {
				opts = append(opts, toolcall.WithLogger(
					logging.NewWithComponent(logging.Config{Level: "debug"}, "toolcall")))
			}
			outcome := toolcall.New(opts...).Parse(input)
			if sanitize {
				outcome.Content = toolcall.SanitizeContent(outcome.Content, len(outcome.ToolCalls) > 0)
			}

			pretty, err := jsonx.MarshalIndent(outcome, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
			return nil
		},
	}

	cmd.Flags().BoolVar(&sanitize, "sanitize", false, "also remove residual call-looking fragments from the content")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log parse diagnostics to stderr")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	return string(data), nil
}
