package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-assistant/internal/intent"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [message]",
	Short: "Print the intent category a message is routed to",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return classify(cmd.OutOrStdout(), strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func classify(out io.Writer, text string) error {
	category := intent.Classify(text)
	fmt.Fprintln(out, category)

	if verbose {
		if category == intent.ResumeHelp && intent.WantsCreation(text) {
			fmt.Fprintln(out, "résumé creation requested")
		}
		for _, c := range intent.AllCategories() {
			if kw := intent.Keywords(c); len(kw) > 0 {
				fmt.Fprintf(out, "  %-20s %s\n", c, strings.Join(kw, ", "))
			}
		}
	}
	return nil
}
