package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-assistant/internal/assistant"
	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/ingestion"
	"github.com/jonathan/career-assistant/internal/observability"
	"github.com/jonathan/career-assistant/internal/types"
	"github.com/spf13/cobra"
)

var (
	askResumeFile string
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message to the assistant and print the reply",
	Long: `Send a single message through a fresh in-memory session and print the typed reply.
With --resume the file is analyzed instead and the résumé analysis is printed.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askResumeFile, "resume", "r", "", "Path to a résumé (txt, pdf or docx) to analyze")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the raw JSON message instead of formatted output")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" && askResumeFile == "" {
		return fmt.Errorf("a message or --resume is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if askResumeFile != "" {
		return analyzeFile(ctx, out, a.assistant, askResumeFile, askJSON)
	}
	return askOnce(ctx, out, a.assistant, text, askJSON)
}

// askOnce submits text to a new session and prints the assistant's reply.
func askOnce(ctx context.Context, out io.Writer, a *assistant.Assistant, text string, asJSON bool) error {
	manager := conversation.NewManager(a)
	session, err := manager.Create(ctx)
	if err != nil {
		return err
	}

	exchange, err := manager.Submit(ctx, session.ID, text)
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, exchange.Reply)
	}
	observability.NewPrinter(out).PrintMessage(exchange.Reply)
	if verbose {
		fmt.Fprintf(out, "\nsuggested tab: %s, degraded: %t\n", exchange.SuggestedTab, exchange.Degraded) //nolint:errcheck
	}
	return nil
}

// analyzeFile reads a résumé from disk and prints its analysis.
func analyzeFile(ctx context.Context, out io.Writer, a *assistant.Assistant, path string, asJSON bool) error {
	doc, err := ingestion.IngestFromFile(path)
	if err != nil {
		return err
	}

	result, err := a.AnalyzeResume(ctx, doc.Text, types.UserProfile{})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, result.Analysis)
	}
	if verbose && doc.Metadata != nil {
		fmt.Fprintf(out, "%s (%s, %d bytes, sha256 %s)\n", doc.Filename, doc.Format, doc.Metadata.Size, doc.Metadata.Hash) //nolint:errcheck
	}
	observability.NewPrinter(out).PrintAnalysis(result.Analysis)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
