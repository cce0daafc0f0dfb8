package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-capture/internal/llm"
	"github.com/jonathan/job-capture/internal/observability"
	"github.com/jonathan/job-capture/internal/pipeline"
	"github.com/jonathan/job-capture/internal/rules"
	"github.com/jonathan/job-capture/internal/summarize"
	"github.com/jonathan/job-capture/internal/types"
)

var (
	captureURL       string
	captureTitle     string
	captureBoard     string
	captureJSON      bool
	captureNoModel   bool
	captureThousands int
)

var captureCmd = &cobra.Command{
	Use:   "capture <posting.txt>",
	Short: "Run one capture from a text file and print the extracted doc",
	Long:  `Run the extraction pipeline on a posting saved to a text file, without persisting anything. Useful for tuning the rules against real postings.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCapture,
}

func init() {
	captureCmd.Flags().StringVar(&captureURL, "url", "", "Posting URL (required)")
	captureCmd.Flags().StringVar(&captureTitle, "title", "", "Page title hint")
	captureCmd.Flags().StringVar(&captureBoard, "board", "", "Board hint, e.g. greenhouse")
	captureCmd.Flags().BoolVar(&captureJSON, "json", false, "Print the doc as JSON instead of formatted output")
	captureCmd.Flags().BoolVar(&captureNoModel, "no-model", false, "Skip model-assisted extraction even if an API key is set")
	captureCmd.Flags().IntVar(&captureThousands, "thousands-bound", 0, "Salary in-thousands heuristic bound")
	_ = captureCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(captureCmd)
}

func runCapture(_ *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read posting file: %w", err)
	}

	ctx := context.Background()
	opts := pipeline.Options{
		Rules: rules.Config{ThousandsBound: captureThousands},
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey != "" && !captureNoModel {
		client, err := llm.NewClient(ctx, nil, apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close() //nolint:errcheck
		opts.Extractor = llm.NewExtractor(client, nil)
		opts.Summarizer = summarize.New(client, 0)
	}

	result, err := pipeline.New(opts).Run(ctx, types.RawCapture{
		URL:     captureURL,
		RawText: string(text),
		Hints: types.ClientHints{
			Board:     captureBoard,
			PageTitle: captureTitle,
		},
	}, nil)
	if err != nil {
		return err
	}

	if captureJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result.Doc)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintJobDoc(result.Doc, result.Score)
	printer.PrintConfidence(result.Doc.Confidence)
	return nil
}
