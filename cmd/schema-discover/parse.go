package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/command-schema/discover/internal/pipeline"
	"github.com/command-schema/discover/internal/quality"
	"github.com/command-schema/discover/internal/schema"
)

func newParseStdinCmd() *cobra.Command {
	var (
		command     string
		withReport  bool
	)

	cmd := &cobra.Command{
		Use:   "parse-stdin --command NAME",
		Short: "Run the classifier/detector/strategies/merger/quality-gate over stdin, without spawning any process",
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return fmt.Errorf("parse-stdin: --command is required")
			}
			text, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("parse-stdin: read stdin: %w", err)
			}
			return runParseText(command, string(text), withReport)
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Command name to attribute the parsed schema to")
	cmd.Flags().BoolVar(&withReport, "with-report", false, "Also emit the ExtractionReport alongside the schema")
	return cmd
}

func newParseFileCmd() *cobra.Command {
	var (
		command    string
		withReport bool
	)

	cmd := &cobra.Command{
		Use:   "parse-file --command NAME PATH",
		Short: "Run the classifier/detector/strategies/merger/quality-gate over a file, without spawning any process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if command == "" {
				return fmt.Errorf("parse-file: --command is required")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("parse-file: read %s: %w", args[0], err)
			}
			return runParseText(command, string(data), withReport)
		},
	}

	cmd.Flags().StringVar(&command, "command", "", "Command name to attribute the parsed schema to")
	cmd.Flags().BoolVar(&withReport, "with-report", false, "Also emit the ExtractionReport alongside the schema")
	return cmd
}

func runParseText(command, text string, withReport bool) error {
	logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	extractor := pipeline.New(pipeline.Options{
		Policy: quality.DefaultPolicy(),
		Logger: logger,
	})

	s, report := extractor.ExtractText(command, text, schema.SourceHelpCommand)
	if s == nil {
		data, err := report.MarshalIndent()
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		fmt.Fprintln(os.Stdout)
		return fmt.Errorf("parse failed: %s", reportFailureSummary(report))
	}

	data, err := s.MarshalIndent()
	if err != nil {
		return fmt.Errorf("parse: marshal schema: %w", err)
	}
	os.Stdout.Write(data)
	fmt.Fprintln(os.Stdout)

	if withReport {
		reportData, err := report.MarshalIndent()
		if err != nil {
			return fmt.Errorf("parse: marshal report: %w", err)
		}
		os.Stdout.Write(reportData)
		fmt.Fprintln(os.Stdout)
	}
	return nil
}

func reportFailureSummary(report *schema.ExtractionReport) string {
	if report.FailureCode != nil {
		return string(*report.FailureCode)
	}
	return "unknown"
}
