package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/command-schema/discover/internal/schema"
)

var toolVersion = "dev"

func newExtractCmd() *cobra.Command {
	var (
		commands  string
		allowlist string
		scanPath  string
		exclude   []string
		output    string
		cfgFlags  configFlags
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Probe live tools and write a schema and report per command plus one bundle",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := resolveCommandNames(commands, allowlist, scanPath, exclude)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no commands to extract: pass --commands, --allowlist, or --scan-path")
			}

			logger, err := buildLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg, err := cfgFlags.toConfig(cmd.Flags().Changed("cache"))
			if err != nil {
				return err
			}

			if cfg.InstalledOnly {
				names = filterInstalled(names)
			}

			extractor, err := buildExtractor(cfg, logger)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("extract: create output dir: %w", err)
			}

			result := extractor.ExtractBatch(context.Background(), names, toolVersion)

			for _, report := range result.Bundle.Reports {
				if err := writeReportArtifacts(output, report); err != nil {
					return err
				}
				if s, ok := result.Schemas[report.Command]; ok {
					if err := writeSchemaArtifact(output, *s); err != nil {
						return err
					}
				}
			}
			bundleData, err := result.Bundle.MarshalIndent()
			if err != nil {
				return fmt.Errorf("extract: marshal bundle: %w", err)
			}
			if err := os.WriteFile(filepath.Join(output, "bundle.json"), bundleData, 0o644); err != nil {
				return fmt.Errorf("extract: write bundle: %w", err)
			}

			summary := schema.FailureCodeSummary(result.Bundle.Reports)
			fmt.Fprintf(os.Stderr, "extracted %d commands, %d failures\n", len(result.Bundle.Reports), len(result.Bundle.Failures))
			for code, count := range summary {
				fmt.Fprintf(os.Stderr, "  %s: %d\n", code, count)
			}
			return result.Err
		},
	}

	cmd.Flags().StringVar(&commands, "commands", "", "Comma-separated list of command names")
	cmd.Flags().StringVar(&allowlist, "allowlist", "", "Path to a newline-delimited file of command names")
	cmd.Flags().StringVar(&scanPath, "scan-path", "", "Scan this PATH-style directory list for executables")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Command names to exclude from a scan")
	cmd.Flags().StringVar(&output, "output", "", "Directory to write schema/report/bundle JSON into")
	cmd.MarkFlagRequired("output")
	registerConfigFlags(cmd.Flags(), &cfgFlags)

	return cmd
}

func resolveCommandNames(commands, allowlist, scanPath string, exclude []string) ([]string, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[e] = true
	}

	var names []string
	switch {
	case commands != "":
		for _, c := range strings.Split(commands, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				names = append(names, c)
			}
		}
	case allowlist != "":
		data, err := os.ReadFile(allowlist)
		if err != nil {
			return nil, fmt.Errorf("extract: read allowlist: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "#") {
				names = append(names, line)
			}
		}
	case scanPath != "":
		found, err := scanDirectoriesForExecutables(scanPath)
		if err != nil {
			return nil, err
		}
		names = found
	}

	var out []string
	for _, n := range names {
		if !excluded[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

func scanDirectoriesForExecutables(pathList string) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, dir := range strings.Split(pathList, string(os.PathListSeparator)) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil || info.Mode()&0o111 == 0 {
				continue
			}
			name := entry.Name()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, nil
}

func filterInstalled(names []string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, "/") {
			if info, err := os.Stat(n); err == nil && !info.IsDir() {
				out = append(out, n)
			}
			continue
		}
		if _, err := exec.LookPath(n); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func writeReportArtifacts(outputDir string, report schema.ExtractionReport) error {
	reportData, err := report.MarshalIndent()
	if err != nil {
		return fmt.Errorf("extract: marshal report for %s: %w", report.Command, err)
	}
	safeName := sanitizeFilename(report.Command)
	if err := os.WriteFile(filepath.Join(outputDir, safeName+".report.json"), reportData, 0o644); err != nil {
		return fmt.Errorf("extract: write report for %s: %w", report.Command, err)
	}
	return nil
}

func writeSchemaArtifact(outputDir string, s schema.CommandSchema) error {
	data, err := s.MarshalIndent()
	if err != nil {
		return fmt.Errorf("extract: marshal schema for %s: %w", s.Command, err)
	}
	safeName := sanitizeFilename(s.Command)
	if err := os.WriteFile(filepath.Join(outputDir, safeName+".schema.json"), data, 0o644); err != nil {
		return fmt.Errorf("extract: write schema for %s: %w", s.Command, err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
