package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/command-schema/discover/internal/schema"
)

func newBundleCmd() *cobra.Command {
	var (
		output      string
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "bundle FILE|DIR...",
		Short: "Load, validate, and bundle schema files into a SchemaPackage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectSchemaFiles(args)
			if err != nil {
				return err
			}

			pkg := schema.NewPackage(toolVersion, time.Now().UTC().Format(time.RFC3339))
			pkg.Name = name
			pkg.Description = description

			seen := make(map[string]bool)
			for _, path := range files {
				if strings.HasSuffix(path, ".report.json") || strings.Contains(path, ".bundle.json") {
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("bundle: read %s: %w", path, err)
				}
				s, err := schema.UnmarshalCommandSchema(data)
				if err != nil || s.Command == "" {
					continue
				}
				if seen[s.Command] {
					continue
				}
				seen[s.Command] = true
				pkg.Schemas = append(pkg.Schemas, s)
			}

			if errs := schema.ValidatePackage(pkg); len(errs) > 0 {
				return joinValidationErrors(errs)
			}

			data, err := pkg.MarshalIndent()
			if err != nil {
				return fmt.Errorf("bundle: marshal package: %w", err)
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("bundle: write %s: %w", output, err)
			}
			fmt.Fprintf(os.Stderr, "bundled %d schemas into %s\n", pkg.SchemaCount(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Path to write the SchemaPackage JSON to")
	cmd.Flags().StringVar(&name, "name", "", "Package name")
	cmd.Flags().StringVar(&description, "description", "", "Package description")
	cmd.MarkFlagRequired("output")

	return cmd
}
