package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/command-schema/discover/internal/schema"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate FILE|DIR...",
		Short: "Validate schema JSON files, exiting non-zero on any structural error",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectSchemaFiles(args)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range files {
				if err := validateSchemaFile(path); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(files))
			}
			fmt.Fprintf(os.Stderr, "%d files valid\n", len(files))
			return nil
		},
	}
	return cmd
}

func validateSchemaFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	if strings.Contains(path, ".bundle.json") || looksLikePackageFile(data) {
		pkg, err := schema.UnmarshalPackage(data)
		if err != nil {
			return fmt.Errorf("decode package: %w", err)
		}
		if errs := schema.ValidatePackage(&pkg); len(errs) > 0 {
			return joinValidationErrors(errs)
		}
		return nil
	}

	s, err := schema.UnmarshalCommandSchema(data)
	if err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	if errs := schema.ValidateSchema(&s); len(errs) > 0 {
		return joinValidationErrors(errs)
	}
	return nil
}

func looksLikePackageFile(data []byte) bool {
	return strings.Contains(string(data), `"schemas"`)
}

func joinValidationErrors(errs []schema.ValidationError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func collectSchemaFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(path, ".json") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
