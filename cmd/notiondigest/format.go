package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"notiondigest/internal/formatter"
	"notiondigest/pkg/metadata"
)

func newFormatCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "format [path]",
		Short: "Align Markdown tables in digests, re-signing signed files",
		Long: `Scans a digest file or directory (default: the output directory) and aligns
every Markdown table by display width. Without --write it only reports what would change.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := a.cfg.Output.Directory
			if len(args) == 1 {
				target = args[0]
			}

			if target == "" {
				target = "."
			}

			out := cmd.OutOrStdout()

			var scanned, changed int

			err := filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if d.IsDir() {
					if strings.HasPrefix(d.Name(), ".") && path != target {
						return filepath.SkipDir
					}

					return nil
				}

				if !strings.EqualFold(filepath.Ext(path), ".md") {
					return nil
				}

				scanned++

				updated, err := formatFile(path, write)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}

				if updated {
					changed++

					if write {
						fmt.Fprintf(out, "formatted %s\n", path)
					} else {
						fmt.Fprintf(out, "would format %s\n", path)
					}
				}

				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%d scanned, %d changed\n", scanned, changed)

			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Write changes to disk (default: dry run)")

	return cmd
}

// formatFile aligns the tables in path and reports whether the content changed.
func formatFile(path string, write bool) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	original := string(data)
	meta, clean := metadata.Extract(original)

	formatted := formatter.FormatMarkdown(clean)
	if formatted == clean {
		return false, nil
	}

	next := formatted
	if meta != nil {
		next = metadata.Sign(formatted, *meta)
	}

	if write {
		if err := os.WriteFile(path, []byte(next+"\n"), 0o644); err != nil {
			return false, err
		}
	}

	return true, nil
}
