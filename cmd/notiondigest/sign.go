package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"notiondigest/internal/digest"
	"notiondigest/internal/validator"
	"notiondigest/pkg/metadata"
)

func newSignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <file>...",
		Short: "Validate digests and append a metadata block with their content hash",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validator.NewDigestValidator()

			var failed int

			for _, path := range args {
				if err := signFile(v, path); err != nil {
					failed++

					a.log.Error("Failed to sign digest", "path", path, "error", err)
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)

					continue
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%s signed\n", path)
			}

			if failed > 0 {
				return &reportedError{err: fmt.Errorf("%d of %d files could not be signed", failed, len(args))}
			}

			return nil
		},
	}
}

// signFile validates the digest at path and rewrites it with a fresh metadata block.
func signFile(v *validator.DigestValidator, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read digest: %w", err)
	}

	content := string(data)

	// A stale signature must not block re-signing an edited file.
	_, clean := metadata.Extract(content)

	result := v.Validate(clean)
	if !result.IsValid {
		return fmt.Errorf("%w: %s", errInvalidDigest, result.Errors[0].Error())
	}

	signed := metadata.Sign(clean, metadata.Metadata{
		Week:    weekOf(path, clean),
		Entries: result.Stats.Entries,
	})

	if err := os.WriteFile(path, []byte(signed+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}

	return nil
}

// weekOf reads the week from front matter, falling back to the file name.
func weekOf(path, content string) string {
	if fm, _, err := digest.SplitFrontMatter(content); err == nil && fm != nil && fm.Week != "" {
		return fm.Week
	}

	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
