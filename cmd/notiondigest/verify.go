package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notiondigest/internal/validator"
)

var errInvalidDigest = errors.New("digest is invalid")

func newVerifyCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file>",
		Short: "Check a digest's structure and, when signed, its content hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read digest: %w", err)
			}

			result := validator.NewDigestValidator().Validate(string(data))
			out := cmd.OutOrStdout()

			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}

			for _, e := range result.Errors {
				fmt.Fprintf(out, "error: %s\n", e.Error())
			}

			signed := "unsigned"
			if result.Stats.Signed {
				signed = "signed"
			}

			fmt.Fprintf(out, "%s: %d entries in %d groups (%s)\n",
				args[0], result.Stats.Entries, result.Stats.TagGroups, signed)

			if !result.IsValid {
				return &reportedError{err: errInvalidDigest}
			}

			return nil
		},
	}
}
