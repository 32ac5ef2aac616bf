package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kbukum/errhandling/normalize"
)

// record is the printed form of a normalized error.
type record struct {
	Kind string `json:"kind"`
	*normalize.NormalizedError
}

func newNormalizeCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Print the normalized record of a JSON error payload",
		Long: "Reads a JSON error payload from a file or stdin and prints its normalized record.\n" +
			"Exits non-zero when the payload matches no known error shape.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeFn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeFn()

			var raw any
			if err := json.NewDecoder(in).Decode(&raw); err != nil {
				return fmt.Errorf("decode payload: %w", err)
			}

			n, err := normalize.Normalize(raw)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(record{Kind: n.Kind.String(), NormalizedError: n})
		},
	}
}

// openInput returns the named file, or stdin for "-" and no argument.
func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open payload: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
