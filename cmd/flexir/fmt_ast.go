package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flexir/internal/astio"
)

func newFmtASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt-ast <in> <out>",
		Short: "Convert an AST document between JSON and msgpack",
		Long: "Reads <in> and writes it to <out>, picking each encoding from the file extension\n" +
			"(.json, .astpack, .mp, .msgpack). Use - as <out> to print JSON to stdout.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := astio.Load(args[0])
			if err != nil {
				return err
			}
			// reject trees the lowering pass could not read
			if _, _, err := astio.Build(doc); err != nil {
				return err
			}
			if args[1] == "-" {
				return astio.EncodeJSON(cmd.OutOrStdout(), doc)
			}
			if _, err := astio.FormatFromPath(args[1]); err != nil {
				return err
			}
			f, err := os.Create(args[1])
			if err != nil {
				return err
			}
			if err := astio.Encode(args[1], f, doc); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", args[1], err)
			}
			return nil
		},
	}
}
