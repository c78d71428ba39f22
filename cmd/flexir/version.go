package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"flexir/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd(st *cliState) *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Current()
			out := cmd.OutOrStdout()
			switch strings.ToLower(format) {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(versionPayload{Tool: "flexir", Info: info})
			case "pretty", "":
				fmt.Fprintf(out, "flexir %s\n", info.Colored(st.color))
				if full {
					fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
					fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
				}
				return nil
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
