package cli

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iboying/activestore/pkg/cli/internal/output"
)

func newTable(cmd *cobra.Command) *tabwriter.Writer {
	return output.Table(cmd.OutOrStdout())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}
