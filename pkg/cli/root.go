package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iboying/activestore/pkg/cli/internal/flags"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	apiURL     string
	token      string
	logLevel   string
	query      string
	jsonOutput bool
	parents    flags.Pairs
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "activestore",
		Short: "activestore drives REST resources from the command line",
		Long: `activestore sends index, find, create, update, delete and custom action
requests to a REST API described by model declarations.

Configuration can be provided via flags, environment variables, or a configuration file.
By default, activestore looks for activestore.yaml in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default: activestore.yaml)")
	pf.StringVar(&opts.apiURL, "api-url", "", "API base URL (overrides api.url)")
	pf.StringVar(&opts.token, "token", "", "API token sent as 'Authorization: Token <token>'")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.query, "query", "", "JSONPath expression applied to the output, e.g. '$.records[*].id'")
	pf.BoolVar(&opts.jsonOutput, "json", false, "Output command results in JSON format")
	pf.Var(&opts.parents, "parent", "Override a parent as type=id (repeatable)")

	root.AddCommand(
		newIndexCmd(opts),
		newFindCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newActionCmd(opts),
		newModelsCmd(opts),
		newSessionCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
