package commands

import (
	"github.com/spf13/cobra"

	"github.com/spendlog-dev/spendlog/internal/buildinfo"
	"github.com/spendlog-dev/spendlog/internal/config"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	home    string
	backend string
}

// resolveHome returns --home, else $SPENDLOG_HOME, else ~/.spendlog.
func (o *globalOptions) resolveHome() string {
	if o.home != "" {
		return o.home
	}
	return config.DefaultHome()
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "spendlog",
		Short:   "Personal expense log",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.home, "home", "", "spendlog home directory (default $SPENDLOG_HOME or ~/.spendlog)")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "storage backend: file, sqlite or memory")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}
