package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/buildinfo"
)

// EnvHome overrides the default data directory.
const EnvHome = "BIWEEKLY_HOME"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "biweekly",
		Short:   "Household budget tracker with bi-weekly periods",
		Version: buildinfo.Summary(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("dir", defaultDir(), "data directory (env "+EnvHome+")")

	rootCmd.AddCommand(
		newInitCommand(),
		newFamilyCommand(),
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newEntryCommand(),
		newPeriodCommand(),
		newExportCommand(),
		newImportCommand(),
		newImportCSVCommand(),
		newActivityCommand(),
		newConfigCommand(),
	)

	return rootCmd
}

func defaultDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".biweekly"
	}
	return filepath.Join(home, ".biweekly")
}
