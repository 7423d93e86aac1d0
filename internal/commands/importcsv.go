package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biweekly-dev/biweekly/internal/importer"
)

func newImportCSVCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import-csv [FILE]",
		Short: "Add entries from a bank or biweekly CSV file",
		Long: "Add entries from a CSV file. With no FILE, every CSV in the data " +
			"directory's import/ folder is imported and moved to import/processed/.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (known: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()

				importFile := func(path string) (int, error) {
					f, err := os.Open(path)
					if err != nil {
						return 0, fmt.Errorf("opening %s: %w", path, err)
					}
					defer f.Close()

					drafts, err := parser.Parse(f)
					if err != nil {
						return 0, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
					}
					added, err := a.svc.AddEntries(ctx, drafts)
					if err != nil {
						return 0, err
					}
					return len(added), nil
				}

				if len(args) == 1 {
					n, err := importFile(args[0])
					if err != nil {
						return err
					}
					a.commit(fmt.Sprintf("import-csv: %d entries from %s", n, filepath.Base(args[0])))
					fmt.Fprintf(out, "Imported %d entries from %s\n", n, filepath.Base(args[0]))
					return nil
				}

				files, err := importer.Scan(a.dir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(out, "Nothing to import in %s\n", importer.Dir(a.dir))
					return nil
				}
				total := 0
				for _, fi := range files {
					n, err := importFile(fi.Path)
					if err != nil {
						return err
					}
					if err := importer.MarkProcessed(a.dir, fi.Name); err != nil {
						return err
					}
					total += n
					fmt.Fprintf(out, "Imported %d entries from %s\n", n, fi.Name)
				}
				a.commit(fmt.Sprintf("import-csv: %d entries from %d files", total, len(files)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "CSV format: chase or biweekly")
	return cmd
}
