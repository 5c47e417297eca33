package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spendlog-dev/spendlog/internal/csvio"
	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/importer"
	"github.com/spendlog-dev/spendlog/internal/log"
	"github.com/spendlog-dev/spendlog/internal/model"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all entries as CSV, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := expense.Chronological(a.store.Entries())

			if outPath == "" || outPath == "-" {
				return csvio.WriteEntries(cmd.OutOrStdout(), entries)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating %s: %w", outPath, err)
			}
			if err := csvio.WriteEntries(f, entries); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", len(entries), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string
	var method string

	registry := importer.DefaultRegistry()

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add entries from a CSV file, skipping ones already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			pm := a.defaultMethod()
			if method != "" {
				pm = model.PaymentMethod(strings.ToLower(method))
				if !a.methods.Exists(pm) {
					return fmt.Errorf("unknown payment method %q", method)
				}
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			incoming, err := parser.Parse(f, importer.Options{Method: pm})
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}
			for i, e := range incoming {
				if verrs := expense.Validate(e, a.methods); len(verrs) > 0 {
					return fmt.Errorf("entry %d: %w", i+1, expense.ValidationErrors(verrs))
				}
			}

			fresh, skipped := importer.Dedupe(a.store.Entries(), incoming)
			if len(fresh) > 0 {
				a.store.AddAll(cmd.Context(), fresh)
			}
			a.logger.Info("import finished",
				log.FieldOperation, log.OpImport, log.FieldCount, len(fresh), "skipped", skipped)

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries (%d already present)\n", len(fresh), skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "spendlog", "file format: "+strings.Join(registry.Formats(), ", "))
	cmd.Flags().StringVar(&method, "method", "", "payment method for formats that do not record one (default: first configured)")

	return cmd
}
