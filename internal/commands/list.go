package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/model"
	"github.com/spendlog-dev/spendlog/internal/view"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var chronological bool
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, most recently added first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entries := a.store.Entries()
			if chronological {
				entries = expense.Chronological(entries)
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			out := cmd.OutOrStdout()
			if err := a.renderer.Table(out, entries); err != nil {
				return err
			}
			if len(entries) > 0 {
				fmt.Fprintf(out, "\n%d entries, total %s\n", len(entries), view.FormatAmount(total(entries)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&chronological, "chronological", false, "sort oldest first")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries")

	return cmd
}

func total(entries []model.Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	return sum
}

func newShowCommand(opts *globalOptions) *cobra.Command {
	var prev, next bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry with its previous and next entries",
		Long:  "Show an entry with its chronological neighbors. <id> is an ID prefix or @<millis>.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			n, _ := a.store.Neighbors(e.ID)

			out := cmd.OutOrStdout()
			switch {
			case prev:
				p, ok := n.Prev.Get()
				if !ok {
					fmt.Fprintln(out, "No earlier entry")
					return nil
				}
				n, _ = a.store.Neighbors(p.ID)
			case next:
				nx, ok := n.Next.Get()
				if !ok {
					fmt.Fprintln(out, "No later entry")
					return nil
				}
				n, _ = a.store.Neighbors(nx.ID)
			}

			return a.renderer.Detail(out, n)
		},
	}

	cmd.Flags().BoolVar(&prev, "prev", false, "show the entry before <id>")
	cmd.Flags().BoolVar(&next, "next", false, "show the entry after <id>")
	cmd.MarkFlagsMutuallyExclusive("prev", "next")

	return cmd
}
