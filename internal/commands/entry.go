package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/id"
	"github.com/spendlog-dev/spendlog/internal/log"
	"github.com/spendlog-dev/spendlog/internal/model"
)

// Flag names shared by add and edit.
const (
	flagAmount    = "amount"
	flagReason    = "reason"
	flagMethod    = "method"
	flagDetails   = "details"
	flagStore     = "store"
	flagSharedFor = "shared-for"
	flagPeople    = "people"
	flagAt        = "at"
)

// Accepted --at layouts, tried in order. Layouts without a zone use local time.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// entryFlags holds the raw values of the entry field flags.
type entryFlags struct {
	amount    string
	reason    string
	method    string
	details   string
	store     string
	sharedFor string
	people    string
	at        string
}

func (f *entryFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.amount, flagAmount, "", "amount, negative for expenses (e.g. -1200)")
	fl.StringVar(&f.reason, flagReason, "", "what it was for")
	fl.StringVar(&f.method, flagMethod, "", "payment method id")
	fl.StringVar(&f.details, flagDetails, "", "free-form details")
	fl.StringVar(&f.store, flagStore, "", "store or payee")
	fl.StringVar(&f.sharedFor, flagSharedFor, "", `expense sharing: "for" or "shared", empty to clear`)
	fl.StringVar(&f.people, flagPeople, "", "people the expense is shared with, empty to clear")
	fl.StringVar(&f.at, flagAt, "", "when it happened (RFC 3339, 2006-01-02 15:04 or 2006-01-02)")
}

// form turns the flags the user actually passed into a Form.
func (f *entryFlags) form(cmd *cobra.Command) (expense.Form, error) {
	changed := cmd.Flags().Changed
	set := func(name, v string) model.Optional[string] {
		if changed(name) {
			return model.Some(v)
		}
		return model.None[string]()
	}

	form := expense.Form{
		Amount:            set(flagAmount, f.amount),
		Reason:            set(flagReason, f.reason),
		PaymentMethod:     set(flagMethod, f.method),
		Details:           set(flagDetails, f.details),
		Store:             set(flagStore, f.store),
		SharedFor:         set(flagSharedFor, f.sharedFor),
		AdditionalDetails: set(flagPeople, f.people),
	}
	if changed(flagAt) {
		t, err := parseTime(f.at)
		if err != nil {
			return expense.Form{}, err
		}
		form.Datetime = model.Some(t)
	}
	return form, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q", s)
}

func newAddCommand(opts *globalOptions) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(cmd)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			e, err := form.Entry(time.Now(), a.defaultMethod(), a.methods)
			if err != nil {
				return err
			}
			added := a.store.Add(cmd.Context(), e)
			a.logger.Debug("entry added", log.FieldEntryID, added.ID)

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s\n", id.Short(added.ID), added.Amount.StringFixed(2), added.Reason)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newEditCommand(opts *globalOptions) *cobra.Command {
	var flags entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Long:  "Change fields of an entry. Only the flags given are changed. <id> is an ID prefix or @<millis>.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := flags.form(cmd)
			if err != nil {
				return err
			}

			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := form.Patch(a.methods)
			if err != nil {
				return err
			}
			if p.IsEmpty() {
				return errors.New("nothing to change")
			}

			e, err := a.store.Resolve(args[0])
			if err != nil {
				return err
			}
			if verrs := expense.Validate(e.Apply(p), a.methods); len(verrs) > 0 {
				return expense.ValidationErrors(verrs)
			}

			updated, ok := a.store.Update(cmd.Context(), e.ID, p)
			if !ok {
				return fmt.Errorf("%s: %w", args[0], id.ErrNotFound)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id.Short(updated.ID))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
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
			removed, ok := a.store.Delete(cmd.Context(), e.ID)
			if !ok {
				return fmt.Errorf("%s: %w", args[0], id.ErrNotFound)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", id.Short(removed.ID), removed.Reason)
			return nil
		},
	}
}
