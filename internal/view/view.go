// Package view renders entries for the terminal.
package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"

	"github.com/spendlog-dev/spendlog/internal/expense"
	"github.com/spendlog-dev/spendlog/internal/id"
	"github.com/spendlog-dev/spendlog/internal/model"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
	colSep         = "  "
)

// Column widths, in terminal cells.
const (
	widthID     = id.ShortLen
	widthDate   = 10
	widthAmount = 12
	widthReason = 24
	widthMethod = 10
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(17)
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#cf6679"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#03dac6"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
)

// Labeler maps a payment method ID to its display label.
type Labeler interface {
	Label(id model.PaymentMethod) string
}

// Renderer formats entries in a fixed time zone.
type Renderer struct {
	labels Labeler
	loc    *time.Location
}

// NewRenderer creates a Renderer. A nil loc means local time.
func NewRenderer(labels Labeler, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{labels: labels, loc: loc}
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Table writes entries one per row in the order given.
func (r *Renderer) Table(w io.Writer, entries []model.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No entries yet"))
		return err
	}

	header := strings.Join([]string{
		cell("ID", widthID, lipgloss.Left),
		cell("DATE", widthDate, lipgloss.Left),
		cell("AMOUNT", widthAmount, lipgloss.Right),
		cell("REASON", widthReason, lipgloss.Left),
		cell("METHOD", widthMethod, lipgloss.Left),
	}, colSep)
	if _, err := fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " "))); err != nil {
		return err
	}

	for _, e := range entries {
		row := strings.Join([]string{
			cell(id.Short(e.ID), widthID, lipgloss.Left),
			cell(e.Datetime.In(r.loc).Format(dateLayout), widthDate, lipgloss.Left),
			amountStyle(e.Amount).Width(widthAmount).Align(lipgloss.Right).Render(FormatAmount(e.Amount)),
			cell(e.Reason, widthReason, lipgloss.Left),
			cell(r.labels.Label(e.PaymentMethod), widthMethod, lipgloss.Left),
		}, colSep)
		if _, err := fmt.Fprintln(w, strings.TrimRight(row, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Detail writes one entry with its chronological neighbors.
func (r *Renderer) Detail(w io.Writer, n expense.Neighbors) error {
	e := n.Current
	var b strings.Builder

	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label+":") + value + "\n")
	}

	field("Datetime", e.Datetime.In(r.loc).Format(datetimeLayout))
	field("Amount", amountStyle(e.Amount).Render(FormatAmount(e.Amount)))
	field("Reason", e.Reason)
	field("Payment Method", r.labels.Label(e.PaymentMethod))
	if v, ok := e.Details.Get(); ok && v != "" {
		field("Details", v)
	}
	if v, ok := e.Store.Get(); ok && v != "" {
		field("Store", v)
	}
	if sharing, ok := e.SharedFor.Get(); ok && sharing != "" {
		v := string(sharing)
		if people, ok := e.AdditionalDetails.Get(); ok && people != "" {
			v = fmt.Sprintf("%s:%s", sharing, people)
		}
		field("Expense sharing", v)
	}
	field("ID", e.ID)
	field("Previous", r.neighbor(n.Prev))
	field("Next", r.neighbor(n.Next))

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Renderer) neighbor(o model.Optional[model.Entry]) string {
	e, ok := o.Get()
	if !ok {
		return mutedStyle.Render("-")
	}
	return fmt.Sprintf("%s  %s  %s", id.Short(e.ID), e.Datetime.In(r.loc).Format(dateLayout), e.Reason)
}

func amountStyle(d decimal.Decimal) lipgloss.Style {
	if d.IsNegative() {
		return negativeStyle
	}
	return positiveStyle
}

// cell truncates s to width cells and pads it out to exactly width.
func cell(s string, width int, align lipgloss.Position) string {
	return lipgloss.NewStyle().Width(width).Align(align).Render(ansi.Truncate(s, width, "…"))
}
