package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/money"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders an amount in reais.
func FormatAmount(d decimal.Decimal) string {
	return money.Format(d)
}

// FormatTime formats a timestamp as YYYY-MM-DD HH:MM in its own location.
func FormatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// ShortID is the first block of a UUID, enough to tell tickets apart on screen.
func ShortID(id uuid.UUID) string {
	return id.String()[:8]
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// parseAmount accepts "12.50", "12,50" or the grouped "1.234,50" that FormatAmount prints.
// When a comma is present it is the decimal separator and dots are grouping.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}

	norm := s
	if strings.Contains(norm, ",") {
		norm = strings.ReplaceAll(norm, ".", "")
		norm = strings.Replace(norm, ",", ".", 1)
	}

	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount cannot be negative")
	}

	if !money.InCents(d) {
		return decimal.Zero, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	return d, nil
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63"))
}
