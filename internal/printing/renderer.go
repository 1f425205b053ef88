package printing

import (
	"strconv"
	"strings"

	"comanda/internal/domain"
)

const ticketWidth = 32

// TextRenderer renders a plain-text ticket suitable for 58mm thermal
// printers (32 columns).
type TextRenderer struct{}

func (TextRenderer) Render(items []domain.OrderLine, o domain.Order, cfg TicketConfig, displayName string) ([]byte, error) {
	var b strings.Builder
	thick := strings.Repeat("=", ticketWidth)
	thin := strings.Repeat("-", ticketWidth)

	b.WriteString(thick + "\n")
	b.WriteString(center(displayName) + "\n")
	if cfg.Header != "" {
		b.WriteString(center(cfg.Header) + "\n")
	}
	b.WriteString(thick + "\n")
	b.WriteString("Mesa: " + o.TableLabel + "\n")
	b.WriteString("Fecha: " + o.CreatedAt.Format("02/01/2006 15:04") + "\n")
	b.WriteString(thin + "\n")

	for _, l := range items {
		left := strconv.Itoa(l.Quantity) + "x " + l.Name
		if cfg.ShowPrices {
			b.WriteString(priced(left, l.LineTotal().StringFixed(2)) + "\n")
		} else {
			b.WriteString(left + "\n")
		}
		for _, opt := range l.Options {
			b.WriteString("   + " + opt.Group + ": " + opt.Option + "\n")
		}
		if l.Notes != "" {
			b.WriteString("   > " + l.Notes + "\n")
		}
	}

	b.WriteString(thin + "\n")
	if cfg.ShowPrices {
		b.WriteString(priced("TOTAL", o.Total.StringFixed(2)) + "\n")
	}
	if cfg.Footer != "" {
		b.WriteString(center(cfg.Footer) + "\n")
	}
	return []byte(b.String()), nil
}

func center(s string) string {
	if len(s) >= ticketWidth {
		return s
	}
	pad := (ticketWidth - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func priced(left, amount string) string {
	gap := ticketWidth - len(left) - len(amount)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + amount
}
