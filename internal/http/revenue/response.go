package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/revenue"
)

type rowResponse struct {
	Day         string          `json:"day"`
	Revenue     decimal.Decimal `json:"revenue"`
	Commissions decimal.Decimal `json:"commissions"`
	TicketCount int64           `json:"ticket_count"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

type recomputeResponse struct {
	Day     string       `json:"day"`
	Deleted int64        `json:"deleted"`
	Row     *rowResponse `json:"row"`
}

func toResponse(row *revenue.Row) rowResponse {
	updated := row.UpdatedAt

	return rowResponse{
		Day:         row.Day.String(),
		Revenue:     row.Revenue,
		Commissions: row.Commissions,
		TicketCount: row.TicketCount,
		UpdatedAt:   &updated,
	}
}
