package client

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/client"
)

type visitResponse struct {
	TicketID uuid.UUID       `json:"ticket_id"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Items    []string        `json:"items"`
}

type clientResponse struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone,omitempty"`
	VisitCount    int64           `json:"visit_count"`
	LifetimeSpend decimal.Decimal `json:"lifetime_spend"`
	Visits        []visitResponse `json:"visits"`
}

func toResponse(c *client.Client) clientResponse {
	resp := clientResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		VisitCount:    c.History.VisitCount,
		LifetimeSpend: c.History.LifetimeSpend,
		Visits:        make([]visitResponse, len(c.History.Visits)),
	}

	for i, v := range c.History.Visits {
		resp.Visits[i] = visitResponse{TicketID: v.TicketID, Date: v.Date, Amount: v.Amount, Items: v.Items}
	}

	return resp
}
