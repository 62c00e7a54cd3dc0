package ticket

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type serviceLineResponse struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type productLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	SellerID  *uuid.UUID      `json:"seller_id,omitempty"`
}

type ticketResponse struct {
	ID             uuid.UUID             `json:"id"`
	ClientID       uuid.UUID             `json:"client_id"`
	ProfessionalID uuid.UUID             `json:"professional_id"`
	Status         ticket.Status         `json:"status"`
	Services       []serviceLineResponse `json:"services"`
	Products       []productLineResponse `json:"products"`
	Total          decimal.Decimal       `json:"total"`
	Discount       decimal.Decimal       `json:"discount"`
	CreditApplied  decimal.Decimal       `json:"credit_applied"`
	FinalAmount    decimal.Decimal       `json:"final_amount"`
	PaymentMethod  string                `json:"payment_method,omitempty"`
	OpenedAt       time.Time             `json:"opened_at"`
	ClosedAt       *time.Time            `json:"closed_at,omitempty"`
}

func toResponse(t *ticket.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:             t.ID,
		ClientID:       t.ClientID,
		ProfessionalID: t.ProfessionalID,
		Status:         t.Status,
		Services:       make([]serviceLineResponse, len(t.Services)),
		Products:       make([]productLineResponse, len(t.Products)),
		Total:          t.Total,
		Discount:       t.Discount,
		CreditApplied:  t.CreditApplied,
		FinalAmount:    t.FinalAmount,
		PaymentMethod:  t.PaymentMethod,
		OpenedAt:       t.OpenedAt,
		ClosedAt:       t.ClosedAt,
	}

	for i, l := range t.Services {
		resp.Services[i] = serviceLineResponse{Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}

	for i, l := range t.Products {
		resp.Products[i] = productLineResponse{ProductID: l.ProductID, Name: l.Name, Price: l.Price, Quantity: l.Quantity, SellerID: l.SellerID}
	}

	return resp
}

type commissionResponse struct {
	ID             uuid.UUID         `json:"id"`
	TicketID       uuid.UUID         `json:"ticket_id"`
	ProfessionalID uuid.UUID         `json:"professional_id"`
	Kind           commission.Kind   `json:"kind"`
	ItemName       string            `json:"item_name"`
	Gross          decimal.Decimal   `json:"gross"`
	Commission     decimal.Decimal   `json:"commission"`
	SellerID       *uuid.UUID        `json:"seller_id,omitempty"`
	Status         commission.Status `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toCommissionResponses(entries []commission.Entry) []commissionResponse {
	resp := make([]commissionResponse, len(entries))
	for i, e := range entries {
		resp[i] = commissionResponse{
			ID:             e.ID,
			TicketID:       e.TicketID,
			ProfessionalID: e.ProfessionalID,
			Kind:           e.Kind,
			ItemName:       e.ItemName,
			Gross:          e.Gross,
			Commission:     e.Commission,
			SellerID:       e.SellerID,
			Status:         e.Status,
			CreatedAt:      e.CreatedAt,
		}
	}

	return resp
}

type finalizationResponse struct {
	ID              uuid.UUID            `json:"id"`
	TicketID        uuid.UUID            `json:"ticket_id"`
	ClientID        uuid.UUID            `json:"client_id"`
	ProfessionalID  uuid.UUID            `json:"professional_id"`
	PaymentMethod   string               `json:"payment_method"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	Discount        decimal.Decimal      `json:"discount"`
	CreditApplied   decimal.Decimal      `json:"credit_applied"`
	FinalAmount     decimal.Decimal      `json:"final_amount"`
	CommissionTotal decimal.Decimal      `json:"commission_total"`
	Breakdown       []commissionResponse `json:"breakdown"`
	FinalizedAt     time.Time            `json:"finalized_at"`
}

type finalizeResponse struct {
	Finalization finalizationResponse `json:"finalization"`
	Ticket       ticketResponse       `json:"ticket"`
}

func toFinalizationResponse(res *settlement.Result) finalizationResponse {
	r := res.Record

	return finalizationResponse{
		ID:              r.ID,
		TicketID:        r.TicketID,
		ClientID:        r.ClientID,
		ProfessionalID:  r.ProfessionalID,
		PaymentMethod:   r.PaymentMethod,
		Subtotal:        r.Subtotal,
		Discount:        r.Discount,
		CreditApplied:   r.CreditApplied,
		FinalAmount:     r.FinalAmount,
		CommissionTotal: r.CommissionTotal,
		Breakdown:       toCommissionResponses(res.Commissions),
		FinalizedAt:     r.FinalizedAt,
	}
}
