package ticket

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/commission"
	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/http/respond"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type Handler struct {
	tickets     *ticket.Service
	settlement  *settlement.Service
	commissions *commission.Service
}

func NewHandler(tickets *ticket.Service, settlementSvc *settlement.Service, commissions *commission.Service) *Handler {
	return &Handler{tickets: tickets, settlement: settlementSvc, commissions: commissions}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.open)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Post("/{id}/finalize", h.finalize)
	r.Post("/{id}/void", h.void)
	r.Get("/{id}/commissions", h.listCommissions)
}

type serviceLineRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"min=0"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

type productLineRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"min=0"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	SellerID  *uuid.UUID      `json:"seller_id"`
}

type openTicketRequest struct {
	ClientID       uuid.UUID            `json:"client_id"`
	ProfessionalID uuid.UUID            `json:"professional_id"`
	Services       []serviceLineRequest `json:"services" validate:"dive"`
	Products       []productLineRequest `json:"products" validate:"dive"`
}

// quantity defaults an omitted quantity to one.
func quantity(q int) int {
	if q == 0 {
		return 1
	}

	return q
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request) {
	var req openTicketRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params := ticket.OpenParams{ClientID: req.ClientID, ProfessionalID: req.ProfessionalID}

	for _, l := range req.Services {
		params.Services = append(params.Services, ticket.ServiceLine{Name: l.Name, Price: l.Price, Quantity: quantity(l.Quantity)})
	}

	for _, l := range req.Products {
		params.Products = append(params.Products, ticket.ProductLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  quantity(l.Quantity),
			SellerID:  l.SellerID,
		})
	}

	t, err := h.tickets.Open(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(t))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var statuses []ticket.Status

	if s := r.URL.Query().Get("status"); s != "" {
		for _, part := range strings.Split(s, ",") {
			statuses = append(statuses, ticket.Status(strings.TrimSpace(part)))
		}
	}

	tickets, err := h.tickets.List(r.Context(), statuses...)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]ticketResponse, len(tickets))
	for i, t := range tickets {
		resp[i] = toResponse(t)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := h.tickets.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

type finalizeRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Discount      decimal.Decimal `json:"discount" validate:"min=0"`
	CreditApplied decimal.Decimal `json:"credit_applied" validate:"min=0"`
}

func (h *Handler) finalize(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req finalizeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	res, err := h.settlement.FinalizeTicket(r.Context(), settlement.FinalizeParams{
		TicketID:      id,
		PaymentMethod: req.PaymentMethod,
		Discount:      req.Discount,
		CreditApplied: req.CreditApplied,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, finalizeResponse{
		Finalization: toFinalizationResponse(res),
		Ticket:       toResponse(res.Ticket),
	})
}

func (h *Handler) void(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	t, err := h.tickets.Void(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(t))
}

func (h *Handler) listCommissions(w http.ResponseWriter, r *http.Request) {
	id, err := ticketID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	entries, err := h.commissions.ListByTicket(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toCommissionResponses(entries))
}

func ticketID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errs.Validation("invalid ticket id")
	}

	return id, nil
}
