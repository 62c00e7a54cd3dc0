package maintenance

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/comanda/internal/http/respond"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

type Handler struct {
	settlement *settlement.Service
}

func NewHandler(settlementSvc *settlement.Service) *Handler {
	return &Handler{settlement: settlementSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/reverse", h.reverse)
}

type reverseRequest struct {
	Statuses []string `json:"statuses"`
	Global   bool     `json:"global"`
	Confirm  bool     `json:"confirm"`
}

type reverseResponse struct {
	Global                bool     `json:"global"`
	TicketsDeleted        int64    `json:"tickets_deleted"`
	FinalizationsDeleted  int64    `json:"finalizations_deleted"`
	CommissionsDeleted    int64    `json:"commissions_deleted"`
	RevenueRowsDeleted    int64    `json:"revenue_rows_deleted"`
	RevenueRowsRecomputed int64    `json:"revenue_rows_recomputed"`
	ClientsReset          int64    `json:"clients_reset"`
	ProductsRestocked     int64    `json:"products_restocked"`
	UnitsRestocked        int64    `json:"units_restocked"`
	Warnings              []string `json:"warnings"`
}

func (h *Handler) reverse(w http.ResponseWriter, r *http.Request) {
	var req reverseRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	params := settlement.ReverseParams{Global: req.Global, Confirm: req.Confirm}
	for _, s := range req.Statuses {
		params.Statuses = append(params.Statuses, ticket.Status(s))
	}

	sum, err := h.settlement.ReverseTestTickets(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	warnings := sum.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	respond.JSON(w, http.StatusOK, reverseResponse{
		Global:                sum.Global,
		TicketsDeleted:        sum.TicketsDeleted,
		FinalizationsDeleted:  sum.FinalizationsDeleted,
		CommissionsDeleted:    sum.CommissionsDeleted,
		RevenueRowsDeleted:    sum.RevenueRowsDeleted,
		RevenueRowsRecomputed: sum.RevenueRowsRecomputed,
		ClientsReset:          sum.ClientsReset,
		ProductsRestocked:     sum.ProductsRestocked,
		UnitsRestocked:        sum.UnitsRestocked,
		Warnings:              warnings,
	})
}
