package revenue

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/http/respond"
	"github.com/MrJamesThe3rd/comanda/internal/revenue"
	"github.com/MrJamesThe3rd/comanda/internal/settlement"
)

type Handler struct {
	revenue    *revenue.Service
	settlement *settlement.Service
}

func NewHandler(revenueSvc *revenue.Service, settlementSvc *settlement.Service) *Handler {
	return &Handler{revenue: revenueSvc, settlement: settlementSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{day}", h.get)
	r.Post("/{day}/recompute", h.recompute)
}

// day accepts YYYY-MM-DD or "today".
func (h *Handler) day(r *http.Request) (revenue.Day, error) {
	raw := chi.URLParam(r, "day")
	if raw == "today" {
		return h.revenue.Today(), nil
	}

	return revenue.ParseDay(raw)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	day, err := h.day(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	row, err := h.revenue.Get(r.Context(), day)
	if err != nil {
		// A day without finalizations reads as zero.
		if errors.Is(err, errs.ErrNotFound) {
			respond.JSON(w, http.StatusOK, emptyResponse(day))
			return
		}

		respond.Error(w, err)

		return
	}

	respond.JSON(w, http.StatusOK, toResponse(row))
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	day, err := h.day(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	rc, err := h.settlement.RecomputeDay(r.Context(), day)
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := recomputeResponse{Day: rc.Day.String(), Deleted: rc.Deleted}
	if rc.Row != nil {
		row := toResponse(rc.Row)
		resp.Row = &row
	}

	respond.JSON(w, http.StatusOK, resp)
}

func emptyResponse(day revenue.Day) rowResponse {
	return rowResponse{Day: day.String(), Revenue: decimal.Zero, Commissions: decimal.Zero}
}
