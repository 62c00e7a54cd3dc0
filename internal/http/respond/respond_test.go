package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.NotFound("ticket", 1), http.StatusNotFound},
		{errs.InvalidState("ticket is void"), http.StatusConflict},
		{errs.Validation("bad"), http.StatusBadRequest},
		{errs.Storage("op", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

type moneyRequest struct {
	Method   string          `json:"payment_method" validate:"required"`
	Discount decimal.Decimal `json:"discount" validate:"min=0"`
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"Valid", `{"payment_method":"pix","discount":"10.50"}`, ""},
		{"NumericMoney", `{"payment_method":"pix","discount":3}`, ""},
		{"NegativeDiscount", `{"payment_method":"pix","discount":"-1"}`, "discount (min)"},
		{"MissingMethod", `{"discount":"1"}`, "payment_method (required)"},
		{"Malformed", `{`, "invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var req moneyRequest

			err := Decode(r, &req)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, errs.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
