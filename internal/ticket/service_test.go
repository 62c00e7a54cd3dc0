package ticket_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
	"github.com/MrJamesThe3rd/comanda/internal/ticket"
)

var fixedNow = time.Date(2024, 3, 8, 14, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestService_Open(t *testing.T) {
	client, pro := uuid.New(), uuid.New()

	type testCase struct {
		name      string
		params    ticket.OpenParams
		setupMock func(m *ticket.MockRepository)
		wantErr   error
		wantTotal string
	}

	tests := []testCase{
		{
			name: "Success",
			params: ticket.OpenParams{
				ClientID:       client,
				ProfessionalID: pro,
				Services:       []ticket.ServiceLine{{Name: "Corte", Price: dec("132.00"), Quantity: 1}},
				Products:       []ticket.ProductLine{{ProductID: uuid.New(), Name: "Shampoo", Price: dec("40"), Quantity: 2}},
			},
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTotal: "212",
		},
		{
			name:    "MissingClient",
			params:  ticket.OpenParams{ProfessionalID: pro, Services: []ticket.ServiceLine{{Name: "Corte", Price: dec("1"), Quantity: 1}}},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "NoLines",
			params:  ticket.OpenParams{ClientID: client, ProfessionalID: pro},
			wantErr: errs.ErrValidation,
		},
		{
			name: "ZeroQuantity",
			params: ticket.OpenParams{
				ClientID:       client,
				ProfessionalID: pro,
				Services:       []ticket.ServiceLine{{Name: "Corte", Price: dec("10"), Quantity: 0}},
			},
			wantErr: errs.ErrValidation,
		},
		{
			name: "NegativePrice",
			params: ticket.OpenParams{
				ClientID:       client,
				ProfessionalID: pro,
				Products:       []ticket.ProductLine{{ProductID: uuid.New(), Name: "Gel", Price: dec("-1"), Quantity: 1}},
			},
			wantErr: errs.ErrValidation,
		},
		{
			name: "SubCentPrice",
			params: ticket.OpenParams{
				ClientID:       client,
				ProfessionalID: pro,
				Products:       []ticket.ProductLine{{ProductID: uuid.New(), Name: "Gel", Price: dec("10.005"), Quantity: 1}},
			},
			wantErr: errs.ErrValidation,
		},
		{
			name: "TrailingZeroPrice",
			params: ticket.OpenParams{
				ClientID:       client,
				ProfessionalID: pro,
				Services:       []ticket.ServiceLine{{Name: "Escova", Price: dec("45.500"), Quantity: 1}},
			},
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantTotal: "45.5",
		},
		{
			name: "RepoError",
			params: ticket.OpenParams{
				ClientID:       client,
				ProfessionalID: pro,
				Services:       []ticket.ServiceLine{{Name: "Corte", Price: dec("10"), Quantity: 1}},
			},
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ticket.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := ticket.NewService(repo).WithClock(func() time.Time { return fixedNow })
			got, err := svc.Open(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				if errs.Kind(tt.wantErr) != nil {
					assert.ErrorIs(t, err, tt.wantErr)
				}

				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, ticket.StatusOpen, got.Status)
			assert.Equal(t, fixedNow, got.OpenedAt)
			assert.True(t, dec(tt.wantTotal).Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ticket.NewMockRepository(ctrl)
	repo.EXPECT().
		FindByStatus(gomock.Any(), ticket.StatusOpen, ticket.StatusFinalized, ticket.StatusVoid).
		Return([]*ticket.Ticket{{ID: uuid.New()}}, nil)

	got, err := ticket.NewService(repo).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = ticket.NewService(repo).List(context.Background(), ticket.Status("closed"))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestService_Void(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		setupMock func(m *ticket.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&ticket.Ticket{ID: id, Status: ticket.StatusOpen}, nil)
				m.EXPECT().
					UpdateStatus(gomock.Any(), id, ticket.StatusOpen, ticket.StatusVoid, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ uuid.UUID, _, _ ticket.Status, c ticket.Closing) error {
						assert.Equal(t, fixedNow, c.ClosedAt)
						return nil
					})
			},
		},
		{
			name: "AlreadyFinalized",
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&ticket.Ticket{ID: id, Status: ticket.StatusFinalized}, nil)
			},
			wantErr: errs.ErrInvalidState,
		},
		{
			name: "NotFound",
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(nil, errs.NotFound("ticket", id))
			},
			wantErr: errs.ErrNotFound,
		},
		{
			name: "LostRace",
			setupMock: func(m *ticket.MockRepository) {
				m.EXPECT().Get(gomock.Any(), id).Return(&ticket.Ticket{ID: id, Status: ticket.StatusOpen}, nil)
				m.EXPECT().
					UpdateStatus(gomock.Any(), id, ticket.StatusOpen, ticket.StatusVoid, gomock.Any()).
					Return(errs.InvalidState("ticket %s is no longer open", id))
			},
			wantErr: errs.ErrInvalidState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ticket.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := ticket.NewService(repo).WithClock(func() time.Time { return fixedNow })
			got, err := svc.Void(context.Background(), id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, ticket.StatusVoid, got.Status)
			require.NotNil(t, got.ClosedAt)
			assert.Equal(t, fixedNow, *got.ClosedAt)
		})
	}
}

func TestTicket_Subtotal(t *testing.T) {
	tk := &ticket.Ticket{
		Services: []ticket.ServiceLine{{Name: "Corte", Price: dec("132.00"), Quantity: 1}, {Name: "Barba", Price: dec("25.50"), Quantity: 2}},
		Products: []ticket.ProductLine{{ProductID: uuid.New(), Name: "Óleo", Price: dec("19.99"), Quantity: 3}},
	}

	assert.True(t, dec("243.97").Equal(tk.Subtotal()), "got %s", tk.Subtotal())
	assert.Equal(t, []string{"Corte", "Barba", "Óleo"}, tk.ItemNames())
}
