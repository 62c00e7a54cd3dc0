package commission

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	InsertMany(ctx context.Context, entries []Entry) error
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]Entry, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteByTicketIDs(ctx context.Context, ticketIDs []uuid.UUID) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]Entry, error) {
	return s.repo.ListByTicket(ctx, ticketID)
}
