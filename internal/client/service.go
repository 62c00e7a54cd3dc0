package client

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/comanda/internal/errs"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, name, phone string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.Validation("missing client name")
	}

	c := &Client{
		ID:      uuid.New(),
		Name:    name,
		Phone:   strings.TrimSpace(phone),
		History: History{LifetimeSpend: decimal.Zero},
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.Get(ctx, id)
}
