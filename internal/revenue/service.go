package revenue

import (
	"context"
	"time"
)

type Repository interface {
	// UpsertDaily creates the day's row with delta or adds delta to it, atomically.
	UpsertDaily(ctx context.Context, day Day, delta Delta) error
	Get(ctx context.Context, day Day) (*Row, error)
	// DeleteByDayRange removes rows with start <= day <= end.
	DeleteByDayRange(ctx context.Context, start, end Day) (int64, error)
}

type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Today is the current day in the salon timezone.
func (s *Service) Today() Day {
	return DayOf(s.now(), s.loc)
}

func (s *Service) Get(ctx context.Context, day Day) (*Row, error) {
	return s.repo.Get(ctx, day)
}
