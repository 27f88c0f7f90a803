package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

// ScheduleService turns the raw timetable payload into the
// display-ready day list. Fetch errors surface unchanged; a 401 is the
// caller's cue to refresh and retry, not this layer's.
type ScheduleService struct {
	fetcher ports.TimetableFetcher
	logger  *zap.Logger
}

func NewScheduleService(fetcher ports.TimetableFetcher, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScheduleService{fetcher: fetcher, logger: logger}
}

func (s *ScheduleService) Load(ctx context.Context, token string) ([]domain.DayLessons, error) {
	raw, err := s.fetcher.Fetch(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch timetable: %w", err)
	}

	days := domain.Normalize(raw)
	s.logger.Debug("timetable normalized",
		zap.Int("raw_days", len(raw.Days)),
		zap.Int("days", len(days)),
	)

	return days, nil
}
