package ports

import (
	"context"

	"github.com/kvasek/betterschedule/internal/domain"
)

// TimetableFetcher performs the single authenticated schedule GET.
// No retry lives here; a 401 should trigger a refresh one level up.
type TimetableFetcher interface {
	Fetch(ctx context.Context, token string) (domain.RawTimetable, error)
}
