package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	renderschedule "github.com/kvasek/betterschedule/internal/adapters/render/schedule"
	"github.com/kvasek/betterschedule/internal/domain"
)

func newTimetableCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "timetable",
		Short: "Fetch and display the current timetable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, err := loadScheduleWithRetry(cmd.Context(), app)
			if err != nil {
				return err
			}

			return writeScheduleOutput(cmd, app, days)
		},
	}
}

// loadScheduleWithRetry fetches the schedule and, on an auth rejection,
// refreshes the token once and retries. The fetcher itself never
// retries; this is the one level up where that policy lives.
func loadScheduleWithRetry(ctx context.Context, app *app) ([]domain.DayLessons, error) {
	session := app.manager.Current()
	if !session.Authenticated {
		return nil, errors.New("not logged in; run bs login first")
	}

	days, err := app.schedule.Load(ctx, session.Token)
	if err == nil {
		return days, nil
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		return nil, err
	}

	if refreshErr := app.manager.Refresh(ctx); refreshErr != nil {
		return nil, fmt.Errorf("refresh after auth rejection: %w", refreshErr)
	}

	return app.schedule.Load(ctx, app.manager.Current().Token)
}

func writeScheduleOutput(cmd *cobra.Command, app *app, days []domain.DayLessons) error {
	opts := renderschedule.RenderOptions{}
	if claims, err := app.manager.Claims(); err == nil {
		opts.Header = claims.FullName
	}

	rendered, err := app.scheduleRenderer(days, opts)
	if err != nil {
		return fmt.Errorf("render schedule: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}
