package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kvasek/betterschedule/internal/application"
	"github.com/kvasek/betterschedule/internal/domain"
)

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session fresh and re-render the timetable after refreshes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			days, err := loadScheduleWithRetry(cmd.Context(), app)
			if err != nil {
				return err
			}
			if err := writeScheduleOutput(cmd, app, days); err != nil {
				return err
			}

			unsubscribe := app.manager.Subscribe(func(session domain.Session) {
				app.logger.Info("session changed",
					zap.String("state", string(session.State)),
					zap.Bool("authenticated", session.Authenticated),
				)
			})
			defer unsubscribe()

			monitor := application.NewExpiryMonitor(app.manager, app.refreshThreshold, app.checkInterval, app.clock, app.logger)
			monitor.OnRefreshed = func(ctx context.Context) {
				days, err := app.schedule.Load(ctx, app.manager.Current().Token)
				if err != nil {
					app.logger.Warn("reload timetable after refresh", zap.Error(err))
					return
				}
				if err := writeScheduleOutput(cmd, app, days); err != nil {
					app.logger.Warn("render timetable after refresh", zap.Error(err))
				}
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Watching session; press Ctrl-C to stop.")
			monitor.Run(cmd.Context())
			return nil
		},
	}
}
