package usecases

import (
	"context"
	"errors"
	"log/slog"
	"time"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultRefreshSchedule      = "@every 30s"
	DefaultHistoryPurgeSchedule = "@every 1h"
	defaultRefreshConcurrency   = 4
)

type SelectedVehicleProvider interface {
	SelectedVehicle() (domain.VehicleID, error)
}

// NewVehicleRefreshJob refreshes the selected vehicle and every vehicle in
// extra, at most concurrency at a time.
func NewVehicleRefreshJob(
	schedule string,
	session SelectedVehicleProvider,
	states VehicleStateService,
	extra []domain.VehicleID,
	concurrency int,
) ScheduledJob {
	if concurrency <= 0 {
		concurrency = defaultRefreshConcurrency
	}

	return ScheduledJob{
		Name:     "vehicle_refresh",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			targets := refreshTargets(session, extra)
			if len(targets) == 0 {
				return nil
			}

			var g errgroup.Group
			g.SetLimit(concurrency)
			for _, vehicleID := range targets {
				g.Go(func() error {
					_, err := states.Refresh(ctx, vehicleID)
					return err
				})
			}
			return g.Wait()
		},
	}
}

func refreshTargets(session SelectedVehicleProvider, extra []domain.VehicleID) []domain.VehicleID {
	seen := make(map[domain.VehicleID]struct{}, len(extra)+1)
	targets := make([]domain.VehicleID, 0, len(extra)+1)

	add := func(id domain.VehicleID) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		targets = append(targets, id)
	}

	selected, err := session.SelectedVehicle()
	if err != nil && !errors.Is(err, domain.ErrNoVehicleSelected) {
		slog.Warn("reading selected vehicle", slog.Any("error", err))
	}
	add(selected)

	for _, id := range extra {
		add(id)
	}
	return targets
}

// NewHistoryPurgeJob drops command history entries past their max age.
func NewHistoryPurgeJob(schedule string, history *CommandHistory) ScheduledJob {
	return ScheduledJob{
		Name:     "history_purge",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if removed := history.Purge(time.Now()); removed > 0 {
				slog.Info("command history purged",
					slog.Int("removed", removed),
					slog.Int("remaining", history.Len()))
			}
			return nil
		},
	}
}
