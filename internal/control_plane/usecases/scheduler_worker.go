package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"vehicle-dashboard/internal/infra/async"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const _metricKeyScheduledJobs = "scheduled_jobs"

// ScheduledJob is a recurring job. Schedule accepts standard cron expressions
// and descriptors such as "@every 30s".
type ScheduledJob struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

func NewSchedulerWorker(jobs ...ScheduledJob) (*SchedulerWorker, error) {
	w := &SchedulerWorker{
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		metricCounters: make(map[string]metric.Int64Counter),
		ctx:            context.Background(),
	}

	for _, job := range jobs {
		if _, err := w.cron.AddFunc(job.Schedule, w.wrap(job)); err != nil {
			return nil, fmt.Errorf("scheduling %s (%q): %w", job.Name, job.Schedule, err)
		}
	}

	return w, nil
}

var _ async.Worker = &SchedulerWorker{}

// SchedulerWorker runs the scheduled jobs while its Run context is alive.
// A job still running when its next tick comes is skipped for that tick.
type SchedulerWorker struct {
	cron           *cron.Cron
	metricCounters map[string]metric.Int64Counter

	mu  sync.RWMutex
	ctx context.Context
}

func (w *SchedulerWorker) Run(ctx context.Context, done func()) {
	slog.Debug("scheduler worker started", slog.Int("jobs", len(w.cron.Entries())))
	defer done()
	w.setupOtelCounters()

	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()

	w.cron.Start()
	<-ctx.Done()

	slog.Info("scheduler worker cancelled")
	<-w.cron.Stop().Done()
}

func (w *SchedulerWorker) Shutdown() {
	<-w.cron.Stop().Done()
}

func (w *SchedulerWorker) setupOtelCounters() {
	meter := otel.Meter(_tracerName)
	counter, _ := meter.Int64Counter(
		"vehicle_dashboard.scheduled_jobs",
		metric.WithDescription("vehicle_dashboard scheduled job runs"),
	)
	w.metricCounters[_metricKeyScheduledJobs] = counter
}

func (w *SchedulerWorker) wrap(job ScheduledJob) func() {
	return func() {
		w.mu.RLock()
		ctx := w.ctx
		w.mu.RUnlock()

		ctx, span := otel.Tracer(_tracerName).Start(ctx, "scheduled_job")
		defer span.End()
		span.SetAttributes(attribute.String("job.name", job.Name))

		start := time.Now()
		err := job.Run(ctx)

		result := "ok"
		if err != nil {
			result = "error"
			span.RecordError(err)
			slog.Error("scheduled job failed",
				slog.String("trace_id", span.SpanContext().TraceID().String()),
				slog.String("job", job.Name),
				slog.Any("error", err))
		} else {
			slog.Debug("scheduled job done",
				slog.String("job", job.Name),
				slog.Duration("elapsed", time.Since(start)))
		}

		if counter, ok := w.metricCounters[_metricKeyScheduledJobs]; ok && counter != nil {
			counter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("job", job.Name),
				attribute.String("result", result),
			))
		}
	}
}
