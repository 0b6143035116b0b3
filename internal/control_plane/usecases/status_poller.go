package usecases

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"vehicle-dashboard/internal/infra/metrics"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultPollMaxAttempts = 10
)

// Subscriber receives a copy of the handle after every state transition.
// Subscribers run on the poll goroutine and must not call PollTask.Stop
// synchronously.
type Subscriber func(domain.CommandHandle)

type PollerConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultPollMaxAttempts,
	}
}

type StatusPoller struct {
	reader StatusReader
	table  StatusTable
	config PollerConfig
}

func NewStatusPoller(reader StatusReader, table StatusTable, config PollerConfig) *StatusPoller {
	if config.Interval <= 0 {
		config.Interval = DefaultPollInterval
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultPollMaxAttempts
	}

	return &StatusPoller{
		reader: reader,
		table:  table,
		config: config,
	}
}

// Poll starts polling the command behind handle until it reaches a terminal
// state, the attempt budget is spent or the task is stopped. Cancelling ctx
// stops the task too, so request scoped contexts should not be passed here.
func (p *StatusPoller) Poll(ctx context.Context, handle domain.CommandHandle, subscribers ...Subscriber) *PollTask {
	taskCtx, cancel := context.WithCancel(ctx)

	if handle.State == "" {
		handle.State = domain.CommandStatePending
	}
	task := &PollTask{
		handle:      handle,
		subscribers: subscribers,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	task.machine = newCommandStateMachine(handle.State, task.enter)

	metrics.ActivePollTasks.Inc()
	go func() {
		defer metrics.ActivePollTasks.Dec()
		p.run(taskCtx, task)
	}()

	return task
}

func (p *StatusPoller) run(ctx context.Context, task *PollTask) {
	defer close(task.done)
	defer task.cancel()

	ctx, span := otel.Tracer(_tracerName).Start(ctx, "command.poll")
	defer span.End()

	handle := task.Handle()
	span.SetAttributes(
		attribute.String("tracking.id", handle.TrackingID.String()),
		attribute.String("command.id", handle.Descriptor.ID.String()),
	)

	// The interval runs from the end of one read to the start of the next.
	wait := time.NewTimer(p.config.Interval)
	defer wait.Stop()

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			p.finish(span, task, "stopped")
			return
		case <-wait.C:
		}

		report, err := p.reader.CommandStatus(ctx, handle.TrackingID)
		wait.Reset(p.config.Interval)
		if ctx.Err() != nil {
			p.finish(span, task, "stopped")
			return
		}

		state := p.resolve(span, task, attempt, report, err)
		if state == "" {
			continue
		}

		if err := task.fire(ctx, state); err != nil {
			slog.Error("command state transition",
				slog.String("trace_id", span.SpanContext().TraceID().String()),
				slog.String("tracking_id", handle.TrackingID.String()),
				slog.Any("error", err))
		}

		if state.IsTerminal() {
			p.finish(span, task, state.String())
			return
		}
	}

	if err := task.fire(ctx, domain.CommandStateTimedOut); err != nil {
		slog.Error("command state transition",
			slog.String("tracking_id", handle.TrackingID.String()),
			slog.Any("error", err))
	}
	p.finish(span, task, domain.CommandStateTimedOut.String())
}

// resolve records the attempt and returns the state to move to, or "" when
// the read failed and no transition applies.
func (p *StatusPoller) resolve(span trace.Span, task *PollTask, attempt int, report StatusReport, err error) domain.CommandState {
	trackingID := task.Handle().TrackingID

	switch {
	case err != nil && !errors.Is(err, domain.ErrUnknownStatus):
		task.recordAttempt(attempt, err.Error())
		slog.Warn("reading command status",
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("tracking_id", trackingID.String()),
			slog.Int("attempt", attempt),
			slog.Any("error", err))
		return ""
	case err != nil:
		task.recordAttempt(attempt, err.Error())
		return domain.CommandStateUnknown
	}

	task.recordAttempt(attempt, "")
	state, ok := p.table.Map(report.State)
	if !ok {
		slog.Warn("unmapped command status",
			slog.String("tracking_id", trackingID.String()),
			slog.Any("state", report.State))
		return domain.CommandStateUnknown
	}
	return state
}

func (p *StatusPoller) finish(span trace.Span, task *PollTask, outcome string) {
	span.SetAttributes(attribute.String("command.outcome", outcome))
	metrics.CommandPollOutcomeTotal.WithLabelValues(outcome).Inc()

	handle := task.Handle()
	slog.Info("command polling finished",
		slog.String("trace_id", span.SpanContext().TraceID().String()),
		slog.String("tracking_id", handle.TrackingID.String()),
		slog.String("outcome", outcome),
		slog.Int("attempts", handle.Attempts))
}

// PollTask is the cancellable polling of one command handle.
type PollTask struct {
	// mu guards handle and stopped and is held while subscribers run, so
	// Stop waits for an in-flight notification.
	mu          sync.Mutex
	handle      domain.CommandHandle
	stopped     bool
	subscribers []Subscriber

	machine *fsm.FSM
	cancel  context.CancelFunc
	done    chan struct{}
}

// Handle returns a snapshot of the tracked handle.
func (t *PollTask) Handle() domain.CommandHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.handle
}

// Stop cancels polling. Once it returns no subscriber is notified again.
func (t *PollTask) Stop() {
	t.cancel()
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *PollTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task ends. It returns domain.ErrTimedOut when the
// attempt budget ran out and context.Canceled when the task was stopped first.
func (t *PollTask) Wait(ctx context.Context) (domain.CommandHandle, error) {
	select {
	case <-ctx.Done():
		return t.Handle(), ctx.Err()
	case <-t.done:
	}

	handle := t.Handle()
	switch {
	case handle.State == domain.CommandStateTimedOut:
		return handle, domain.ErrTimedOut
	case !handle.IsTerminal():
		return handle, context.Canceled
	default:
		return handle, nil
	}
}

func (t *PollTask) fire(ctx context.Context, state domain.CommandState) error {
	return fireState(ctx, t.machine, state)
}

func (t *PollTask) recordAttempt(attempt int, lastError string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handle.Attempts = attempt
	if lastError != "" {
		t.handle.LastError = lastError
	}
}

func (t *PollTask) enter(_ context.Context, state domain.CommandState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.handle.State = state
	t.handle.UpdatedAt = time.Now()
	if t.stopped {
		return
	}

	for _, subscriber := range t.subscribers {
		subscriber(t.handle)
	}
}
