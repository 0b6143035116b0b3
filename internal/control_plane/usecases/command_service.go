package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"vehicle-dashboard/internal/infra/async"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	TopicCommandState        async.BrokerTopicName = "command_state"
	EventCommandStateChanged                       = "command_state_changed"
)

const defaultRefreshTimeout = 10 * time.Second

func NewCommandService(
	catalog *CommandCatalog,
	dispatcher *CommandDispatcher,
	poller *StatusPoller,
	history *CommandHistory,
	states VehicleStateService,
	broker async.InternalBroker,
) *SimpleCommandService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SimpleCommandService{
		catalog:        catalog,
		dispatcher:     dispatcher,
		poller:         poller,
		history:        history,
		states:         states,
		broker:         broker,
		refreshTimeout: defaultRefreshTimeout,
		ctx:            ctx,
		cancel:         cancel,
		tasks:          make(map[domain.TrackingID]*PollTask),
	}
}

var _ CommandService = &SimpleCommandService{}

// SimpleCommandService ties dispatch, polling and history together. Poll
// tasks outlive the request that submitted the command and end with Close.
type SimpleCommandService struct {
	catalog        *CommandCatalog
	dispatcher     *CommandDispatcher
	poller         *StatusPoller
	history        *CommandHistory
	states         VehicleStateService
	broker         async.InternalBroker
	refreshTimeout time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.Mutex
	tasks     map[domain.TrackingID]*PollTask
	refreshes sync.WaitGroup
}

func (s *SimpleCommandService) AvailableCommands(ctx context.Context) ([]domain.CommandDescriptor, error) {
	if err := s.catalog.Load(ctx); err != nil {
		return nil, err
	}
	return s.catalog.ListAvailable(), nil
}

func (s *SimpleCommandService) Submit(
	ctx context.Context,
	vehicleID domain.VehicleID,
	commandID domain.CommandID,
	params map[string]any,
) (domain.CommandHandle, error) {
	if err := s.catalog.Load(ctx); err != nil {
		return domain.CommandHandle{}, err
	}

	handle, err := s.dispatcher.Dispatch(ctx, vehicleID, commandID, params)
	if err != nil {
		return domain.CommandHandle{}, err
	}

	s.history.Record(handle)
	s.publish(ctx, handle)

	pollCtx := trace.ContextWithSpanContext(s.ctx, trace.SpanContextFromContext(ctx))

	s.mu.Lock()
	task := s.poller.Poll(pollCtx, handle, s.onTransition)
	s.tasks[handle.TrackingID] = task
	s.mu.Unlock()

	go s.forget(handle.TrackingID, task)

	return handle, nil
}

func (s *SimpleCommandService) Get(_ context.Context, trackingID domain.TrackingID) (domain.CommandHandle, error) {
	if task, ok := s.task(trackingID); ok {
		return task.Handle(), nil
	}

	handle, ok := s.history.Get(trackingID)
	if !ok {
		return domain.CommandHandle{}, fmt.Errorf("%w: %s", domain.ErrCommandNotFound, trackingID)
	}
	return handle, nil
}

// Cancel stops polling a command. A command that already finished is
// returned unchanged.
func (s *SimpleCommandService) Cancel(ctx context.Context, trackingID domain.TrackingID) (domain.CommandHandle, error) {
	task, ok := s.task(trackingID)
	if !ok {
		return s.Get(ctx, trackingID)
	}

	task.Stop()
	select {
	case <-task.Done():
	case <-ctx.Done():
		return task.Handle(), ctx.Err()
	}

	handle := task.Handle()
	if !handle.IsTerminal() {
		handle.LastError = "polling cancelled"
		handle.UpdatedAt = time.Now()
		s.history.Record(handle)
		s.publish(ctx, handle)
	}

	slog.Info("command polling cancelled",
		slog.String("tracking_id", trackingID.String()),
		slog.String("state", handle.State.String()))

	return handle, nil
}

func (s *SimpleCommandService) List(_ context.Context, vehicleID domain.VehicleID) ([]domain.CommandHandle, error) {
	return s.history.List(vehicleID), nil
}

// StopVehicle stops every active poll task of vehicleID and returns how many
// were stopped.
func (s *SimpleCommandService) StopVehicle(vehicleID domain.VehicleID) int {
	s.mu.Lock()
	tasks := make([]*PollTask, 0)
	for _, task := range s.tasks {
		if task.Handle().VehicleID == vehicleID {
			tasks = append(tasks, task)
		}
	}
	s.mu.Unlock()

	for _, task := range tasks {
		task.Stop()
	}
	return len(tasks)
}

func (s *SimpleCommandService) ActiveCount(vehicleID domain.VehicleID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, task := range s.tasks {
		if task.Handle().VehicleID == vehicleID {
			count++
		}
	}
	return count
}

// Close stops every poll task and waits for pending refreshes.
func (s *SimpleCommandService) Close() {
	s.cancel()

	s.mu.Lock()
	tasks := make([]*PollTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	s.mu.Unlock()

	for _, task := range tasks {
		task.Stop()
		<-task.Done()
	}
	s.refreshes.Wait()
}

func (s *SimpleCommandService) onTransition(handle domain.CommandHandle) {
	s.history.Record(handle)
	s.publish(s.ctx, handle)

	if handle.State == domain.CommandStateCompleted {
		s.refreshAfterCompletion(handle)
	}
}

func (s *SimpleCommandService) refreshAfterCompletion(handle domain.CommandHandle) {
	s.refreshes.Add(1)
	go func() {
		defer s.refreshes.Done()

		ctx, cancel := context.WithTimeout(s.ctx, s.refreshTimeout)
		defer cancel()

		if _, err := s.states.Refresh(ctx, handle.VehicleID); err != nil {
			slog.Warn("refreshing vehicle after command",
				slog.String("vehicle_id", handle.VehicleID.String()),
				slog.String("tracking_id", handle.TrackingID.String()),
				slog.Any("error", err))
		}
	}()
}

func (s *SimpleCommandService) forget(trackingID domain.TrackingID, task *PollTask) {
	<-task.Done()

	s.mu.Lock()
	if s.tasks[trackingID] == task {
		delete(s.tasks, trackingID)
	}
	s.mu.Unlock()
}

func (s *SimpleCommandService) task(trackingID domain.TrackingID) (*PollTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[trackingID]
	return task, ok
}

func (s *SimpleCommandService) publish(ctx context.Context, handle domain.CommandHandle) {
	err := s.broker.Publish(ctx, TopicCommandState, async.BrokerMessage{
		Event: EventCommandStateChanged,
		Value: handle,
	})
	switch {
	case errors.Is(err, async.ErrTopicNotFound):
	case err != nil:
		slog.Error("publishing command state",
			slog.String("tracking_id", handle.TrackingID.String()),
			slog.Any("error", err))
	}
}
