package usecases

import (
	"context"
	"errors"
	"vehicle-dashboard/internal/shared_kernel/domain"

	"github.com/looplab/fsm"
)

const (
	eventReportPending    = "report_pending"
	eventReportInProgress = "report_in_progress"
	eventReportCompleted  = "report_completed"
	eventReportFailed     = "report_failed"
	eventReportUnknown    = "report_unknown"
	eventTimeOut          = "time_out"
)

var stateEvents = map[domain.CommandState]string{
	domain.CommandStatePending:    eventReportPending,
	domain.CommandStateInProgress: eventReportInProgress,
	domain.CommandStateCompleted:  eventReportCompleted,
	domain.CommandStateFailed:     eventReportFailed,
	domain.CommandStateUnknown:    eventReportUnknown,
	domain.CommandStateTimedOut:   eventTimeOut,
}

// newCommandStateMachine builds the lifecycle of one command. Every non
// terminal state may move to any state; terminal states accept nothing.
// onEnter runs after each effective transition.
func newCommandStateMachine(initial domain.CommandState, onEnter func(ctx context.Context, state domain.CommandState)) *fsm.FSM {
	open := []string{
		string(domain.CommandStatePending),
		string(domain.CommandStateInProgress),
		string(domain.CommandStateUnknown),
	}

	events := make(fsm.Events, 0, len(stateEvents))
	for state, event := range stateEvents {
		events = append(events, fsm.EventDesc{Name: event, Src: open, Dst: string(state)})
	}

	return fsm.NewFSM(string(initial), events, fsm.Callbacks{
		"enter_state": func(ctx context.Context, e *fsm.Event) {
			onEnter(ctx, domain.CommandState(e.Dst))
		},
	})
}

// fireState moves the machine to state. Reporting the current state again is
// not an error and does not run onEnter.
func fireState(ctx context.Context, machine *fsm.FSM, state domain.CommandState) error {
	err := machine.Event(ctx, stateEvents[state])
	if isFsmRealError(err) {
		return err
	}
	return nil
}

func isFsmRealError(err error) bool {
	if err == nil {
		return false
	}

	var noTransition fsm.NoTransitionError
	var canceled fsm.CanceledError

	if errors.As(err, &noTransition) || errors.As(err, &canceled) {
		return false
	}

	return true
}
