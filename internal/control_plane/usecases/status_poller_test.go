package usecases_test

import (
	"context"
	"errors"
	"sync"
	"time"
	"vehicle-dashboard/internal/control_plane/usecases"
	"vehicle-dashboard/internal/shared_kernel/domain"
	mockusecases "vehicle-dashboard/test/unit/doubles/control_plane/usecases"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type statusReply struct {
	state any
	err   error
}

// scriptedReader answers status reads in order and repeats the last reply
// once the script is exhausted.
type scriptedReader struct {
	mu      sync.Mutex
	replies map[domain.TrackingID][]statusReply
	calls   map[domain.TrackingID]int
}

func newScriptedReader() *scriptedReader {
	return &scriptedReader{
		replies: make(map[domain.TrackingID][]statusReply),
		calls:   make(map[domain.TrackingID]int),
	}
}

func (r *scriptedReader) script(id domain.TrackingID, replies ...statusReply) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies[id] = replies
}

func (r *scriptedReader) CommandStatus(_ context.Context, id domain.TrackingID) (usecases.StatusReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	replies := r.replies[id]
	index := min(r.calls[id], len(replies)-1)
	r.calls[id]++

	reply := replies[index]
	return usecases.StatusReport{State: reply.state}, reply.err
}

func (r *scriptedReader) Calls(id domain.TrackingID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

// slowReader takes delay to answer and records when each read started and
// finished.
type slowReader struct {
	delay time.Duration

	mu     sync.Mutex
	starts []time.Time
	ends   []time.Time
}

func (r *slowReader) CommandStatus(context.Context, domain.TrackingID) (usecases.StatusReport, error) {
	r.mu.Lock()
	r.starts = append(r.starts, time.Now())
	r.mu.Unlock()

	time.Sleep(r.delay)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ends = append(r.ends, time.Now())
	return usecases.StatusReport{State: 2}, nil
}

// Gaps returns the idle time between the end of each read and the start of
// the next one.
func (r *slowReader) Gaps() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	gaps := make([]time.Duration, 0, len(r.starts))
	for i := 1; i < len(r.starts); i++ {
		gaps = append(gaps, r.starts[i].Sub(r.ends[i-1]))
	}
	return gaps
}

type transitionRecorder struct {
	mu     sync.Mutex
	states []domain.CommandState
}

func (r *transitionRecorder) subscriber(handle domain.CommandHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, handle.State)
}

func (r *transitionRecorder) States() []domain.CommandState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.CommandState(nil), r.states...)
}

func pendingHandle(id domain.TrackingID) domain.CommandHandle {
	handle, err := domain.NewCommandHandleBuilder().
		WithTrackingID(id).
		WithVehicleID("7SAYGDEE5PA000001").
		WithDescriptor(domain.CommandDescriptor{ID: "WAKE_VEHICLE"}).
		Build()
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	return handle
}

var _ = ginkgo.Describe("StatusPoller", func() {
	var (
		ctx      context.Context
		reader   *scriptedReader
		recorder *transitionRecorder
		poller   *usecases.StatusPoller
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		reader = newScriptedReader()
		recorder = &transitionRecorder{}
		poller = usecases.NewStatusPoller(reader, usecases.DefaultStatusTable(), usecases.PollerConfig{
			Interval:    5 * time.Millisecond,
			MaxAttempts: 10,
		})
	})

	ginkgo.It("should notify each transition once and stop on completion", func() {
		reader.script("cmd-1",
			statusReply{state: 1},
			statusReply{state: 1},
			statusReply{state: 2},
			statusReply{state: 2},
			statusReply{state: 3},
		)

		task := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber)
		handle, err := task.Wait(ctx)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(handle.State).To(gomega.Equal(domain.CommandStateCompleted))
		gomega.Expect(handle.Attempts).To(gomega.Equal(5))
		gomega.Expect(recorder.States()).To(gomega.Equal([]domain.CommandState{
			domain.CommandStateInProgress,
			domain.CommandStateCompleted,
		}))
		gomega.Consistently(func() int { return reader.Calls("cmd-1") }, "30ms").Should(gomega.Equal(5))
	})

	ginkgo.It("should stop right after a failure", func() {
		reader.script("cmd-1", statusReply{state: "failed"})

		handle, err := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber).Wait(ctx)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(handle.State).To(gomega.Equal(domain.CommandStateFailed))
		gomega.Expect(recorder.States()).To(gomega.Equal([]domain.CommandState{domain.CommandStateFailed}))
		gomega.Consistently(func() int { return reader.Calls("cmd-1") }, "30ms").Should(gomega.Equal(1))
	})

	ginkgo.It("should move to unknown on an unmapped state and keep polling", func() {
		reader.script("cmd-1",
			statusReply{state: "teleporting"},
			statusReply{err: domain.ErrUnknownStatus},
			statusReply{state: 3},
		)

		handle, err := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber).Wait(ctx)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(handle.State).To(gomega.Equal(domain.CommandStateCompleted))
		gomega.Expect(recorder.States()).To(gomega.Equal([]domain.CommandState{
			domain.CommandStateUnknown,
			domain.CommandStateCompleted,
		}))
	})

	ginkgo.It("should record a failed read without a transition", func() {
		reader.script("cmd-1",
			statusReply{err: errors.New("connection reset")},
			statusReply{state: 3},
		)

		handle, err := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber).Wait(ctx)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(handle.Attempts).To(gomega.Equal(2))
		gomega.Expect(handle.LastError).To(gomega.Equal("connection reset"))
		gomega.Expect(recorder.States()).To(gomega.Equal([]domain.CommandState{domain.CommandStateCompleted}))
	})

	ginkgo.It("should time out after the attempt budget", func() {
		poller = usecases.NewStatusPoller(reader, usecases.DefaultStatusTable(), usecases.PollerConfig{
			Interval:    5 * time.Millisecond,
			MaxAttempts: 3,
		})
		reader.script("cmd-1", statusReply{state: 2})

		handle, err := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber).Wait(ctx)

		gomega.Expect(errors.Is(err, domain.ErrTimedOut)).To(gomega.BeTrue())
		gomega.Expect(handle.State).To(gomega.Equal(domain.CommandStateTimedOut))
		gomega.Expect(reader.Calls("cmd-1")).To(gomega.Equal(3))
		gomega.Expect(recorder.States()).To(gomega.Equal([]domain.CommandState{
			domain.CommandStateInProgress,
			domain.CommandStateTimedOut,
		}))
	})

	ginkgo.It("should prefer completion on the last attempt over a time out", func() {
		poller = usecases.NewStatusPoller(reader, usecases.DefaultStatusTable(), usecases.PollerConfig{
			Interval:    5 * time.Millisecond,
			MaxAttempts: 2,
		})
		reader.script("cmd-1", statusReply{state: 1}, statusReply{state: 3})

		handle, err := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber).Wait(ctx)

		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(handle.State).To(gomega.Equal(domain.CommandStateCompleted))
	})

	ginkgo.It("should wait the full interval after a slow read", func() {
		slow := &slowReader{delay: 40 * time.Millisecond}
		poller = usecases.NewStatusPoller(slow, usecases.DefaultStatusTable(), usecases.PollerConfig{
			Interval:    30 * time.Millisecond,
			MaxAttempts: 4,
		})

		_, err := poller.Poll(ctx, pendingHandle("cmd-1")).Wait(ctx)

		gomega.Expect(errors.Is(err, domain.ErrTimedOut)).To(gomega.BeTrue())
		gaps := slow.Gaps()
		gomega.Expect(gaps).To(gomega.HaveLen(3))
		for _, gap := range gaps {
			gomega.Expect(gap).To(gomega.BeNumerically(">=", 25*time.Millisecond))
		}
	})

	ginkgo.It("should not notify after Stop returns", func() {
		poller = usecases.NewStatusPoller(reader, usecases.DefaultStatusTable(), usecases.PollerConfig{
			Interval:    10 * time.Millisecond,
			MaxAttempts: 100,
		})
		reader.script("cmd-1", statusReply{state: 1}, statusReply{state: 2}, statusReply{state: 1}, statusReply{state: 2})

		task := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber)
		gomega.Eventually(recorder.States).ShouldNot(gomega.BeEmpty())

		task.Stop()
		seen := len(recorder.States())

		gomega.Eventually(task.Done()).Should(gomega.BeClosed())
		gomega.Consistently(func() int { return len(recorder.States()) }, "50ms").Should(gomega.Equal(seen))

		_, err := task.Wait(ctx)
		gomega.Expect(errors.Is(err, context.Canceled)).To(gomega.BeTrue())
	})

	ginkgo.It("should stop when the parent context is cancelled", func() {
		reader.script("cmd-1", statusReply{state: 1})
		parent, cancel := context.WithCancel(ctx)

		task := poller.Poll(parent, pendingHandle("cmd-1"), recorder.subscriber)
		cancel()

		gomega.Eventually(task.Done()).Should(gomega.BeClosed())
		gomega.Expect(task.Handle().IsTerminal()).To(gomega.BeFalse())
	})

	ginkgo.It("should keep tasks independent", func() {
		reader.script("cmd-1", statusReply{state: 3})
		reader.script("cmd-2", statusReply{state: 2}, statusReply{state: 4})
		other := &transitionRecorder{}

		first := poller.Poll(ctx, pendingHandle("cmd-1"), recorder.subscriber)
		second := poller.Poll(ctx, pendingHandle("cmd-2"), other.subscriber)

		h1, _ := first.Wait(ctx)
		h2, _ := second.Wait(ctx)

		gomega.Expect(h1.State).To(gomega.Equal(domain.CommandStateCompleted))
		gomega.Expect(h2.State).To(gomega.Equal(domain.CommandStateFailed))
		gomega.Expect(recorder.States()).To(gomega.Equal([]domain.CommandState{domain.CommandStateCompleted}))
		gomega.Expect(other.States()).To(gomega.Equal([]domain.CommandState{
			domain.CommandStateInProgress,
			domain.CommandStateFailed,
		}))
	})

	ginkgo.Context("with a mocked reader", func() {
		var ctrl *gomock.Controller

		ginkgo.BeforeEach(func() {
			ctrl = gomock.NewController(ginkgo.GinkgoT())
		})

		ginkgo.AfterEach(func() {
			ctrl.Finish()
		})

		ginkgo.It("should query the status with the handle's tracking id", func() {
			mockReader := mockusecases.NewMockStatusReader(ctrl)
			mockReader.EXPECT().
				CommandStatus(gomock.Any(), domain.TrackingID("cmd-9")).
				Return(usecases.StatusReport{State: "succeeded"}, nil).
				Times(1)

			poller = usecases.NewStatusPoller(mockReader, usecases.DefaultStatusTable(), usecases.PollerConfig{
				Interval:    time.Millisecond,
				MaxAttempts: 5,
			})

			handle, err := poller.Poll(ctx, pendingHandle("cmd-9")).Wait(ctx)

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(handle.State).To(gomega.Equal(domain.CommandStateCompleted))
		})
	})
})
