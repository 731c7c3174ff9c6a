package workers

import (
	"context"
	"fmt"
	"log/slog"
	"message-relay/errors"
	"message-relay/mocks"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// blockingWorker returns a foreground worker that runs until its context ends.
func blockingWorker(ctrl *gomock.Controller) *mocks.MockWorker {
	w := mocks.NewMockWorker(ctrl)
	w.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}).Times(1)
	return w
}

func TestSupervisor_RestartOnPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	workerMock := mocks.NewMockWorker(ctrl)

	var calls atomic.Int32
	workerMock.EXPECT().
		Run(gomock.Any()).
		DoAndReturn(func(ctx context.Context) error {
			calls.Add(1)
			panic("boom")
		}).
		AnyTimes()

	sup := NewSupervisor(slog.Default(), 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := sup.Add(workerMock).Run(ctx, blockingWorker(ctrl))

	req.NoError(err)
	req.GreaterOrEqual(calls.Load(), int32(2))
}

func TestSupervisor_StopOnSuccess(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	workerMock := mocks.NewMockWorker(ctrl)
	// Given a background worker running only once
	workerMock.EXPECT().Run(gomock.Any()).Return(nil).Times(1)

	sup := NewSupervisor(slog.Default(), 50*time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	req.NoError(sup.Add(workerMock).Run(ctx, blockingWorker(ctrl)))
}

func TestSupervisor_Foreground_Exit_Stops_Background(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	background := blockingWorker(ctrl)
	foreground := mocks.NewMockWorker(ctrl)
	foreground.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		time.Sleep(50 * time.Millisecond)
		return fmt.Errorf("accept failed")
	})

	sup := NewSupervisor(slog.Default(), 50*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- sup.Add(background).Run(context.Background(), foreground) }()

	select {
	case err := <-done:
		// Then the foreground error is returned once background workers are gone
		req.EqualError(err, "accept failed")
	case <-time.After(time.Second):
		req.Fail("Supervisor should have stopped after foreground exit")
	}
}

func TestSupervisor_Background_Startup_Error_Is_Fatal(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	background := mocks.NewMockWorker(ctrl)
	background.EXPECT().Run(gomock.Any()).
		Return(fmt.Errorf("%w: listen on :80: permission denied", errors.ErrStartup)).
		Times(1)

	sup := NewSupervisor(slog.Default(), 50*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- sup.Add(background).Run(context.Background(), blockingWorker(ctrl)) }()

	select {
	case err := <-done:
		req.ErrorIs(err, errors.ErrStartup)
	case <-time.After(time.Second):
		req.Fail("Startup error should stop the supervisor")
	}
}

func TestSupervisor_Foreground_Panic_Is_Reported(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	foreground := mocks.NewMockWorker(ctrl)
	foreground.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		panic("relay exploded")
	})

	err := NewSupervisor(slog.Default(), 50*time.Millisecond).Run(context.Background(), foreground)
	req.ErrorIs(err, errors.ErrWorkerPanic)
}
