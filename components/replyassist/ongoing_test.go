package replyassist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/go-studio/components/ui"
	"github.com/pulsekit/go-studio/pkg/store"
)

func TestTrackerCompletesAndSelfTerminates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &DemoListRepository{PollsToComplete: 2}
	sessions := store.NewMemorySessionStore(0)

	done := make(chan string, 1)
	tracker := NewUpdateTracker(repo, sessions, 5*time.Millisecond, func(listID string, status UpdateStatus) {
		assert.Equal(t, UpdateCompleted, status)
		done <- listID
	})
	t.Cleanup(tracker.Close)

	require.NoError(t, repo.StartListAnalysis(ctx, "founders"))
	require.NoError(t, tracker.Track(ctx, "founders"))
	require.True(t, tracker.Tracking("founders"))

	select {
	case listID := <-done:
		assert.Equal(t, "founders", listID)
	case <-time.After(time.Second):
		t.Fatal("analysis never completed")
	}

	assert.Eventually(t, func() bool {
		return !tracker.Tracking("founders")
	}, time.Second, 5*time.Millisecond)

	// The session record is gone, so a fresh mount would not resume it.
	var update OngoingUpdate
	ok, err := sessions.Get(ctx, updateKey("founders"), &update)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTrackerResumeSkipsStaleRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)
	clock := &now
	sessions := store.NewMemorySessionStore(store.DefaultSessionTTL, store.WithClock(func() time.Time {
		return *clock
	}))

	repo := &DemoListRepository{PollsToComplete: 1000}
	lists, err := repo.FetchLists(ctx)
	require.NoError(t, err)

	// founders started six minutes before the resume; devtools is fresh.
	require.NoError(t, sessions.Put(ctx, updateKey("founders"), OngoingUpdate{ListID: "founders", Status: UpdateRunning, StartedAt: now}))
	now = now.Add(6 * time.Minute)
	require.NoError(t, sessions.Put(ctx, updateKey("devtools"), OngoingUpdate{ListID: "devtools", Status: UpdateRunning, StartedAt: now}))

	tracker := NewUpdateTracker(repo, sessions, time.Hour, nil)
	t.Cleanup(tracker.Close)
	require.NoError(t, tracker.Resume(ctx, lists))

	assert.False(t, tracker.Tracking("founders"))
	assert.True(t, tracker.Tracking("devtools"))
	assert.Equal(t, []string{"devtools"}, tracker.Active())
}

func TestFailedAnalysisRaisesErrorToast(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &DemoListRepository{FailLists: map[string]bool{"founders": true}}
	toasts := ui.NewToastCenter()

	done := make(chan UpdateStatus, 1)
	c := newTestController(t, Options{
		Lists:  repo,
		Toasts: toasts,
		OnAnalysisDone: func(listID string, status UpdateStatus) {
			done <- status
		},
	})
	require.NoError(t, c.Mount(ctx))
	require.NoError(t, c.StartAnalysis(ctx))
	require.True(t, c.AnalysisRunning("founders"))

	select {
	case status := <-done:
		assert.Equal(t, UpdateFailed, status)
	case <-time.After(time.Second):
		t.Fatal("analysis never settled")
	}

	var sawFailure bool
	for _, toast := range toasts.Drain() {
		if toast.Level == ui.ToastError {
			sawFailure = true
		}
	}
	assert.True(t, sawFailure)
}

func TestStartAnalysisIsIdempotentWhileTracked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &DemoListRepository{PollsToComplete: 1000}
	c := newTestController(t, Options{Lists: repo, PollInterval: time.Hour})
	require.NoError(t, c.Mount(ctx))

	require.NoError(t, c.StartAnalysis(ctx))
	require.NoError(t, c.StartAnalysis(ctx))

	assert.Equal(t, []string{"founders"}, c.TrackedLists())
}

func TestTrackerCloseIsReentrantAndRestartable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := &DemoListRepository{PollsToComplete: 1000}
	sessions := store.NewMemorySessionStore(0)

	tracker := NewUpdateTracker(repo, sessions, 5*time.Millisecond, nil)

	require.NoError(t, repo.StartListAnalysis(ctx, "founders"))
	require.NoError(t, tracker.Track(ctx, "founders"))

	tracker.Close()
	tracker.Close()

	// The tracker outlives Close: tracking a new job brings the poller
	// back, and it still retires finished jobs.
	fast := &DemoListRepository{PollsToComplete: 1}
	done := make(chan string, 2)
	restarted := NewUpdateTracker(fast, sessions, 5*time.Millisecond, func(listID string, status UpdateStatus) {
		done <- listID
	})
	t.Cleanup(restarted.Close)

	require.NoError(t, fast.StartListAnalysis(ctx, "devtools"))
	require.NoError(t, restarted.Track(ctx, "devtools"))
	restarted.Close()
	require.NoError(t, restarted.Track(ctx, "devtools"))

	select {
	case listID := <-done:
		assert.Equal(t, "devtools", listID)
	case <-time.After(time.Second):
		t.Fatal("poller never restarted after Close")
	}
}
