package replyassist

import (
	"context"
	"sync"
	"time"

	"github.com/pulsekit/go-studio/pkg/store"
)

const updateKeyPrefix = "replyassist:update:"

func updateKey(listID string) string { return updateKeyPrefix + listID }

// UpdateTracker owns the set of background analysis jobs the page is
// watching. Jobs survive reloads through the session store; anything the
// store aged out is simply not resumed. A single poller goroutine checks the
// tracked jobs every interval and stops itself once none remain.
type UpdateTracker struct {
	repo     ListRepository
	sessions store.SessionStore
	interval time.Duration
	now      func() time.Time

	// onComplete fires once per finished job, after the session record is
	// cleared. It runs on the poller goroutine.
	onComplete func(listID string, status UpdateStatus)

	mu      sync.Mutex
	jobs    map[string]OngoingUpdate
	polling bool
	stop    chan struct{}
	done    chan struct{}
}

// NewUpdateTracker wires a tracker over repo and sessions. A zero interval
// defaults to five seconds.
func NewUpdateTracker(repo ListRepository, sessions store.SessionStore, interval time.Duration, onComplete func(string, UpdateStatus)) *UpdateTracker {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &UpdateTracker{
		repo:       repo,
		sessions:   sessions,
		interval:   interval,
		now:        time.Now,
		onComplete: onComplete,
		jobs:       map[string]OngoingUpdate{},
	}
}

// Track records a freshly started job and makes sure the poller is running.
func (t *UpdateTracker) Track(ctx context.Context, listID string) error {
	update := OngoingUpdate{ListID: listID, Status: UpdateRunning, StartedAt: t.now()}
	if err := t.sessions.Put(ctx, updateKey(listID), update); err != nil {
		return err
	}

	t.mu.Lock()
	t.jobs[listID] = update
	t.ensurePollerLocked()
	t.mu.Unlock()
	return nil
}

// Resume re-adopts persisted jobs for the given lists, typically at page
// mount. Records past the staleness window never come back from the store,
// so they are neither polled nor re-persisted.
func (t *UpdateTracker) Resume(ctx context.Context, lists []List) error {
	adopted := map[string]OngoingUpdate{}
	for _, list := range lists {
		var update OngoingUpdate
		ok, err := t.sessions.Get(ctx, updateKey(list.ID), &update)
		if err != nil {
			return err
		}
		if ok {
			adopted[list.ID] = update
		}
	}
	if len(adopted) == 0 {
		return nil
	}

	t.mu.Lock()
	for id, update := range adopted {
		t.jobs[id] = update
	}
	t.ensurePollerLocked()
	t.mu.Unlock()
	return nil
}

// Tracking reports whether listID has a live job.
func (t *UpdateTracker) Tracking(listID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.jobs[listID]
	return ok
}

// Active returns the tracked list IDs.
func (t *UpdateTracker) Active() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.jobs))
	for id := range t.jobs {
		ids = append(ids, id)
	}
	return ids
}

// Close stops the poller if it is running and waits for it to exit. The
// tracker stays usable: a later Track starts a fresh poller.
func (t *UpdateTracker) Close() {
	t.mu.Lock()
	if !t.polling {
		t.mu.Unlock()
		return
	}
	t.polling = false
	stop, done := t.stop, t.done
	t.stop, t.done = nil, nil
	t.mu.Unlock()

	close(stop)
	<-done
}

func (t *UpdateTracker) ensurePollerLocked() {
	if t.polling || len(t.jobs) == 0 {
		return
	}
	t.polling = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	go t.poll(t.stop, t.done)
}

func (t *UpdateTracker) poll(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.sweep() == 0 {
				t.mu.Lock()
				// A job tracked between the sweep and this lock keeps the
				// poller alive.
				if len(t.jobs) == 0 {
					t.polling = false
					t.mu.Unlock()
					return
				}
				t.mu.Unlock()
			}
		}
	}
}

// sweep polls every tracked job once and retires the finished ones. It
// returns the number of jobs still in flight.
func (t *UpdateTracker) sweep() int {
	t.mu.Lock()
	ids := make([]string, 0, len(t.jobs))
	for id := range t.jobs {
		ids = append(ids, id)
	}
	t.mu.Unlock()

	ctx := context.Background()
	for _, id := range ids {
		status, err := t.repo.AnalysisStatus(ctx, id)
		if err != nil {
			// Transient poll failures leave the job tracked for the next
			// tick.
			continue
		}
		if status == UpdateRunning {
			continue
		}

		_ = t.sessions.Delete(ctx, updateKey(id))
		t.mu.Lock()
		delete(t.jobs, id)
		t.mu.Unlock()

		if t.onComplete != nil {
			t.onComplete(id, status)
		}
	}

	t.mu.Lock()
	remaining := len(t.jobs)
	t.mu.Unlock()
	return remaining
}
