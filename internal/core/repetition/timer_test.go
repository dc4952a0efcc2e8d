package repetition

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"problemtimer/internal/core/model"
)

const waitTimeout = 2 * time.Second

type fakeHandle struct {
	callback  func()
	cancelled atomic.Bool
}

func (handle *fakeHandle) Cancel() {
	handle.cancelled.Store(true)
}

// fakeTicks hands out handles that only fire when the test says so.
type fakeTicks struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (ticks *fakeTicks) Schedule(_ time.Duration, callback func()) TickHandle {
	handle := &fakeHandle{callback: callback}
	ticks.mu.Lock()
	ticks.handles = append(ticks.handles, handle)
	ticks.mu.Unlock()
	return handle
}

func (ticks *fakeTicks) live() []*fakeHandle {
	ticks.mu.Lock()
	defer ticks.mu.Unlock()
	var out []*fakeHandle
	for _, handle := range ticks.handles {
		if !handle.cancelled.Load() {
			out = append(out, handle)
		}
	}
	return out
}

func (ticks *fakeTicks) last() *fakeHandle {
	ticks.mu.Lock()
	defer ticks.mu.Unlock()
	if len(ticks.handles) == 0 {
		return nil
	}
	return ticks.handles[len(ticks.handles)-1]
}

func (ticks *fakeTicks) fire(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		live := ticks.live()
		require.Len(t, live, 1, "expected exactly one live tick source")
		live[0].callback()
	}
}

// fakeSpeaker resolves announcements instantly unless hold is set.
type fakeSpeaker struct {
	mu        sync.Mutex
	spoken    []string
	queued    []string
	hold      bool
	waiting   []chan struct{}
	cancelled int
	busy      bool
	started   chan string
}

func newFakeSpeaker() *fakeSpeaker {
	return &fakeSpeaker{started: make(chan string, 16)}
}

func (speaker *fakeSpeaker) SpeakAndAwait(ctx context.Context, message string) error {
	speaker.mu.Lock()
	speaker.spoken = append(speaker.spoken, message)
	if !speaker.hold {
		speaker.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	speaker.waiting = append(speaker.waiting, ch)
	speaker.mu.Unlock()

	speaker.started <- message
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (speaker *fakeSpeaker) Enqueue(message string) {
	speaker.mu.Lock()
	speaker.queued = append(speaker.queued, message)
	speaker.mu.Unlock()
}

func (speaker *fakeSpeaker) CancelAll() {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	speaker.cancelled++
	for _, ch := range speaker.waiting {
		close(ch)
	}
	speaker.waiting = nil
	speaker.busy = false
}

func (speaker *fakeSpeaker) Speaking() bool {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	return speaker.busy || len(speaker.waiting) > 0
}

func (speaker *fakeSpeaker) setHold(hold bool) {
	speaker.mu.Lock()
	speaker.hold = hold
	speaker.mu.Unlock()
}

func (speaker *fakeSpeaker) setBusy(busy bool) {
	speaker.mu.Lock()
	speaker.busy = busy
	speaker.mu.Unlock()
}

func (speaker *fakeSpeaker) releaseNext(t *testing.T) {
	t.Helper()
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	require.NotEmpty(t, speaker.waiting, "no announcement is being awaited")
	close(speaker.waiting[0])
	speaker.waiting = speaker.waiting[1:]
}

func (speaker *fakeSpeaker) history() (spoken, queued []string, cancelled int) {
	speaker.mu.Lock()
	defer speaker.mu.Unlock()
	return append([]string(nil), speaker.spoken...), append([]string(nil), speaker.queued...), speaker.cancelled
}

func (speaker *fakeSpeaker) waitStarted(t *testing.T, message string) {
	t.Helper()
	select {
	case got := <-speaker.started:
		require.Equal(t, message, got)
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for announcement %q", message)
	}
}

func newTestTimer(t *testing.T, total, reps int) (*Timer, *fakeSpeaker, *fakeTicks) {
	t.Helper()
	speaker := newFakeSpeaker()
	ticks := &fakeTicks{}
	timer := New(model.NewTimerConfig(total, reps), speaker, ticks, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(timer.Close)
	return timer, speaker, ticks
}

func runAsync(fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("operation did not return")
	}
}

func TestNewTimerIsReady(t *testing.T) {
	timer, _, _ := newTestTimer(t, 300, 3)

	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseReady, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Repetition)
	assert.Equal(t, 3, snapshot.Repetitions)
	assert.Equal(t, 100, snapshot.PerRepetitionSeconds)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Ticking)
}

func TestScenarioCountdownAndNextProblem(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseRunning, snapshot.Phase)
	assert.True(t, snapshot.Ticking)
	assert.Equal(t, 100, snapshot.RemainingSeconds)

	ticks.fire(t, 99)
	assert.Equal(t, 1, timer.Snapshot().RemainingSeconds)
	assert.Equal(t, 1, timer.Snapshot().Repetition)

	ticks.fire(t, 1)
	snapshot = timer.Snapshot()
	assert.Equal(t, 2, snapshot.Repetition)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.Equal(t, PhaseRunning, snapshot.Phase)
	assert.True(t, snapshot.Ticking)

	spoken, _, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1", "Problem 2"}, spoken)
}

func TestScenarioLastRepetitionCompletes(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 9, 3)

	timer.Start(context.Background())
	ticks.fire(t, 3)
	ticks.fire(t, 3)
	assert.Equal(t, 3, timer.Snapshot().Repetition)

	ticks.fire(t, 3)
	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseCompleted, snapshot.Phase)
	assert.Equal(t, 3, snapshot.Repetition)
	assert.Equal(t, 0, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Ticking)
	assert.Empty(t, ticks.live())

	spoken, queued, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1", "Problem 2", "Problem 3"}, spoken)
	assert.Equal(t, []string{"All problems completed"}, queued)
}

func TestCompletionDoesNotWaitForFinalPhrase(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 2, 1)

	timer.Start(context.Background())
	speaker.setHold(true)
	ticks.fire(t, 2)

	// the final phrase is queued, never awaited
	assert.Equal(t, PhaseCompleted, timer.Snapshot().Phase)
	_, queued, _ := speaker.history()
	assert.Equal(t, []string{"All problems completed"}, queued)
}

func TestScenarioSkipAnnouncesTimeSaved(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	ticks.fire(t, 55)
	require.Equal(t, 45, timer.Snapshot().RemainingSeconds)

	timer.Skip(context.Background())

	snapshot := timer.Snapshot()
	assert.Equal(t, 2, snapshot.Repetition)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.True(t, snapshot.Ticking)

	spoken, _, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1", "Good, you are ahead by 45 seconds", "Problem 2"}, spoken)
}

func TestSkipOnLastRepetitionCompletes(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 120, 1)

	timer.Start(context.Background())
	ticks.fire(t, 10)
	timer.Skip(context.Background())

	assert.Equal(t, PhaseCompleted, timer.Snapshot().Phase)
	assert.Empty(t, ticks.live())
	spoken, queued, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1", "Good, you are ahead by 1 minute 50 seconds"}, spoken)
	assert.Equal(t, []string{"All problems completed"}, queued)
}

func TestSkipRequiresRunning(t *testing.T) {
	timer, speaker, _ := newTestTimer(t, 300, 3)

	timer.Skip(context.Background())
	timer.Start(context.Background())
	timer.Pause()
	timer.Skip(context.Background())

	spoken, _, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1"}, spoken)
	assert.Equal(t, 1, timer.Snapshot().Repetition)
}

func TestScenarioResetDuringOpeningAnnouncement(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)
	speaker.setHold(true)

	done := runAsync(func() { timer.Start(context.Background()) })
	speaker.waitStarted(t, "Problem 1")

	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseRunning, snapshot.Phase)
	assert.True(t, snapshot.Awaiting)
	assert.False(t, snapshot.Ticking, "ticks must wait for the opening announcement")

	timer.Reset()
	waitDone(t, done)

	snapshot = timer.Snapshot()
	assert.Equal(t, PhaseReady, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Repetition)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Ticking)
	assert.False(t, snapshot.Awaiting)
	assert.Empty(t, ticks.live())

	spoken, queued, cancelled := speaker.history()
	assert.Equal(t, []string{"Problem 1"}, spoken)
	assert.Empty(t, queued)
	assert.Equal(t, 1, cancelled)
}

func TestScenarioResetDuringNextProblemAnnouncement(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 6, 3)

	timer.Start(context.Background())
	ticks.fire(t, 1)
	speaker.setHold(true)

	// the final tick blocks inside repetition-end handling
	handle := ticks.live()[0]
	done := runAsync(handle.callback)
	speaker.waitStarted(t, "Problem 2")
	assert.False(t, timer.Snapshot().Ticking)

	timer.Reset()
	waitDone(t, done)

	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseReady, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Repetition)
	assert.Equal(t, 2, snapshot.RemainingSeconds)
	assert.Empty(t, ticks.live())

	_, queued, _ := speaker.history()
	assert.Empty(t, queued)
}

func TestPauseDuringNextProblemAnnouncement(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	ticks.fire(t, 99)
	speaker.setHold(true)

	done := runAsync(ticks.live()[0].callback)
	speaker.waitStarted(t, "Problem 2")

	timer.Pause()
	speaker.releaseNext(t)
	waitDone(t, done)

	snapshot := timer.Snapshot()
	assert.Equal(t, PhasePaused, snapshot.Phase)
	assert.Equal(t, 2, snapshot.Repetition)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.False(t, snapshot.Ticking, "pause must win over the pending announcement")
	assert.Empty(t, ticks.live())
}

func TestPauseDuringOpeningAnnouncement(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)
	speaker.setHold(true)

	done := runAsync(func() { timer.Start(context.Background()) })
	speaker.waitStarted(t, "Problem 1")

	timer.Pause()
	speaker.releaseNext(t)
	waitDone(t, done)

	assert.Equal(t, PhasePaused, timer.Snapshot().Phase)
	assert.Empty(t, ticks.live())
}

func TestPauseKeepsRemainingAndIsIdempotent(t *testing.T) {
	timer, _, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	ticks.fire(t, 30)
	timer.Pause()
	before := timer.Snapshot()
	timer.Pause()
	after := timer.Snapshot()

	assert.Equal(t, PhasePaused, after.Phase)
	assert.Equal(t, 70, after.RemainingSeconds)
	assert.Equal(t, before, after)
	assert.Empty(t, ticks.live())
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	ticks.fire(t, 5)
	timer.Start(context.Background())

	spoken, _, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1"}, spoken)
	assert.Equal(t, 95, timer.Snapshot().RemainingSeconds)
	assert.Len(t, ticks.live(), 1)
}

func TestStartWhileSpeakingIsNoop(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)
	speaker.setBusy(true)

	timer.Start(context.Background())

	assert.Equal(t, PhaseReady, timer.Snapshot().Phase)
	assert.Empty(t, ticks.live())
	spoken, _, _ := speaker.history()
	assert.Empty(t, spoken)
}

func TestResumeAnnouncesCurrentProblem(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	ticks.fire(t, 100)
	ticks.fire(t, 40)
	timer.Pause()
	timer.Start(context.Background())

	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseRunning, snapshot.Phase)
	assert.Equal(t, 2, snapshot.Repetition)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.Len(t, ticks.live(), 1)

	spoken, _, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1", "Problem 2", "Problem 2"}, spoken)
}

func TestStartAfterCompletionRestarts(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 4, 2)

	timer.Start(context.Background())
	ticks.fire(t, 4)
	require.Equal(t, PhaseCompleted, timer.Snapshot().Phase)

	timer.Start(context.Background())
	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseRunning, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Repetition)
	assert.Equal(t, 2, snapshot.RemainingSeconds)

	spoken, _, _ := speaker.history()
	assert.Equal(t, []string{"Problem 1", "Problem 2", "Problem 1"}, spoken)
}

func TestStaleTickIsIgnored(t *testing.T) {
	timer, _, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	stale := ticks.last()
	timer.Pause()
	timer.Start(context.Background())

	stale.callback()
	assert.Equal(t, 100, timer.Snapshot().RemainingSeconds)
	assert.Len(t, ticks.live(), 1)
}

func TestConfigure(t *testing.T) {
	timer, _, ticks := newTestTimer(t, 300, 3)

	assert.True(t, timer.Configure(model.TimerConfig{TotalDurationSeconds: 600, RepetitionCount: 4}))
	snapshot := timer.Snapshot()
	assert.Equal(t, 150, snapshot.PerRepetitionSeconds)
	assert.Equal(t, 150, snapshot.RemainingSeconds)

	timer.Start(context.Background())
	assert.False(t, timer.Configure(model.TimerConfig{TotalDurationSeconds: 60, RepetitionCount: 1}))
	assert.Equal(t, 150, timer.Snapshot().PerRepetitionSeconds)

	ticks.fire(t, 150)
	ticks.fire(t, 150)
	ticks.fire(t, 10)
	timer.Pause()
	require.Equal(t, 3, timer.Snapshot().Repetition)

	assert.True(t, timer.Configure(model.TimerConfig{TotalDurationSeconds: -5, RepetitionCount: 0}))
	snapshot = timer.Snapshot()
	assert.Equal(t, 1, snapshot.Repetitions)
	assert.Equal(t, 1, snapshot.Repetition, "repetition never exceeds the count")
	assert.Equal(t, 0, snapshot.PerRepetitionSeconds)
	assert.Equal(t, 0, snapshot.RemainingSeconds)
}

func TestConfigureRejectedWhileSpeaking(t *testing.T) {
	timer, speaker, _ := newTestTimer(t, 300, 3)
	speaker.setBusy(true)

	assert.False(t, timer.Configure(model.TimerConfig{TotalDurationSeconds: 60, RepetitionCount: 2}))
	assert.Equal(t, 100, timer.Snapshot().PerRepetitionSeconds)
}

func TestResetRestoresReady(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)

	timer.Start(context.Background())
	ticks.fire(t, 120)
	timer.Reset()

	snapshot := timer.Snapshot()
	assert.Equal(t, PhaseReady, snapshot.Phase)
	assert.Equal(t, 1, snapshot.Repetition)
	assert.Equal(t, 100, snapshot.RemainingSeconds)
	assert.Empty(t, ticks.live())
	_, _, cancelled := speaker.history()
	assert.Equal(t, 1, cancelled)
}

func TestStartContextCancelledPausesTimer(t *testing.T) {
	timer, speaker, ticks := newTestTimer(t, 300, 3)
	speaker.setHold(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := runAsync(func() { timer.Start(ctx) })
	speaker.waitStarted(t, "Problem 1")
	cancel()
	waitDone(t, done)

	snapshot := timer.Snapshot()
	assert.Equal(t, PhasePaused, snapshot.Phase)
	assert.False(t, snapshot.Awaiting)
	assert.Empty(t, ticks.live())
}

func TestSubscribeReceivesEvents(t *testing.T) {
	timer, _, ticks := newTestTimer(t, 300, 3)
	events := timer.Subscribe(16)

	timer.Start(context.Background())
	ticks.fire(t, 1)

	var got []EventType
	for len(got) < 3 {
		select {
		case event := <-events:
			got = append(got, event.Type)
			if event.Type == EventProgress {
				assert.Equal(t, 99*time.Second, event.Remaining)
			}
		case <-time.After(waitTimeout):
			t.Fatalf("missing events, got %v", got)
		}
	}
	assert.Equal(t, []EventType{EventPhaseChange, EventAnnouncement, EventProgress}, got)

	timer.Close()
	_, open := <-events
	assert.False(t, open)
}
