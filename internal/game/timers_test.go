package game

import (
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestTimersFireOnce(t *testing.T) {
	timers := NewTimers()
	defer timers.Stop()
	var fired atomic.Int32

	timers.Schedule(1, "turn:1", 10*time.Millisecond, func() { fired.Add(1) })

	waitFor(t, func() bool { return fired.Load() == 1 })
	if timers.Active("turn:1") {
		t.Fatalf("expected fired timer to be removed")
	}
}

func TestTimersScheduleReplacesExisting(t *testing.T) {
	timers := NewTimers()
	defer timers.Stop()
	var first, second atomic.Int32

	timers.Schedule(1, "turn:1", 20*time.Millisecond, func() { first.Add(1) })
	timers.Schedule(1, "turn:1", 30*time.Millisecond, func() { second.Add(1) })

	waitFor(t, func() bool { return second.Load() == 1 })
	time.Sleep(30 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("expected replaced timer never to fire")
	}
}

func TestTimersCancelChat(t *testing.T) {
	timers := NewTimers()
	defer timers.Stop()
	var fired atomic.Int32

	timers.Schedule(1, turnKey(1), 20*time.Millisecond, func() { fired.Add(1) })
	timers.Schedule(1, phaseKey(1, PhaseVoting), 20*time.Millisecond, func() { fired.Add(1) })
	timers.Schedule(2, turnKey(2), time.Hour, func() {})

	if n := timers.CancelChat(1); n != 2 {
		t.Fatalf("expected 2 timers cancelled, got %d", n)
	}
	if timers.Len() != 1 || !timers.Active(turnKey(2)) {
		t.Fatalf("expected the other chat's timer to survive")
	}
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatalf("expected cancelled timers not to fire")
	}
}

func TestTimerKeys(t *testing.T) {
	if phaseKey(5, RevealPhase(3)) != turnKey(5) {
		t.Fatalf("expected reveal phases to share the turn timer key")
	}
	if phaseKey(5, PhaseVoting) == phaseKey(5, PhaseResults) {
		t.Fatalf("expected distinct keys per phase")
	}
}
