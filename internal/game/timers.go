package game

import (
	"fmt"
	"sync"
	"time"
)

// Timers is a registry of named one-shot callbacks. Scheduling under an
// existing key replaces the previous timer, and a callback only runs if it is
// still the registered timer for its key when it fires.
type Timers struct {
	mu      sync.Mutex
	gen     uint64
	entries map[string]*timerEntry
}

type timerEntry struct {
	chatID int64
	gen    uint64
	timer  *time.Timer
}

func NewTimers() *Timers {
	return &Timers{entries: make(map[string]*timerEntry)}
}

func (t *Timers) Schedule(chatID int64, key string, d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.entries[key]; ok {
		existing.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.entries[key] = &timerEntry{
		chatID: chatID,
		gen:    gen,
		timer: time.AfterFunc(d, func() {
			t.fire(key, gen, fn)
		}),
	}
}

func (t *Timers) fire(key string, gen uint64, fn func()) {
	t.mu.Lock()
	current, ok := t.entries[key]
	if !ok || current.gen != gen {
		t.mu.Unlock()
		return
	}
	delete(t.entries, key)
	t.mu.Unlock()
	fn()
}

func (t *Timers) Cancel(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	existing, ok := t.entries[key]
	if !ok {
		return false
	}
	existing.timer.Stop()
	delete(t.entries, key)
	return true
}

// CancelChat stops every timer tagged with the chat and returns how many were stopped.
func (t *Timers) CancelChat(chatID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for key, existing := range t.entries {
		if existing.chatID != chatID {
			continue
		}
		existing.timer.Stop()
		delete(t.entries, key)
		n++
	}
	return n
}

func (t *Timers) Active(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

func (t *Timers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, existing := range t.entries {
		existing.timer.Stop()
		delete(t.entries, key)
	}
}

func turnKey(chatID int64) string {
	return fmt.Sprintf("turn:%d", chatID)
}

func phaseKey(chatID int64, phase Phase) string {
	if phase.IsReveal() {
		return turnKey(chatID)
	}
	return fmt.Sprintf("%s:%d", phase, chatID)
}

func cleanupKey(chatID int64) string {
	return fmt.Sprintf("cleanup:%d", chatID)
}

func warnKey(chatID int64) string {
	return fmt.Sprintf("warn:%d", chatID)
}
