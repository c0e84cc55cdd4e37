package game

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"bunker/internal/cards"
	"bunker/internal/config"
)

const testChat int64 = -1001

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingMessenger struct {
	mu      sync.Mutex
	nextID  int
	sent    []Outgoing
	edits   int
	deleted []deleteRequest
}

func (m *recordingMessenger) Send(_ context.Context, msg Outgoing) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.sent = append(m.sent, msg)
	return m.nextID, nil
}

func (m *recordingMessenger) Edit(context.Context, int64, int, string, Keyboard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits++
	return nil
}

func (m *recordingMessenger) Delete(_ context.Context, chatID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, deleteRequest{chatID: chatID, messageID: messageID})
	return nil
}

func (m *recordingMessenger) wasDeleted(chatID int64, messageID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.deleted, deleteRequest{chatID: chatID, messageID: messageID})
}

func (m *recordingMessenger) to(chatID int64) []Outgoing {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []Outgoing
	for _, msg := range m.sent {
		if msg.ChatID == chatID {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (m *recordingMessenger) containing(chatID int64, fragment string) int {
	n := 0
	for _, msg := range m.to(chatID) {
		if strings.Contains(msg.Text, fragment) {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T) (*Engine, *recordingMessenger, *MemoryPersister) {
	t.Helper()
	cfg := config.Default()
	cfg.AdminIDs = []int64{900}
	cfg.AllowedPlayers = []int{2, 3, 4, 5, 6, 8, 10}
	cfg.TurnSeconds = 0
	cfg.VotingSeconds = 0
	cfg.ResultsSeconds = 0
	cfg.RoleStudySeconds = 0
	cfg.FinishGraceSeconds = 0
	cfg.SpecialCardChance = 0

	catalog, err := cards.NewCatalog(context.Background(), nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	messenger := &recordingMessenger{}
	persister := NewMemoryPersister()
	e := New(cfg, catalog, messenger, persister)
	e.rng = newLockedRand(42)
	e.now = func() time.Time { return testNow }
	t.Cleanup(e.Close)
	return e, messenger, persister
}

func testUser(id int64) User {
	return User{ID: id, Username: fmt.Sprintf("p%d", id), FirstName: fmt.Sprintf("Player %d", id)}
}

func playerIDs(n int) []int64 {
	ids := make([]int64, n)
	for i := range ids {
		ids[i] = int64(101 + i)
	}
	return ids
}

func startGame(t *testing.T, e *Engine, n int) []int64 {
	t.Helper()
	ctx := context.Background()
	ids := playerIDs(n)
	if err := e.CreateGame(ctx, testChat, testUser(ids[0])); err != nil {
		t.Fatalf("create game: %v", err)
	}
	for _, id := range ids[1:] {
		if err := e.Join(ctx, testChat, testUser(id)); err != nil {
			t.Fatalf("join %d: %v", id, err)
		}
	}
	if err := e.Start(ctx, testChat, ids[0]); err != nil {
		t.Fatalf("start: %v", err)
	}
	return ids
}

// craftGame registers a game already in the given phase, skipping the lobby.
func craftGame(t *testing.T, e *Engine, n int, phase Phase, capacity int) []int64 {
	t.Helper()
	ids := playerIDs(n)
	g := NewGame(testChat, ids[0], 16, testNow)
	for i, id := range ids {
		p := NewPlayer(testUser(id), testNow.Add(time.Duration(i)*time.Second))
		p.Character = GenerateCharacter(e.cards, e.rng, 0)
		if err := g.AddPlayer(p); err != nil {
			t.Fatalf("add player: %v", err)
		}
	}
	g.Phase = phase
	g.CardPhase = 2
	if k := phase.CardNumber(); k > 0 {
		g.CardPhase = k
	}
	g.ShelterInfo = fmt.Sprintf("Бункер рассчитан на %d человек. Запасов еды на 1 год.", capacity)
	g.TurnOrder = append([]int64(nil), ids...)
	if err := e.store.Create(g); err != nil {
		t.Fatalf("create: %v", err)
	}
	return ids
}

func viewGame(t *testing.T, e *Engine, fn func(g *Game)) {
	t.Helper()
	if err := e.store.View(testChat, fn); err != nil {
		t.Fatalf("view game: %v", err)
	}
}

func editGame(t *testing.T, e *Engine, fn func(g *Game)) {
	t.Helper()
	if err := e.store.Update(testChat, func(g *Game) error {
		fn(g)
		return nil
	}); err != nil {
		t.Fatalf("update game: %v", err)
	}
}

func currentPhase(t *testing.T, e *Engine) Phase {
	t.Helper()
	var phase Phase
	viewGame(t, e, func(g *Game) { phase = g.Phase })
	return phase
}

func currentPhaseSeq(t *testing.T, e *Engine) uint64 {
	t.Helper()
	var seq uint64
	viewGame(t, e, func(g *Game) { seq = g.PhaseSeq })
	return seq
}

func currentTurn(t *testing.T, e *Engine) int64 {
	t.Helper()
	var id int64
	viewGame(t, e, func(g *Game) { id = g.CurrentTurn })
	return id
}

// playRound lets every player reveal the first trait they may reveal until
// the current reveal round is over.
func playRound(t *testing.T, e *Engine) {
	t.Helper()
	k := currentPhase(t, e).CardNumber()
	if k == 0 {
		t.Fatalf("expected a reveal phase, got %s", currentPhase(t, e))
	}
	for i := 0; i < 100; i++ {
		var (
			phase Phase
			id    int64
			trait Trait
		)
		viewGame(t, e, func(g *Game) {
			phase = g.Phase
			id = g.CurrentTurn
			if p, ok := g.Players[id]; ok {
				if available := p.AvailableTraits(k); len(available) > 0 {
					trait = available[0]
				}
			}
		})
		if phase.CardNumber() != k || id == 0 {
			return
		}
		if err := e.Reveal(context.Background(), testChat, id, trait); err != nil {
			t.Fatalf("reveal %s by %d: %v", trait, id, err)
		}
	}
	t.Fatalf("round %d did not finish", k)
}

func mustVote(t *testing.T, e *Engine, voter, target int64) {
	t.Helper()
	if err := e.Vote(context.Background(), testChat, voter, target); err != nil {
		t.Fatalf("vote %d -> %d: %v", voter, target, err)
	}
}

func mustAbstain(t *testing.T, e *Engine, voter int64) {
	t.Helper()
	if err := e.Abstain(context.Background(), testChat, voter); err != nil {
		t.Fatalf("abstain %d: %v", voter, err)
	}
}

// fixedRand returns queued values for IntN and never shuffles.
type fixedRand struct {
	ints   []int
	floats []float64
}

func (f *fixedRand) IntN(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}

func (f *fixedRand) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fixedRand) Shuffle(int, func(i, j int)) {}
