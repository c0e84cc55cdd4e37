package game

import (
	"errors"
	"strings"
	"testing"

	"bunker/internal/cards"
)

func TestAddPlayerRules(t *testing.T) {
	g := NewGame(testChat, 1, 2, testNow)
	if err := g.AddPlayer(NewPlayer(testUser(1), testNow)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := g.AddPlayer(NewPlayer(testUser(1), testNow)); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	if err := g.AddPlayer(NewPlayer(testUser(2), testNow)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := g.AddPlayer(NewPlayer(testUser(3), testNow)); !errors.Is(err, ErrGameFull) {
		t.Fatalf("expected ErrGameFull, got %v", err)
	}

	g.Phase = RevealPhase(1)
	g.MaxPlayers = 0
	if err := g.AddPlayer(NewPlayer(testUser(4), testNow)); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
}

func TestCanStartChecksAllowedSizes(t *testing.T) {
	g := NewGame(testChat, 1, 16, testNow)
	for _, id := range playerIDs(3) {
		_ = g.AddPlayer(NewPlayer(testUser(id), testNow))
	}
	if err := g.CanStart([]int{2, 4}); !errors.Is(err, ErrBadRosterSize) {
		t.Fatalf("expected ErrBadRosterSize, got %v", err)
	}
	if err := g.CanStart([]int{3}); err != nil {
		t.Fatalf("expected 3 players to be allowed, got %v", err)
	}
}

func TestShelterCapacity(t *testing.T) {
	cases := []struct {
		info string
		want int
	}{
		{"Бункер рассчитан на 4 человек. Запасов еды на 1 год.", 4},
		{"Убежище на 3 мест. Автономность 2 года.", 3},
		{"Подземное укрытие на 12 человек.", 12},
		{"Просторный бункер без указания вместимости", 1},
		{"", 1},
	}
	for _, tc := range cases {
		g := &Game{ShelterInfo: tc.info}
		if got := g.ShelterCapacity(); got != tc.want {
			t.Fatalf("capacity of %q: expected %d, got %d", tc.info, tc.want, got)
		}
	}
}

func TestShelterTextLeavesOneOrTwoOutside(t *testing.T) {
	rng := newLockedRand(7)
	for alive := 2; alive <= 16; alive++ {
		for i := 0; i < 20; i++ {
			g := &Game{ShelterInfo: shelterText(alive, rng)}
			got := g.ShelterCapacity()
			low := max(alive-2, 1)
			high := max(alive-1, 1)
			if got < low || got > high {
				t.Fatalf("alive=%d: capacity %d outside [%d,%d] in %q", alive, got, low, high, g.ShelterInfo)
			}
		}
	}
}

func TestVotingRequired(t *testing.T) {
	cases := []struct {
		k, alive int
		want     bool
	}{
		{1, 16, false},
		{2, 2, true},
		{3, 3, true},
		{4, 16, false},
		{5, 5, false},
		{5, 6, true},
		{6, 7, false},
		{6, 8, true},
		{7, 9, false},
		{7, 10, true},
	}
	for _, tc := range cases {
		if got := VotingRequired(tc.k, tc.alive); got != tc.want {
			t.Fatalf("VotingRequired(%d, %d): expected %v, got %v", tc.k, tc.alive, tc.want, got)
		}
	}
}

func TestPhaseNames(t *testing.T) {
	if RevealPhase(3) != "card_reveal_3" {
		t.Fatalf("unexpected phase name %q", RevealPhase(3))
	}
	if k := Phase("card_reveal_8").CardNumber(); k != 0 {
		t.Fatalf("expected out-of-range phase to have no card number, got %d", k)
	}
	if Phase("card_reveal_x").Valid() || !PhaseResults.Valid() {
		t.Fatalf("unexpected phase validity")
	}
	if PhaseLobby.Active() || PhaseFinished.Active() || !PhaseVoting.Active() {
		t.Fatalf("unexpected phase activity")
	}
}

type stubCards map[string][]cards.Entry

func (s stubCards) Pool(category string) []cards.Entry {
	return s[category]
}

func TestWeightedChoiceWalksCumulativeWeights(t *testing.T) {
	entries := []cards.Entry{
		{Text: "Мужчина", Weight: 70},
		{Text: "Женщина", Weight: 70},
		{Text: "Андроид", Weight: 5},
	}
	cases := []struct {
		draw int
		want string
	}{
		{0, "Мужчина"},
		{69, "Мужчина"},
		{70, "Женщина"},
		{139, "Женщина"},
		{140, "Андроид"},
		{144, "Андроид"},
	}
	for _, tc := range cases {
		if got := weightedChoice(entries, &fixedRand{ints: []int{tc.draw}}); got != tc.want {
			t.Fatalf("draw %d: expected %q, got %q", tc.draw, tc.want, got)
		}
	}
}

func TestGenerateCharacter(t *testing.T) {
	catalog, err := cards.NewCatalog(t.Context(), nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	rng := newLockedRand(3)
	for i := 0; i < 200; i++ {
		c := GenerateCharacter(catalog, rng, 0)
		if c.Age < 16 || c.Age > 100 {
			t.Fatalf("age %d out of range", c.Age)
		}
		if c.Profession == "" || c.Gender == "" || c.Baggage == "" {
			t.Fatalf("expected every trait drawn, got %+v", c)
		}
		if c.Special != "" {
			t.Fatalf("expected no special card with zero chance")
		}
		if len(c.Unrevealed()) != len(AllTraits) {
			t.Fatalf("expected a fresh character to be fully hidden")
		}
	}

	c := GenerateCharacter(catalog, rng, 1)
	if _, _, ok := EffectInfo(c.Special); !ok {
		t.Fatalf("expected a known special card, got %q", c.Special)
	}
}

func TestGenerateCharacterWithEmptyPools(t *testing.T) {
	c := GenerateCharacter(stubCards{}, &fixedRand{}, 0)
	if c.Profession != unknownCard || c.Gender != unknownCard {
		t.Fatalf("expected placeholder cards, got %+v", c)
	}
	if !strings.Contains(c.Value(TraitBiology), "16") {
		t.Fatalf("expected minimum age with a zero draw, got %q", c.Value(TraitBiology))
	}
}
