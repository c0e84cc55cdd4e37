package game

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	e, _, _ := newTestEngine(t)
	startGame(t, e, 6)
	playRound(t, e)
	editGame(t, e, func(g *Game) {
		g.Players[101].Immune = true
		g.Players[102].Abstained[TraitHobby] = true
		g.Players[103].Character.Special = EffectCardPeek
		g.Players[103].SpecialUsed = true
	})

	first, err := e.Snapshot(testChat)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := decodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	again, err := json.Marshal(recordFromGame(gameFromRecord(decoded, testNow)))
	if err != nil {
		t.Fatalf("marshal again: %v", err)
	}
	if string(data) != string(again) {
		t.Fatalf("record changed across a round trip:\n%s\n%s", data, again)
	}

	for _, key := range []string{`"chat_id"`, `"current_card_phase":2`, `"is_alive":true`, `"revealed_cards"`, `"has_immunity":true`, `"abstained_cards":["hobby"]`, `"special_card_ref":"card_peek"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in %s", key, data)
		}
	}
}

func TestDecodeRecordDefaults(t *testing.T) {
	data := []byte(`{
		"chat_id": -7,
		"phase": "card_reveal_9",
		"current_card_phase": 42,
		"players": {
			"1": {"username": "a"},
			"2": {"username": "b", "is_alive": false}
		},
		"turn_order": [2, 1, 99],
		"eliminated_players": [2, 2]
	}`)

	record, err := decodeRecord(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	g := gameFromRecord(record, testNow)

	if g.Phase != PhaseLobby || g.CardPhase != 1 {
		t.Fatalf("expected invalid phase data to fall back, got %s/%d", g.Phase, g.CardPhase)
	}
	if !g.Players[1].Alive || g.Players[2].Alive {
		t.Fatalf("expected is_alive to default to true only when absent")
	}
	if len(g.TurnOrder) != 2 || len(g.EliminatedIDs) != 1 {
		t.Fatalf("expected unknown and duplicate ids dropped, got %v %v", g.TurnOrder, g.EliminatedIDs)
	}
	if g.OwnerID != 1 || len(g.JoinOrder) != 2 {
		t.Fatalf("expected owner and join order rebuilt, got %d %v", g.OwnerID, g.JoinOrder)
	}
	if g.CreatedAt != testNow {
		t.Fatalf("expected missing timestamps to default to now")
	}
}

func TestRestoreResumesUnfinishedGames(t *testing.T) {
	persister := NewMemoryPersister()
	persister.Put(-5, []byte(`{
		"chat_id": -5,
		"phase": "card_reveal_3",
		"current_card_phase": 3,
		"bunker_info": "Бункер рассчитан на 1 человек.",
		"players": {
			"1": {"username": "a", "character": {"profession": "Врач", "gender": "Мужчина", "age": 30, "revealed_cards": {"profession": true}}},
			"2": {"username": "b", "character": {"profession": "Повар", "gender": "Женщина", "age": 41, "revealed_cards": {"profession": true}}},
			"3": {"username": "c", "character": {"profession": "Пилот", "gender": "Мужчина", "age": 25}}
		}
	}`))
	persister.Put(-6, []byte(`{"chat_id": -6, "phase": "finished", "players": {}}`))

	e, _, _ := newTestEngine(t)
	e.persister = persister

	restored, err := e.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored != 1 {
		t.Fatalf("expected one game restored, got %d", restored)
	}
	if _, err := persister.Load(context.Background(), -6); err == nil {
		t.Fatalf("expected the finished record to be dropped")
	}

	err = e.store.View(-5, func(g *Game) {
		if g.Phase != RevealPhase(3) || g.CardPhase != 3 {
			t.Fatalf("expected card_reveal_3, got %s", g.Phase)
		}
		if g.AliveCount() != 3 {
			t.Fatalf("expected every player alive by default")
		}
		if len(g.TurnOrder) != 3 || g.CurrentTurn == 0 {
			t.Fatalf("expected a fresh turn order and an active turn, got %v %d", g.TurnOrder, g.CurrentTurn)
		}
		if !g.Players[1].Character.IsRevealed(TraitProfession) {
			t.Fatalf("expected revealed cards to survive")
		}
	})
	if err != nil {
		t.Fatalf("view restored game: %v", err)
	}
}

func TestRestoreRearmsTurnTimer(t *testing.T) {
	persister := NewMemoryPersister()
	persister.Put(-5, []byte(`{
		"chat_id": -5,
		"phase": "card_reveal_2",
		"current_card_phase": 2,
		"bunker_info": "Бункер рассчитан на 1 человек.",
		"turn_order": [1, 2],
		"current_turn_player_id": 2,
		"turn_index": 1,
		"players": {
			"1": {"character": {"profession": "Врач"}, "completed_phases": [1, 2]},
			"2": {"character": {"profession": "Повар"}, "completed_phases": [1]}
		}
	}`))

	e, _, _ := newTestEngine(t)
	e.persister = persister
	e.turnTimeout = 1 << 40

	if _, err := e.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !e.timers.Active(turnKey(-5)) {
		t.Fatalf("expected the turn timer to be re-armed")
	}
	err := e.store.View(-5, func(g *Game) {
		if g.CurrentTurn != 2 {
			t.Fatalf("expected the persisted turn to continue, got %d", g.CurrentTurn)
		}
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestRestoredGameDeletesPreviousTurnPrompt(t *testing.T) {
	ctx := context.Background()
	first, _, persister := newTestEngine(t)
	startGame(t, first, 3)

	record, err := persister.Load(ctx, testChat)
	if err != nil {
		t.Fatalf("load record: %v", err)
	}
	if record.TurnMessageID == 0 || record.CurrentTurn == 0 {
		t.Fatalf("expected the turn prompt id persisted, got turn=%d message=%d", record.CurrentTurn, record.TurnMessageID)
	}

	second, messenger, _ := newTestEngine(t)
	second.persister = persister
	if _, err := second.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	var trait Trait
	viewGame(t, second, func(g *Game) {
		if g.TurnMessageID != record.TurnMessageID {
			t.Fatalf("expected turn message %d restored, got %d", record.TurnMessageID, g.TurnMessageID)
		}
		trait = g.Players[record.CurrentTurn].AvailableTraits(1)[0]
	})
	if err := second.Reveal(ctx, testChat, record.CurrentTurn, trait); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !messenger.wasDeleted(record.CurrentTurn, record.TurnMessageID) {
		t.Fatalf("expected the pre-restart turn prompt deleted, got %v", messenger.deleted)
	}
}
