package game

import (
	"context"
	"errors"
	"log"
	"slices"
	"time"

	"bunker/internal/config"
)

// Engine runs every game the bot hosts. All mutations of a game happen under
// that game's lock; timers re-enter through the same path and re-check the
// phase they were armed for.
type Engine struct {
	store     *Store
	timers    *Timers
	cards     CardSource
	messenger Messenger
	persister Persister
	rng       Rand
	now       func() time.Time

	operators      []int64
	allowedPlayers []int
	maxPlayers     int
	specialChance  float64

	turnTimeout   time.Duration
	votingTimeout time.Duration
	resultsDelay  time.Duration
	roleStudy     time.Duration
	finishGrace   time.Duration
}

func New(cfg config.Config, source CardSource, messenger Messenger, persister Persister) *Engine {
	if messenger == nil {
		messenger = discardMessenger{}
	}
	if persister == nil {
		persister = NewMemoryPersister()
	}
	return &Engine{
		store:          NewStore(),
		timers:         NewTimers(),
		cards:          source,
		messenger:      messenger,
		persister:      persister,
		rng:            NewRand(),
		now:            func() time.Time { return time.Now().UTC() },
		operators:      slices.Clone(cfg.AdminIDs),
		allowedPlayers: slices.Clone(cfg.AllowedPlayers),
		maxPlayers:     cfg.MaxPlayers,
		specialChance:  cfg.SpecialCardChance,
		turnTimeout:    cfg.TurnTimeout(),
		votingTimeout:  cfg.VotingTimeout(),
		resultsDelay:   cfg.ResultsDelay(),
		roleStudy:      cfg.RoleStudyTimeout(),
		finishGrace:    cfg.FinishGrace(),
	}
}

// Close stops every pending timer.
func (e *Engine) Close() {
	e.timers.Stop()
}

func (e *Engine) IsOperator(userID int64) bool {
	return slices.Contains(e.operators, userID)
}

func (e *Engine) update(ctx context.Context, chatID int64, fn func(g *Game, out *outbox) error) error {
	out := &outbox{}
	err := e.store.Update(chatID, func(g *Game) error {
		if err := fn(g, out); err != nil {
			return err
		}
		e.persist(ctx, g, out)
		return nil
	})
	if err != nil {
		return err
	}
	e.flush(ctx, out)
	return nil
}

// fromTimer runs a timer callback. Stale or missing games are ignored.
func (e *Engine) fromTimer(chatID int64, name string, fn func(g *Game, out *outbox) error) {
	err := e.update(context.Background(), chatID, fn)
	if err != nil && !errors.Is(err, errStale) && !errors.Is(err, ErrGameNotFound) {
		log.Printf("%s failed chat_id=%d error=%v", name, chatID, err)
	}
}

type Summary struct {
	ChatID      int64     `json:"chat_id"`
	Phase       Phase     `json:"phase"`
	CardPhase   int       `json:"current_card_phase"`
	Players     int       `json:"players"`
	Alive       int       `json:"alive"`
	Capacity    int       `json:"capacity,omitempty"`
	CurrentTurn int64     `json:"current_turn_player_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (e *Engine) List() []Summary {
	ids := e.store.ChatIDs()
	list := make([]Summary, 0, len(ids))
	for _, id := range ids {
		_ = e.store.View(id, func(g *Game) {
			s := Summary{
				ChatID:      g.ChatID,
				Phase:       g.Phase,
				CardPhase:   g.CardPhase,
				Players:     len(g.Players),
				Alive:       g.AliveCount(),
				CurrentTurn: g.CurrentTurn,
				CreatedAt:   g.CreatedAt,
			}
			if g.ShelterInfo != "" {
				s.Capacity = g.ShelterCapacity()
			}
			list = append(list, s)
		})
	}
	return list
}

// Snapshot returns a detached copy of a game's state.
func (e *Engine) Snapshot(chatID int64) (*Record, error) {
	var record *Record
	err := e.store.View(chatID, func(g *Game) {
		record = recordFromGame(g)
	})
	return record, err
}

// GamesOf returns the chats where the user is a player.
func (e *Engine) GamesOf(userID int64) []int64 {
	var chats []int64
	for _, id := range e.store.ChatIDs() {
		_ = e.store.View(id, func(g *Game) {
			if _, ok := g.Players[userID]; ok {
				chats = append(chats, id)
			}
		})
	}
	return chats
}
