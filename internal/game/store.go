package game

import (
	"errors"
	"slices"
	"sync"
)

// Store holds the live games. Each game has its own lock so one chat's
// work never blocks another's.
type Store struct {
	mu    sync.Mutex
	games map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	game *Game
}

func NewStore() *Store {
	return &Store{games: make(map[int64]*entry)}
}

func (s *Store) Create(game *Game) error {
	if game == nil {
		return errors.New("game is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ChatID]; ok {
		return ErrGameExists
	}
	s.games[game.ChatID] = &entry{game: game}
	return nil
}

func (s *Store) lookup(chatID int64) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.games[chatID]
	return e, ok
}

// Update runs fn while holding the game's lock. fn may call Delete for the
// same chat.
func (s *Store) Update(chatID int64, fn func(game *Game) error) error {
	e, ok := s.lookup(chatID)
	if !ok {
		return ErrGameNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if current, ok := s.lookup(chatID); !ok || current != e {
		return ErrGameNotFound
	}
	return fn(e.game)
}

// View runs fn under the game's lock without expecting mutations.
func (s *Store) View(chatID int64, fn func(game *Game)) error {
	return s.Update(chatID, func(game *Game) error {
		fn(game)
		return nil
	})
}

func (s *Store) Delete(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[chatID]; !ok {
		return false
	}
	delete(s.games, chatID)
	return true
}

func (s *Store) ChatIDs() []int64 {
	s.mu.Lock()
	ids := make([]int64, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)
	return ids
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}
