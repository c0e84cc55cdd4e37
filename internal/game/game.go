package game

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
)

type Game struct {
	ChatID         int64
	OwnerID        int64
	Phase          Phase
	PhaseStartedAt time.Time
	PhaseSeq       uint64
	CardPhase      int
	MaxPlayers     int

	Players   map[int64]*Player
	JoinOrder []int64

	Scenario            string
	ScenarioDescription string
	ShelterInfo         string

	TurnOrder     []int64
	TurnIndex     int
	CurrentTurn   int64
	TurnStartedAt time.Time

	VoteCounts       map[int64]int
	EliminatedIDs    []int64
	RevoteCandidates []int64
	Revoting         bool
	Winners          []int64

	StatusMessageID int
	TurnMessageID   int

	CreatedAt  time.Time
	FinishedAt time.Time
}

func NewGame(chatID, ownerID int64, maxPlayers int, now time.Time) *Game {
	return &Game{
		ChatID:         chatID,
		OwnerID:        ownerID,
		Phase:          PhaseLobby,
		PhaseStartedAt: now,
		CardPhase:      1,
		MaxPlayers:     maxPlayers,
		Players:        make(map[int64]*Player),
		VoteCounts:     make(map[int64]int),
		CreatedAt:      now,
	}
}

func (g *Game) AddPlayer(p *Player) error {
	if g.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	if _, ok := g.Players[p.ID]; ok {
		return ErrAlreadyJoined
	}
	if g.MaxPlayers > 0 && len(g.Players) >= g.MaxPlayers {
		return ErrGameFull
	}
	g.Players[p.ID] = p
	g.JoinOrder = append(g.JoinOrder, p.ID)
	return nil
}

// RemovePlayer drops a player from the roster regardless of phase; the engine
// decides when that is allowed.
func (g *Game) RemovePlayer(id int64) bool {
	if _, ok := g.Players[id]; !ok {
		return false
	}
	delete(g.Players, id)
	g.JoinOrder = slices.DeleteFunc(g.JoinOrder, func(v int64) bool { return v == id })
	g.TurnOrder = slices.DeleteFunc(g.TurnOrder, func(v int64) bool { return v == id })
	if g.CurrentTurn == id {
		g.CurrentTurn = 0
	}
	return true
}

func (g *Game) Player(id int64) (*Player, bool) {
	p, ok := g.Players[id]
	return p, ok
}

// OrderedPlayers returns every player in join order.
func (g *Game) OrderedPlayers() []*Player {
	players := make([]*Player, 0, len(g.JoinOrder))
	for _, id := range g.JoinOrder {
		if p, ok := g.Players[id]; ok {
			players = append(players, p)
		}
	}
	return players
}

func (g *Game) AlivePlayers() []*Player {
	return slices.DeleteFunc(g.OrderedPlayers(), func(p *Player) bool { return !p.Alive })
}

func (g *Game) AliveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// CanStart checks the roster size against the allowed counts.
func (g *Game) CanStart(allowed []int) error {
	if g.Phase != PhaseLobby {
		return ErrWrongPhase
	}
	if !slices.Contains(allowed, len(g.Players)) {
		return fmt.Errorf("%w: %d players, allowed %v", ErrBadRosterSize, len(g.Players), allowed)
	}
	return nil
}

var capacityPattern = regexp.MustCompile(`(\d+)\s+(?:человек|мест)`)

// ShelterCapacity parses the number of places from the shelter text,
// falling back to 1 when the text is malformed.
func (g *Game) ShelterCapacity() int {
	match := capacityPattern.FindStringSubmatch(g.ShelterInfo)
	if match == nil {
		return 1
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Over reports whether enough players were eliminated to fill the shelter.
func (g *Game) Over() bool {
	return g.AliveCount() <= g.ShelterCapacity()
}

var shelterTemplates = []string{
	"Бункер рассчитан на %d человек. Запасов еды на 1 год. Есть генератор, медблок, библиотека.",
	"Убежище на %d мест. Автономность 2 года. Гидропоника, мастерская, спортзал.",
	"Подземное укрытие на %d человек. Запасы на 18 месяцев. Лаборатория, склад, комнаты отдыха.",
}

func shelterText(alive int, rng Rand) string {
	slots := max(alive-(1+rng.IntN(2)), 1)
	return fmt.Sprintf(shelterTemplates[rng.IntN(len(shelterTemplates))], slots)
}

func containsID(ids []int64, id int64) bool {
	return slices.Contains(ids, id)
}
