package cards

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"

	"bunker/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	Professions   = "professions"
	Biology       = "biology"
	HealthBody    = "health_body"
	HealthDisease = "health_disease"
	Phobias       = "phobias"
	Hobbies       = "hobbies"
	Facts         = "facts"
	Baggage       = "baggage"
	Scenarios     = "scenarios"
	Events        = "events"
)

var categories = []string{
	Professions, Biology, HealthBody, HealthDisease, Phobias,
	Hobbies, Facts, Baggage, Scenarios, Events,
}

var (
	ErrUnknownCategory = errors.New("unknown card category")
	ErrDuplicateCard   = errors.New("card already exists")
	ErrCardNotFound    = errors.New("card not found")
	ErrEmptyText       = errors.New("card text is empty")
	ErrLastCard        = errors.New("category must keep at least one card")
)

// Entry is one card in a pool. Weight only matters for weighted categories;
// Detail carries scenario and event descriptions, Kind the event type.
type Entry struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
	Detail string `json:"detail,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

// Catalog is the card-pool collaborator shared by all games.
// Mutations are written to the database before the in-memory pools change.
type Catalog struct {
	mu    sync.RWMutex
	db    *gorm.DB
	pools map[string][]Entry
}

func Categories() []string {
	return slices.Clone(categories)
}

func IsCategory(category string) bool {
	return slices.Contains(categories, category)
}

// IsWeighted reports whether entries in the category are drawn by weight.
func IsWeighted(category string) bool {
	switch category {
	case Biology, HealthBody, HealthDisease:
		return true
	default:
		return false
	}
}

// NewCatalog loads card pools from the database, seeding empty categories with
// the built-in defaults. A nil connection keeps everything in memory.
func NewCatalog(ctx context.Context, conn *gorm.DB) (*Catalog, error) {
	c := &Catalog{db: conn, pools: defaultPools()}
	if conn == nil {
		return c, nil
	}
	var rows []db.CardEntry
	if err := conn.WithContext(ctx).Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load card entries: %w", err)
	}
	stored := make(map[string][]Entry)
	for _, row := range rows {
		if !IsCategory(row.Category) {
			log.Printf("skipping card with unknown category category=%s id=%d", row.Category, row.ID)
			continue
		}
		stored[row.Category] = append(stored[row.Category], Entry{
			Text:   row.Text,
			Weight: max(row.Weight, 1),
			Detail: row.Detail,
			Kind:   row.Kind,
		})
	}
	for _, category := range categories {
		if entries := stored[category]; len(entries) > 0 {
			c.pools[category] = entries
			continue
		}
		if err := c.seed(ctx, category, c.pools[category]); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) seed(ctx context.Context, category string, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	records := make([]db.CardEntry, 0, len(entries))
	for _, entry := range entries {
		records = append(records, toRecord(category, entry))
	}
	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&records).Error; err != nil {
		return fmt.Errorf("seed %s cards: %w", category, err)
	}
	log.Printf("seeded default cards category=%s count=%d", category, len(records))
	return nil
}

// Pool returns a copy of the entries in a category.
func (c *Catalog) Pool(category string) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.pools[category])
}

func (c *Catalog) Texts(category string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	texts := make([]string, 0, len(c.pools[category]))
	for _, entry := range c.pools[category] {
		texts = append(texts, entry.Text)
	}
	return texts
}

func (c *Catalog) Counts() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	counts := make(map[string]int, len(categories))
	for _, category := range categories {
		counts[category] = len(c.pools[category])
	}
	return counts
}

func (c *Catalog) Add(ctx context.Context, category string, entry Entry) error {
	if !IsCategory(category) {
		return ErrUnknownCategory
	}
	entry.Text = strings.TrimSpace(entry.Text)
	if entry.Text == "" {
		return ErrEmptyText
	}
	if entry.Weight <= 0 {
		entry.Weight = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if indexOf(c.pools[category], entry.Text) >= 0 {
		return ErrDuplicateCard
	}
	if c.db != nil {
		record := toRecord(category, entry)
		if err := c.db.WithContext(ctx).Create(&record).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCard
			}
			return fmt.Errorf("store card: %w", err)
		}
	}
	c.pools[category] = append(c.pools[category], entry)
	return nil
}

func (c *Catalog) Remove(ctx context.Context, category, text string) error {
	if !IsCategory(category) {
		return ErrUnknownCategory
	}
	text = strings.TrimSpace(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	index := indexOf(c.pools[category], text)
	if index < 0 {
		return ErrCardNotFound
	}
	if len(c.pools[category]) == 1 {
		return ErrLastCard
	}
	if c.db != nil {
		stored := c.pools[category][index].Text
		result := c.db.WithContext(ctx).
			Where("category = ? AND text = ?", category, stored).
			Delete(&db.CardEntry{})
		if result.Error != nil {
			return fmt.Errorf("delete card: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("delete card %q: no stored row: %w", stored, ErrCardNotFound)
		}
	}
	c.pools[category] = slices.Delete(slices.Clone(c.pools[category]), index, index+1)
	return nil
}

func indexOf(entries []Entry, text string) int {
	return slices.IndexFunc(entries, func(entry Entry) bool {
		return strings.EqualFold(entry.Text, text)
	})
}

func toRecord(category string, entry Entry) db.CardEntry {
	return db.CardEntry{
		Category: category,
		Text:     entry.Text,
		Weight:   entry.Weight,
		Detail:   entry.Detail,
		Kind:     entry.Kind,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
