package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"bunker/internal/db"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Persister stores the latest record of every game and an append-only event log.
type Persister interface {
	Save(ctx context.Context, record *Record) error
	Load(ctx context.Context, chatID int64) (*Record, error)
	LoadAll(ctx context.Context) ([]*Record, error)
	Delete(ctx context.Context, chatID int64) error
	AppendEvent(ctx context.Context, chatID int64, eventType string, payload EventPayload) error
}

type GormPersister struct {
	db *gorm.DB
}

func NewGormPersister(conn *gorm.DB) *GormPersister {
	return &GormPersister{db: conn}
}

func (p *GormPersister) Save(ctx context.Context, record *Record) error {
	if p.db == nil {
		return nil
	}
	state, err := json.Marshal(record)
	if err != nil {
		return err
	}
	row := db.GameState{
		ChatID:           record.ChatID,
		Phase:            string(record.Phase),
		CurrentCardPhase: record.CurrentCardPhase,
		State:            datatypes.JSON(state),
	}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "current_card_phase", "state", "updated_at"}),
	}).Create(&row).Error
}

func (p *GormPersister) Load(ctx context.Context, chatID int64) (*Record, error) {
	if p.db == nil {
		return nil, ErrRecordNotFound
	}
	var row db.GameState
	if err := p.db.WithContext(ctx).First(&row, "chat_id = ?", chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return decodeRecord(row.State)
}

func (p *GormPersister) LoadAll(ctx context.Context) ([]*Record, error) {
	if p.db == nil {
		return nil, nil
	}
	var rows []db.GameState
	if err := p.db.WithContext(ctx).Order("chat_id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		record, err := decodeRecord(row.State)
		if err != nil {
			log.Printf("skipping unreadable game state chat_id=%d error=%v", row.ChatID, err)
			continue
		}
		if record.ChatID == 0 {
			record.ChatID = row.ChatID
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *GormPersister) Delete(ctx context.Context, chatID int64) error {
	if p.db == nil {
		return nil
	}
	return p.db.WithContext(ctx).Where("chat_id = ?", chatID).Delete(&db.GameState{}).Error
}

func (p *GormPersister) AppendEvent(ctx context.Context, chatID int64, eventType string, payload EventPayload) error {
	if p.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		ChatID:  chatID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if payload.PlayerID != 0 {
		playerID := payload.PlayerID
		event.PlayerID = &playerID
	}
	return p.db.WithContext(ctx).Create(&event).Error
}

// MemoryPersister keeps records as encoded JSON so a restore goes through the
// same decoding path as the database.
type MemoryPersister struct {
	mu      sync.Mutex
	records map[int64][]byte
	events  []RecordedEvent
}

type RecordedEvent struct {
	ChatID    int64
	Type      string
	Payload   EventPayload
	CreatedAt time.Time
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{records: make(map[int64][]byte)}
}

func (m *MemoryPersister) Save(_ context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ChatID] = data
	return nil
}

func (m *MemoryPersister) Load(_ context.Context, chatID int64) (*Record, error) {
	m.mu.Lock()
	data, ok := m.records[chatID]
	m.mu.Unlock()
	if !ok {
		return nil, ErrRecordNotFound
	}
	return decodeRecord(data)
}

func (m *MemoryPersister) LoadAll(_ context.Context) ([]*Record, error) {
	m.mu.Lock()
	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	raw := make([][]byte, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, m.records[id])
	}
	m.mu.Unlock()

	records := make([]*Record, 0, len(raw))
	for i, data := range raw {
		record, err := decodeRecord(data)
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", ids[i], err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (m *MemoryPersister) Delete(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, chatID)
	return nil
}

// Put stores raw JSON, as an older process might have written it.
func (m *MemoryPersister) Put(chatID int64, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[chatID] = slices.Clone(data)
}

func (m *MemoryPersister) AppendEvent(_ context.Context, chatID int64, eventType string, payload EventPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, RecordedEvent{
		ChatID:    chatID,
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (m *MemoryPersister) Events(chatID int64) []RecordedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var events []RecordedEvent
	for _, event := range m.events {
		if event.ChatID == chatID {
			events = append(events, event)
		}
	}
	return events
}

func (e *Engine) persist(ctx context.Context, g *Game, out *outbox) {
	if out.deleted {
		if err := e.persister.Delete(ctx, g.ChatID); err != nil {
			log.Printf("delete game state failed chat_id=%d error=%v", g.ChatID, err)
		}
	} else if err := e.persister.Save(ctx, recordFromGame(g)); err != nil {
		log.Printf("persist game failed chat_id=%d phase=%s error=%v", g.ChatID, g.Phase, err)
	}
	for _, event := range out.events {
		if err := e.persister.AppendEvent(ctx, g.ChatID, event.eventType, event.payload); err != nil {
			log.Printf("persist event failed chat_id=%d type=%s error=%v", g.ChatID, event.eventType, err)
		}
	}
}
