package cards

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMemoryCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := NewCatalog(context.Background(), nil)
	require.NoError(t, err)
	return catalog
}

func TestDefaultsCoverEveryCategory(t *testing.T) {
	catalog := newMemoryCatalog(t)
	for _, category := range Categories() {
		assert.NotEmpty(t, catalog.Pool(category), category)
	}
	for _, entry := range catalog.Pool(Biology) {
		assert.Positive(t, entry.Weight)
	}
	for _, entry := range catalog.Pool(Scenarios) {
		assert.NotEmpty(t, entry.Detail, entry.Text)
	}
	for _, entry := range catalog.Pool(Events) {
		assert.NotEmpty(t, entry.Kind, entry.Text)
	}
}

func TestAddAndRemove(t *testing.T) {
	ctx := context.Background()
	catalog := newMemoryCatalog(t)
	before := len(catalog.Pool(Hobbies))

	require.NoError(t, catalog.Add(ctx, Hobbies, Entry{Text: "  Шахматы "}))
	assert.Contains(t, catalog.Texts(Hobbies), "Шахматы")
	assert.Len(t, catalog.Pool(Hobbies), before+1)

	assert.ErrorIs(t, catalog.Add(ctx, Hobbies, Entry{Text: "шахматы"}), ErrDuplicateCard)

	require.NoError(t, catalog.Remove(ctx, Hobbies, "Шахматы"))
	assert.NotContains(t, catalog.Texts(Hobbies), "Шахматы")
	assert.ErrorIs(t, catalog.Remove(ctx, Hobbies, "Шахматы"), ErrCardNotFound)
}

func TestAddRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	catalog := newMemoryCatalog(t)
	assert.ErrorIs(t, catalog.Add(ctx, "weapons", Entry{Text: "Лук"}), ErrUnknownCategory)
	assert.ErrorIs(t, catalog.Add(ctx, Facts, Entry{Text: "   "}), ErrEmptyText)
	assert.ErrorIs(t, catalog.Remove(ctx, "weapons", "Лук"), ErrUnknownCategory)
}

func TestAddDefaultsWeight(t *testing.T) {
	catalog := newMemoryCatalog(t)
	require.NoError(t, catalog.Add(context.Background(), Biology, Entry{Text: "Андроид"}))
	pool := catalog.Pool(Biology)
	assert.Equal(t, 1, pool[len(pool)-1].Weight)
}

func TestRemoveKeepsLastCard(t *testing.T) {
	ctx := context.Background()
	catalog := newMemoryCatalog(t)
	phobias := catalog.Texts(Phobias)
	for _, text := range phobias[1:] {
		require.NoError(t, catalog.Remove(ctx, Phobias, text))
	}
	assert.ErrorIs(t, catalog.Remove(ctx, Phobias, phobias[0]), ErrLastCard)
}

func TestPoolReturnsCopy(t *testing.T) {
	catalog := newMemoryCatalog(t)
	pool := catalog.Pool(Professions)
	pool[0].Text = "changed"
	assert.NotEqual(t, "changed", catalog.Pool(Professions)[0].Text)
}

func TestIsWeighted(t *testing.T) {
	assert.True(t, IsWeighted(Biology))
	assert.True(t, IsWeighted(HealthDisease))
	assert.False(t, IsWeighted(Professions))
}

type capturedSQL struct {
	mu         sync.Mutex
	statements []string
}

func (c *capturedSQL) LogMode(logger.LogLevel) logger.Interface      { return c }
func (c *capturedSQL) Info(context.Context, string, ...interface{})  {}
func (c *capturedSQL) Warn(context.Context, string, ...interface{})  {}
func (c *capturedSQL) Error(context.Context, string, ...interface{}) {}

func (c *capturedSQL) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statements = append(c.statements, sql)
}

func (c *capturedSQL) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.statements) == 0 {
		return ""
	}
	return c.statements[len(c.statements)-1]
}

func TestRemoveDeletesStoredSpelling(t *testing.T) {
	ctx := context.Background()
	captured := &capturedSQL{}
	conn, err := gorm.Open(postgres.Open("host=localhost user=bunker dbname=bunker sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               captured,
	})
	require.NoError(t, err)
	catalog, err := NewCatalog(ctx, conn)
	require.NoError(t, err)

	var stored string
	for _, text := range catalog.Texts(Professions) {
		if strings.ToLower(text) != text && !strings.Contains(text, "'") {
			stored = text
			break
		}
	}
	require.NotEmpty(t, stored)

	err = catalog.Remove(ctx, Professions, strings.ToLower(stored))
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Contains(t, captured.last(), "DELETE FROM")
	assert.Contains(t, captured.last(), "'"+stored+"'")
	assert.Contains(t, catalog.Texts(Professions), stored)
}
