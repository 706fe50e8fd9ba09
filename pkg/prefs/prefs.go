// Package prefs persists display preferences such as whether the 3D preview
// is shown.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/chazu/cabinetcut/pkg/db/models"
)

// KeyShowPreview is the preference toggling the 3D preview.
const KeyShowPreview = "show_preview"

// Store reads and writes boolean preferences.
type Store interface {
	Bool(ctx context.Context, key string, fallback bool) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

// Memory keeps preferences for the life of the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]bool
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]bool)}
}

func (m *Memory) Bool(_ context.Context, key string, fallback bool) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return fallback, nil
}

func (m *Memory) SetBool(_ context.Context, key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Repository stores preferences in the preferences table.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) Bool(ctx context.Context, key string, fallback bool) (bool, error) {
	var pref models.Preference
	err := r.db.WithContext(ctx).Where("name = ?", key).Take(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("reading preference %s: %w", key, err)
	}
	v, err := strconv.ParseBool(pref.Value)
	if err != nil {
		return fallback, fmt.Errorf("preference %s holds %q: %w", key, pref.Value, err)
	}
	return v, nil
}

func (r *Repository) SetBool(ctx context.Context, key string, value bool) error {
	pref := models.Preference{Key: key, Value: strconv.FormatBool(value), UpdatedAt: r.now()}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}
