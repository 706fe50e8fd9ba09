package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/chazu/cabinetcut/pkg/db"
	"github.com/chazu/cabinetcut/pkg/db/models"
)

// ErrDuplicateUnit is returned when a unit with the same ID or sequence
// number is already persisted.
var ErrDuplicateUnit = errors.New("history unit already stored")

// Repository persists history units in SQLite.
type Repository struct {
	client *db.Client
}

// NewRepository constructs a history repository on the shared client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Save inserts u. Units are write-once; saving the same ID or Seq twice
// fails with ErrDuplicateUnit.
func (r *Repository) Save(ctx context.Context, u Unit) error {
	row, err := toModel(u)
	if err != nil {
		return err
	}
	err = r.client.WithTx(ctx, func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.HistoryUnit{}).
			Where("id = ? OR seq = ?", row.ID, row.Seq).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateUnit
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("saving history unit %d: %w", u.Seq, err)
	}
	return nil
}

// List returns every persisted unit ordered by Seq.
func (r *Repository) List(ctx context.Context) ([]Unit, error) {
	var rows []models.HistoryUnit
	if err := r.client.DB().WithContext(ctx).Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing history units: %w", err)
	}
	units := make([]Unit, 0, len(rows))
	for _, row := range rows {
		u, err := fromModel(row)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func toModel(u Unit) (models.HistoryUnit, error) {
	cfg, err := json.Marshal(u.Config)
	if err != nil {
		return models.HistoryUnit{}, fmt.Errorf("encoding config: %w", err)
	}
	cl, err := json.Marshal(u.CutList)
	if err != nil {
		return models.HistoryUnit{}, fmt.Errorf("encoding cutlist: %w", err)
	}
	rows, err := json.Marshal(u.Rows)
	if err != nil {
		return models.HistoryUnit{}, fmt.Errorf("encoding rows: %w", err)
	}
	return models.HistoryUnit{
		ID:          u.ID,
		Seq:         u.Seq,
		CabinetType: u.Config.Type.String(),
		Config:      cfg,
		CutList:     cl,
		Rows:        rows,
		CreatedAt:   u.CreatedAt,
	}, nil
}

func fromModel(row models.HistoryUnit) (Unit, error) {
	u := Unit{ID: row.ID, Seq: row.Seq, CreatedAt: row.CreatedAt}
	if err := json.Unmarshal(row.Config, &u.Config); err != nil {
		return Unit{}, fmt.Errorf("decoding config of unit %d: %w", row.Seq, err)
	}
	if err := json.Unmarshal(row.CutList, &u.CutList); err != nil {
		return Unit{}, fmt.Errorf("decoding cutlist of unit %d: %w", row.Seq, err)
	}
	if missing := u.CutList.Missing(); len(missing) > 0 {
		return Unit{}, fmt.Errorf("cutlist of unit %d lacks %v", row.Seq, missing)
	}
	if err := json.Unmarshal(row.Rows, &u.Rows); err != nil {
		return Unit{}, fmt.Errorf("decoding rows of unit %d: %w", row.Seq, err)
	}
	return u, nil
}
