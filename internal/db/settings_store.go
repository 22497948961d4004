package db

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/balkashynov/punch/internal/models"
)

// settingsID is the primary key of the single LocationSettings row
const settingsID = 1

// LocationSettings returns the stored settings or ErrNotFound
func (r *Repo) LocationSettings(ctx context.Context) (*models.LocationSettings, error) {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	var s models.LocationSettings
	if err := db.First(&s, settingsID).Error; err != nil {
		return nil, translate(ctx, err)
	}
	return &s, nil
}

// CreateLocationSettingsIfAbsent inserts defaults unless a row already
// exists, then returns whatever is stored
func (r *Repo) CreateLocationSettingsIfAbsent(ctx context.Context, defaults models.LocationSettings) (*models.LocationSettings, error) {
	var stored *models.LocationSettings
	err := r.Transaction(ctx, func(tx *Repo) error {
		defaults.ID = settingsID
		if err := tx.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
			return translate(ctx, err)
		}
		s, err := tx.LocationSettings(ctx)
		stored = s
		return err
	})
	return stored, err
}

// SaveLocationSettings overwrites the single settings row
func (r *Repo) SaveLocationSettings(ctx context.Context, s *models.LocationSettings) error {
	db, ctx, cancel := r.conn(ctx)
	defer cancel()

	s.ID = settingsID
	return translate(ctx, db.Save(s).Error)
}
