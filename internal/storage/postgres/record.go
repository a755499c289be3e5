package postgres

import (
	"context"

	recordDatamodel "github.com/talentbridge/portal/internal/core/datamodel/record"
	"github.com/talentbridge/portal/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordTier is the durable storage tier backed by the portal_records table.
type RecordTier struct {
	db *gorm.DB
}

func NewRecordTier(db *gorm.DB) storage.Tier {
	return &RecordTier{db: db}
}

func (r *RecordTier) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var rec recordDatamodel.PortalRecord
	err := r.db.WithContext(ctx).
		Where("scope = ? AND record_key = ?", scope, key).
		First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return rec.Value, true, nil
}

func (r *RecordTier) Set(ctx context.Context, scope, key, value string) error {
	rec := recordDatamodel.PortalRecord{
		Scope: scope,
		Key:   key,
		Value: value,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"record_value", "updated_at"}),
		}).
		Create(&rec).Error
}

func (r *RecordTier) Delete(ctx context.Context, scope, key string) error {
	return r.db.WithContext(ctx).
		Where("scope = ? AND record_key = ?", scope, key).
		Delete(&recordDatamodel.PortalRecord{}).Error
}

func (r *RecordTier) Clear(ctx context.Context, scope string) error {
	return r.db.WithContext(ctx).
		Where("scope = ?", scope).
		Delete(&recordDatamodel.PortalRecord{}).Error
}
