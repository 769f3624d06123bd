package mysql

import (
	"context"
	"errors"
	"time"

	"nexus-market/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRecord is one row per slot.
type SlotRecord struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Value     string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (SlotRecord) TableName() string {
	return "slots"
}

type slotRepo struct {
	db *gorm.DB
}

var _ repository.SlotStore = (*slotRepo)(nil)

func NewSlotStore(db *gorm.DB) repository.SlotStore {
	return &slotRepo{db: db}
}

func (r *slotRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var rec SlotRecord
	if err := r.db.WithContext(ctx).Where("name = ?", key).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSlotNotFound
		}
		return nil, err
	}
	return []byte(rec.Value), nil
}

// Put upserts the slot row.
func (r *slotRepo) Put(ctx context.Context, key string, value []byte) error {
	rec := SlotRecord{Name: key, Value: string(value), UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
}

func (r *slotRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&SlotRecord{})
}
