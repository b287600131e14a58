package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messenger-core/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blob is a row of the kv_blobs table.
type Blob struct {
	Key       string `gorm:"column:blob_key;primaryKey;size:191"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (Blob) TableName() string {
	return "kv_blobs"
}

// Database stores blobs in a relational table.
type Database struct {
	db *gorm.DB
}

// NewDatabase wraps db. Call Migrate once before use.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// Migrate creates or updates the kv_blobs table and checks its columns.
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(&Blob{}); err != nil {
		return fmt.Errorf("failed to migrate kv_blobs: %w", err)
	}
	return database.RequireColumns(d.db, Blob{}.TableName(), "blob_key", "value", "updated_at")
}

func (d *Database) Save(ctx context.Context, key string, blob []byte) error {
	row := Blob{Key: key, Value: blob, UpdatedAt: time.Now()}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (d *Database) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var row Blob
	err := d.db.WithContext(ctx).Where("blob_key = ?", key).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return row.Value, true, nil
}

func (d *Database) Erase(ctx context.Context, key string) error {
	if err := d.db.WithContext(ctx).Where("blob_key = ?", key).Delete(&Blob{}).Error; err != nil {
		return fmt.Errorf("failed to erase %s: %w", key, err)
	}
	return nil
}
