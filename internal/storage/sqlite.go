package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/philipparndt/landmarker/pkg/landmark"
)

// Record is one stored landmark set
type Record struct {
	ID           uint           `gorm:"primaryKey"`
	ModelID      string         `gorm:"uniqueIndex:idx_model_type;not null"`
	LandmarkType string         `gorm:"uniqueIndex:idx_model_type;not null"`
	Data         datatypes.JSON `gorm:"not null"`
	UpdatedAt    time.Time
}

// SQLiteStore keeps landmark sets in a SQLite database
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens or creates the database at path and migrates the
// schema
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open landmark database: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate landmark database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads a landmark set
func (s *SQLiteStore) Load(ctx context.Context, modelID, landmarkType string) (*landmark.Set, error) {
	var rec Record
	err := s.db.WithContext(ctx).
		Where("model_id = ? AND landmark_type = ?", modelID, landmarkType).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query landmarks: %w", err)
	}
	return decode(rec.Data)
}

// Save inserts or replaces the set
func (s *SQLiteStore) Save(ctx context.Context, landmarkType string, set *landmark.Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode landmarks: %w", err)
	}
	rec := Record{
		ModelID:      set.ModelID(),
		LandmarkType: landmarkType,
		Data:         datatypes.JSON(data),
		UpdatedAt:    time.Now(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "model_id"}, {Name: "landmark_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to store landmarks: %w", err)
	}
	return nil
}

// Models lists the model IDs that have a set of the given type
func (s *SQLiteStore) Models(ctx context.Context, landmarkType string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&Record{}).
		Where("landmark_type = ?", landmarkType).
		Order("model_id").
		Pluck("model_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return ids, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
