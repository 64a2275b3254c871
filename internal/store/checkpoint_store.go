package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/feral-file/ff-event-feed/internal/store/schema"
)

// CheckpointStore defines the interface for storing and retrieving migration checkpoints
//
//go:generate mockgen -source=checkpoint_store.go -destination=../mocks/checkpoint_store.go -package=mocks -mock_names=CheckpointStore=MockCheckpointStore
type CheckpointStore interface {
	// GetCheckpoint retrieves the last processed key of a job, empty when none is stored
	GetCheckpoint(ctx context.Context, job string) (string, error)
	// SetCheckpoint stores the last processed key of a job
	SetCheckpoint(ctx context.Context, job string, lastProcessedKey string) error
	// DeleteCheckpoint clears the checkpoint of a job so the next run starts from the beginning
	DeleteCheckpoint(ctx context.Context, job string) error
	// SaveReport stores the serialized report of the last run of a job
	SaveReport(ctx context.Context, job string, report string) error
	// GetReport retrieves the serialized report of the last run of a job, empty when none is stored
	GetReport(ctx context.Context, job string) (string, error)
}

type checkpointStore struct {
	db *gorm.DB
}

// NewCheckpointStore creates a new checkpoint store
func NewCheckpointStore(db *gorm.DB) CheckpointStore {
	return &checkpointStore{db: db}
}

func checkpointKey(job string) string {
	return fmt.Sprintf("migration_checkpoint:%s", job)
}

func reportKey(job string) string {
	return fmt.Sprintf("migration_report:%s", job)
}

// GetCheckpoint retrieves the last processed key of a job
func (s *checkpointStore) GetCheckpoint(ctx context.Context, job string) (string, error) {
	value, err := s.get(ctx, checkpointKey(job))
	if err != nil {
		return "", dbError(err, "failed to get checkpoint")
	}
	return value, nil
}

// SetCheckpoint stores the last processed key of a job
func (s *checkpointStore) SetCheckpoint(ctx context.Context, job string, lastProcessedKey string) error {
	if err := s.set(ctx, checkpointKey(job), lastProcessedKey); err != nil {
		return dbError(err, "failed to set checkpoint")
	}
	return nil
}

// DeleteCheckpoint clears the checkpoint of a job
func (s *checkpointStore) DeleteCheckpoint(ctx context.Context, job string) error {
	err := s.db.WithContext(ctx).
		Where("key = ?", checkpointKey(job)).
		Delete(&schema.KeyValueStore{}).Error
	if err != nil {
		return dbError(err, "failed to delete checkpoint")
	}
	return nil
}

// SaveReport stores the serialized report of the last run of a job
func (s *checkpointStore) SaveReport(ctx context.Context, job string, report string) error {
	if err := s.set(ctx, reportKey(job), report); err != nil {
		return dbError(err, "failed to save report")
	}
	return nil
}

// GetReport retrieves the serialized report of the last run of a job
func (s *checkpointStore) GetReport(ctx context.Context, job string) (string, error) {
	value, err := s.get(ctx, reportKey(job))
	if err != nil {
		return "", dbError(err, "failed to get report")
	}
	return value, nil
}

func (s *checkpointStore) get(ctx context.Context, key string) (string, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return kv.Value, nil
}

func (s *checkpointStore) set(ctx context.Context, key, value string) error {
	kv := schema.KeyValueStore{
		Key:   key,
		Value: value,
	}
	return s.db.WithContext(ctx).Save(&kv).Error
}
