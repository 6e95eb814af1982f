package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecordStore is the collection-keyed CRUD boundary the workflow engine
// mutates protected records through. Collections are addressed by name and
// validated against the closed registry in the model package, so dynamic
// table access stays confined to known tables and columns.
type RecordStore interface {
	Insert(ctx context.Context, collection string, fields map[string]interface{}) (uuid.UUID, error)
	GetAll(ctx context.Context, collection string) ([]map[string]interface{}, error)
	GetByID(ctx context.Context, collection string, id uuid.UUID) (map[string]interface{}, error)
	// UpdateByID applies a partial field set. When expectedVersion is
	// non-nil the update only succeeds if the stored version still matches,
	// failing with ErrConflict otherwise.
	UpdateByID(ctx context.Context, collection string, id uuid.UUID, fields map[string]interface{}, expectedVersion *int64) error
	DeleteByID(ctx context.Context, collection string, id uuid.UUID) error
	QueryEquals(ctx context.Context, collection, field string, value interface{}) ([]map[string]interface{}, error)
}

type gormRecordStore struct {
	db *gorm.DB
}

func NewRecordStore(db *gorm.DB) RecordStore {
	return &gormRecordStore{db: db}
}

func (s *gormRecordStore) resolve(collection string) (model.Collection, error) {
	c, ok := model.LookupCollection(collection)
	if !ok {
		return model.Collection{}, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unknown collection %q", collection))
	}
	return c, nil
}

func (s *gormRecordStore) Insert(ctx context.Context, collection string, fields map[string]interface{}) (uuid.UUID, error) {
	c, err := s.resolve(collection)
	if err != nil {
		return uuid.Nil, err
	}
	row := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		if _, ok := c.Fields[k]; !ok {
			return uuid.Nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("field %q is not part of collection %q", k, collection))
		}
		row[k] = v
	}
	// Map-based writes bypass gorm's struct hooks, so the bookkeeping
	// columns are set here.
	id := uuid.New()
	now := time.Now()
	row["id"] = id
	row["version"] = int64(1)
	row["created_at"] = now
	row["updated_at"] = now

	if err := GetDB(ctx, s.db).Table(c.Name).Create(row).Error; err != nil {
		return uuid.Nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "insert failed")
	}
	return id, nil
}

func (s *gormRecordStore) GetAll(ctx context.Context, collection string) ([]map[string]interface{}, error) {
	c, err := s.resolve(collection)
	if err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	if err := GetDB(ctx, s.db).Table(c.Name).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "query failed")
	}
	return rows, nil
}

func (s *gormRecordStore) GetByID(ctx context.Context, collection string, id uuid.UUID) (map[string]interface{}, error) {
	c, err := s.resolve(collection)
	if err != nil {
		return nil, err
	}
	var row map[string]interface{}
	err = GetDB(ctx, s.db).Table(c.Name).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("%s/%s not found", collection, id))
		}
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "query failed")
	}
	return row, nil
}

func (s *gormRecordStore) UpdateByID(ctx context.Context, collection string, id uuid.UUID, fields map[string]interface{}, expectedVersion *int64) error {
	c, err := s.resolve(collection)
	if err != nil {
		return err
	}
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		if _, ok := c.Fields[k]; !ok {
			return apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("field %q is not part of collection %q", k, collection))
		}
		updates[k] = v
	}
	if len(updates) == 0 {
		return apperrors.Clone(apperrors.ErrValidation, "no fields to update")
	}
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now()

	query := GetDB(ctx, s.db).Table(c.Name).Where("id = ?", id)
	if expectedVersion != nil {
		query = query.Where("version = ?", *expectedVersion)
	}
	result := query.Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "update failed")
	}
	if result.RowsAffected == 0 {
		// Distinguish a vanished record from a version conflict.
		if _, err := s.GetByID(ctx, collection, id); err != nil {
			return err
		}
		return apperrors.Clone(apperrors.ErrConflict, fmt.Sprintf("%s/%s changed since it was snapshotted", collection, id))
	}
	return nil
}

func (s *gormRecordStore) DeleteByID(ctx context.Context, collection string, id uuid.UUID) error {
	c, err := s.resolve(collection)
	if err != nil {
		return err
	}
	// Table name comes from the closed registry, never from user input.
	result := GetDB(ctx, s.db).Exec(fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.Name), id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "delete failed")
	}
	if result.RowsAffected == 0 {
		return apperrors.Clone(apperrors.ErrNotFound, fmt.Sprintf("%s/%s not found", collection, id))
	}
	return nil
}

func (s *gormRecordStore) QueryEquals(ctx context.Context, collection, field string, value interface{}) ([]map[string]interface{}, error) {
	c, err := s.resolve(collection)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Fields[field]; !ok {
		return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("field %q is not part of collection %q", field, collection))
	}
	var rows []map[string]interface{}
	if err := GetDB(ctx, s.db).Table(c.Name).
		Where(fmt.Sprintf("%s = ?", field), value).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "query failed")
	}
	return rows, nil
}
