package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/clientdesk/clientdesk/pkg/errors"
)

// GormStore implements Store on top of a gorm connection. Partial updates are
// restricted to an explicit set of updatable columns so a caller-controlled
// field map can never reach the SET clause unchecked.
type GormStore[T any] struct {
	db        *gorm.DB
	updatable map[string]bool
}

// NewGormStore constructs a relational adapter for one entity kind.
// updatableFields enumerates the columns Update accepts.
func NewGormStore[T any](db *gorm.DB, updatableFields []string) (*GormStore[T], error) {
	if db == nil {
		return nil, errors.New("store: db is required")
	}
	if len(updatableFields) == 0 {
		return nil, errors.New("store: at least one updatable field is required")
	}

	allowed := make(map[string]bool, len(updatableFields))
	for _, field := range updatableFields {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		allowed[field] = true
	}

	return &GormStore[T]{db: db, updatable: allowed}, nil
}

// Insert persists a new record; the database assigns id and timestamps.
func (s *GormStore[T]) Insert(ctx context.Context, entity *T) error {
	if entity == nil {
		return errors.New("store: entity is nil")
	}

	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict.WithInternal(err)
		}
		return apperrors.Unavailable(err)
	}
	return nil
}

// FindByID loads a single record by primary key.
func (s *GormStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var entity T
	err := s.db.WithContext(ctx).Take(&entity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return &entity, nil
}

// FindAll returns every record ordered newest first.
func (s *GormStore[T]) FindAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return entities, nil
}

// Update applies a partial field set to an existing record and returns the
// fresh row. Unknown fields are rejected before any statement is built.
func (s *GormStore[T]) Update(ctx context.Context, id string, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return nil, apperrors.NewValidation("no updatable fields supplied")
	}

	updates := make(map[string]any, len(fields))
	for field, value := range fields {
		if !s.updatable[field] {
			return nil, apperrors.NewValidation(fmt.Sprintf("field %q is not updatable", field))
		}
		updates[field] = value
	}

	var entity T
	result := s.db.WithContext(ctx).
		Model(&entity).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return nil, apperrors.ErrConflict.WithInternal(result.Error)
		}
		return nil, apperrors.Unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	return s.FindByID(ctx, id)
}

// Delete removes a record by primary key.
func (s *GormStore[T]) Delete(ctx context.Context, id string) error {
	var entity T
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&entity)
	if result.Error != nil {
		return apperrors.Unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindByField loads a single record matching a unique column value.
func (s *GormStore[T]) FindByField(ctx context.Context, field, value string) (*T, error) {
	var entity T
	err := s.db.WithContext(ctx).Take(&entity, fmt.Sprintf("%s = ?", field), value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.Unavailable(err)
	}
	return &entity, nil
}
