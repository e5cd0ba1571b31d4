package services

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseService interface defines common operations on id-keyed models
type BaseService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, page, limit int, filters map[string]interface{}) ([]T, int64, error)
	Delete(ctx context.Context, id string) error
}

// BaseServiceImpl implements BaseService
type BaseServiceImpl[T any] struct {
	db         *gorm.DB
	modelType  T
	name       string
	filterable map[string]bool
}

// NewBaseService creates a new base service. Only the listed columns may be
// used as List filters; any other filter key is rejected.
func NewBaseService[T any](db *gorm.DB, modelType T, filterable ...string) BaseService[T] {
	allowed := make(map[string]bool, len(filterable))
	for _, col := range filterable {
		allowed[col] = true
	}
	return &BaseServiceImpl[T]{
		db:         db,
		modelType:  modelType,
		name:       reflect.TypeOf(modelType).Name(),
		filterable: allowed,
	}
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T) error {
	return storeError(s.db.WithContext(ctx).Create(entity).Error)
}

func (s *BaseServiceImpl[T]) Get(ctx context.Context, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, notFound(s.name, id)
	}
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		if err = storeError(err); err == ErrNotFound {
			return nil, notFound(s.name, id)
		}
		return nil, err
	}
	return &entity, nil
}

// List returns one page of entities, newest first, and the total count.
func (s *BaseServiceImpl[T]) List(ctx context.Context, page, limit int, filters map[string]interface{}) ([]T, int64, error) {
	var entities []T
	var total int64

	query := s.db.WithContext(ctx).Model(new(T))

	for key, value := range filters {
		if !s.filterable[key] {
			return nil, 0, Validation(fmt.Sprintf("cannot filter by %q", key))
		}
		query = query.Where(key+" = ?", value)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page > 0 && limit > 0 {
		offset := (page - 1) * limit
		query = query.Offset(offset).Limit(limit)
	}

	if err := query.Order("created_at DESC").Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

// Delete removes the entity with the given id. Ids are uuid columns, so a
// malformed id is reported as not found rather than sent to the database.
func (s *BaseServiceImpl[T]) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFound(s.name, id)
	}
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return storeError(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(s.name, id)
	}
	return nil
}
