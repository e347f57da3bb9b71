package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/acrenier/todo-api/internal/domain"
)

// StatusFilter narrows FindAll to one side of the completed flag.
type StatusFilter string

const (
	StatusAll       StatusFilter = ""
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// TodoRepository defines the data operations on the todos table. Every
// mutating method is a single statement committed immediately.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id uint) (*domain.Todo, error)
	FindAll(ctx context.Context, status StatusFilter) ([]domain.Todo, error)
	Save(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByCompleted(ctx context.Context, completed bool) (int64, error)
	DeleteAll(ctx context.Context) error
	Seed(ctx context.Context) error
}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM-backed todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id uint) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).First(&todo, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, result.Error
	}
	return &todo, nil
}

// FindAll returns todos in insertion order. StatusAll returns everything,
// the other filters select on the completed flag.
func (r *gormTodoRepository) FindAll(ctx context.Context, status StatusFilter) ([]domain.Todo, error) {
	var todos []domain.Todo
	query := r.db.WithContext(ctx).Order("id asc")
	switch status {
	case StatusPending:
		query = query.Where("completed = ?", false)
	case StatusCompleted:
		query = query.Where("completed = ?", true)
	}
	if err := query.Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// Save writes back the full row. GORM refreshes UpdatedAt.
func (r *gormTodoRepository) Save(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

// Delete removes the row permanently. There is no DeletedAt column, so this
// is a hard delete.
func (r *gormTodoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

func (r *gormTodoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Todo{}).Count(&count).Error
	return count, err
}

func (r *gormTodoRepository) CountByCompleted(ctx context.Context, completed bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Todo{}).Where("completed = ?", completed).Count(&count).Error
	return count, err
}

// DeleteAll truncates the table.
func (r *gormTodoRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&domain.Todo{}).Error
}

// Seed inserts the fixed sample set.
func (r *gormTodoRepository) Seed(ctx context.Context) error {
	seeds := domain.SeedTodos()
	return r.db.WithContext(ctx).Create(&seeds).Error
}
