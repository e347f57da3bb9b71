package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/acrenier/todo-api/internal/domain"
	"github.com/acrenier/todo-api/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateTodoRequest holds the data for updating an existing todo. Pointers
// distinguish an omitted field from one set to its zero value, so
// `"completed": false` is still an update.
type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TodoResponse is the JSON representation of a todo. Timestamps are RFC 3339.
type TodoResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// StatsResponse aggregates counts over the whole table. Total is always
// Completed + Pending.
type StatsResponse struct {
	Total          int64   `json:"total"`
	Completed      int64   `json:"completed"`
	Pending        int64   `json:"pending"`
	CompletionRate float64 `json:"completion_rate"`
}

// TodoService contains the business rules for managing todos. Failures are
// either *domain.ValidationError, domain.ErrTodoNotFound, or an unexpected
// internal error.
type TodoService interface {
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)
	GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error)
	ListTodos(ctx context.Context, status string) ([]TodoResponse, error)
	UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, id uint) error
	ToggleTodo(ctx context.Context, id uint) (*TodoResponse, error)
	Stats(ctx context.Context) (*StatsResponse, error)
	Reset(ctx context.Context) error
	SeedIfEmpty(ctx context.Context) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a todo service on top of the given repository.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func toResponse(todo *domain.Todo) *TodoResponse {
	return &TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.NewValidationError("title cannot be empty")
	}

	newTodo := &domain.Todo{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Completed:   false,
	}

	if err := s.repo.Create(ctx, newTodo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return toResponse(newTodo), nil
}

func (s *todoService) GetTodoByID(ctx context.Context, id uint) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

// ListTodos returns all todos, or only the pending/completed subset when a
// status is given. Any other status value is a validation error.
func (s *todoService) ListTodos(ctx context.Context, status string) ([]TodoResponse, error) {
	var filter repository.StatusFilter
	switch status {
	case "":
		filter = repository.StatusAll
	case "pending":
		filter = repository.StatusPending
	case "completed":
		filter = repository.StatusCompleted
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("invalid status %q: must be \"pending\" or \"completed\"", status))
	}

	todos, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toResponse(&todos[i]))
	}
	return responses, nil
}

// UpdateTodo applies only the provided fields and refreshes UpdatedAt. At
// least one field must be present, and a provided title must not be blank.
func (s *todoService) UpdateTodo(ctx context.Context, id uint, req UpdateTodoRequest) (*TodoResponse, error) {
	if req.Title == nil && req.Description == nil && req.Completed == nil {
		return nil, domain.NewValidationError("at least one field (title, description, completed) must be provided")
	}

	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.NewValidationError("title cannot be empty")
		}
		todo.Title = title
	}
	if req.Description != nil {
		todo.Description = strings.TrimSpace(*req.Description)
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	if err := s.repo.Save(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to update todo %d: %w", id, err)
	}

	return toResponse(todo), nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// ToggleTodo flips the completed flag. Applying it twice restores the
// original value; UpdatedAt is refreshed either way.
func (s *todoService) ToggleTodo(ctx context.Context, id uint) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	todo.Completed = !todo.Completed
	if err := s.repo.Save(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to toggle todo %d: %w", id, err)
	}

	return toResponse(todo), nil
}

func (s *todoService) Stats(ctx context.Context) (*StatsResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count todos: %w", err)
	}
	completed, err := s.repo.CountByCompleted(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed todos: %w", err)
	}

	stats := &StatsResponse{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}
	return stats, nil
}

// Reset wipes the table and restores the fixed seed set. Development only;
// the HTTP layer guards it in production.
func (s *todoService) Reset(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear todos: %w", err)
	}
	if err := s.repo.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed todos: %w", err)
	}
	return nil
}

// SeedIfEmpty inserts the sample set on first start against an empty store.
func (s *todoService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count todos: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.repo.Seed(ctx)
}
