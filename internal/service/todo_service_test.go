package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/acrenier/todo-api/internal/domain"
	"github.com/acrenier/todo-api/internal/repository"
)

func newTestService(t *testing.T) TodoService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "todos_test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Todo{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return NewTodoService(repository.NewGormTodoRepository(db))
}

func TestCreateTodoDefaults(t *testing.T) {
	svc := newTestService(t)

	todo, err := svc.CreateTodo(context.Background(), CreateTodoRequest{Title: "Buy milk"})
	require.NoError(t, err)
	require.Equal(t, "Buy milk", todo.Title)
	require.Equal(t, "", todo.Description)
	require.False(t, todo.Completed)

	created, err := time.Parse(time.RFC3339, todo.CreatedAt)
	require.NoError(t, err)
	updated, err := time.Parse(time.RFC3339, todo.UpdatedAt)
	require.NoError(t, err)
	require.False(t, updated.Before(created))
}

func TestCreateTodoRejectsBlankTitle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var validationErr *domain.ValidationError

	_, err := svc.CreateTodo(ctx, CreateTodoRequest{})
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.CreateTodo(ctx, CreateTodoRequest{Title: "   "})
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateTodoTrimsFields(t *testing.T) {
	svc := newTestService(t)

	todo, err := svc.CreateTodo(context.Background(), CreateTodoRequest{
		Title:       "  Buy milk  ",
		Description: " two liters ",
	})
	require.NoError(t, err)
	require.Equal(t, "Buy milk", todo.Title)
	require.Equal(t, "two liters", todo.Description)
}

func TestListTodosStatusFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "open"})
	require.NoError(t, err)
	done, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "done"})
	require.NoError(t, err)
	_, err = svc.ToggleTodo(ctx, done.ID)
	require.NoError(t, err)

	all, err := svc.ListTodos(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	pending, err := svc.ListTodos(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, "open", pending[0].Title)

	completed, err := svc.ListTodos(ctx, "completed")
	require.NoError(t, err)
	require.Len(t, completed, 1)
	require.Equal(t, "done", completed[0].Title)

	require.Equal(t, len(all), len(pending)+len(completed))
}

func TestListTodosRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)

	var validationErr *domain.ValidationError
	_, err := svc.ListTodos(context.Background(), "archived")
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateTodoAppliesOnlyProvidedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "original", Description: "keep me"})
	require.NoError(t, err)

	newTitle := "renamed"
	updated, err := svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{Title: &newTitle})
	require.NoError(t, err)
	require.Equal(t, "renamed", updated.Title)
	require.Equal(t, "keep me", updated.Description)
	require.False(t, updated.Completed)

	// completed=false is still an update, not an omitted field.
	completed := false
	updated, err = svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{Completed: &completed})
	require.NoError(t, err)
	require.False(t, updated.Completed)
	require.Equal(t, "renamed", updated.Title)
}

func TestUpdateTodoValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "something"})
	require.NoError(t, err)

	var validationErr *domain.ValidationError

	_, err = svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{})
	require.ErrorAs(t, err, &validationErr)

	blank := "  "
	_, err = svc.UpdateTodo(ctx, todo.ID, UpdateTodoRequest{Title: &blank})
	require.ErrorAs(t, err, &validationErr)
}

func TestUpdateTodoNotFound(t *testing.T) {
	svc := newTestService(t)

	title := "whatever"
	_, err := svc.UpdateTodo(context.Background(), 999, UpdateTodoRequest{Title: &title})
	require.ErrorIs(t, err, domain.ErrTodoNotFound)
}

func TestToggleTodoDoubleApplicationRestoresCompleted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "flip me"})
	require.NoError(t, err)

	once, err := svc.ToggleTodo(ctx, todo.ID)
	require.NoError(t, err)
	require.True(t, once.Completed)

	twice, err := svc.ToggleTodo(ctx, todo.ID)
	require.NoError(t, err)
	require.False(t, twice.Completed)

	_, err = svc.ToggleTodo(ctx, 999)
	require.ErrorIs(t, err, domain.ErrTodoNotFound)
}

func TestDeleteTodoThenGetNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	todo, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "short lived"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(ctx, todo.ID))

	_, err = svc.GetTodoByID(ctx, todo.ID)
	require.ErrorIs(t, err, domain.ErrTodoNotFound)

	require.ErrorIs(t, svc.DeleteTodo(ctx, todo.ID), domain.ErrTodoNotFound)
}

func TestStatsInvariant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	empty, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 0, empty.Total)
	require.EqualValues(t, 0, empty.CompletionRate)

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: title})
		require.NoError(t, err)
	}
	_, err = svc.ToggleTodo(ctx, 1)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 4, stats.Total)
	require.EqualValues(t, 1, stats.Completed)
	require.EqualValues(t, 3, stats.Pending)
	require.Equal(t, stats.Total, stats.Completed+stats.Pending)
	require.InDelta(t, 25.0, stats.CompletionRate, 0.001)
}

func TestResetRestoresSeedSet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "leftover"})
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	todos, err := svc.ListTodos(ctx, "")
	require.NoError(t, err)

	seeds := domain.SeedTodos()
	require.Len(t, todos, len(seeds))
	for i, seed := range seeds {
		require.Equal(t, seed.Title, todos[i].Title)
		require.False(t, todos[i].Completed)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedIfEmpty(ctx))

	todos, err := svc.ListTodos(ctx, "")
	require.NoError(t, err)
	require.Len(t, todos, len(domain.SeedTodos()))

	// A second call must not duplicate the seeds.
	require.NoError(t, svc.SeedIfEmpty(ctx))
	todos, err = svc.ListTodos(ctx, "")
	require.NoError(t, err)
	require.Len(t, todos, len(domain.SeedTodos()))
}
