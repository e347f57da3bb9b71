package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/acrenier/todo-api/internal/config"
	"github.com/acrenier/todo-api/internal/domain"
	"github.com/acrenier/todo-api/internal/repository"
)

func TestNewSqlite(t *testing.T) {
	svc, err := New(config.Database{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "todos.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	health := svc.Health()
	require.Equal(t, "ok", health["status"])

	require.NoError(t, svc.GetDB().AutoMigrate(&domain.Todo{}))
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(config.Database{Driver: "oracle"})
	require.Error(t, err)
}

// TestNewPostgres runs the repository against a real postgres instance.
// Requires docker; skipped in -short runs.
func TestNewPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcpostgres.WithDatabase("todos"),
		tcpostgres.WithUsername("todo"),
		tcpostgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	svc, err := New(config.Database{
		Driver:   "postgres",
		Host:     host,
		Port:     port.Port(),
		Username: "todo",
		Password: "secret",
		Name:     "todos",
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	health := svc.Health()
	require.Equal(t, "ok", health["status"])

	db := svc.GetDB()
	require.NoError(t, db.AutoMigrate(&domain.Todo{}))

	repo := repository.NewGormTodoRepository(db)

	todo := &domain.Todo{Title: "runs on postgres"}
	require.NoError(t, repo.Create(ctx, todo))
	require.NotZero(t, todo.ID)

	found, err := repo.FindByID(ctx, todo.ID)
	require.NoError(t, err)
	require.Equal(t, "runs on postgres", found.Title)

	require.NoError(t, repo.Delete(ctx, todo.ID))
	_, err = repo.FindByID(ctx, todo.ID)
	require.ErrorIs(t, err, domain.ErrTodoNotFound)
}
