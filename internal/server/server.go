package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/acrenier/todo-api/internal/config"
	"github.com/acrenier/todo-api/internal/database"
	"github.com/acrenier/todo-api/internal/service"
)

type Server struct {
	cfg         config.Config
	todoService service.TodoService
	db          database.Service
}

// NewServer builds the http.Server for the todo API. All dependencies come
// in through the arguments; the handlers hold no other state.
func NewServer(cfg config.Config, todoService service.TodoService, dbService database.Service) *http.Server {
	appServer := &Server{
		cfg:         cfg,
		todoService: todoService,
		db:          dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
