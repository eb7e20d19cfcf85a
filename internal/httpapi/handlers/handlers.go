package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"asciify/internal/models"
	"asciify/internal/pipeline"
	"asciify/internal/pkg/logger"
	"asciify/internal/storage"
)

// Ledger is the read side of the invocation ledger.
type Ledger interface {
	List(ctx context.Context, limit int) ([]models.Invocation, error)
	Get(ctx context.Context, id string) (*models.Invocation, error)
}

type Deps struct {
	// Functions maps a function name (the route) to its pipeline.
	Functions map[string]*pipeline.Processor
	Ledger    Ledger

	// Pool and RDB are optional; nil disables the matching deep check.
	Pool    *pgxpool.Pool
	RDB     *redis.Client
	Storage storage.Config

	Log *logger.Logger
}

type Handler struct {
	functions map[string]*pipeline.Processor
	ledger    Ledger
	pool      *pgxpool.Pool
	rdb       *redis.Client
	storage   storage.Config
	log       *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		functions: d.Functions,
		ledger:    d.Ledger,
		pool:      d.Pool,
		rdb:       d.RDB,
		storage:   d.Storage,
		log:       log.WithComponent("httpapi"),
	}
}

// Functions returns the registered function names.
func (h *Handler) Functions() []string {
	names := make([]string, 0, len(h.functions))
	for name := range h.functions {
		names = append(names, name)
	}
	return names
}
