package repository

import (
	"context"
	"database/sql"
	"time"

	relaygov "relay_governor"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*relaygov.User, error)
}

type StateRepo interface {
	Save(ctx context.Context, s relaygov.RelaySnapshot) error
	Load(ctx context.Context) (relaygov.RelaySnapshot, error)
}

type EventRepo interface {
	Append(ctx context.Context, e relaygov.RelayEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]relaygov.RelayEvent, error)
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
