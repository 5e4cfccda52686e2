package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrArtifactNotFound = errors.New("artifact not found")

// Store fetches a serialized artifact by name.
type Store interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FileStore reads artifacts from disk. Relative names resolve against Root.
type FileStore struct {
	Root string
}

func (s FileStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if !filepath.IsAbs(path) && s.Root != "" {
		path = filepath.Join(s.Root, name)
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return raw, nil
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectArtifact = `SELECT payload FROM model_artifacts WHERE name = $1`

// PostgresStore reads artifacts from the model_artifacts table.
type PostgresStore struct {
	db rowQuerier
}

func NewPostgresStore(db rowQuerier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Fetch(ctx context.Context, name string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, selectArtifact, name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("query artifact %s: %w", name, err)
	}
	return payload, nil
}

// ConnectPool opens and pings a pgx pool.
func ConnectPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}
