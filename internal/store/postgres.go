package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id         TEXT PRIMARY KEY,
	player_id  TEXT NOT NULL,
	level      INTEGER NOT NULL,
	snapshot   BYTEA NOT NULL,
	version    BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS matches_player_id ON matches (player_id);
CREATE TABLE IF NOT EXISTS player_stats (
	player_id   TEXT PRIMARY KEY,
	total_games INTEGER NOT NULL,
	wins        INTEGER NOT NULL,
	draws       INTEGER NOT NULL,
	losses      INTEGER NOT NULL,
	cards_won   INTEGER NOT NULL,
	cards_lost  INTEGER NOT NULL
);`

// PostgresStore is a Backend on a PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to url and creates the tables when missing.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	if url == "" {
		return nil, errors.New("postgres url is required")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, player_id, level, snapshot, version, created_at, updated_at
		 FROM matches WHERE id = $1`, id).
		Scan(&rec.ID, &rec.PlayerID, &rec.Level, &rec.Snapshot, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get match: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}

func (s *PostgresStore) Create(ctx context.Context, rec Record) (Record, error) {
	if err := validRecord(rec); err != nil {
		return Record{}, err
	}
	rec.Version = 1
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO matches (id, player_id, level, snapshot, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.PlayerID, rec.Level, rec.Snapshot, rec.Version, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return Record{}, fmt.Errorf("create match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Record{}, ErrAlreadyExists
	}
	return rec, nil
}

func (s *PostgresStore) Update(ctx context.Context, rec Record) (Record, error) {
	if err := validRecord(rec); err != nil {
		return Record{}, err
	}
	updated := now()
	err := s.pool.QueryRow(ctx,
		`UPDATE matches
		 SET player_id = $1, level = $2, snapshot = $3, version = version + 1, updated_at = $4
		 WHERE id = $5 AND version = $6
		 RETURNING version, created_at`,
		rec.PlayerID, rec.Level, rec.Snapshot, updated, rec.ID, rec.Version).
		Scan(&rec.Version, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, err := s.Get(ctx, rec.ID); err != nil {
			return Record{}, err
		}
		return Record{}, ErrVersionConflict
	}
	if err != nil {
		return Record{}, fmt.Errorf("update match: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = updated
	return rec, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecordResult(ctx context.Context, playerID string, r Result) error {
	win, draw, loss := r.counts()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO player_stats AS p (player_id, total_games, wins, draws, losses, cards_won, cards_lost)
		 VALUES ($1, 1, $2, $3, $4, $5, $6)
		 ON CONFLICT (player_id) DO UPDATE SET
		    total_games = p.total_games + 1,
		    wins = p.wins + excluded.wins,
		    draws = p.draws + excluded.draws,
		    losses = p.losses + excluded.losses,
		    cards_won = p.cards_won + excluded.cards_won,
		    cards_lost = p.cards_lost + excluded.cards_lost`,
		playerID, win, draw, loss, r.CardsWon, r.CardsLost)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetStats(ctx context.Context, playerID string) (Stats, error) {
	st := Stats{PlayerID: playerID}
	err := s.pool.QueryRow(ctx,
		`SELECT total_games, wins, draws, losses, cards_won, cards_lost
		 FROM player_stats WHERE player_id = $1`, playerID).
		Scan(&st.TotalGames, &st.Wins, &st.Draws, &st.Losses, &st.CardsWon, &st.CardsLost)
	if errors.Is(err, pgx.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return st, nil
}
