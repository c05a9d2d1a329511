package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id         TEXT PRIMARY KEY,
	player_id  TEXT NOT NULL,
	level      INTEGER NOT NULL,
	snapshot   BLOB NOT NULL,
	version    INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
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

// SQLiteStore is a Backend on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens path, creating the file and tables when missing.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, player_id, level, snapshot, version, created_at, updated_at
		 FROM matches WHERE id = ?`, id)

	var rec Record
	var created, updated int64
	if err := row.Scan(&rec.ID, &rec.PlayerID, &rec.Level, &rec.Snapshot, &rec.Version, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("get match: %w", err)
	}
	rec.CreatedAt = fromMillis(created)
	rec.UpdatedAt = fromMillis(updated)
	return rec, nil
}

func (s *SQLiteStore) Create(ctx context.Context, rec Record) (Record, error) {
	if err := validRecord(rec); err != nil {
		return Record{}, err
	}
	rec.Version = 1
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (id, player_id, level, snapshot, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.PlayerID, rec.Level, rec.Snapshot, rec.Version,
		rec.CreatedAt.UnixMilli(), rec.UpdatedAt.UnixMilli())
	if err != nil {
		return Record{}, fmt.Errorf("create match: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return Record{}, fmt.Errorf("create match: %w", err)
	} else if n == 0 {
		return Record{}, ErrAlreadyExists
	}
	return rec, nil
}

func (s *SQLiteStore) Update(ctx context.Context, rec Record) (Record, error) {
	if err := validRecord(rec); err != nil {
		return Record{}, err
	}
	updated := now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE matches
		 SET player_id = ?, level = ?, snapshot = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		rec.PlayerID, rec.Level, rec.Snapshot, updated.UnixMilli(), rec.ID, rec.Version)
	if err != nil {
		return Record{}, fmt.Errorf("update match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Record{}, fmt.Errorf("update match: %w", err)
	}
	if n == 0 {
		cur, err := s.Get(ctx, rec.ID)
		if err != nil {
			return Record{}, err
		}
		if cur.Version != rec.Version {
			return Record{}, ErrVersionConflict
		}
		return Record{}, fmt.Errorf("update match %s: no rows changed", rec.ID)
	}
	cur, err := s.Get(ctx, rec.ID)
	if err != nil {
		return Record{}, err
	}
	rec.Version = cur.Version
	rec.CreatedAt = cur.CreatedAt
	rec.UpdatedAt = updated
	return rec, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete match: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) RecordResult(ctx context.Context, playerID string, r Result) error {
	win, draw, loss := r.counts()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO player_stats (player_id, total_games, wins, draws, losses, cards_won, cards_lost)
		 VALUES (?, 1, ?, ?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
		    total_games = total_games + 1,
		    wins = wins + excluded.wins,
		    draws = draws + excluded.draws,
		    losses = losses + excluded.losses,
		    cards_won = cards_won + excluded.cards_won,
		    cards_lost = cards_lost + excluded.cards_lost`,
		playerID, win, draw, loss, r.CardsWon, r.CardsLost)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetStats(ctx context.Context, playerID string) (Stats, error) {
	st := Stats{PlayerID: playerID}
	err := s.db.QueryRowContext(ctx,
		`SELECT total_games, wins, draws, losses, cards_won, cards_lost
		 FROM player_stats WHERE player_id = ?`, playerID).
		Scan(&st.TotalGames, &st.Wins, &st.Draws, &st.Losses, &st.CardsWon, &st.CardsLost)
	if errors.Is(err, sql.ErrNoRows) {
		return st, nil
	}
	if err != nil {
		return Stats{}, fmt.Errorf("get stats: %w", err)
	}
	return st, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
