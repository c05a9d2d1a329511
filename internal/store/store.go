// Package store persists match snapshots and per-player results.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/peterkuimelis/triad/internal/config"
)

var (
	ErrNotFound        = errors.New("store: not found")
	ErrAlreadyExists   = errors.New("store: already exists")
	ErrVersionConflict = errors.New("store: version conflict")
)

// Record is one stored match. Snapshot holds the JSON encoding of a
// game.Snapshot; the store never looks inside it.
type Record struct {
	ID        string
	PlayerID  string
	Level     int
	Snapshot  []byte
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchStore keeps match records. Update succeeds only when rec.Version is
// the version currently stored; the returned record carries the next one.
type MatchStore interface {
	Get(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id string) error
}

// Result is the outcome of one finished match from the player's side.
// Neither Win nor Draw means a loss.
type Result struct {
	Win       bool
	Draw      bool
	CardsWon  int
	CardsLost int
}

// Stats are a player's accumulated results.
type Stats struct {
	PlayerID   string `json:"playerId"`
	TotalGames int    `json:"totalGames"`
	Wins       int    `json:"wins"`
	Draws      int    `json:"draws"`
	Losses     int    `json:"losses"`
	CardsWon   int    `json:"cardsWon"`
	CardsLost  int    `json:"cardsLost"`
}

// StatsStore accumulates results. GetStats returns zero stats for a player
// with no recorded games.
type StatsStore interface {
	RecordResult(ctx context.Context, playerID string, r Result) error
	GetStats(ctx context.Context, playerID string) (Stats, error)
}

// Backend is everything the service needs from storage.
type Backend interface {
	MatchStore
	StatsStore
	io.Closer
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Backend, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		return NewMemoryStore(), nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (r Result) counts() (win, draw, loss int) {
	switch {
	case r.Win:
		return 1, 0, 0
	case r.Draw:
		return 0, 1, 0
	default:
		return 0, 0, 1
	}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func validRecord(rec Record) error {
	if rec.ID == "" {
		return errors.New("store: record id is required")
	}
	if len(rec.Snapshot) == 0 {
		return errors.New("store: record snapshot is required")
	}
	return nil
}
