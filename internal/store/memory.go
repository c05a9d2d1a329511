package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore is an in-process Backend. Contents are lost on exit.
type MemoryStore struct {
	mu      sync.RWMutex
	matches map[string]Record
	stats   map[string]Stats
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches: make(map[string]Record),
		stats:   make(map[string]Stats),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.matches[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return copyRecord(rec), nil
}

func (s *MemoryStore) Create(_ context.Context, rec Record) (Record, error) {
	if err := validRecord(rec); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[rec.ID]; ok {
		return Record{}, ErrAlreadyExists
	}
	rec.Version = 1
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt
	s.matches[rec.ID] = copyRecord(rec)
	return rec, nil
}

func (s *MemoryStore) Update(_ context.Context, rec Record) (Record, error) {
	if err := validRecord(rec); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.matches[rec.ID]
	if !ok {
		return Record{}, ErrNotFound
	}
	if cur.Version != rec.Version {
		return Record{}, ErrVersionConflict
	}
	rec.Version++
	rec.CreatedAt = cur.CreatedAt
	rec.UpdatedAt = now()
	s.matches[rec.ID] = copyRecord(rec)
	return rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return ErrNotFound
	}
	delete(s.matches, id)
	return nil
}

func (s *MemoryStore) RecordResult(_ context.Context, playerID string, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats[playerID]
	st.PlayerID = playerID
	win, draw, loss := r.counts()
	st.TotalGames++
	st.Wins += win
	st.Draws += draw
	st.Losses += loss
	st.CardsWon += r.CardsWon
	st.CardsLost += r.CardsLost
	s.stats[playerID] = st
	return nil
}

func (s *MemoryStore) GetStats(_ context.Context, playerID string) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[playerID]
	if !ok {
		return Stats{PlayerID: playerID}, nil
	}
	return st, nil
}

func (s *MemoryStore) Close() error { return nil }

func copyRecord(rec Record) Record {
	rec.Snapshot = slices.Clone(rec.Snapshot)
	return rec
}
