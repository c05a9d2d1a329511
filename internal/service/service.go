// Package service runs stored matches on behalf of the transports. Every
// request loads the match snapshot, restores it, applies one operation and
// writes it back.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/log"
	"github.com/peterkuimelis/triad/internal/store"
	"go.uber.org/zap"
)

// AIName is the opponent profile recorded on every match.
const AIName = "BALANCED"

// ErrPlayerRequired rejects a match request without a player id.
var ErrPlayerRequired = fmt.Errorf("%w: player id is required", game.ErrInvalidInput)

// Storage is what the service needs from a store backend.
type Storage interface {
	store.MatchStore
	store.StatsStore
}

// Config wires a Service.
type Config struct {
	Store        Storage
	Catalog      *game.Catalog // nil uses game.NewCatalog()
	Logger       *zap.Logger
	Notifier     Notifier
	DefaultLevel int   // used when a request leaves the level at 0
	Seed         int64 // 0 for random
}

type Service struct {
	store        Storage
	catalog      *game.Catalog
	logger       *zap.Logger
	notifier     Notifier
	defaultLevel int
	locks        *keyedMutex

	rngMu sync.Mutex
	rng   *rand.Rand
}

func New(cfg Config) *Service {
	s := &Service{
		store:        cfg.Store,
		catalog:      cfg.Catalog,
		logger:       cfg.Logger,
		notifier:     cfg.Notifier,
		defaultLevel: cfg.DefaultLevel,
		locks:        newKeyedMutex(),
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.catalog == nil {
		s.catalog = game.NewCatalog()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.notifier == nil {
		s.notifier = NopNotifier{}
	}
	if s.defaultLevel == 0 {
		s.defaultLevel = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))
	return s
}

// CreateRequest starts a match. CardIDs is empty for a random starter hand
// or lists five distinct catalog ids.
type CreateRequest struct {
	PlayerID string   `json:"playerId"`
	Level    int      `json:"level"`
	CardIDs  []string `json:"cardIds"`
}

// MatchInfo is a stored match as clients see it.
type MatchInfo struct {
	ID       string         `json:"gameId"`
	Version  int64          `json:"version"`
	Checksum string         `json:"checksum"`
	State    game.StateView `json:"gameState"`
}

// MoveInfo is the state after a single placement.
type MoveInfo struct {
	MatchInfo
	Move game.MoveView `json:"moveResult"`
}

// TurnInfo is the state after a player placement and the AI replies that
// followed it.
type TurnInfo struct {
	MatchInfo
	Moves []game.MoveView `json:"moves"`
}

// ExchangeInfo is the resolved end-of-match card transfer.
type ExchangeInfo struct {
	MatchID  string            `json:"gameId"`
	Exchange game.ExchangeView `json:"exchange"`
	Repeated bool              `json:"isRepeated"`
}

// Catalog returns the catalog matches are dealt from.
func (s *Service) Catalog() *game.Catalog { return s.catalog }

// CreateMatch deals a new match and stores it.
func (s *Service) CreateMatch(ctx context.Context, req CreateRequest) (MatchInfo, error) {
	if req.PlayerID == "" {
		return MatchInfo{}, ErrPlayerRequired
	}
	level := req.Level
	if level == 0 {
		level = s.defaultLevel
	}
	if level < 1 || level > game.MaxLevel {
		return MatchInfo{}, fmt.Errorf("%w: level %d out of range 1-%d", game.ErrInvalidInput, level, game.MaxLevel)
	}

	id := uuid.NewString()
	m := game.NewMatch(game.MatchConfig{
		Catalog:  s.catalog,
		Settings: game.Settings{PlayerID: req.PlayerID, Level: level, AIName: AIName},
		Rules:    game.RulesForLevel(level),
		Logger:   s.eventLogger(id, req.PlayerID),
		Seed:     s.seed(),
	})
	if err := m.Initialize(req.CardIDs); err != nil {
		return MatchInfo{}, err
	}

	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		return MatchInfo{}, fmt.Errorf("encode snapshot: %w", err)
	}
	rec, err := s.store.Create(ctx, store.Record{ID: id, PlayerID: req.PlayerID, Level: level, Snapshot: data})
	if err != nil {
		return MatchInfo{}, fmt.Errorf("create match: %w", err)
	}

	info := s.info(rec, m)
	s.logger.Info("match created",
		zap.String("match_id", id),
		zap.String("player_id", req.PlayerID),
		zap.Int("level", level),
		zap.String("rules", m.Rules.String()),
		zap.String("first_turn", m.Turn.String()),
	)
	s.notifier.Notify(ctx, Notification{MatchID: id, Kind: KindCreated, Version: rec.Version, Payload: info})
	return info, nil
}

// GetMatch returns the stored match.
func (s *Service) GetMatch(ctx context.Context, id string) (MatchInfo, error) {
	rec, m, err := s.load(ctx, id)
	if err != nil {
		return MatchInfo{}, err
	}
	return s.info(rec, m), nil
}

// PlayerMove places the player's card at handIndex onto cell.
func (s *Service) PlayerMove(ctx context.Context, id string, handIndex, cell int) (MoveInfo, error) {
	var res *game.MoveResult
	rec, m, err := s.update(ctx, id, func(m *game.Match) error {
		var err error
		res, err = m.PlayerMove(handIndex, cell)
		return err
	})
	if err != nil {
		return MoveInfo{}, err
	}
	return s.moved(ctx, rec, m, res), nil
}

// AIMove lets the AI play when it is its turn.
func (s *Service) AIMove(ctx context.Context, id string) (MoveInfo, error) {
	var res *game.MoveResult
	rec, m, err := s.update(ctx, id, func(m *game.Match) error {
		var err error
		res, err = m.AIMove()
		return err
	})
	if err != nil {
		return MoveInfo{}, err
	}
	return s.moved(ctx, rec, m, res), nil
}

// Play makes the player's move and then every AI move that follows it,
// stopping when the player is due again or the match is over.
func (s *Service) Play(ctx context.Context, id string, handIndex, cell int) (TurnInfo, error) {
	var results []*game.MoveResult
	rec, m, err := s.update(ctx, id, func(m *game.Match) error {
		res, err := m.PlayerMove(handIndex, cell)
		if err != nil {
			return err
		}
		results = append(results, res)
		results, err = aiReplies(m, results)
		return err
	})
	if err != nil {
		return TurnInfo{}, err
	}
	return s.turned(ctx, rec, m, results), nil
}

// AIReplies plays every AI move due before the player's next turn. It opens
// a match or a sudden death round the AI starts. When the player is due or
// the match is over nothing is played or stored.
func (s *Service) AIReplies(ctx context.Context, id string) (TurnInfo, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	rec, m, err := s.load(ctx, id)
	if err != nil {
		return TurnInfo{}, err
	}
	if m.Finished() || m.Turn != game.SideAI {
		return TurnInfo{MatchInfo: s.info(rec, m), Moves: []game.MoveView{}}, nil
	}
	results, err := aiReplies(m, nil)
	if err != nil {
		return TurnInfo{}, err
	}
	if rec, err = s.save(ctx, rec, m); err != nil {
		return TurnInfo{}, err
	}
	return s.turned(ctx, rec, m, results), nil
}

func aiReplies(m *game.Match, results []*game.MoveResult) ([]*game.MoveResult, error) {
	for !m.Finished() && m.Turn == game.SideAI {
		res, err := m.AIMove()
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) turned(ctx context.Context, rec store.Record, m *game.Match, results []*game.MoveResult) TurnInfo {
	info := TurnInfo{MatchInfo: s.info(rec, m), Moves: make([]game.MoveView, len(results))}
	for i, res := range results {
		info.Moves[i] = res.View()
	}
	s.recordDraw(ctx, m, results)
	s.notifier.Notify(ctx, Notification{MatchID: rec.ID, Kind: KindMove, Version: rec.Version, Payload: info})
	return info
}

// AvailableCards lists the AI cards a winning player may take.
func (s *Service) AvailableCards(ctx context.Context, id string) ([]game.CardView, error) {
	_, m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cards, err := m.AvailableCards()
	if err != nil {
		return nil, err
	}
	views := make([]game.CardView, len(cards))
	for i, ci := range cards {
		views[i] = ci.View(false)
	}
	return views, nil
}

// Exchange resolves the end-of-match card transfer. The first successful
// call records the result in the player's stats; later calls return the
// stored exchange. A call that finds the exchange stored but its result not
// yet recorded records it first.
func (s *Service) Exchange(ctx context.Context, id, cardID string) (ExchangeInfo, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	rec, m, err := s.load(ctx, id)
	if err != nil {
		return ExchangeInfo{}, err
	}
	if m.Exchange != nil {
		if !m.Exchange.Settled {
			if _, err := s.settle(ctx, rec, m); err != nil {
				return ExchangeInfo{}, err
			}
		}
		return ExchangeInfo{MatchID: id, Exchange: m.Exchange.View(), Repeated: true}, nil
	}
	ex, err := m.ResolveExchange(cardID)
	if err != nil {
		return ExchangeInfo{}, err
	}
	rec, err = s.save(ctx, rec, m)
	if err != nil {
		return ExchangeInfo{}, err
	}
	rec, err = s.settle(ctx, rec, m)
	if err != nil {
		return ExchangeInfo{}, err
	}

	info := ExchangeInfo{MatchID: id, Exchange: ex.View()}
	s.logger.Info("card exchanged",
		zap.String("match_id", id),
		zap.String("player_id", m.Settings.PlayerID),
		zap.String("type", ex.Type.String()),
		zap.String("card", ex.Card.Card.ID),
	)
	s.notifier.Notify(ctx, Notification{MatchID: id, Kind: KindExchange, Version: rec.Version, Payload: info})
	return info, nil
}

// settle records the stored exchange in the player's stats and marks it
// settled. The exchange is saved before this runs, so a failed stats write
// leaves it unsettled for the next call to retry.
func (s *Service) settle(ctx context.Context, rec store.Record, m *game.Match) (store.Record, error) {
	result := store.Result{Win: m.Winner == game.WinnerPlayer}
	if result.Win {
		result.CardsWon = 1
	} else {
		result.CardsLost = 1
	}
	if err := s.store.RecordResult(ctx, m.Settings.PlayerID, result); err != nil {
		return store.Record{}, fmt.Errorf("record result: %w", err)
	}
	m.Exchange.Settled = true
	return s.save(ctx, rec, m)
}

// DefeatReward offers a consolation card after the AI wins. Each call may
// offer a different card; nothing is stored.
func (s *Service) DefeatReward(ctx context.Context, id string) (game.CardView, error) {
	_, m, err := s.load(ctx, id)
	if err != nil {
		return game.CardView{}, err
	}
	reward := m.DefeatReward()
	if reward == nil {
		return game.CardView{}, fmt.Errorf("%w: rewards follow an AI win", game.ErrExchangeUnavailable)
	}
	return reward.View(false), nil
}

// Abandon deletes the match.
func (s *Service) Abandon(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("match %s: %w", id, err)
	}
	s.logger.Info("match abandoned", zap.String("match_id", id))
	s.notifier.Notify(ctx, Notification{MatchID: id, Kind: KindAbandoned})
	return nil
}

// Stats returns a player's accumulated results.
func (s *Service) Stats(ctx context.Context, playerID string) (store.Stats, error) {
	st, err := s.store.GetStats(ctx, playerID)
	if err != nil {
		return store.Stats{}, fmt.Errorf("player %s: %w", playerID, err)
	}
	return st, nil
}

// StarterCards deals a fresh starter pool.
func (s *Service) StarterCards() []game.CardView {
	s.rngMu.Lock()
	pool := s.catalog.StarterPool(s.rng)
	s.rngMu.Unlock()
	return cardViews(pool)
}

// Cards lists the whole catalog.
func (s *Service) Cards() []game.CardView {
	return cardViews(s.catalog.All())
}

func cardViews(cards []*game.Card) []game.CardView {
	views := make([]game.CardView, len(cards))
	for i, c := range cards {
		views[i] = c.View()
	}
	return views
}

func (s *Service) moved(ctx context.Context, rec store.Record, m *game.Match, res *game.MoveResult) MoveInfo {
	info := MoveInfo{MatchInfo: s.info(rec, m), Move: res.View()}
	s.recordDraw(ctx, m, []*game.MoveResult{res})
	s.notifier.Notify(ctx, Notification{MatchID: rec.ID, Kind: KindMove, Version: rec.Version, Payload: info})
	return info
}

// recordDraw stores a drawn result when the last of results ended the
// match. Decisive results are recorded by Exchange instead. The move is
// already stored, so a failure here is logged rather than returned.
func (s *Service) recordDraw(ctx context.Context, m *game.Match, results []*game.MoveResult) {
	if m.Winner != game.WinnerDraw || len(results) == 0 {
		return
	}
	last := results[len(results)-1]
	if last.EndInfo == nil || last.EndInfo.Status != game.StatusFinished {
		return
	}
	if err := s.store.RecordResult(ctx, m.Settings.PlayerID, store.Result{Draw: true}); err != nil {
		s.logger.Error("record draw", zap.String("player_id", m.Settings.PlayerID), zap.Error(err))
	}
}

// update runs fn on the restored match under the match lock and stores the
// result when fn succeeds.
func (s *Service) update(ctx context.Context, id string, fn func(*game.Match) error) (store.Record, *game.Match, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	rec, m, err := s.load(ctx, id)
	if err != nil {
		return store.Record{}, nil, err
	}
	if err := fn(m); err != nil {
		return store.Record{}, nil, err
	}
	rec, err = s.save(ctx, rec, m)
	if err != nil {
		return store.Record{}, nil, err
	}
	return rec, m, nil
}

func (s *Service) load(ctx context.Context, id string) (store.Record, *game.Match, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return store.Record{}, nil, fmt.Errorf("match %s: %w", id, err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(rec.Snapshot, &snap); err != nil {
		return store.Record{}, nil, fmt.Errorf("%w: decode match %s: %v", game.ErrGameStateCorrupt, id, err)
	}
	m, err := game.Restore(snap, game.RestoreConfig{
		Catalog: s.catalog,
		Logger:  s.eventLogger(id, rec.PlayerID),
		Seed:    s.seed(),
	})
	if err != nil {
		s.logger.Error("restore match", zap.String("match_id", id), zap.Error(err))
		return store.Record{}, nil, err
	}
	return rec, m, nil
}

func (s *Service) save(ctx context.Context, rec store.Record, m *game.Match) (store.Record, error) {
	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		return store.Record{}, fmt.Errorf("encode snapshot: %w", err)
	}
	rec.Snapshot = data
	next, err := s.store.Update(ctx, rec)
	if err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			s.logger.Warn("concurrent match update", zap.String("match_id", rec.ID), zap.Int64("version", rec.Version))
		}
		return store.Record{}, fmt.Errorf("match %s: %w", rec.ID, err)
	}
	return next, nil
}

func (s *Service) info(rec store.Record, m *game.Match) MatchInfo {
	snap := m.Snapshot()
	return MatchInfo{ID: rec.ID, Version: rec.Version, Checksum: snap.Checksum(), State: m.State()}
}

func (s *Service) eventLogger(matchID, playerID string) log.EventLogger {
	return log.NewZapLogger(s.logger.With(zap.String("match_id", matchID), zap.String("player_id", playerID)))
}

func (s *Service) seed() int64 {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Int63() + 1
}
