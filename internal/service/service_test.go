package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/store"
)

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Kind
	}
	return out
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore, *recordingNotifier) {
	t.Helper()
	st := store.NewMemoryStore()
	n := &recordingNotifier{}
	svc := New(Config{Store: st, Logger: zaptest.NewLogger(t), Notifier: n, Seed: 7})
	return svc, st, n
}

var starterIDs = []string{"1", "2", "3", "4", "5"}

// newPlayerTurn creates a match and lets the AI open if it won the toss.
func newPlayerTurn(t *testing.T, svc *Service, level int) MatchInfo {
	t.Helper()
	ctx := context.Background()
	info, err := svc.CreateMatch(ctx, CreateRequest{PlayerID: "p1", Level: level, CardIDs: starterIDs})
	require.NoError(t, err)
	if info.State.Turn == "ai" {
		_, err = svc.AIMove(ctx, info.ID)
		require.NoError(t, err)
		info, err = svc.GetMatch(ctx, info.ID)
		require.NoError(t, err)
	}
	require.Equal(t, "player", info.State.Turn)
	return info
}

// forceFinish rewrites the stored snapshot as a finished match.
func forceFinish(t *testing.T, st *store.MemoryStore, id string, w game.Winner) {
	t.Helper()
	ctx := context.Background()
	rec, err := st.Get(ctx, id)
	require.NoError(t, err)
	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(rec.Snapshot, &snap))
	snap.Status = game.StatusFinished.String()
	snap.Winner = w.String()
	rec.Snapshot, err = json.Marshal(snap)
	require.NoError(t, err)
	_, err = st.Update(ctx, rec)
	require.NoError(t, err)
}

func firstEmpty(t *testing.T, st game.StateView) int {
	t.Helper()
	for i, c := range st.Board {
		if c == nil {
			return i
		}
	}
	t.Fatal("board is full")
	return -1
}

func TestCreateMatch(t *testing.T) {
	svc, st, n := newTestService(t)
	ctx := context.Background()

	info, err := svc.CreateMatch(ctx, CreateRequest{PlayerID: "p1", CardIDs: starterIDs})
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, int64(1), info.Version)
	assert.Equal(t, 1, info.State.Level, "level defaults to the configured default")
	assert.True(t, info.State.Rules.Open)
	assert.Len(t, info.State.PlayerHand, game.HandSize)
	assert.Len(t, info.Checksum, 64)
	assert.Equal(t, []string{KindCreated}, n.kinds())

	rec, err := st.Get(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", rec.PlayerID)

	got, err := svc.GetMatch(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestCreateMatchRules(t *testing.T) {
	svc, _, _ := newTestService(t)
	info, err := svc.CreateMatch(context.Background(), CreateRequest{PlayerID: "p1", Level: 9})
	require.NoError(t, err)
	assert.Equal(t, game.RulesForLevel(9), info.State.Rules)
	for _, c := range info.State.AIHand {
		assert.True(t, c.Hidden, "AI hand is face down without Open")
	}
}

func TestCreateMatchRejectsBadInput(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	for _, req := range []CreateRequest{
		{Level: 1},
		{PlayerID: "p1", Level: 11},
		{PlayerID: "p1", Level: -1},
		{PlayerID: "p1", CardIDs: []string{"1", "2"}},
		{PlayerID: "p1", CardIDs: []string{"1", "2", "3", "4", "999"}},
		{PlayerID: "p1", CardIDs: []string{"1", "1", "3", "4", "5"}},
	} {
		_, err := svc.CreateMatch(ctx, req)
		assert.ErrorIs(t, err, game.ErrInvalidInput, "%+v", req)
	}
	assert.Empty(t, n.kinds())
}

func TestGetMatchNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.GetMatch(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.PlayerMove(context.Background(), "missing", 0, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetMatchCorruptSnapshot(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	_, err := st.Create(ctx, store.Record{ID: "bad", PlayerID: "p1", Snapshot: []byte(`{"status":"paused"}`)})
	require.NoError(t, err)
	_, err = svc.GetMatch(ctx, "bad")
	assert.ErrorIs(t, err, game.ErrGameStateCorrupt)

	_, err = st.Create(ctx, store.Record{ID: "junk", PlayerID: "p1", Snapshot: []byte(`not json`)})
	require.NoError(t, err)
	_, err = svc.GetMatch(ctx, "junk")
	assert.ErrorIs(t, err, game.ErrGameStateCorrupt)
}

func TestPlayerAndAIMoves(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)

	_, err := svc.AIMove(ctx, info.ID)
	require.ErrorIs(t, err, game.ErrNotAITurn)
	_, err = svc.PlayerMove(ctx, info.ID, 9, 0)
	require.ErrorIs(t, err, game.ErrInvalidIndex)

	cell := firstEmpty(t, info.State)
	mv, err := svc.PlayerMove(ctx, info.ID, 0, cell)
	require.NoError(t, err)
	assert.Equal(t, info.Version+1, mv.Version)
	assert.Equal(t, cell, mv.Move.Position)
	assert.Equal(t, "player", mv.Move.Side)
	assert.Equal(t, "ai", mv.State.Turn)
	assert.NotEqual(t, info.Checksum, mv.Checksum)

	_, err = svc.PlayerMove(ctx, info.ID, 0, firstEmpty(t, mv.State))
	require.ErrorIs(t, err, game.ErrInvalidTurn)

	ai, err := svc.AIMove(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "ai", ai.Move.Side)
	assert.Equal(t, "player", ai.State.Turn)
	assert.Contains(t, n.kinds(), KindMove)
}

func TestPlayToCompletion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	info, err := svc.CreateMatch(ctx, CreateRequest{PlayerID: "p1", Level: 1})
	require.NoError(t, err)

	turn, err := svc.AIReplies(ctx, info.ID)
	require.NoError(t, err)
	state := turn.State
	for i := 0; state.Status != "finished"; i++ {
		require.Less(t, i, 10)
		require.Equal(t, "player", state.Turn)
		turn, err = svc.Play(ctx, info.ID, 0, firstEmpty(t, state))
		require.NoError(t, err)
		require.NotEmpty(t, turn.Moves)
		assert.Equal(t, "player", turn.Moves[0].Side)
		for _, mv := range turn.Moves[1:] {
			assert.Equal(t, "ai", mv.Side)
		}
		state = turn.State
	}
	assert.True(t, turn.Moves[len(turn.Moves)-1].IsGameEnd)
	require.NotNil(t, state.End)
	assert.Equal(t, 10, state.PlayerScore+state.AIScore)

	_, err = svc.Play(ctx, info.ID, 0, 0)
	assert.ErrorIs(t, err, game.ErrGameFinished)
}

func TestPlayRejectsNegativeHandIndex(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)

	_, err := svc.Play(ctx, info.ID, -1, 0)
	require.ErrorIs(t, err, game.ErrInvalidIndex)

	got, err := svc.GetMatch(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.Version, got.Version)
}

func TestAIRepliesOnPlayerTurnStoresNothing(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)
	before := len(n.kinds())

	turn, err := svc.AIReplies(ctx, info.ID)
	require.NoError(t, err)
	assert.Empty(t, turn.Moves)
	assert.Equal(t, info.Version, turn.Version)
	assert.Equal(t, info.Checksum, turn.Checksum)
	assert.Len(t, n.kinds(), before)
}

func TestConcurrentMovesSerialize(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for cell := range game.BoardSize {
		if info.State.Board[cell] != nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.PlayerMove(ctx, info.ID, 0, cell); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, game.ErrInvalidTurn)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)

	got, err := svc.GetMatch(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.Version+1, got.Version)
}

func TestExchangePlayerWin(t *testing.T) {
	svc, st, n := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)

	_, err := svc.Exchange(ctx, info.ID, "1")
	require.ErrorIs(t, err, game.ErrExchangeUnavailable)
	_, err = svc.AvailableCards(ctx, info.ID)
	require.ErrorIs(t, err, game.ErrExchangeUnavailable)

	forceFinish(t, st, info.ID, game.WinnerPlayer)

	cards, err := svc.AvailableCards(ctx, info.ID)
	require.NoError(t, err)
	require.Len(t, cards, game.HandSize)

	_, err = svc.Exchange(ctx, info.ID, "")
	require.ErrorIs(t, err, game.ErrMissingSelection)

	ex, err := svc.Exchange(ctx, info.ID, cards[2].ID)
	require.NoError(t, err)
	assert.False(t, ex.Repeated)
	assert.Equal(t, "player_win", ex.Exchange.Type)
	assert.Equal(t, cards[2].ID, ex.Exchange.Card.ID)

	again, err := svc.Exchange(ctx, info.ID, cards[0].ID)
	require.NoError(t, err)
	assert.True(t, again.Repeated)
	assert.Equal(t, ex.Exchange, again.Exchange)

	stats, err := svc.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, store.Stats{PlayerID: "p1", TotalGames: 1, Wins: 1, CardsWon: 1}, stats)
	assert.Contains(t, n.kinds(), KindExchange)

	got, err := svc.GetMatch(ctx, info.ID)
	require.NoError(t, err)
	require.NotNil(t, got.State.End.Exchange)
}

func TestExchangeAIWinAndReward(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)

	_, err := svc.DefeatReward(ctx, info.ID)
	require.ErrorIs(t, err, game.ErrExchangeUnavailable)

	forceFinish(t, st, info.ID, game.WinnerAI)

	ex, err := svc.Exchange(ctx, info.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "ai_win", ex.Exchange.Type)
	assert.Contains(t, starterIDs, ex.Exchange.Card.ID)

	reward, err := svc.DefeatReward(ctx, info.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, reward.ID)
	assert.False(t, reward.Hidden)

	stats, err := svc.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.CardsLost)
}

// flakyStats fails RecordResult while down is set.
type flakyStats struct {
	*store.MemoryStore
	down bool
}

func (f *flakyStats) RecordResult(ctx context.Context, playerID string, r store.Result) error {
	if f.down {
		return errors.New("stats down")
	}
	return f.MemoryStore.RecordResult(ctx, playerID, r)
}

func TestExchangeRetriesFailedStats(t *testing.T) {
	st := &flakyStats{MemoryStore: store.NewMemoryStore()}
	svc := New(Config{Store: st, Logger: zaptest.NewLogger(t), Seed: 7})
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)
	forceFinish(t, st.MemoryStore, info.ID, game.WinnerAI)

	st.down = true
	_, err := svc.Exchange(ctx, info.ID, "")
	require.ErrorContains(t, err, "stats down")

	st.down = false
	ex, err := svc.Exchange(ctx, info.ID, "")
	require.NoError(t, err)
	assert.True(t, ex.Repeated)

	stats, err := svc.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, store.Stats{PlayerID: "p1", TotalGames: 1, Losses: 1, CardsLost: 1}, stats)

	_, err = svc.Exchange(ctx, info.ID, "")
	require.NoError(t, err)
	stats, err = svc.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames, "a settled exchange is counted once")
}

func TestExchangeDraw(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)
	forceFinish(t, st, info.ID, game.WinnerDraw)

	_, err := svc.Exchange(ctx, info.ID, "1")
	assert.ErrorIs(t, err, game.ErrExchangeUnavailable)
	stats, err := svc.Stats(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalGames)
}

func TestRecordDraw(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	m := game.NewMatch(game.MatchConfig{Settings: game.Settings{PlayerID: "p9"}, Seed: 1})
	require.NoError(t, m.Initialize(nil))

	ended := []*game.MoveResult{{EndInfo: &game.EndInfo{Status: game.StatusFinished, Winner: game.WinnerDraw}}}
	svc.recordDraw(ctx, m, ended)
	stats, err := svc.Stats(ctx, "p9")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalGames, "match still playing")

	m.Status, m.Winner = game.StatusFinished, game.WinnerDraw
	svc.recordDraw(ctx, m, []*game.MoveResult{{}})
	svc.recordDraw(ctx, m, ended)
	stats, err = svc.Stats(ctx, "p9")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Draws)
	assert.Equal(t, 1, stats.TotalGames)
}

func TestAbandon(t *testing.T) {
	svc, _, n := newTestService(t)
	ctx := context.Background()
	info := newPlayerTurn(t, svc, 1)

	require.NoError(t, svc.Abandon(ctx, info.ID))
	_, err := svc.GetMatch(ctx, info.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.Abandon(ctx, info.ID), store.ErrNotFound)
	assert.Contains(t, n.kinds(), KindAbandoned)
}

func TestCatalogViews(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.Len(t, svc.Cards(), 110)

	starter := svc.StarterCards()
	assert.Len(t, starter, game.StarterPoolSize)
	seen := map[string]bool{}
	for _, c := range starter {
		assert.False(t, seen[c.ID], "duplicate starter card %s", c.ID)
		seen[c.ID] = true
	}
}

func TestKeyedMutexReleases(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.lock("a")
	done := make(chan struct{})
	go func() {
		k.lock("a")()
		close(done)
	}()
	unlock()
	<-done
	k.mu.Lock()
	defer k.mu.Unlock()
	assert.Empty(t, k.locks)
}
