package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/service"
)

// DefaultPlayerID names players that join without an id.
const DefaultPlayerID = "guest"

// Server hosts matches against the engine AI, one per TCP connection.
type Server struct {
	Service   *service.Service
	HandsFile string // preset hands for joiners that pick a hand number
	Port      string
	Level     int // used when the joiner leaves it 0; 0 defers to the service
	Logger    *zap.Logger
}

// Run listens on Port and serves connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.logger().Info("waiting for players", zap.String("addr", ln.Addr().String()))
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled. It closes ln and
// returns once every session has ended.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancel()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	logger := s.logger().With(zap.String("remote", conn.RemoteAddr().String()))
	logger.Info("player connected")
	if err := s.playMatch(ctx, NewNetworkController(conn), logger); err != nil {
		logger.Warn("session ended", zap.Error(err))
		return
	}
	logger.Info("session finished")
}

// playMatch runs one match from the join handshake through the exchange.
func (s *Server) playMatch(ctx context.Context, nc *NetworkController, logger *zap.Logger) error {
	join, err := nc.Join()
	if err != nil {
		return err
	}

	req := service.CreateRequest{PlayerID: join.PlayerID, Level: join.Level}
	if req.PlayerID == "" {
		req.PlayerID = DefaultPlayerID
	}
	if req.Level == 0 {
		req.Level = s.Level
	}
	if join.HandNumber > 0 {
		name, ids, err := game.HandByNumber(s.Service.Catalog(), s.HandsFile, join.HandNumber)
		if err != nil {
			_ = nc.SendError(err)
			return fmt.Errorf("load hand %d: %w", join.HandNumber, err)
		}
		logger.Info("preset hand", zap.String("hand", name))
		req.CardIDs = ids
	}

	info, err := s.Service.CreateMatch(ctx, req)
	if err != nil {
		_ = nc.SendError(err)
		return err
	}
	id := info.ID
	logger = logger.With(zap.String("match_id", id))

	// Let the AI open if it won the toss.
	turn, err := s.Service.AIReplies(ctx, id)
	if err != nil {
		return err
	}
	if err := s.relay(nc, turn.Moves); err != nil {
		return err
	}
	state := turn.State

	for state.Status != game.StatusFinished.String() {
		handIndex, cell, err := nc.ChooseMove(state)
		if err != nil {
			return err
		}
		turn, err := s.Service.Play(ctx, id, handIndex, cell)
		if err != nil {
			if !rejected(err) {
				return err
			}
			if err := nc.SendError(err); err != nil {
				return err
			}
			continue
		}
		if err := s.relay(nc, turn.Moves); err != nil {
			return err
		}
		state = turn.State
	}

	over := ServerMessage{Winner: state.Winner, Result: resultLine(state)}
	switch state.Winner {
	case game.WinnerPlayer.String():
		cards, err := s.Service.AvailableCards(ctx, id)
		if err != nil {
			return err
		}
		idx, err := nc.ChooseCard(cards)
		if err != nil {
			return err
		}
		ex, err := s.Service.Exchange(ctx, id, cards[idx].ID)
		if err != nil {
			return err
		}
		over.Exchange = &ex.Exchange
	case game.WinnerAI.String():
		ex, err := s.Service.Exchange(ctx, id, "")
		if err != nil {
			return err
		}
		over.Exchange = &ex.Exchange
		reward, err := s.Service.DefeatReward(ctx, id)
		if err != nil {
			return err
		}
		over.Reward = &reward
	}

	final, err := s.Service.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	over.State = &final.State
	logger.Info("match over", zap.String("winner", state.Winner))
	return nc.SendGameOver(over)
}

func (s *Server) relay(nc *NetworkController, moves []game.MoveView) error {
	for _, mv := range moves {
		if err := nc.NotifyMove(mv); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// rejected reports whether err is a bad move the player can retry.
func rejected(err error) bool {
	return errors.Is(err, game.ErrInvalidTurn) ||
		errors.Is(err, game.ErrInvalidIndex) ||
		errors.Is(err, game.ErrInvalidPosition) ||
		errors.Is(err, game.ErrInvalidInput)
}

func resultLine(state game.StateView) string {
	score := fmt.Sprintf("%d-%d", state.PlayerScore, state.AIScore)
	switch state.Winner {
	case game.WinnerPlayer.String():
		return "You win " + score
	case game.WinnerAI.String():
		return "The AI wins " + score
	default:
		return "Draw " + score
	}
}
