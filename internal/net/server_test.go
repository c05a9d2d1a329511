package net

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/service"
	"github.com/peterkuimelis/triad/internal/store"
)

const handsYAML = `hands:
  - name: Starter
    cards: ["1", "2", "3", "4", "5"]
`

// startServer serves on a loopback port and returns its address.
func startServer(t *testing.T) (string, *service.Service) {
	t.Helper()
	hands := filepath.Join(t.TempDir(), "hands.yaml")
	require.NoError(t, os.WriteFile(hands, []byte(handsYAML), 0o644))

	logger := zaptest.NewLogger(t)
	svc := service.New(service.Config{Store: store.NewMemoryStore(), Logger: logger, Seed: 11})
	srv := &Server{Service: svc, HandsFile: hands, Level: 1, Logger: logger}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
	return ln.Addr().String(), svc
}

type rawClient struct {
	conn net.Conn
	enc  *json.Encoder
	dec  *json.Decoder
}

func dial(t *testing.T, addr string) *rawClient {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, conn.SetDeadline(time.Now().Add(10*time.Second)))
	t.Cleanup(func() { conn.Close() })
	return &rawClient{conn: conn, enc: json.NewEncoder(conn), dec: json.NewDecoder(conn)}
}

func (c *rawClient) send(t *testing.T, msg ClientMessage) {
	t.Helper()
	require.NoError(t, c.enc.Encode(msg))
}

func (c *rawClient) recv(t *testing.T) ServerMessage {
	t.Helper()
	var msg ServerMessage
	require.NoError(t, c.dec.Decode(&msg))
	return msg
}

func emptyCell(state *game.StateView) int {
	for i, cell := range state.Board {
		if cell == nil {
			return i
		}
	}
	return -1
}

func TestServeFullMatch(t *testing.T) {
	addr, svc := startServer(t)
	c := dial(t, addr)
	c.send(t, ClientMessage{Type: MsgJoin, PlayerID: "tcp-1", HandNumber: 1})

	var moves int
	for {
		msg := c.recv(t)
		switch msg.Type {
		case MsgMove:
			moves++
		case MsgChooseMove:
			require.NotNil(t, msg.State)
			assert.Equal(t, game.SidePlayer.String(), msg.State.Turn)
			c.send(t, ClientMessage{Type: MsgPlace, HandIndex: 0, Cell: emptyCell(msg.State)})
		case MsgChooseCard:
			assert.Len(t, msg.Candidates, game.HandSize)
			c.send(t, ClientMessage{Type: MsgPickCard, Index: 0})
		case MsgError:
			t.Fatalf("unexpected error: %s", msg.Error)
		case MsgGameOver:
			require.NotNil(t, msg.State)
			assert.Equal(t, game.StatusFinished.String(), msg.State.Status)
			assert.Equal(t, game.BoardSize, moves)
			assert.NotEmpty(t, msg.Result)

			stats, err := svc.Stats(context.Background(), "tcp-1")
			require.NoError(t, err)
			assert.Equal(t, 1, stats.TotalGames)
			switch msg.Winner {
			case game.WinnerPlayer.String():
				require.NotNil(t, msg.Exchange)
				assert.Equal(t, 1, stats.Wins)
			case game.WinnerAI.String():
				require.NotNil(t, msg.Exchange)
				assert.NotNil(t, msg.Reward)
				assert.Equal(t, 1, stats.Losses)
			default:
				assert.Nil(t, msg.Exchange)
				assert.Equal(t, 1, stats.Draws)
			}
			return
		}
	}
}

func TestRejectedMoveIsRetried(t *testing.T) {
	addr, _ := startServer(t)
	c := dial(t, addr)
	c.send(t, ClientMessage{Type: MsgJoin})

	msg := c.recv(t)
	for msg.Type == MsgMove {
		msg = c.recv(t)
	}
	require.Equal(t, MsgChooseMove, msg.Type)
	assert.Equal(t, DefaultPlayerID, msg.State.PlayerID)

	c.send(t, ClientMessage{Type: MsgPlace, HandIndex: 0, Cell: game.BoardSize})
	msg = c.recv(t)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "board position")

	msg = c.recv(t)
	assert.Equal(t, MsgChooseMove, msg.Type, "server asks again")

	c.send(t, ClientMessage{Type: MsgPlace, HandIndex: -1, Cell: emptyCell(msg.State)})
	msg = c.recv(t)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "invalid hand index")

	msg = c.recv(t)
	assert.Equal(t, MsgChooseMove, msg.Type)
	assert.Len(t, msg.State.PlayerHand, game.HandSize, "nothing was played")
}

func TestJoinUnknownHand(t *testing.T) {
	addr, _ := startServer(t)
	c := dial(t, addr)
	c.send(t, ClientMessage{Type: MsgJoin, HandNumber: 4})

	msg := c.recv(t)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "hand 4 not found")

	var next ServerMessage
	assert.ErrorIs(t, c.dec.Decode(&next), io.EOF, "connection closes")
}

func TestClientREPL(t *testing.T) {
	addr, _ := startServer(t)
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	// Walk every cell repeatedly; occupied cells are rejected and skipped.
	var script strings.Builder
	for pass := 0; pass < 10; pass++ {
		for cell := 1; cell <= game.BoardSize; cell++ {
			fmt.Fprintf(&script, "1 %d\n", cell)
		}
	}
	script.WriteString("1\n")

	var out bytes.Buffer
	c := NewClient(conn, strings.NewReader(script.String()), &out)
	require.NoError(t, c.Join(JoinOptions{PlayerID: "repl", HandNumber: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, c.RunREPL(ctx))
	assert.Contains(t, out.String(), "GAME OVER")
	assert.Contains(t, out.String(), "Your hand:")
}

func TestClientInputExhausted(t *testing.T) {
	addr, _ := startServer(t)
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	c := NewClient(conn, strings.NewReader("x y\n"), io.Discard)
	require.NoError(t, c.Join(JoinOptions{}))
	err = c.RunREPL(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "(3)", formatCell(nil, 2, ""))
	assert.Equal(t, "(1) FIRE", formatCell(nil, 0, "FIRE"))
	cell := &game.CellView{CardView: game.CardView{Top: 1, Right: 4, Bottom: 1, Left: 5, Owner: "ai"}}
	assert.Equal(t, "A 1/4/1/5", formatCell(cell, 0, ""))
}
