package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/peterkuimelis/triad/internal/game"
)

// JoinOptions is what a client asks for when it connects.
type JoinOptions struct {
	PlayerID   string
	HandNumber int // 0 deals a random starter hand
	Level      int // 0 lets the server pick
}

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	in   *bufio.Reader
	out  io.Writer
}

// NewClient wraps an established connection. Moves are read from in and the
// board is drawn to out.
func NewClient(conn net.Conn, in io.Reader, out io.Writer) *Client {
	return &Client{conn: conn, in: bufio.NewReader(in), out: out}
}

// Connect connects to a server, sends the join message, and runs the REPL on
// stdin and stdout.
func Connect(ctx context.Context, addr string, opts JoinOptions) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	c := NewClient(conn, os.Stdin, os.Stdout)
	if err := c.Join(opts); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Connected! Dealing cards...")
	return c.RunREPL(ctx)
}

// Join sends the handshake.
func (c *Client) Join(opts JoinOptions) error {
	msg := ClientMessage{Type: MsgJoin, PlayerID: opts.PlayerID, HandNumber: opts.HandNumber, Level: opts.Level}
	if err := json.NewEncoder(c.conn).Encode(msg); err != nil {
		return fmt.Errorf("send join: %w", err)
	}
	return nil
}

// RunREPL reads server messages and handles them interactively until the
// match is over.
func (c *Client) RunREPL(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()

	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case MsgMove:
			c.renderMove(msg.Move)

		case MsgError:
			fmt.Fprintf(c.out, "Rejected: %s\n", msg.Error)

		case MsgChooseMove:
			if msg.State == nil {
				return fmt.Errorf("%s message without state", MsgChooseMove)
			}
			c.renderState(msg.State)
			handIndex, cell, err := c.readMove(len(msg.State.PlayerHand))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgPlace, HandIndex: handIndex, Cell: cell}); err != nil {
				return fmt.Errorf("send place: %w", err)
			}

		case MsgChooseCard:
			fmt.Fprintln(c.out, "\nYou won! Take one of the AI's cards:")
			for i, cv := range msg.Candidates {
				fmt.Fprintf(c.out, "  %d) %s\n", i+1, formatCard(cv))
			}
			idx, err := c.readChoice(len(msg.Candidates))
			if err != nil {
				return err
			}
			if err := enc.Encode(ClientMessage{Type: MsgPickCard, Index: idx}); err != nil {
				return fmt.Errorf("send pick_card: %w", err)
			}

		case MsgGameOver:
			if msg.State != nil {
				c.renderBoard(msg.State)
			}
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          GAME OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			if msg.Exchange != nil {
				fmt.Fprintln(c.out, msg.Exchange.Message)
			}
			if msg.Reward != nil {
				fmt.Fprintf(c.out, "Consolation card: %s\n", formatCard(*msg.Reward))
			}
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

func (c *Client) renderMove(mv *game.MoveView) {
	if mv == nil {
		return
	}
	who := "You"
	if mv.Side == game.SideAI.String() {
		who = "AI"
	}
	fmt.Fprintf(c.out, "%-3s | %s -> cell %d", who, mv.PlacedCard.Name, mv.Position+1)
	if len(mv.CapturedCards) > 0 {
		names := make([]string, len(mv.CapturedCards))
		for i, cp := range mv.CapturedCards {
			names[i] = fmt.Sprintf("%s@%d (%s)", cp.Card.Name, cp.Position+1, strings.Join(cp.Reasons, "+"))
		}
		fmt.Fprintf(c.out, ", captures %s", strings.Join(names, ", "))
	}
	fmt.Fprintln(c.out)
	if mv.EndInfo != nil && mv.EndInfo.Status == game.StatusSuddenDeath.String() {
		fmt.Fprintf(c.out, "Draw! Sudden death round %d\n", mv.EndInfo.Round)
	}
}

func (c *Client) renderState(sv *game.StateView) {
	if sv == nil {
		return
	}
	c.renderBoard(sv)

	fmt.Fprintf(c.out, "Rules: %s\n", sv.Rules.String())
	if sv.SuddenDeath != nil {
		fmt.Fprintln(c.out, sv.SuddenDeath.Message)
	}
	fmt.Fprintf(c.out, "AI hand:   ")
	for _, cv := range sv.AIHand {
		fmt.Fprintf(c.out, "%s  ", formatCard(cv))
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Your hand: ")
	for i, cv := range sv.PlayerHand {
		fmt.Fprintf(c.out, "[%d] %s  ", i+1, formatCard(cv))
	}
	fmt.Fprintln(c.out)
}

func (c *Client) renderBoard(sv *game.StateView) {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Score: you %d - AI %d\n", sv.PlayerScore, sv.AIScore)
	fmt.Fprintln(c.out, "╔═════════════════╦═════════════════╦═════════════════╗")
	for row := 0; row < 3; row++ {
		fmt.Fprint(c.out, "║")
		for col := 0; col < 3; col++ {
			pos := row*3 + col
			var element string
			if pos < len(sv.Elements) {
				element = sv.Elements[pos]
			}
			var cell *game.CellView
			if pos < len(sv.Board) {
				cell = sv.Board[pos]
			}
			fmt.Fprintf(c.out, " %-15s ║", formatCell(cell, pos, element))
		}
		fmt.Fprintln(c.out)
		if row < 2 {
			fmt.Fprintln(c.out, "╠═════════════════╬═════════════════╬═════════════════╣")
		}
	}
	fmt.Fprintln(c.out, "╚═════════════════╩═════════════════╩═════════════════╝")
}

func formatCell(cell *game.CellView, pos int, element string) string {
	if cell == nil {
		if element != "" {
			return fmt.Sprintf("(%d) %s", pos+1, element)
		}
		return fmt.Sprintf("(%d)", pos+1)
	}
	owner := "Y"
	if cell.Owner == game.SideAI.String() {
		owner = "A"
	}
	return fmt.Sprintf("%s %d/%d/%d/%d", owner, cell.Top, cell.Right, cell.Bottom, cell.Left)
}

func formatCard(cv game.CardView) string {
	if cv.Hidden {
		return "[?]"
	}
	s := fmt.Sprintf("%s %d/%d/%d/%d", cv.Name, cv.Top, cv.Right, cv.Bottom, cv.Left)
	if cv.Element != "" {
		s += " " + cv.Element
	}
	return s
}

// readMove reads "hand cell", both 1-indexed, and returns them 0-indexed.
func (c *Client) readMove(handSize int) (handIndex, cell int, err error) {
	for {
		fmt.Fprint(c.out, "hand cell> ")
		line, err := c.readLine()
		if err != nil {
			return 0, 0, err
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			fmt.Fprintln(c.out, "Enter a hand card and a cell, e.g. \"2 5\"")
			continue
		}
		h, herr := strconv.Atoi(parts[0])
		p, perr := strconv.Atoi(parts[1])
		if herr != nil || perr != nil || h < 1 || h > handSize || p < 1 || p > game.BoardSize {
			fmt.Fprintf(c.out, "Hand card is 1-%d, cell is 1-%d\n", handSize, game.BoardSize)
			continue
		}
		return h - 1, p - 1, nil
	}
}

func (c *Client) readChoice(count int) (int, error) {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > count {
			fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
			continue
		}
		return n - 1, nil
	}
}

// readLine returns the next trimmed input line. A final line without a
// newline is still returned; io.EOF is reported once input is exhausted.
func (c *Client) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
