package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/triad/internal/game"
	"github.com/peterkuimelis/triad/internal/service"
)

// Tools exposes a match service as MCP tools. The agent plays the player
// side; the engine AI answers every placement before the tool returns.
type Tools struct {
	svc *service.Service
}

// NewTools wraps svc.
func NewTools(svc *service.Service) *Tools {
	return &Tools{svc: svc}
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer, svc *service.Service) {
	t := NewTools(svc)
	s.AddTool(listCardsTool(), t.handleListCards)
	s.AddTool(startMatchTool(), t.handleStartMatch)
	s.AddTool(placeCardTool(), t.handlePlaceCard)
	s.AddTool(getMatchTool(), t.handleGetMatch)
	s.AddTool(exchangeCardTool(), t.handleExchangeCard)
	s.AddTool(abandonMatchTool(), t.handleAbandonMatch)
	s.AddTool(playerStatsTool(), t.handlePlayerStats)
}

// --- Tool definitions ---

func listCardsTool() mcp.Tool {
	return mcp.NewTool("list_cards",
		mcp.WithDescription("List card definitions. Values are top/right/bottom/left, 1-10 where 10 is shown as A in the original game."),
		mcp.WithBoolean("starter", mcp.Description("true to list only the 10 starter cards a new player may pick from")),
	)
}

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a new Triple Triad match against the AI. Returns the match id and state. "+
			"If the AI won the toss its opening move is already made."),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Player the match and its stats belong to")),
		mcp.WithNumber("level", mcp.Description("Difficulty 1-10; higher levels enable more rules. Defaults to the server setting")),
		mcp.WithString("card_ids", mcp.Description("Space-separated ids of exactly 5 cards for the player's hand; empty deals random starter cards")),
	)
}

func placeCardTool() mcp.Tool {
	return mcp.NewTool("place_card",
		mcp.WithDescription("Place a card from the player's hand onto an empty cell. The AI replies before this returns; "+
			"the response lists every move made. Cells are 0-8, row by row from the top left."),
		mcp.WithString("match_id", mcp.Required(), mcp.Description("Match id from start_match")),
		mcp.WithNumber("hand_index", mcp.Required(), mcp.Description("0-based index into playerHand")),
		mcp.WithNumber("cell", mcp.Required(), mcp.Description("0-based board cell")),
	)
}

func getMatchTool() mcp.Tool {
	return mcp.NewTool("get_match",
		mcp.WithDescription("Get the current state of a match without changing it. Read-only."),
		mcp.WithString("match_id", mcp.Required(), mcp.Description("Match id from start_match")),
	)
}

func exchangeCardTool() mcp.Tool {
	return mcp.NewTool("exchange_card",
		mcp.WithDescription("Resolve the card exchange of a finished match. After a win, pass the id of one of the AI's "+
			"original cards to take it; after a loss, leave card_id empty and the AI takes one of yours."),
		mcp.WithString("match_id", mcp.Required(), mcp.Description("Match id from start_match")),
		mcp.WithString("card_id", mcp.Description("Id of the AI card to take after a win")),
	)
}

func abandonMatchTool() mcp.Tool {
	return mcp.NewTool("abandon_match",
		mcp.WithDescription("Delete a match."),
		mcp.WithString("match_id", mcp.Required(), mcp.Description("Match id from start_match")),
	)
}

func playerStatsTool() mcp.Tool {
	return mcp.NewTool("player_stats",
		mcp.WithDescription("Get a player's accumulated wins, losses, draws and card exchanges. Read-only."),
		mcp.WithString("player_id", mcp.Required(), mcp.Description("Player id")),
	)
}

// --- Responses ---

// ExchangeResponse is returned by exchange_card. Reward is a consolation
// card offered after a loss.
type ExchangeResponse struct {
	service.ExchangeInfo
	Reward *game.CardView `json:"reward,omitempty"`
}

func respondJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return `{"error": "failed to marshal response"}`
	}
	return string(data)
}

// --- Tool handlers ---

func (t *Tools) handleListCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("starter", false) {
		return mcp.NewToolResultText(respondJSON(t.svc.StarterCards())), nil
	}
	return mcp.NewToolResultText(respondJSON(t.svc.Cards())), nil
}

func (t *Tools) handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerID := request.GetString("player_id", "")
	if playerID == "" {
		return mcp.NewToolResultError("player_id is required"), nil
	}
	req := service.CreateRequest{
		PlayerID: playerID,
		Level:    request.GetInt("level", 0),
		CardIDs:  strings.Fields(request.GetString("card_ids", "")),
	}

	info, err := t.svc.CreateMatch(ctx, req)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}
	turn, err := t.svc.AIReplies(ctx, info.ID)
	if err != nil {
		return mcp.NewToolResultErrorf("AI opening move failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(turn)), nil
}

func (t *Tools) handlePlaceCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("match_id", "")
	handIndex := request.GetInt("hand_index", -1)
	cell := request.GetInt("cell", -1)
	if handIndex < 0 || handIndex >= game.HandSize {
		return mcp.NewToolResultErrorf("Invalid hand_index %d. Must be 0-%d.", handIndex, game.HandSize-1), nil
	}
	if cell < 0 || cell >= game.BoardSize {
		return mcp.NewToolResultErrorf("Invalid cell %d. Must be 0-%d.", cell, game.BoardSize-1), nil
	}

	turn, err := t.svc.Play(ctx, id, handIndex, cell)
	if err != nil {
		return mcp.NewToolResultErrorf("Move rejected: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(turn)), nil
}

func (t *Tools) handleGetMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info, err := t.svc.GetMatch(ctx, request.GetString("match_id", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(info)), nil
}

func (t *Tools) handleExchangeCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("match_id", "")
	cardID := request.GetString("card_id", "")

	ex, err := t.svc.Exchange(ctx, id, cardID)
	if err != nil {
		// A missing or wrong pick after a win: show what can be taken.
		if cards, cerr := t.svc.AvailableCards(ctx, id); cerr == nil {
			return mcp.NewToolResultErrorf("Exchange failed: %v. Pick one of: %s", err, respondJSON(cards)), nil
		}
		return mcp.NewToolResultErrorf("Exchange failed: %v", err), nil
	}

	resp := &ExchangeResponse{ExchangeInfo: ex}
	if ex.Exchange.Type == game.ExchangeAIWin.String() {
		if reward, err := t.svc.DefeatReward(ctx, id); err == nil {
			resp.Reward = &reward
		}
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) handleAbandonMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("match_id", "")
	if err := t.svc.Abandon(ctx, id); err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(map[string]string{"gameId": id, "status": "abandoned"})), nil
}

func (t *Tools) handlePlayerStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	playerID := request.GetString("player_id", "")
	if playerID == "" {
		return mcp.NewToolResultError("player_id is required"), nil
	}
	stats, err := t.svc.Stats(ctx, playerID)
	if err != nil {
		return mcp.NewToolResultErrorf("%v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(stats)), nil
}
