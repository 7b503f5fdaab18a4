package server

import "github.com/lox/bigtwo/internal/deck"

// Wire envelopes are flat JSON objects: {"type": ..., fields...}. Cards
// travel as integers 0-51; clients derive rank and suit themselves. Seat
// numbers on the wire (lastPlayer, currentPlayer, winner, opponentNum) are
// 1-based for the client renderer.

// Inbound message types.
const (
	TypeCreateGame = "creategame"
	TypeJoinGame   = "joingame"
	TypeStartGame  = "startgame"
	TypePlayTurn   = "playturn"
	TypePassTurn   = "passturn"
	TypeLeaveGame  = "leavegame"
)

// Outbound-only message types. Creategame, joingame and startgame responses
// reuse the inbound type names.
const (
	TypeNumPlayers     = "numplayers"
	TypeTurnStart      = "turnstart"
	TypePlaySuccess    = "playsuccess"
	TypePassSuccess    = "passsuccess"
	TypeTurnCards      = "turncards"
	TypeTurnPass       = "turnpass"
	TypeUpdateOpponent = "updateopponent"
	TypeGameOver       = "gameover"
	TypeGameDisconnect = "gamedisconnect"
)

// Request is the single inbound envelope; unused fields stay zero for
// message types that don't carry them.
type Request struct {
	Type   string      `json:"type"`
	GameID string      `json:"gameid,omitempty"`
	Cards  []deck.Card `json:"cards,omitempty"`
}

// CreateGameMsg acknowledges a creategame request.
type CreateGameMsg struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// JoinGameMsg acknowledges a joingame request.
type JoinGameMsg struct {
	Type    string `json:"type"`
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// NumPlayersMsg tells everyone in a room its current seat count.
type NumPlayersMsg struct {
	Type string `json:"type"`
	Num  int    `json:"num"`
}

// OpponentInfo summarizes another seat in the startgame payload.
type OpponentInfo struct {
	OpponentNum      int `json:"opponentNum"`
	OpponentHandSize int `json:"opponentHandSize"`
}

// StartGameMsg carries a seat's private hand plus its opponents' hand
// sizes. The hand is sorted lowest fixed rank first.
type StartGameMsg struct {
	Type      string         `json:"type"`
	Hand      []deck.Card    `json:"hand"`
	Opponents []OpponentInfo `json:"opponents"`
}

// TurnStartMsg tells one seat its turn has begun.
type TurnStartMsg struct {
	Type string `json:"type"`
}

// PlaySuccessMsg acknowledges a validated play to the actor.
type PlaySuccessMsg struct {
	Type string `json:"type"`
}

// PassSuccessMsg acknowledges a validated pass to the actor.
type PassSuccessMsg struct {
	Type string `json:"type"`
}

// TurnCardsMsg broadcasts a play to the whole room.
type TurnCardsMsg struct {
	Type       string      `json:"type"`
	LastPlayer int         `json:"lastPlayer"`
	HandSize   int         `json:"handSize"`
	Cards      []deck.Card `json:"cards"`
}

// TurnPassMsg broadcasts a pass to the whole room.
type TurnPassMsg struct {
	Type       string `json:"type"`
	LastPlayer int    `json:"lastPlayer"`
}

// UpdateOpponentMsg broadcasts which seat is now current.
type UpdateOpponentMsg struct {
	Type          string `json:"type"`
	CurrentPlayer int    `json:"currentPlayer"`
}

// GameOverMsg broadcasts the round winner and per-seat win tallies.
type GameOverMsg struct {
	Type    string `json:"type"`
	Winner  int    `json:"winner"`
	NumWins []int  `json:"numWins"`
}

// GameDisconnectMsg tells a room's surviving occupants their game is gone.
type GameDisconnectMsg struct {
	Type string `json:"type"`
}

func newCreateGameMsg(id string, success bool) CreateGameMsg {
	return CreateGameMsg{Type: TypeCreateGame, ID: id, Success: success}
}

func newJoinGameMsg(id string, success bool) JoinGameMsg {
	return JoinGameMsg{Type: TypeJoinGame, ID: id, Success: success}
}

func newNumPlayersMsg(num int) NumPlayersMsg {
	return NumPlayersMsg{Type: TypeNumPlayers, Num: num}
}

func newStartGameMsg(hand []deck.Card, opponents []OpponentInfo) StartGameMsg {
	return StartGameMsg{Type: TypeStartGame, Hand: hand, Opponents: opponents}
}

func newTurnStartMsg() TurnStartMsg {
	return TurnStartMsg{Type: TypeTurnStart}
}

func newPlaySuccessMsg() PlaySuccessMsg {
	return PlaySuccessMsg{Type: TypePlaySuccess}
}

func newPassSuccessMsg() PassSuccessMsg {
	return PassSuccessMsg{Type: TypePassSuccess}
}

func newTurnCardsMsg(lastPlayer, handSize int, cards []deck.Card) TurnCardsMsg {
	return TurnCardsMsg{Type: TypeTurnCards, LastPlayer: lastPlayer, HandSize: handSize, Cards: cards}
}

func newTurnPassMsg(lastPlayer int) TurnPassMsg {
	return TurnPassMsg{Type: TypeTurnPass, LastPlayer: lastPlayer}
}

func newUpdateOpponentMsg(currentPlayer int) UpdateOpponentMsg {
	return UpdateOpponentMsg{Type: TypeUpdateOpponent, CurrentPlayer: currentPlayer}
}

func newGameOverMsg(winner int, numWins []int) GameOverMsg {
	return GameOverMsg{Type: TypeGameOver, Winner: winner, NumWins: numWins}
}

func newGameDisconnectMsg() GameDisconnectMsg {
	return GameDisconnectMsg{Type: TypeGameDisconnect}
}
