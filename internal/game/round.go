// Package game implements the authoritative round engine for one room:
// seat assignment, the cut deal, and the play/pass turn state machine.
// The engine is not safe for concurrent use; the lobby serializes access
// per room.
package game

import (
	"errors"
	rand "math/rand/v2"

	"github.com/lox/bigtwo/internal/deck"
	"github.com/lox/bigtwo/internal/rules"
)

// Phase tracks the round lifecycle. A room may host many rounds: after
// PhaseRoundOver, ShuffleAndDeal and Start begin a fresh one with the win
// tallies preserved.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseDealt
	PhaseInPlay
	PhaseRoundOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseDealt:
		return "dealt"
	case PhaseInPlay:
		return "inplay"
	case PhaseRoundOver:
		return "roundover"
	default:
		return "unknown"
	}
}

// MaxSeats is the seat capacity of a round.
const MaxSeats = 4

// Structural errors from seat management. Expected turn rejections are
// reported through the ok results of Play and Pass instead.
var (
	ErrSeatsFull     = errors.New("all seats are taken")
	ErrRoundStarted  = errors.New("round already started")
	ErrAlreadySeated = errors.New("player already seated")
	ErrUnknownPlayer = errors.New("player not seated")
)

// Seat is one occupied position: the player holding it and their cumulative
// win count across rounds in this room.
type Seat struct {
	PlayerID string
	Wins     int
}

// Opponent summarizes another seat for the startgame payload.
type Opponent struct {
	Seat     int
	HandSize int
}

// TurnResult reports the outcome of a successful play or pass.
type TurnResult struct {
	Seat      int  // the seat that acted
	NextSeat  int  // the seat now current
	HandSize  int  // cards remaining in the acting seat's hand
	RoundOver bool // true when the acting seat emptied its hand
}

// Round owns one room's deck, hands and turn state. The deal always fills
// four hands; with fewer seated players the surplus hands stay dealt but
// unused.
type Round struct {
	rng        *rand.Rand
	seats      []Seat
	hands      [MaxSeats][]deck.Card
	discards   []deck.Card
	phase      Phase
	current    int
	turn       int
	lastPlayed []deck.Card
	passes     int
}

// NewRound creates an empty round in the lobby phase.
func NewRound(rng *rand.Rand) *Round {
	return &Round{rng: rng}
}

// AddPlayer assigns the next free seat in join order. Valid only in the
// lobby phase.
func (r *Round) AddPlayer(playerID string) (int, error) {
	if r.phase != PhaseLobby {
		return 0, ErrRoundStarted
	}
	if len(r.seats) >= MaxSeats {
		return 0, ErrSeatsFull
	}
	if _, ok := r.Seat(playerID); ok {
		return 0, ErrAlreadySeated
	}
	r.seats = append(r.seats, Seat{PlayerID: playerID})
	return len(r.seats) - 1, nil
}

// RemovePlayer withdraws a seat before the round starts, reindexing the
// seats that follow. It reports whether the player was seated.
func (r *Round) RemovePlayer(playerID string) bool {
	if r.phase != PhaseLobby {
		return false
	}
	seat, ok := r.Seat(playerID)
	if !ok {
		return false
	}
	r.seats = append(r.seats[:seat], r.seats[seat+1:]...)
	return true
}

// ShuffleAndDeal shuffles the deck and distributes it with a cut: a random
// burned card value rotates which hand receives each deal slot, then the
// shuffled deck is dealt sequentially, 13 rounds of 4.
func (r *Round) ShuffleAndDeal() {
	cards := deck.New()
	deck.Shuffle(cards, r.rng)
	cut := int(cards[r.rng.IntN(deck.Size)])

	for i := range r.hands {
		r.hands[i] = r.hands[i][:0]
	}
	for i := 0; i < 13; i++ {
		for j := 0; j < 4; j++ {
			h := (j + cut) % MaxSeats
			r.hands[h] = append(r.hands[h], cards[i*4+j])
		}
	}
	for i := range r.hands {
		deck.SortByFixed(r.hands[i])
	}

	r.discards = nil
	r.lastPlayed = nil
	r.passes = 0
	r.turn = 0
	r.phase = PhaseDealt
}

// Start fixes the turn order and returns the opening seat: the occupied
// seat holding the lowest fixed-rank card. Valid only after a deal.
func (r *Round) Start() (int, bool) {
	if r.phase != PhaseDealt || len(r.seats) == 0 {
		return 0, false
	}
	opener, found := 0, false
	var lowest deck.Card
	for seat := range r.seats {
		if low, ok := lowestFixed(r.hands[seat]); ok && (!found || low.Fixed() < lowest.Fixed()) {
			opener, lowest, found = seat, low, true
		}
	}
	r.current = opener
	r.phase = PhaseInPlay
	return opener, true
}

// Play validates and applies a play for the given player. All checks run
// before any state is written, so a rejected play mutates nothing. On the
// opening turn the play must include the opener's own lowest fixed card.
func (r *Round) Play(playerID string, cards []deck.Card) (TurnResult, bool) {
	seat, ok := r.Seat(playerID)
	if !ok || r.phase != PhaseInPlay || seat != r.current {
		return TurnResult{}, false
	}
	if len(cards) == 0 || !deck.Contains(r.hands[seat], cards) {
		return TurnResult{}, false
	}
	if !rules.Beats(r.lastPlayed, cards) {
		return TurnResult{}, false
	}
	if r.turn == 0 {
		low, _ := lowestFixed(r.hands[seat])
		if !deck.Contains(cards, []deck.Card{low}) {
			return TurnResult{}, false
		}
	}

	r.hands[seat] = deck.Remove(r.hands[seat], cards)
	r.discards = append(r.discards, cards...)
	r.lastPlayed = append([]deck.Card(nil), cards...)
	r.passes = 0
	r.turn++
	r.current = (r.current + 1) % len(r.seats)

	res := TurnResult{Seat: seat, NextSeat: r.current, HandSize: len(r.hands[seat])}
	if res.HandSize == 0 {
		r.phase = PhaseRoundOver
		r.seats[seat].Wins++
		res.RoundOver = true
	}
	return res, true
}

// Pass skips the given player's turn. Passing on a free lead is rejected.
// Once everyone but the last player to act has passed, the table clears
// and the next seat leads freely.
func (r *Round) Pass(playerID string) (TurnResult, bool) {
	seat, ok := r.Seat(playerID)
	if !ok || r.phase != PhaseInPlay || seat != r.current {
		return TurnResult{}, false
	}
	if len(r.lastPlayed) == 0 {
		return TurnResult{}, false
	}

	r.passes++
	r.turn++
	r.current = (r.current + 1) % len(r.seats)
	if r.passes == len(r.seats)-1 {
		r.lastPlayed = nil
		r.passes = 0
	}
	return TurnResult{Seat: seat, NextSeat: r.current, HandSize: len(r.hands[seat])}, true
}

// Seat returns the seat index for a player id.
func (r *Round) Seat(playerID string) (int, bool) {
	for i, s := range r.seats {
		if s.PlayerID == playerID {
			return i, true
		}
	}
	return 0, false
}

// Hand returns the cards held by a player, sorted by fixed rank.
func (r *Round) Hand(playerID string) []deck.Card {
	seat, ok := r.Seat(playerID)
	if !ok {
		return nil
	}
	return append([]deck.Card(nil), r.hands[seat]...)
}

// Opponents summarizes every other occupied seat for a player.
func (r *Round) Opponents(playerID string) []Opponent {
	seat, ok := r.Seat(playerID)
	if !ok {
		return nil
	}
	opponents := make([]Opponent, 0, len(r.seats)-1)
	for i := range r.seats {
		if i != seat {
			opponents = append(opponents, Opponent{Seat: i, HandSize: len(r.hands[i])})
		}
	}
	return opponents
}

// Wins returns the cumulative win tally per seat, in seat order.
func (r *Round) Wins() []int {
	wins := make([]int, len(r.seats))
	for i, s := range r.seats {
		wins[i] = s.Wins
	}
	return wins
}

// Players returns the seated player ids in seat order.
func (r *Round) Players() []string {
	players := make([]string, len(r.seats))
	for i, s := range r.seats {
		players[i] = s.PlayerID
	}
	return players
}

// NumPlayers returns the number of occupied seats.
func (r *Round) NumPlayers() int {
	return len(r.seats)
}

// Started reports whether the round has left the lobby phase. A started
// room tears down entirely when any occupant disconnects.
func (r *Round) Started() bool {
	return r.phase != PhaseLobby
}

// InProgress reports whether a round is dealt or being played. A finished
// round is not in progress: ShuffleAndDeal and Start may run again to begin
// the next one.
func (r *Round) InProgress() bool {
	return r.phase == PhaseDealt || r.phase == PhaseInPlay
}

// Phase returns the current lifecycle phase.
func (r *Round) Phase() Phase {
	return r.phase
}

// LastPlayed returns the hand currently on the table, nil on a free lead.
func (r *Round) LastPlayed() []deck.Card {
	return append([]deck.Card(nil), r.lastPlayed...)
}

// CurrentSeat returns the seat whose turn it is.
func (r *Round) CurrentSeat() int {
	return r.current
}

// Discards returns every card played so far this round.
func (r *Round) Discards() []deck.Card {
	return append([]deck.Card(nil), r.discards...)
}

func lowestFixed(hand []deck.Card) (deck.Card, bool) {
	if len(hand) == 0 {
		return 0, false
	}
	low := hand[0]
	for _, c := range hand[1:] {
		if c.Fixed() < low.Fixed() {
			low = c
		}
	}
	return low, true
}
