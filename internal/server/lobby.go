package server

import (
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/bigtwo/internal/deck"
	"github.com/lox/bigtwo/internal/game"
	"github.com/lox/bigtwo/internal/gameid"
	"github.com/lox/bigtwo/internal/randutil"
)

// session is a connected client as the lobby sees it: an opaque player id
// plus an outbound message sink. Connection implements it; tests substitute
// a recorder.
type session interface {
	ID() string
	Send(msg any) error
}

// Room binds one round engine to the sessions seated at it. The mutex
// serializes all engine access so rooms never interleave mutations, while
// operations on different rooms proceed independently.
type Room struct {
	id       string
	mu       sync.Mutex
	round    *game.Round
	sessions map[string]session
	closed   bool
}

// Lobby is the session router: it owns the room registry and the
// player-to-room mapping, translates inbound requests into round engine
// calls, and fans engine results out to every seat in the room.
type Lobby struct {
	logger *log.Logger
	rng    *rand.Rand
	ids    *gameid.Generator

	mu      sync.Mutex
	rooms   map[string]*Room
	players map[string]*Room
}

// NewLobby creates an empty lobby. Each room gets its own RNG stream
// derived from rng, so room shuffles never contend.
func NewLobby(logger *log.Logger, rng *rand.Rand, ids *gameid.Generator) *Lobby {
	return &Lobby{
		logger:  logger.WithPrefix("lobby"),
		rng:     rng,
		ids:     ids,
		rooms:   make(map[string]*Room),
		players: make(map[string]*Room),
	}
}

// CreateGame allocates a fresh room and auto-joins the requester. A player
// already seated somewhere gets success:false.
func (l *Lobby) CreateGame(s session) {
	l.mu.Lock()
	if _, seated := l.players[s.ID()]; seated {
		l.mu.Unlock()
		_ = s.Send(newCreateGameMsg("", false))
		return
	}

	var id string
	for {
		id = l.ids.Generate()
		if _, taken := l.rooms[id]; !taken {
			break
		}
	}

	room := &Room{
		id:       id,
		round:    game.NewRound(randutil.New(l.rng.Int64())),
		sessions: map[string]session{s.ID(): s},
	}
	if _, err := room.round.AddPlayer(s.ID()); err != nil {
		// A fresh round always has a free seat
		panic("bigtwo: seating creator in empty room: " + err.Error())
	}
	l.rooms[id] = room
	l.players[s.ID()] = room
	l.mu.Unlock()

	l.logger.Info("Room created", "room", id, "player", s.ID())
	_ = s.Send(newCreateGameMsg(id, true))
	l.broadcastNumPlayers(room)
}

// JoinGame seats the requester in an existing room. Already seated, an
// unknown room id, or a full/started room all yield success:false.
func (l *Lobby) JoinGame(s session, roomID string) {
	l.mu.Lock()
	room, exists := l.rooms[roomID]
	if _, seated := l.players[s.ID()]; seated || !exists {
		l.mu.Unlock()
		_ = s.Send(newJoinGameMsg("", false))
		return
	}

	room.mu.Lock()
	if _, err := room.round.AddPlayer(s.ID()); err != nil {
		room.mu.Unlock()
		l.mu.Unlock()
		l.logger.Info("Join rejected", "room", roomID, "player", s.ID(), "reason", err)
		_ = s.Send(newJoinGameMsg("", false))
		return
	}
	room.sessions[s.ID()] = s
	room.mu.Unlock()
	l.players[s.ID()] = room
	l.mu.Unlock()

	l.logger.Info("Player joined", "room", roomID, "player", s.ID())
	_ = s.Send(newJoinGameMsg(roomID, true))
	l.broadcastNumPlayers(room)
}

// StartGame deals the requester's room and opens play. Ineligible requests
// (no room, too few seats, a round in progress) are rejected silently. A
// finished round restarts: the room keeps its seats and win tallies across
// rounds.
func (l *Lobby) StartGame(s session) {
	room := l.roomFor(s)
	if room == nil {
		l.logger.Warn("Start without a room", "player", s.ID())
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed || room.round.InProgress() || room.round.NumPlayers() < 2 {
		l.logger.Warn("Start rejected", "room", room.id, "players", room.round.NumPlayers(), "phase", room.round.Phase())
		return
	}

	room.round.ShuffleAndDeal()
	for _, pid := range room.round.Players() {
		opponents := room.round.Opponents(pid)
		infos := make([]OpponentInfo, len(opponents))
		for i, o := range opponents {
			infos[i] = OpponentInfo{OpponentNum: o.Seat + 1, OpponentHandSize: o.HandSize}
		}
		room.send(pid, newStartGameMsg(room.round.Hand(pid), infos))
	}

	opener, ok := room.round.Start()
	if !ok {
		panic("bigtwo: start after deal cannot fail")
	}
	l.logger.Info("Round started", "room", room.id, "opener", opener)

	room.send(room.round.Players()[opener], newTurnStartMsg())
	room.broadcast(newUpdateOpponentMsg(opener + 1))
}

// PlayTurn forwards a play to the room's engine and fans out the result.
// Invalid plays are logged server-side and acknowledged with nothing.
func (l *Lobby) PlayTurn(s session, cards []deck.Card) {
	room := l.roomFor(s)
	if room == nil {
		l.logger.Warn("Play without a room", "player", s.ID())
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}
	res, ok := room.round.Play(s.ID(), cards)
	if !ok {
		l.logger.Info("Play rejected", "room", room.id, "player", s.ID(), "cards", cards)
		return
	}
	l.logger.Info("Cards played", "room", room.id, "player", s.ID(), "cards", cards, "remaining", res.HandSize)

	_ = s.Send(newPlaySuccessMsg())
	room.send(room.round.Players()[res.NextSeat], newTurnStartMsg())
	room.broadcast(newTurnCardsMsg(res.Seat+1, res.HandSize, cards))
	room.broadcast(newUpdateOpponentMsg(res.NextSeat + 1))

	if res.RoundOver {
		l.logger.Info("Round over", "room", room.id, "winner", res.Seat)
		room.broadcast(newGameOverMsg(res.Seat+1, room.round.Wins()))
	}
}

// PassTurn forwards a pass to the room's engine and fans out the result.
func (l *Lobby) PassTurn(s session) {
	room := l.roomFor(s)
	if room == nil {
		l.logger.Warn("Pass without a room", "player", s.ID())
		return
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	if room.closed {
		return
	}
	res, ok := room.round.Pass(s.ID())
	if !ok {
		l.logger.Info("Pass rejected", "room", room.id, "player", s.ID())
		return
	}
	l.logger.Info("Turn passed", "room", room.id, "player", s.ID())

	_ = s.Send(newPassSuccessMsg())
	room.send(room.round.Players()[res.NextSeat], newTurnStartMsg())
	room.broadcast(newTurnPassMsg(res.Seat + 1))
	room.broadcast(newUpdateOpponentMsg(res.NextSeat + 1))
}

// Leave removes a player from their room, on an explicit leavegame or on
// disconnect. An unstarted room just loses the seat and closes when empty;
// a started room tears down entirely and every other occupant is notified
// and evicted. Safe to call for players in no room.
func (l *Lobby) Leave(s session) {
	l.mu.Lock()
	room, ok := l.players[s.ID()]
	if !ok {
		l.mu.Unlock()
		l.logger.Debug("Leave without a room", "player", s.ID())
		return
	}
	delete(l.players, s.ID())

	room.mu.Lock()
	if room.round.Started() {
		room.closed = true
		for pid, sess := range room.sessions {
			if pid == s.ID() {
				continue
			}
			_ = sess.Send(newGameDisconnectMsg())
			delete(l.players, pid)
		}
		delete(l.rooms, room.id)
		room.mu.Unlock()
		l.mu.Unlock()
		l.logger.Info("Room closed", "room", room.id, "reason", "player left a started round")
		return
	}

	delete(room.sessions, s.ID())
	room.round.RemovePlayer(s.ID())
	empty := room.round.NumPlayers() == 0
	if empty {
		delete(l.rooms, room.id)
	}
	room.mu.Unlock()
	l.mu.Unlock()

	if empty {
		l.logger.Info("Room closed", "room", room.id, "reason", "empty")
		return
	}
	l.logger.Info("Player left", "room", room.id, "player", s.ID())
	l.broadcastNumPlayers(room)
}

// NumRooms returns the number of open rooms.
func (l *Lobby) NumRooms() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}

// RoomFor returns the room id a player is seated in, if any.
func (l *Lobby) RoomFor(playerID string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	room, ok := l.players[playerID]
	if !ok {
		return "", false
	}
	return room.id, true
}

func (l *Lobby) roomFor(s session) *Room {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.players[s.ID()]
}

func (l *Lobby) broadcastNumPlayers(room *Room) {
	room.mu.Lock()
	defer room.mu.Unlock()
	room.broadcast(newNumPlayersMsg(room.round.NumPlayers()))
}

// send delivers a message to one seat. Callers hold room.mu.
func (r *Room) send(playerID string, msg any) {
	if sess, ok := r.sessions[playerID]; ok {
		_ = sess.Send(msg)
	}
}

// broadcast delivers a message to every seat. Callers hold room.mu.
func (r *Room) broadcast(msg any) {
	for _, sess := range r.sessions {
		_ = sess.Send(msg)
	}
}
