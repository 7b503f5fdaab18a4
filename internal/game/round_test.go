package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bigtwo/internal/deck"
	"github.com/lox/bigtwo/internal/randutil"
	"github.com/lox/bigtwo/internal/rules"
)

func newTestRound(t *testing.T, seed int64, players ...string) *Round {
	t.Helper()
	r := NewRound(randutil.New(seed))
	for _, p := range players {
		_, err := r.AddPlayer(p)
		require.NoError(t, err)
	}
	return r
}

func TestAddPlayerAssignsSeatsInJoinOrder(t *testing.T) {
	r := NewRound(randutil.New(1))
	for i, p := range []string{"alice", "bob", "carol", "dave"} {
		seat, err := r.AddPlayer(p)
		require.NoError(t, err)
		assert.Equal(t, i, seat)
	}
	assert.Equal(t, []string{"alice", "bob", "carol", "dave"}, r.Players())

	_, err := r.AddPlayer("eve")
	assert.ErrorIs(t, err, ErrSeatsFull)
}

func TestAddPlayerRejectsDuplicates(t *testing.T) {
	r := newTestRound(t, 1, "alice")
	_, err := r.AddPlayer("alice")
	assert.ErrorIs(t, err, ErrAlreadySeated)
}

func TestAddPlayerRejectedAfterDeal(t *testing.T) {
	r := newTestRound(t, 1, "alice", "bob")
	r.ShuffleAndDeal()
	_, err := r.AddPlayer("carol")
	assert.ErrorIs(t, err, ErrRoundStarted)
}

func TestRemovePlayerReindexesSeats(t *testing.T) {
	r := newTestRound(t, 1, "alice", "bob", "carol")
	require.True(t, r.RemovePlayer("bob"))
	assert.Equal(t, []string{"alice", "carol"}, r.Players())

	seat, ok := r.Seat("carol")
	require.True(t, ok)
	assert.Equal(t, 1, seat)

	assert.False(t, r.RemovePlayer("bob"), "already gone")

	r.ShuffleAndDeal()
	assert.False(t, r.RemovePlayer("alice"), "round started")
}

func TestShuffleAndDealConservesTheDeck(t *testing.T) {
	r := newTestRound(t, 3, "alice", "bob", "carol", "dave")
	r.ShuffleAndDeal()

	seen := make(map[deck.Card]bool)
	for _, p := range r.Players() {
		hand := r.Hand(p)
		assert.Len(t, hand, 13)
		for _, c := range hand {
			assert.False(t, seen[c], "card %v dealt twice", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, deck.Size)
}

func TestShuffleAndDealSortsHands(t *testing.T) {
	r := newTestRound(t, 3, "alice", "bob")
	r.ShuffleAndDeal()

	for _, p := range r.Players() {
		hand := r.Hand(p)
		for i := 1; i < len(hand); i++ {
			assert.Less(t, hand[i-1].Fixed(), hand[i].Fixed())
		}
	}
}

func TestStartPicksSeatWithLowestFixedCard(t *testing.T) {
	r := newTestRound(t, 5, "alice", "bob", "carol", "dave")
	r.ShuffleAndDeal()

	opener, ok := r.Start()
	require.True(t, ok)

	lowest := deck.Card(0)
	found := false
	for _, p := range r.Players() {
		for _, c := range r.Hand(p) {
			if !found || c.Fixed() < lowest.Fixed() {
				lowest, found = c, true
			}
		}
	}
	assert.True(t, deck.Contains(r.Hand(r.Players()[opener]), []deck.Card{lowest}))
	assert.Equal(t, opener, r.CurrentSeat())
	assert.Equal(t, PhaseInPlay, r.Phase())
}

func TestStartRequiresADeal(t *testing.T) {
	r := newTestRound(t, 1, "alice", "bob")
	_, ok := r.Start()
	assert.False(t, ok)
}

func TestOpeningPlayMustIncludeLowestCard(t *testing.T) {
	r := newTestRound(t, 7, "alice", "bob")
	r.ShuffleAndDeal()
	opener, ok := r.Start()
	require.True(t, ok)

	pid := r.Players()[opener]
	hand := r.Hand(pid)

	// Hands are sorted, so the lowest fixed card is first
	_, ok = r.Play(pid, []deck.Card{hand[len(hand)-1]})
	assert.False(t, ok, "opening without the lowest card")

	res, ok := r.Play(pid, []deck.Card{hand[0]})
	require.True(t, ok)
	assert.Equal(t, opener, res.Seat)
	assert.Equal(t, 12, res.HandSize)
}

func TestPlayRejections(t *testing.T) {
	r := newTestRound(t, 7, "alice", "bob")
	r.ShuffleAndDeal()
	opener, _ := r.Start()

	pid := r.Players()[opener]
	other := r.Players()[(opener+1)%2]
	hand := r.Hand(pid)

	_, ok := r.Play(other, []deck.Card{r.Hand(other)[0]})
	assert.False(t, ok, "out of turn")

	_, ok = r.Play("mallory", []deck.Card{hand[0]})
	assert.False(t, ok, "unknown player")

	_, ok = r.Play(pid, nil)
	assert.False(t, ok, "empty play")

	_, ok = r.Play(pid, r.Hand(other)[:1])
	assert.False(t, ok, "cards not held")

	// a rejected play leaves the hand untouched
	assert.Equal(t, hand, r.Hand(pid))
}

func TestPlayMustBeatTheTable(t *testing.T) {
	r := newTestRound(t, 7, "alice", "bob")
	r.ShuffleAndDeal()
	opener, _ := r.Start()

	pid := r.Players()[opener]
	next := r.Players()[(opener+1)%2]

	res, ok := r.Play(pid, r.Hand(pid)[:1])
	require.True(t, ok)
	assert.Equal(t, (opener+1)%2, res.NextSeat)

	// Two cards never beat a single
	_, ok = r.Play(next, r.Hand(next)[:2])
	assert.False(t, ok)

	// Any held single beats the table's lowest card
	_, ok = r.Play(next, r.Hand(next)[:1])
	assert.True(t, ok)
}

func TestPassClearsTableAfterFullCycle(t *testing.T) {
	r := newTestRound(t, 9, "alice", "bob", "carol")
	r.ShuffleAndDeal()
	opener, _ := r.Start()

	pid := r.Players()[opener]

	// Passing on a free lead is rejected
	_, ok := r.Pass(pid)
	assert.False(t, ok)

	_, ok = r.Play(pid, r.Hand(pid)[:1])
	require.True(t, ok)
	assert.NotEmpty(t, r.LastPlayed())

	// The other two seats pass; the table clears and play returns to the
	// seat that last played
	for i := 1; i < 3; i++ {
		_, ok := r.Pass(r.Players()[(opener+i)%3])
		require.True(t, ok)
	}
	assert.Empty(t, r.LastPlayed())
	assert.Equal(t, opener, r.CurrentSeat())
}

func TestPassRejections(t *testing.T) {
	r := newTestRound(t, 9, "alice", "bob")
	r.ShuffleAndDeal()
	opener, _ := r.Start()

	other := r.Players()[(opener+1)%2]
	_, ok := r.Pass(other)
	assert.False(t, ok, "out of turn")
	_, ok = r.Pass("mallory")
	assert.False(t, ok, "unknown player")
}

// playGreedy drives a round to completion with every seat playing its lowest
// legal single, passing otherwise.
func playGreedy(t *testing.T, r *Round) TurnResult {
	t.Helper()
	for turns := 0; turns < 1000; turns++ {
		pid := r.Players()[r.CurrentSeat()]
		table := r.LastPlayed()

		played := false
		for _, c := range r.Hand(pid) {
			if rules.Beats(table, []deck.Card{c}) {
				res, ok := r.Play(pid, []deck.Card{c})
				require.True(t, ok)
				if res.RoundOver {
					return res
				}
				played = true
				break
			}
		}
		if !played {
			_, ok := r.Pass(pid)
			require.True(t, ok)
		}
	}
	t.Fatal("round did not finish")
	return TurnResult{}
}

func TestRoundPlaysToAWin(t *testing.T) {
	r := newTestRound(t, 11, "alice", "bob", "carol", "dave")
	r.ShuffleAndDeal()
	_, ok := r.Start()
	require.True(t, ok)

	res := playGreedy(t, r)
	assert.True(t, res.RoundOver)
	assert.Equal(t, 0, res.HandSize)
	assert.Equal(t, PhaseRoundOver, r.Phase())
	assert.Equal(t, 1, r.Wins()[res.Seat])

	// Everything played ended up in the discards
	total := len(r.Discards())
	for _, p := range r.Players() {
		total += len(r.Hand(p))
	}
	assert.Equal(t, deck.Size, total)
}

func TestInProgress(t *testing.T) {
	r := newTestRound(t, 11, "alice", "bob")
	assert.False(t, r.InProgress())

	r.ShuffleAndDeal()
	assert.True(t, r.InProgress())

	_, ok := r.Start()
	require.True(t, ok)
	assert.True(t, r.InProgress())

	playGreedy(t, r)
	assert.False(t, r.InProgress(), "a finished round can be redealt")
	assert.True(t, r.Started())
}

func TestWinsAccumulateAcrossRounds(t *testing.T) {
	r := newTestRound(t, 13, "alice", "bob")

	totals := make([]int, 2)
	for round := 0; round < 3; round++ {
		r.ShuffleAndDeal()
		_, ok := r.Start()
		require.True(t, ok)
		res := playGreedy(t, r)
		totals[res.Seat]++
		assert.Equal(t, totals, r.Wins())
	}
}
