package brackets

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

func TestSwissFirstRoundPairsEveryoneOnce(t *testing.T) {
	matches, err := NewSwissGenerator().Generate(GenerateParams{
		TeamIDs:  []int{1, 2, 3, 4, 5, 6, 7, 8},
		Settings: models.TournamentSettings{SwissRounds: 3},
		Rand:     rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	require.Len(t, matches, 4)

	seen := make(map[int]bool)
	for _, m := range matches {
		assert.Equal(t, 1, m.Ref.Round)
		for _, slot := range []TeamSlot{m.Slot1, m.Slot2} {
			id := mustTeamID(t, slot)
			assert.False(t, seen[id], "team %d paired twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 8)
}

func TestSwissFirstRoundOddTeamSitsOut(t *testing.T) {
	matches, err := NewSwissGenerator().Generate(GenerateParams{
		TeamIDs:  []int{1, 2, 3, 4, 5},
		Settings: models.TournamentSettings{SwissRounds: 2},
		Rand:     rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)
	assert.Len(t, matches, 2, "one team gets the bye")
}

func TestSwissRequiresRoundCount(t *testing.T) {
	_, err := NewSwissGenerator().Generate(GenerateParams{TeamIDs: []int{1, 2, 3, 4}})
	assert.True(t, errors.Is(err, ErrSwissRoundsRequired))
}

func TestNextSwissRoundPairsByStandingWithoutRematches(t *testing.T) {
	played := map[PlayedPair]bool{
		NewPlayedPair(1, 2): true,
		NewPlayedPair(3, 4): true,
	}
	matches, err := NextSwissRound(2, []int{1, 2, 3, 4}, played)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, MatchRef{Branch: models.BranchWinners, Round: 2, Number: 1}, matches[0].Ref)
	assert.Equal(t, 1, mustTeamID(t, matches[0].Slot1))
	assert.Equal(t, 3, mustTeamID(t, matches[0].Slot2))
	assert.Equal(t, 2, mustTeamID(t, matches[1].Slot1))
	assert.Equal(t, 4, mustTeamID(t, matches[1].Slot2))
}

func TestNextSwissRoundBacktracks(t *testing.T) {
	// Greedy pairing (1,3) would strand 2 and 4, who already met. The
	// pairing has to fall back to (1,4) and (3,2).
	played := map[PlayedPair]bool{
		NewPlayedPair(1, 2): true,
		NewPlayedPair(2, 4): true,
	}
	matches, err := NextSwissRound(3, []int{1, 2, 3, 4}, played)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	pairs := make(map[PlayedPair]bool)
	for _, m := range matches {
		pairs[NewPlayedPair(mustTeamID(t, m.Slot1), mustTeamID(t, m.Slot2))] = true
	}
	assert.True(t, pairs[NewPlayedPair(1, 4)])
	assert.True(t, pairs[NewPlayedPair(2, 3)])
}

func TestNextSwissRoundByeGoesToLowestViableRank(t *testing.T) {
	// Removing the bottom team leaves 1 and 2 who already met, so the bye
	// moves up one rank instead.
	played := map[PlayedPair]bool{
		NewPlayedPair(1, 2): true,
	}
	matches, err := NextSwissRound(2, []int{1, 2, 3}, played)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, mustTeamID(t, matches[0].Slot1))
	assert.Equal(t, 3, mustTeamID(t, matches[0].Slot2))
}

func TestNextSwissRoundExhaustedPairings(t *testing.T) {
	played := map[PlayedPair]bool{
		NewPlayedPair(1, 2): true,
	}
	_, err := NextSwissRound(2, []int{1, 2}, played)
	assert.True(t, errors.Is(err, ErrNoValidSwissPairings))
}
