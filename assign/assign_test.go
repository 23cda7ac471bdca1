package assign

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

func makeParticipants(skills ...int) []models.Participant {
	participants := make([]models.Participant, len(skills))
	for i, skill := range skills {
		s := skill
		participants[i] = models.Participant{
			ID:         i + 1,
			Name:       fmt.Sprintf("Player %d", i+1),
			SkillLevel: &s,
		}
	}
	return participants
}

func TestSplitRandomDealsEvenly(t *testing.T) {
	participants := makeParticipants(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	teams, err := Split(participants, 3, ModeRandom, Options{}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Len(t, teams, 3)

	sizes := []int{len(teams[0]), len(teams[1]), len(teams[2])}
	assert.ElementsMatch(t, []int{4, 3, 3}, sizes, "sizes differ by at most one")

	seen := make(map[int]bool)
	for _, team := range teams {
		for _, p := range team {
			assert.False(t, seen[p.ID], "participant %d assigned twice", p.ID)
			seen[p.ID] = true
		}
	}
	assert.Len(t, seen, len(participants))
}

func TestSplitRandomSeedIsDeterministic(t *testing.T) {
	participants := makeParticipants(1, 2, 3, 4, 5, 6)

	first, err := Split(participants, 2, ModeRandom, Options{}, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	second, err := Split(participants, 2, ModeRandom, Options{}, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitBalancedEqualizesSkill(t *testing.T) {
	participants := makeParticipants(12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1)

	teams, err := Split(participants, 3, ModeBalanced, Options{}, nil)
	require.NoError(t, err)
	require.Len(t, teams, 3)

	for i, team := range teams {
		assert.Len(t, team, 4, "team %d", i)
		sum := 0
		for _, p := range team {
			sum += *p.SkillLevel
		}
		assert.Equal(t, 26, sum, "team %d skill total", i)
	}
}

func TestSplitBalancedSpreadsTopPicks(t *testing.T) {
	participants := makeParticipants(5, 5, 5, 1, 1, 1)

	teams, err := Split(participants, 3, ModeBalanced, Options{}, nil)
	require.NoError(t, err)

	for i, team := range teams {
		require.Len(t, team, 2, "team %d", i)
		assert.Equal(t, 6, *team[0].SkillLevel+*team[1].SkillLevel, "team %d", i)
	}
}

func TestSplitBalancedDefaultsMissingSkill(t *testing.T) {
	participants := makeParticipants(5, 1)
	participants = append(participants, models.Participant{ID: 3, Name: "Player 3"})

	teams, err := Split(participants, 3, ModeBalanced, Options{}, nil)
	require.NoError(t, err)

	// Skill order is 5, then the unrated participant at the default 3, then 1.
	assert.Equal(t, 1, teams[0][0].ID)
	assert.Equal(t, 3, teams[1][0].ID)
	assert.Equal(t, 2, teams[2][0].ID)
}

func TestSplitSingleTeam(t *testing.T) {
	participants := makeParticipants(3, 1, 2)
	teams, err := Split(participants, 1, ModeBalanced, Options{}, nil)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Len(t, teams[0], 3)
}

func TestSplitErrors(t *testing.T) {
	participants := makeParticipants(1, 2)

	_, err := Split(participants, 3, ModeRandom, Options{}, nil)
	assert.True(t, errors.Is(err, ErrTooFewParticipants))

	_, err = Split(participants, 0, ModeRandom, Options{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidTeamCount))

	_, err = Split(participants, 2, Mode("nope"), Options{}, nil)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}
