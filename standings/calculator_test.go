package standings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

func completedMatch(team1, team2, score1, score2 int) *models.Match {
	return &models.Match{
		Team1ID: &team1,
		Team2ID: &team2,
		Score1:  &score1,
		Score2:  &score2,
		Status:  models.MatchStatusCompleted,
	}
}

func TestComputeRanksByPointsThenGoals(t *testing.T) {
	// Team 1 wins twice, team 2 takes a win and a draw, team 3 loses
	// everything, team 4 only draws.
	matches := []*models.Match{
		completedMatch(1, 2, 3, 1),
		completedMatch(1, 3, 4, 1),
		completedMatch(2, 3, 1, 0),
		completedMatch(2, 4, 2, 2),
	}

	table := Compute(matches, DefaultWeights())
	require.Len(t, table, 4)

	a, b, d, c := table[0], table[1], table[2], table[3]

	assert.Equal(t, 1, a.TeamID)
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, 6, a.Points)
	assert.Equal(t, 2, a.Wins)
	assert.Equal(t, 5, a.GoalDifference)

	assert.Equal(t, 2, b.TeamID)
	assert.Equal(t, 2, b.Rank)
	assert.Equal(t, 4, b.Points)
	assert.Equal(t, 1, b.Wins)
	assert.Equal(t, 1, b.Draws)
	assert.Equal(t, 1, b.Losses)

	assert.Equal(t, 4, d.TeamID)
	assert.Equal(t, 3, d.Rank)
	assert.Equal(t, 1, d.Points)

	assert.Equal(t, 3, c.TeamID)
	assert.Equal(t, 4, c.Rank)
	assert.Equal(t, 0, c.Points)
	assert.Equal(t, 2, c.Played)
}

func TestComputeTieBreakGoalDifferenceThenGoalsFor(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 2, 1, 0), // both winners on 3 points
		completedMatch(3, 4, 4, 3), // same difference, more goals for
	}

	table := Compute(matches, DefaultWeights())
	require.Len(t, table, 4)
	assert.Equal(t, 3, table[0].TeamID, "equal points and difference rank by goals for")
	assert.Equal(t, 1, table[1].TeamID)
}

func TestComputeStableOrderOnFullTie(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 2, 2, 2),
		completedMatch(3, 4, 2, 2),
	}

	table := Compute(matches, DefaultWeights())
	require.Len(t, table, 4)
	for i, s := range table {
		assert.Equal(t, i+1, s.TeamID, "full ties keep first-appearance order")
		assert.Equal(t, i+1, s.Rank)
	}
}

func TestComputeIgnoresUnfinishedMatches(t *testing.T) {
	pending := completedMatch(1, 2, 0, 0)
	pending.Status = models.MatchStatusScheduled
	team1 := 3
	unassigned := &models.Match{Team1ID: &team1, Status: models.MatchStatusCompleted}

	table := Compute([]*models.Match{pending, unassigned, completedMatch(1, 2, 1, 0)}, DefaultWeights())
	require.Len(t, table, 2)
	assert.Equal(t, 1, table[0].Played)
	assert.Equal(t, 1, table[1].Played)
}

func TestComputeCustomWeights(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 2, 1, 0),
		completedMatch(1, 2, 2, 2),
	}

	table := Compute(matches, Weights{Win: 2, Draw: 1})
	require.Len(t, table, 2)
	assert.Equal(t, 3, table[0].Points)
	assert.Equal(t, 1, table[1].Points)
}

func TestComputeIsDeterministic(t *testing.T) {
	matches := []*models.Match{
		completedMatch(1, 2, 3, 1),
		completedMatch(3, 1, 2, 2),
		completedMatch(2, 3, 0, 4),
	}

	first := Compute(matches, DefaultWeights())
	second := Compute(matches, DefaultWeights())
	assert.Equal(t, first, second)
}
