// Package standings derives ranked tables from completed match results.
package standings

import (
	"sort"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

// Weights are the points awarded per result. Losses always score zero.
type Weights struct {
	Win  int
	Draw int
}

func DefaultWeights() Weights {
	return Weights{Win: 3, Draw: 1}
}

// WeightsFromSettings reads the scoring weights of a tournament.
func WeightsFromSettings(s models.TournamentSettings) Weights {
	return Weights{Win: s.WinPoints, Draw: s.DrawPoints}
}

// Compute builds the full standings table from scratch. Only completed
// matches with both teams known contribute. Ordering is points descending,
// then goal difference, then goals for; teams equal on all three keep their
// first-appearance order, which is a documented non-guarantee rather than a
// tie-break. Ranks are 1-based in sorted order.
//
// Compute is pure: identical input always yields identical output.
func Compute(matches []*models.Match, w Weights) []*models.Standing {
	rows := make(map[int]*models.Standing)
	var order []int

	row := func(teamID int) *models.Standing {
		s, ok := rows[teamID]
		if !ok {
			s = &models.Standing{TeamID: teamID}
			rows[teamID] = s
			order = append(order, teamID)
		}
		return s
	}

	for _, m := range matches {
		if !m.Completed() || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		accumulate(row(*m.Team1ID), *m.Score1, *m.Score2, w)
		accumulate(row(*m.Team2ID), *m.Score2, *m.Score1, w)
	}

	table := make([]*models.Standing, 0, len(order))
	for _, teamID := range order {
		s := rows[teamID]
		s.GoalDifference = s.GoalsFor - s.GoalsAgainst
		table = append(table, s)
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})

	for i, s := range table {
		s.Rank = i + 1
	}
	return table
}

func accumulate(s *models.Standing, goalsFor, goalsAgainst int, w Weights) {
	s.Played++
	s.GoalsFor += goalsFor
	s.GoalsAgainst += goalsAgainst
	switch {
	case goalsFor > goalsAgainst:
		s.Wins++
		s.Points += w.Win
	case goalsFor == goalsAgainst:
		s.Draws++
		s.Points += w.Draw
	default:
		s.Losses++
	}
}
