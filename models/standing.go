package models

import "time"

// Standing is fully derived from the completed matches of a tournament.
// Rows are never patched in place: the whole set is deleted and rewritten
// after every score-affecting update.
type Standing struct {
	ID             int `json:"id" db:"id"`
	TournamentID   int `json:"tournament_id" db:"tournament_id"`
	TeamID         int `json:"team_id" db:"team_id"`
	Played         int `json:"played" db:"played"`
	Wins           int `json:"wins" db:"wins"`
	Draws          int `json:"draws" db:"draws"`
	Losses         int `json:"losses" db:"losses"`
	GoalsFor       int `json:"goals_for" db:"goals_for"`
	GoalsAgainst   int `json:"goals_against" db:"goals_against"`
	GoalDifference int `json:"goal_difference" db:"goal_difference"`
	Points         int `json:"points" db:"points"`
	Rank           int `json:"rank" db:"rank"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Team *Team `json:"team,omitempty" db:"-"`
}
