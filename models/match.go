package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// BracketBranch tags which part of a double-elimination bracket a match
// belongs to. Non-elimination formats and single-elimination winners
// matches all live on the winners branch.
type BracketBranch string

const (
	BranchWinners BracketBranch = "winners"
	BranchLosers  BracketBranch = "losers"
	BranchFinals  BracketBranch = "finals"
)

type Match struct {
	ID           int  `json:"id" db:"id"`
	TournamentID int  `json:"tournament_id" db:"tournament_id"`
	Round        int  `json:"round" db:"round"`
	MatchNumber  int  `json:"match_number" db:"match_number"`
	Court        *int `json:"court,omitempty" db:"court"`

	// Team references are nil while the slot is still pending bracket
	// advancement; the corresponding SlotRef then records the source match.
	Team1ID  *int    `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID  *int    `json:"team2_id,omitempty" db:"team2_id"`
	Slot1Ref *string `json:"slot1_ref,omitempty" db:"slot1_ref"`
	Slot2Ref *string `json:"slot2_ref,omitempty" db:"slot2_ref"`

	Score1   *int          `json:"score1,omitempty" db:"score1"`
	Score2   *int          `json:"score2,omitempty" db:"score2"`
	WinnerID *int          `json:"winner_id,omitempty" db:"winner_id"`
	Status   MatchStatus   `json:"status" db:"status"`
	Branch   BracketBranch `json:"branch" db:"branch"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Completed reports whether the match has a recorded result.
func (m *Match) Completed() bool {
	return m.Status == MatchStatusCompleted && m.Score1 != nil && m.Score2 != nil
}
