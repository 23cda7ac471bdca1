package models

import "time"

// TournamentFormat enumerates the supported competition formats,
// matching the ENUM in the database.
type TournamentFormat string

const (
	FormatRoundRobin        TournamentFormat = "round_robin"
	FormatSingleElimination TournamentFormat = "single_elimination"
	FormatDoubleElimination TournamentFormat = "double_elimination"
	FormatSwiss             TournamentFormat = "swiss"
	FormatGroupStage        TournamentFormat = "group_stage"
)

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatRoundRobin, FormatSingleElimination, FormatDoubleElimination, FormatSwiss, FormatGroupStage:
		return true
	}
	return false
}

// Elimination reports whether the format is a knockout bracket,
// i.e. draws are not meaningful and winners advance into later matches.
func (f TournamentFormat) Elimination() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

// TournamentSettings is the per-tournament settings bag, stored as JSON.
type TournamentSettings struct {
	WinPoints        int  `json:"win_points"`
	DrawPoints       int  `json:"draw_points"`
	ThirdPlaceMatch  bool `json:"third_place_match"`
	SwissRounds      int  `json:"swiss_rounds,omitempty"`
	StandingsEnabled bool `json:"standings_enabled"`
}

func DefaultTournamentSettings() TournamentSettings {
	return TournamentSettings{
		WinPoints:        3,
		DrawPoints:       1,
		StandingsEnabled: true,
	}
}

type Tournament struct {
	ID       int                `json:"id" db:"id"`
	EventID  int                `json:"event_id" db:"event_id"`
	Format   TournamentFormat   `json:"format" db:"format"`
	Courts   int                `json:"courts" db:"courts"`
	Settings TournamentSettings `json:"settings" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Optional linked data, populated by services, not mapped directly.
	Matches   []Match    `json:"matches,omitempty" db:"-"`
	Standings []Standing `json:"standings,omitempty" db:"-"`
	Teams     []Team     `json:"teams,omitempty" db:"-"`
}
