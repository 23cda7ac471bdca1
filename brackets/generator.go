package brackets

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

var (
	ErrNotEnoughTeams       = errors.New("at least two teams are required to generate pairings")
	ErrSwissRoundsRequired  = errors.New("swiss format requires a positive round count")
	ErrUnsupportedFormat    = errors.New("unsupported tournament format")
	ErrDuplicateTeam        = errors.New("duplicate team id in pairing input")
	ErrNoValidSwissPairings = errors.New("no valid swiss pairing without repeating an opponent")
)

// BracketMatch is one generated match. Slots may be resolved teams or
// pending references into earlier matches; byes never appear here.
type BracketMatch struct {
	Ref   MatchRef
	Slot1 TeamSlot
	Slot2 TeamSlot
}

// GenerateParams carries the input of a pairing run. Rand is only consulted
// by formats that seed randomly (double elimination, swiss); leaving it nil
// falls back to a time-seeded source.
type GenerateParams struct {
	TeamIDs  []int
	Settings models.TournamentSettings
	Rand     *rand.Rand
}

func (p GenerateParams) rng() *rand.Rand {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Generator produces the full match list for one tournament format.
// Implementations are pure: no I/O, and no randomness beyond params.Rand.
type Generator interface {
	Generate(params GenerateParams) ([]*BracketMatch, error)
	Name() string
}

// ForFormat returns the generator for the given format. Group stage reuses
// round-robin pairing: the caller splits teams into groups and pairs each
// subset independently.
func ForFormat(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatRoundRobin, models.FormatGroupStage:
		return NewRoundRobinGenerator(), nil
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatSwiss:
		return NewSwissGenerator(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func validateTeamIDs(teamIDs []int) error {
	if len(teamIDs) < 2 {
		return fmt.Errorf("%w (found %d)", ErrNotEnoughTeams, len(teamIDs))
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateTeam, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// pairRound pairs adjacent slots into matches for one round. Pairings that
// touch a bye emit no match: the non-bye side advances unchanged. The
// returned next slice holds one advancing slot per pairing.
func pairRound(branch models.BracketBranch, round int, slots []TeamSlot) (matches []*BracketMatch, next []TeamSlot) {
	if len(slots)%2 == 1 {
		slots = append(append([]TeamSlot(nil), slots...), Bye())
	}
	number := 0
	for i := 0; i < len(slots); i += 2 {
		a, b := slots[i], slots[i+1]
		switch {
		case a.IsBye() && b.IsBye():
			next = append(next, Bye())
		case b.IsBye():
			next = append(next, a)
		case a.IsBye():
			next = append(next, b)
		default:
			number++
			ref := MatchRef{Branch: branch, Round: round, Number: number}
			matches = append(matches, &BracketMatch{Ref: ref, Slot1: a, Slot2: b})
			next = append(next, WinnerOf(ref))
		}
	}
	return matches, next
}

func resolvedSlots(teamIDs []int) []TeamSlot {
	slots := make([]TeamSlot, len(teamIDs))
	for i, id := range teamIDs {
		slots[i] = Resolved(id)
	}
	return slots
}
