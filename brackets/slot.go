package brackets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

// SlotKind discriminates the states a bracket slot can be in.
type SlotKind int

const (
	// SlotResolved means the slot holds a concrete team.
	SlotResolved SlotKind = iota
	// SlotBye marks a padding slot; pairings touching a bye never emit a match.
	SlotBye
	// SlotWinnerOf means the slot is filled by the winner of another match.
	SlotWinnerOf
	// SlotLoserOf means the slot is filled by the loser of another match.
	SlotLoserOf
)

// MatchRef addresses a generated match by branch, round and number within
// the round. Numbers are 1-based and count only emitted matches.
type MatchRef struct {
	Branch models.BracketBranch
	Round  int
	Number int
}

func (r MatchRef) String() string {
	return fmt.Sprintf("%s:%d:%d", r.Branch, r.Round, r.Number)
}

// TeamSlot is a tagged union over the four slot states. The zero value is
// not valid; use the constructors.
type TeamSlot struct {
	kind   SlotKind
	teamID int
	ref    MatchRef
}

func Resolved(teamID int) TeamSlot {
	return TeamSlot{kind: SlotResolved, teamID: teamID}
}

func Bye() TeamSlot {
	return TeamSlot{kind: SlotBye}
}

func WinnerOf(ref MatchRef) TeamSlot {
	return TeamSlot{kind: SlotWinnerOf, ref: ref}
}

func LoserOf(ref MatchRef) TeamSlot {
	return TeamSlot{kind: SlotLoserOf, ref: ref}
}

func (s TeamSlot) Kind() SlotKind { return s.kind }

func (s TeamSlot) IsBye() bool { return s.kind == SlotBye }

// TeamID returns the resolved team id, if any.
func (s TeamSlot) TeamID() (int, bool) {
	if s.kind != SlotResolved {
		return 0, false
	}
	return s.teamID, true
}

// Source returns the match the slot depends on, if it is pending.
func (s TeamSlot) Source() (MatchRef, bool) {
	if s.kind != SlotWinnerOf && s.kind != SlotLoserOf {
		return MatchRef{}, false
	}
	return s.ref, true
}

// Encode serializes a pending slot for persistence, e.g. "W:winners:1:2".
// Resolved and bye slots encode to nil: resolved slots persist as team ids,
// and byes never reach storage.
func (s TeamSlot) Encode() *string {
	var prefix string
	switch s.kind {
	case SlotWinnerOf:
		prefix = "W"
	case SlotLoserOf:
		prefix = "L"
	default:
		return nil
	}
	encoded := prefix + ":" + s.ref.String()
	return &encoded
}

// ParseSlotRef decodes the persisted form produced by Encode.
func ParseSlotRef(encoded string) (TeamSlot, error) {
	parts := strings.Split(encoded, ":")
	if len(parts) != 4 {
		return TeamSlot{}, fmt.Errorf("malformed slot ref %q", encoded)
	}
	round, err := strconv.Atoi(parts[2])
	if err != nil {
		return TeamSlot{}, fmt.Errorf("malformed slot ref round in %q: %w", encoded, err)
	}
	number, err := strconv.Atoi(parts[3])
	if err != nil {
		return TeamSlot{}, fmt.Errorf("malformed slot ref number in %q: %w", encoded, err)
	}
	ref := MatchRef{Branch: models.BracketBranch(parts[1]), Round: round, Number: number}
	switch parts[0] {
	case "W":
		return WinnerOf(ref), nil
	case "L":
		return LoserOf(ref), nil
	}
	return TeamSlot{}, fmt.Errorf("unknown slot ref kind %q in %q", parts[0], encoded)
}
