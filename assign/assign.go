// Package assign partitions an event's participant list into teams, either
// uniformly at random or balanced by skill level.
package assign

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

type Mode string

const (
	ModeRandom   Mode = "random"
	ModeBalanced Mode = "balanced"
)

var (
	ErrTooFewParticipants = errors.New("fewer participants than teams requested")
	ErrInvalidTeamCount   = errors.New("team count must be at least 1")
	ErrUnknownMode        = errors.New("unknown assignment mode")
)

// Participants with no declared skill level draft in the middle of the field.
const defaultSkillLevel = 3

type Options struct {
	// BalanceGender adds gender as a secondary sort key so equally skilled
	// participants of the same gender spread across teams.
	BalanceGender bool
}

// Split distributes participants into exactly teamCount groups. Random mode
// shuffles and deals round-robin; balanced mode sorts by skill descending
// and snake-drafts so top-ranked participants spread evenly. rng may be nil
// outside tests.
func Split(participants []models.Participant, teamCount int, mode Mode, opts Options, rng *rand.Rand) ([][]models.Participant, error) {
	if teamCount < 1 {
		return nil, ErrInvalidTeamCount
	}
	if len(participants) < teamCount {
		return nil, fmt.Errorf("%w: %d participants for %d teams", ErrTooFewParticipants, len(participants), teamCount)
	}

	pool := append([]models.Participant(nil), participants...)
	teams := make([][]models.Participant, teamCount)

	switch mode {
	case ModeRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		for i, p := range pool {
			teams[i%teamCount] = append(teams[i%teamCount], p)
		}

	case ModeBalanced:
		if opts.BalanceGender {
			sort.SliceStable(pool, func(i, j int) bool {
				return genderKey(pool[i]) < genderKey(pool[j])
			})
		}
		sort.SliceStable(pool, func(i, j int) bool {
			return skillLevel(pool[i]) > skillLevel(pool[j])
		})
		snakeDraft(pool, teams)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	return teams, nil
}

// snakeDraft deals the sorted pool serpentine style, 0..k-1 then k-1..0,
// so consecutive high picks land on different teams and team strength
// stays even.
func snakeDraft(pool []models.Participant, teams [][]models.Participant) {
	k := len(teams)
	for i, p := range pool {
		idx := i % k
		if (i/k)%2 == 1 {
			idx = k - 1 - idx
		}
		teams[idx] = append(teams[idx], p)
	}
}

func skillLevel(p models.Participant) int {
	if p.SkillLevel == nil {
		return defaultSkillLevel
	}
	return *p.SkillLevel
}

func genderKey(p models.Participant) string {
	if p.Gender == nil {
		return ""
	}
	return *p.Gender
}
