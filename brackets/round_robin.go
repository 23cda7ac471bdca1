package brackets

import "github.com/tatsuya-kayama-ml/atsume/models"

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate produces a single round-robin schedule with the circle method:
// one team stays fixed while the rest rotate one position per round. An odd
// team count is padded with a bye, and pairings touching the bye are
// dropped, so every real team meets every other exactly once. The schedule
// is fully determined by the input order.
func (g *RoundRobinGenerator) Generate(params GenerateParams) ([]*BracketMatch, error) {
	if err := validateTeamIDs(params.TeamIDs); err != nil {
		return nil, err
	}

	slots := resolvedSlots(params.TeamIDs)
	if len(slots)%2 == 1 {
		slots = append(slots, Bye())
	}
	n := len(slots)

	matches := make([]*BracketMatch, 0, n*(n-1)/2)
	for round := 1; round <= n-1; round++ {
		number := 0
		for i := 0; i < n/2; i++ {
			a, b := slots[i], slots[n-1-i]
			if a.IsBye() || b.IsBye() {
				continue
			}
			number++
			matches = append(matches, &BracketMatch{
				Ref:   MatchRef{Branch: models.BranchWinners, Round: round, Number: number},
				Slot1: a,
				Slot2: b,
			})
		}

		// Rotate everything except the first slot.
		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	return matches, nil
}
