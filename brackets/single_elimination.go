package brackets

import "github.com/tatsuya-kayama-ml/atsume/models"

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a knockout bracket. The team list is padded to the next
// power of two with byes; round one pairs teams in input order, and byes
// auto-advance their opponent without emitting a match. Later rounds are
// shells whose slots reference the winners of earlier matches. With the
// third-place match enabled and a bracket deep enough to have two
// semifinals, one extra match pairing the semifinal losers is appended.
func (g *SingleEliminationGenerator) Generate(params GenerateParams) ([]*BracketMatch, error) {
	if err := validateTeamIDs(params.TeamIDs); err != nil {
		return nil, err
	}

	n := len(params.TeamIDs)
	size := 1
	numRounds := 0
	for size < n {
		size <<= 1
		numRounds++
	}

	slots := resolvedSlots(params.TeamIDs)
	for len(slots) < size {
		slots = append(slots, Bye())
	}

	var all []*BracketMatch
	var semifinals []*BracketMatch
	for round := 1; round <= numRounds; round++ {
		matches, next := pairRound(models.BranchWinners, round, slots)
		all = append(all, matches...)
		if round == numRounds-1 {
			semifinals = matches
		}
		slots = next
	}

	if params.Settings.ThirdPlaceMatch && len(semifinals) == 2 {
		all = append(all, &BracketMatch{
			Ref:   MatchRef{Branch: models.BranchWinners, Round: numRounds, Number: 2},
			Slot1: LoserOf(semifinals[0].Ref),
			Slot2: LoserOf(semifinals[1].Ref),
		})
	}

	return all, nil
}
