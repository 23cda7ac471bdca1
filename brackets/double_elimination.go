package brackets

import "github.com/tatsuya-kayama-ml/atsume/models"

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() Generator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) Name() string {
	return "DoubleElimination"
}

// Generate builds a full double-elimination bracket with linked advancement:
// every loser of a winners-bracket match drops into a concrete
// losers-bracket slot, and one grand final pairs the two bracket champions.
//
// Seeding shuffles the team list with params.Rand. The winners bracket is
// built like single elimination. The losers bracket alternates between
// major rounds (survivors meet the losers dropping from the matching
// winners round, in reversed order so early rematches are rare) and minor
// rounds (survivors pair among themselves).
func (g *DoubleEliminationGenerator) Generate(params GenerateParams) ([]*BracketMatch, error) {
	if err := validateTeamIDs(params.TeamIDs); err != nil {
		return nil, err
	}

	teamIDs := append([]int(nil), params.TeamIDs...)
	rng := params.rng()
	rng.Shuffle(len(teamIDs), func(i, j int) {
		teamIDs[i], teamIDs[j] = teamIDs[j], teamIDs[i]
	})

	n := len(teamIDs)
	size := 1
	numRounds := 0
	for size < n {
		size <<= 1
		numRounds++
	}

	slots := resolvedSlots(teamIDs)
	for len(slots) < size {
		slots = append(slots, Bye())
	}

	var all []*BracketMatch
	wbLosers := make([][]TeamSlot, numRounds+1)
	for round := 1; round <= numRounds; round++ {
		matches, next, losers := pairRoundWithLosers(models.BranchWinners, round, slots)
		all = append(all, matches...)
		wbLosers[round] = losers
		slots = next
	}
	wbChampion := slots[0]

	// Losers bracket. One advancing slot survives each round; byes from
	// winners-bracket auto-advances cascade through it the same way.
	cur := wbLosers[1]
	lbRound := 1
	matches, next := pairRound(models.BranchLosers, lbRound, cur)
	all = append(all, matches...)
	cur = next

	for r := 2; r <= numRounds; r++ {
		drops := wbLosers[r]
		for i, j := 0, len(drops)-1; i < j; i, j = i+1, j-1 {
			drops[i], drops[j] = drops[j], drops[i]
		}

		lbRound++
		interleaved := make([]TeamSlot, 0, len(cur)+len(drops))
		for i := range cur {
			interleaved = append(interleaved, cur[i], drops[i])
		}
		matches, next = pairRound(models.BranchLosers, lbRound, interleaved)
		all = append(all, matches...)
		cur = next

		if r < numRounds {
			lbRound++
			matches, next = pairRound(models.BranchLosers, lbRound, cur)
			all = append(all, matches...)
			cur = next
		}
	}
	lbChampion := cur[0]

	all = append(all, &BracketMatch{
		Ref:   MatchRef{Branch: models.BranchFinals, Round: 1, Number: 1},
		Slot1: wbChampion,
		Slot2: lbChampion,
	})

	return all, nil
}

// pairRoundWithLosers is pairRound plus one loser slot per pairing: a
// LoserOf reference for emitted matches, a bye where nobody lost.
func pairRoundWithLosers(branch models.BracketBranch, round int, slots []TeamSlot) (matches []*BracketMatch, next, losers []TeamSlot) {
	matches, next = pairRound(branch, round, slots)
	byRef := make(map[MatchRef]struct{}, len(matches))
	for _, m := range matches {
		byRef[m.Ref] = struct{}{}
	}
	for _, slot := range next {
		if ref, ok := slot.Source(); ok {
			if _, emitted := byRef[ref]; emitted {
				losers = append(losers, LoserOf(ref))
				continue
			}
		}
		losers = append(losers, Bye())
	}
	return matches, next, losers
}
