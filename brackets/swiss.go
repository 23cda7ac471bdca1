package brackets

import "github.com/tatsuya-kayama-ml/atsume/models"

type SwissGenerator struct{}

func NewSwissGenerator() Generator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) Name() string {
	return "Swiss"
}

// Generate emits only the first swiss round: a seeded shuffle paired
// sequentially. With an odd team count the last team sits out. Subsequent
// rounds depend on results and are paired on demand with NextSwissRound.
func (g *SwissGenerator) Generate(params GenerateParams) ([]*BracketMatch, error) {
	if err := validateTeamIDs(params.TeamIDs); err != nil {
		return nil, err
	}
	if params.Settings.SwissRounds <= 0 {
		return nil, ErrSwissRoundsRequired
	}

	teamIDs := append([]int(nil), params.TeamIDs...)
	rng := params.rng()
	rng.Shuffle(len(teamIDs), func(i, j int) {
		teamIDs[i], teamIDs[j] = teamIDs[j], teamIDs[i]
	})

	matches := make([]*BracketMatch, 0, len(teamIDs)/2)
	for i := 0; i+1 < len(teamIDs); i += 2 {
		matches = append(matches, &BracketMatch{
			Ref:   MatchRef{Branch: models.BranchWinners, Round: 1, Number: i/2 + 1},
			Slot1: Resolved(teamIDs[i]),
			Slot2: Resolved(teamIDs[i+1]),
		})
	}
	return matches, nil
}

// PlayedPair is an unordered team pair, used to forbid rematches.
type PlayedPair struct {
	Low, High int
}

func NewPlayedPair(a, b int) PlayedPair {
	if a > b {
		a, b = b, a
	}
	return PlayedPair{Low: a, High: b}
}

// NextSwissRound pairs the given round from the current standings order:
// neighbours in the ranking meet, no pair is ever repeated. rankedTeamIDs
// must be sorted best first. With an odd count the bye goes to the
// lowest-ranked team for which a full pairing of the rest still exists.
func NextSwissRound(round int, rankedTeamIDs []int, played map[PlayedPair]bool) ([]*BracketMatch, error) {
	if err := validateTeamIDs(rankedTeamIDs); err != nil {
		return nil, err
	}

	candidates := [][]int{rankedTeamIDs}
	if len(rankedTeamIDs)%2 == 1 {
		candidates = candidates[:0]
		for i := len(rankedTeamIDs) - 1; i >= 0; i-- {
			rest := make([]int, 0, len(rankedTeamIDs)-1)
			rest = append(rest, rankedTeamIDs[:i]...)
			rest = append(rest, rankedTeamIDs[i+1:]...)
			candidates = append(candidates, rest)
		}
	}

	for _, pool := range candidates {
		pairs, ok := pairByProximity(pool, played)
		if !ok {
			continue
		}
		matches := make([]*BracketMatch, 0, len(pairs))
		for i, pair := range pairs {
			matches = append(matches, &BracketMatch{
				Ref:   MatchRef{Branch: models.BranchWinners, Round: round, Number: i + 1},
				Slot1: Resolved(pair[0]),
				Slot2: Resolved(pair[1]),
			})
		}
		return matches, nil
	}
	return nil, ErrNoValidSwissPairings
}

// pairByProximity greedily pairs the best unpaired team with the nearest
// opponent it has not faced, backtracking when a branch dead-ends.
func pairByProximity(pool []int, played map[PlayedPair]bool) ([][2]int, bool) {
	if len(pool) == 0 {
		return nil, true
	}
	first := pool[0]
	for i := 1; i < len(pool); i++ {
		opp := pool[i]
		if played[NewPlayedPair(first, opp)] {
			continue
		}
		rest := make([]int, 0, len(pool)-2)
		rest = append(rest, pool[1:i]...)
		rest = append(rest, pool[i+1:]...)
		tail, ok := pairByProximity(rest, played)
		if !ok {
			continue
		}
		return append([][2]int{{first, opp}}, tail...), true
	}
	return nil, false
}
