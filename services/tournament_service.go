package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/tatsuya-kayama-ml/atsume/brackets"
	"github.com/tatsuya-kayama-ml/atsume/models"
	"github.com/tatsuya-kayama-ml/atsume/repositories"
	"github.com/tatsuya-kayama-ml/atsume/standings"
)

// CreateTournamentParams describes one tournament-generation request.
// Settings nil means defaults; Rand nil means a time-seeded source.
type CreateTournamentParams struct {
	EventID  int
	Format   models.TournamentFormat
	Courts   int
	Settings *models.TournamentSettings
	TeamIDs  []int
	Rand     *rand.Rand
}

type TournamentService interface {
	Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	RecordScore(ctx context.Context, matchID, score1, score2 int) (*models.Match, error)
	Delete(ctx context.Context, id int) error
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ListStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error)
	NextSwissRound(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	standingRepo   repositories.StandingRepository
	teamRepo       repositories.TeamRepository
	hub            *brackets.Hub
	logger         *slog.Logger
	locks          *eventLocks
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	standingRepo repositories.StandingRepository,
	teamRepo repositories.TeamRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		standingRepo:   standingRepo,
		teamRepo:       teamRepo,
		hub:            hub,
		logger:         logger,
		locks:          newEventLocks(),
	}
}

// withTx runs fn inside one transaction. A nil handle (unit tests with fake
// repositories) runs the sequence against the repositories' own connections.
func (s *tournamentService) withTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if s.db == nil {
		return fn(nil)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Create generates and persists a tournament for the event. Any existing
// tournament for the same event is torn down first: regeneration is
// destructive and not versioned. The whole sequence runs in one transaction
// under a per-event lock.
func (s *tournamentService) Create(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error) {
	if !params.Format.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, params.Format)
	}
	if params.Courts < 0 {
		return nil, ErrInvalidCourtCount
	}
	if params.Courts == 0 {
		params.Courts = 1
	}
	settings := models.DefaultTournamentSettings()
	if params.Settings != nil {
		settings = *params.Settings
	}

	generator, err := brackets.ForFormat(params.Format)
	if err != nil {
		return nil, err
	}
	generated, err := generator.Generate(brackets.GenerateParams{
		TeamIDs:  params.TeamIDs,
		Settings: settings,
		Rand:     params.Rand,
	})
	if err != nil {
		return nil, err
	}

	// The generator has already rejected duplicates, so a count mismatch
	// here means a team id that does not exist.
	known, err := s.teamRepo.ListByIDs(ctx, params.TeamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to verify team ids: %w", err)
	}
	if len(known) != len(params.TeamIDs) {
		knownIDs := make(map[int]bool, len(known))
		for _, team := range known {
			knownIDs[team.ID] = true
		}
		for _, id := range params.TeamIDs {
			if !knownIDs[id] {
				return nil, fmt.Errorf("%w: %d", ErrUnknownTeam, id)
			}
		}
	}

	unlock := s.locks.Lock(params.EventID)
	defer unlock()

	tournament := &models.Tournament{
		EventID:  params.EventID,
		Format:   params.Format,
		Courts:   params.Courts,
		Settings: settings,
	}

	err = s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		existing, err := s.tournamentRepo.GetByEvent(ctx, exec, params.EventID)
		if err != nil && !errors.Is(err, repositories.ErrTournamentNotFound) {
			return err
		}
		if existing != nil {
			if err := s.teardown(ctx, exec, existing.ID); err != nil {
				return fmt.Errorf("failed to replace tournament %d: %w", existing.ID, err)
			}
			s.logger.Info("replaced existing tournament",
				slog.Int("event_id", params.EventID), slog.Int("tournament_id", existing.ID))
		}

		if err := s.tournamentRepo.Create(ctx, exec, tournament); err != nil {
			return err
		}
		matches := buildMatches(tournament, generated)
		if err := s.matchRepo.BatchCreate(ctx, exec, matches); err != nil {
			return err
		}
		for _, m := range matches {
			tournament.Matches = append(tournament.Matches, *m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)),
		slog.Int("matches", len(tournament.Matches)))
	return tournament, nil
}

// buildMatches turns generated bracket matches into storable rows. Round
// robin cycles court assignments modulo the configured concurrency width;
// bracket formats leave court scheduling to the organizer.
func buildMatches(t *models.Tournament, generated []*brackets.BracketMatch) []*models.Match {
	cycleCourts := t.Format == models.FormatRoundRobin || t.Format == models.FormatGroupStage
	matches := make([]*models.Match, 0, len(generated))
	for i, bm := range generated {
		m := &models.Match{
			TournamentID: t.ID,
			Round:        bm.Ref.Round,
			MatchNumber:  bm.Ref.Number,
			Branch:       bm.Ref.Branch,
			Status:       models.MatchStatusScheduled,
		}
		if cycleCourts {
			court := i%t.Courts + 1
			m.Court = &court
		}
		if teamID, ok := bm.Slot1.TeamID(); ok {
			id := teamID
			m.Team1ID = &id
		} else {
			m.Slot1Ref = bm.Slot1.Encode()
		}
		if teamID, ok := bm.Slot2.TeamID(); ok {
			id := teamID
			m.Team2ID = &id
		} else {
			m.Slot2Ref = bm.Slot2.Encode()
		}
		matches = append(matches, m)
	}
	return matches
}

// Get loads the tournament with its matches, standings and teams fetched in
// parallel.
func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list matches for tournament %d: %w", id, err)
		}
		for _, m := range matches {
			tournament.Matches = append(tournament.Matches, *m)
		}
		return nil
	})
	g.Go(func() error {
		table, err := s.standingRepo.ListByTournament(gCtx, nil, id)
		if err != nil {
			return fmt.Errorf("failed to list standings for tournament %d: %w", id, err)
		}
		for _, row := range table {
			tournament.Standings = append(tournament.Standings, *row)
		}
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByEvent(gCtx, tournament.EventID)
		if err != nil {
			return fmt.Errorf("failed to list teams for event %d: %w", tournament.EventID, err)
		}
		for _, team := range teams {
			tournament.Teams = append(tournament.Teams, *team)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

// RecordScore persists a match result, derives the winner, advances
// elimination brackets, and rewrites the standings table wholesale when the
// tournament has standings enabled. Scores may be edited after completion.
func (s *tournamentService) RecordScore(ctx context.Context, matchID, score1, score2 int) (*models.Match, error) {
	if score1 < 0 || score2 < 0 {
		return nil, ErrNegativeScore
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, ErrMatchTeamsNotSet
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, err
	}

	var winnerID *int
	switch {
	case score1 > score2:
		winnerID = match.Team1ID
	case score2 > score1:
		winnerID = match.Team2ID
	default:
		if tournament.Format.Elimination() {
			return nil, ErrDrawNotAllowed
		}
	}

	var table []*models.Standing
	err = s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.UpdateScore(ctx, exec, matchID, score1, score2, winnerID, models.MatchStatusCompleted); err != nil {
			return err
		}

		if tournament.Format.Elimination() && winnerID != nil {
			loserID := match.Team1ID
			if *winnerID == *match.Team1ID {
				loserID = match.Team2ID
			}
			if err := s.advance(ctx, exec, match, *winnerID, *loserID); err != nil {
				return err
			}
		}

		if tournament.Settings.StandingsEnabled {
			matches, err := s.matchRepo.ListByTournament(ctx, exec, tournament.ID)
			if err != nil {
				return err
			}
			table = standings.Compute(matches, standings.WeightsFromSettings(tournament.Settings))
			for _, row := range table {
				row.TournamentID = tournament.ID
			}
			if err := s.standingRepo.DeleteByTournament(ctx, exec, tournament.ID); err != nil {
				return err
			}
			if err := s.standingRepo.BatchCreate(ctx, exec, table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	match.Score1 = &score1
	match.Score2 = &score2
	match.WinnerID = winnerID
	match.Status = models.MatchStatusCompleted

	s.broadcast(tournament.ID, brackets.EventMatchUpdated, match)
	if tournament.Settings.StandingsEnabled {
		s.broadcast(tournament.ID, brackets.EventStandingsUpdated, table)
	}
	return match, nil
}

// advance fills the winner and loser of a completed match into every slot
// that references it.
func (s *tournamentService) advance(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, winnerID, loserID int) error {
	ref := brackets.MatchRef{Branch: match.Branch, Round: match.Round, Number: match.MatchNumber}
	winnerRef := brackets.WinnerOf(ref).Encode()
	loserRef := brackets.LoserOf(ref).Encode()

	matches, err := s.matchRepo.ListByTournament(ctx, exec, match.TournamentID)
	if err != nil {
		return err
	}
	fill := func(m *models.Match, slot int, encoded *string) error {
		switch *encoded {
		case *winnerRef:
			return s.matchRepo.FillSlot(ctx, exec, m.ID, slot, winnerID)
		case *loserRef:
			return s.matchRepo.FillSlot(ctx, exec, m.ID, slot, loserID)
		}
		return nil
	}
	for _, m := range matches {
		if m.Slot1Ref != nil {
			if err := fill(m, 1, m.Slot1Ref); err != nil {
				return err
			}
		}
		if m.Slot2Ref != nil {
			if err := fill(m, 2, m.Slot2Ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// Delete cascades matches, then standings, then the tournament row.
func (s *tournamentService) Delete(ctx context.Context, id int) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(tournament.EventID)
	defer unlock()

	err = s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.teardown(ctx, exec, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tournament deleted", slog.Int("tournament_id", id))
	s.broadcast(id, brackets.EventTournamentDeleted, nil)
	return nil
}

func (s *tournamentService) teardown(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) error {
	if err := s.matchRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return err
	}
	if err := s.standingRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
		return err
	}
	return s.tournamentRepo.Delete(ctx, exec, tournamentID)
}

func (s *tournamentService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID)
}

func (s *tournamentService) ListStandings(ctx context.Context, tournamentID int) ([]*models.Standing, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, err
	}
	return s.standingRepo.ListByTournament(ctx, nil, tournamentID)
}

// NextSwissRound pairs and persists the next swiss round from the current
// standings, once every match of the latest round is completed.
func (s *tournamentService) NextSwissRound(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Format != models.FormatSwiss {
		return nil, ErrNotSwissTournament
	}

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, err
	}

	currentRound := 0
	played := make(map[brackets.PlayedPair]bool)
	for _, m := range matches {
		if m.Round > currentRound {
			currentRound = m.Round
		}
		if m.Status != models.MatchStatusCompleted {
			return nil, ErrSwissRoundNotDone
		}
		if m.Team1ID != nil && m.Team2ID != nil {
			played[brackets.NewPlayedPair(*m.Team1ID, *m.Team2ID)] = true
		}
	}
	if currentRound >= tournament.Settings.SwissRounds {
		return nil, ErrSwissRoundsExceeded
	}

	table := standings.Compute(matches, standings.WeightsFromSettings(tournament.Settings))
	ranked := make([]int, 0, len(table))
	inTable := make(map[int]bool, len(table))
	for _, row := range table {
		ranked = append(ranked, row.TeamID)
		inTable[row.TeamID] = true
	}

	// Teams that sat out every round so far have no standings row yet; they
	// rank last and must still be paired.
	teams, err := s.teamRepo.ListByEvent(ctx, tournament.EventID)
	if err != nil {
		return nil, err
	}
	for _, team := range teams {
		if !inTable[team.ID] {
			ranked = append(ranked, team.ID)
		}
	}

	generated, err := brackets.NextSwissRound(currentRound+1, ranked, played)
	if err != nil {
		return nil, err
	}

	newMatches := buildMatches(tournament, generated)
	if err := s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.BatchCreate(ctx, exec, newMatches)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("swiss round generated",
		slog.Int("tournament_id", tournamentID), slog.Int("round", currentRound+1))
	return newMatches, nil
}

func (s *tournamentService) broadcast(tournamentID int, eventType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	room := "tournament_" + strconv.Itoa(tournamentID)
	s.hub.BroadcastToRoom(room, brackets.Message{Type: eventType, Payload: payload})
}
