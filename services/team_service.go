package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/tatsuya-kayama-ml/atsume/assign"
	"github.com/tatsuya-kayama-ml/atsume/models"
	"github.com/tatsuya-kayama-ml/atsume/repositories"
)

// teamColors is the palette cycled over generated teams.
var teamColors = []string{"red", "blue", "green", "yellow", "orange", "purple", "pink", "teal"}

// AssignTeamsParams describes one team-assignment request. Rand nil means a
// time-seeded source.
type AssignTeamsParams struct {
	EventID       int
	TeamCount     int
	Mode          assign.Mode
	BalanceGender bool
	CheckedInOnly bool
	Rand          *rand.Rand
}

// TeamAssignment pairs a created team with its drafted members.
type TeamAssignment struct {
	Team    *models.Team         `json:"team"`
	Members []models.Participant `json:"members"`
}

type TeamService interface {
	AssignTeams(ctx context.Context, params AssignTeamsParams) ([]TeamAssignment, error)
	ListTeams(ctx context.Context, eventID int) ([]*models.Team, error)
	DeleteTeams(ctx context.Context, eventID int) error
}

type teamService struct {
	db              *sql.DB
	teamRepo        repositories.TeamRepository
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
	locks           *eventLocks
}

func NewTeamService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	participantRepo repositories.ParticipantRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		db:              db,
		teamRepo:        teamRepo,
		participantRepo: participantRepo,
		logger:          logger,
		locks:           newEventLocks(),
	}
}

func (s *teamService) withTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
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

// AssignTeams drafts the event's participants into teamCount teams and
// materializes them as team rows, replacing any previously generated set.
func (s *teamService) AssignTeams(ctx context.Context, params AssignTeamsParams) ([]TeamAssignment, error) {
	participants, err := s.participantRepo.ListByEvent(ctx, params.EventID, params.CheckedInOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for event %d: %w", params.EventID, err)
	}
	if len(participants) == 0 {
		return nil, ErrNoParticipants
	}

	pool := make([]models.Participant, len(participants))
	for i, p := range participants {
		pool[i] = *p
	}

	groups, err := assign.Split(pool, params.TeamCount, params.Mode, assign.Options{
		BalanceGender: params.BalanceGender,
	}, params.Rand)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(params.EventID)
	defer unlock()

	assignments := make([]TeamAssignment, len(groups))
	err = s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.teamRepo.DeleteByEvent(ctx, exec, params.EventID); err != nil {
			return fmt.Errorf("failed to discard previous team set for event %d: %w", params.EventID, err)
		}
		teams := make([]*models.Team, len(groups))
		for i := range groups {
			teams[i] = &models.Team{
				EventID:    params.EventID,
				Name:       fmt.Sprintf("Team %d", i+1),
				Color:      teamColors[i%len(teamColors)],
				OrderIndex: i,
			}
		}
		if err := s.teamRepo.BatchCreate(ctx, exec, teams); err != nil {
			return err
		}
		for i := range groups {
			assignments[i] = TeamAssignment{Team: teams[i], Members: groups[i]}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("teams assigned",
		slog.Int("event_id", params.EventID),
		slog.Int("teams", len(assignments)),
		slog.String("mode", string(params.Mode)))
	return assignments, nil
}

func (s *teamService) ListTeams(ctx context.Context, eventID int) ([]*models.Team, error) {
	return s.teamRepo.ListByEvent(ctx, eventID)
}

// DeleteTeams discards the event's generated team set in bulk.
func (s *teamService) DeleteTeams(ctx context.Context, eventID int) error {
	unlock := s.locks.Lock(eventID)
	defer unlock()
	return s.withTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.teamRepo.DeleteByEvent(ctx, exec, eventID)
	})
}
