package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, winnerID *int, status models.MatchStatus) error
	FillSlot(ctx context.Context, exec SQLExecutor, id, slot, teamID int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round, match_number, court,
	team1_id, team2_id, slot1_ref, slot2_ref,
	score1, score2, winner_id, status, branch, created_at`

func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, round, match_number, court, team1_id, team2_id,
			 slot1_ref, slot2_ref, status, branch)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	for _, m := range matches {
		err := executor.QueryRowContext(ctx, query,
			m.TournamentID, m.Round, m.MatchNumber, m.Court,
			m.Team1ID, m.Team2ID, m.Slot1Ref, m.Slot2Ref,
			m.Status, m.Branch,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert match R%dM%d: %w", m.Round, m.MatchNumber, err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.MatchNumber, &m.Court,
		&m.Team1ID, &m.Team2ID, &m.Slot1Ref, &m.Slot2Ref,
		&m.Score1, &m.Score2, &m.WinnerID, &m.Status, &m.Branch, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanMatch(row)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		ORDER BY branch ASC, round ASC, match_number ASC`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, id int, score1, score2 int, winnerID *int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET score1 = $1, score2 = $2, winner_id = $3, status = $4
		WHERE id = $5`
	result, err := executor.ExecContext(ctx, query, score1, score2, winnerID, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// FillSlot resolves a pending bracket slot with an advancing team. The slot
// reference is cleared so the match no longer depends on its source.
func (r *postgresMatchRepository) FillSlot(ctx context.Context, exec SQLExecutor, id, slot, teamID int) error {
	executor := r.getExecutor(exec)
	var query string
	switch slot {
	case 1:
		query = `UPDATE matches SET team1_id = $1, slot1_ref = NULL WHERE id = $2`
	case 2:
		query = `UPDATE matches SET team2_id = $1, slot2_ref = NULL WHERE id = $2`
	default:
		return fmt.Errorf("invalid match slot %d", slot)
	}
	result, err := executor.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	return err
}
