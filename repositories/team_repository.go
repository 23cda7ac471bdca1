package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, teams []*models.Team) error
	ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error)
	DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) BatchCreate(ctx context.Context, exec SQLExecutor, teams []*models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (event_id, name, color, order_index)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	for _, t := range teams {
		err := executor.QueryRowContext(ctx, query,
			t.EventID, t.Name, t.Color, t.OrderIndex,
		).Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert team %q: %w", t.Name, err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) listTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		t := &models.Team{}
		if scanErr := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.Color, &t.OrderIndex, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) ListByEvent(ctx context.Context, eventID int) ([]*models.Team, error) {
	query := `
		SELECT id, event_id, name, color, order_index, created_at
		FROM teams
		WHERE event_id = $1
		ORDER BY order_index ASC`
	return r.listTeams(ctx, query, eventID)
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	query := `
		SELECT id, event_id, name, color, order_index, created_at
		FROM teams
		WHERE id = ANY($1)
		ORDER BY order_index ASC`
	return r.listTeams(ctx, query, pq.Array(ids))
}

func (r *postgresTeamRepository) DeleteByEvent(ctx context.Context, exec SQLExecutor, eventID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM teams WHERE event_id = $1`, eventID)
	return err
}
