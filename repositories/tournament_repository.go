package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByEvent(ctx context.Context, exec SQLExecutor, eventID int) (*models.Tournament, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	executor := r.getExecutor(exec)
	settingsJSON, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal tournament settings: %w", err)
	}

	query := `
		INSERT INTO tournaments (event_id, format, courts, settings_json)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return executor.QueryRowContext(ctx, query,
		t.EventID, t.Format, t.Courts, settingsJSON,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *postgresTournamentRepository) scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	t := &models.Tournament{}
	var settingsJSON []byte
	err := rowScanner.Scan(&t.ID, &t.EventID, &t.Format, &t.Courts, &settingsJSON, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &t.Settings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal settings for tournament %d: %w", t.ID, err)
		}
	}
	return t, nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, event_id, format, courts, settings_json, created_at
		FROM tournaments
		WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanTournament(row)
}

func (r *postgresTournamentRepository) GetByEvent(ctx context.Context, exec SQLExecutor, eventID int) (*models.Tournament, error) {
	executor := r.getExecutor(exec)
	// The product model is one live tournament per event; pick the newest in
	// case historical rows exist.
	query := `
		SELECT id, event_id, format, courts, settings_json, created_at
		FROM tournaments
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	row := executor.QueryRowContext(ctx, query, eventID)
	return r.scanTournament(row)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
