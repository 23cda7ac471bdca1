package repositories

import (
	"context"
	"database/sql"

	"github.com/tatsuya-kayama-ml/atsume/models"
)

// ParticipantRepository reads the externally-owned participants collection.
// This service never writes participant records.
type ParticipantRepository interface {
	ListByEvent(ctx context.Context, eventID int, checkedInOnly bool) ([]*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) ListByEvent(ctx context.Context, eventID int, checkedInOnly bool) ([]*models.Participant, error) {
	query := `
		SELECT id, event_id, name, skill_level, gender, checked_in
		FROM participants
		WHERE event_id = $1`
	if checkedInOnly {
		query += ` AND checked_in = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if scanErr := rows.Scan(&p.ID, &p.EventID, &p.Name, &p.SkillLevel, &p.Gender, &p.CheckedIn); scanErr != nil {
			return nil, scanErr
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
