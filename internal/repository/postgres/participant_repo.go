package postgres

import (
	"context"
	"database/sql"
	"strings"

	"eventregistration/internal/domain"
)

const participantColumns = `id, full_name, email, dob, referral, event_id, created_at, updated_at`

type participantRepository struct {
	DB *sql.DB
}

func NewParticipantRepository(db *sql.DB) domain.ParticipantRepository {
	return &participantRepository{
		DB: db,
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	query := `
		INSERT INTO participants (id, full_name, email, dob, referral, event_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	id := domain.NewID()
	if _, err := r.DB.ExecContext(ctx, query, id, p.FullName, p.Email, p.DOB, p.Referral, p.EventID, p.CreatedAt, p.UpdatedAt); err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *participantRepository) ListByEventID(ctx context.Context, eventID, search string) ([]*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE event_id = $1`
	args := []any{eventID}
	if search != "" {
		query += ` AND (full_name ILIKE $2 ESCAPE '\' OR email ILIKE $2 ESCAPE '\')`
		args = append(args, "%"+escapeLike(search)+"%")
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []*domain.Participant
	for rows.Next() {
		p := &domain.Participant{}
		if err := rows.Scan(&p.ID, &p.FullName, &p.Email, &p.DOB, &p.Referral, &p.EventID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if participants == nil {
		participants = []*domain.Participant{}
	}
	return participants, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the LIKE metacharacters so the search term matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
