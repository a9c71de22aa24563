package store

import (
	"context"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
)

// ActivityStore only appends and reads. Rows are removed solely by the
// leads foreign key cascade.
type ActivityStore struct {
	db DBTX
}

func NewActivityStore(db DBTX) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) Append(ctx context.Context, a *domain.Activity) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO lead_activities (lead_id, activity_type, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.LeadID, a.Kind, a.Description,
	).Scan(&a.ID, &a.CreatedAt)
}

func (s *ActivityStore) ListByLead(ctx context.Context, leadID int64) ([]domain.Activity, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, lead_id, activity_type, description, created_at
		 FROM lead_activities WHERE lead_id = $1
		 ORDER BY created_at DESC, id DESC`,
		leadID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := []domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Kind, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
