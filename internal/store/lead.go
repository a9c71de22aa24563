package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

const leadColumns = `id, client_id, name, email, phone, status, source, budget, notes, created_at, updated_at`

type LeadStore struct {
	db DBTX
}

func NewLeadStore(db DBTX) *LeadStore {
	return &LeadStore{db: db}
}

func scanLead(row pgx.Row) (*domain.Lead, error) {
	l := &domain.Lead{}
	err := row.Scan(&l.ID, &l.ClientID, &l.Name, &l.Email, &l.Phone, &l.Status, &l.Source, &l.Budget, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *LeadStore) Create(ctx context.Context, l *domain.Lead) error {
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	return s.db.QueryRow(ctx,
		`INSERT INTO leads (client_id, name, email, phone, status, source, budget, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		l.ClientID, l.Name, l.Email, l.Phone, l.Status, l.Source, l.Budget, l.Notes,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (s *LeadStore) GetByID(ctx context.Context, id int64, clientID int64) (*domain.Lead, error) {
	return scanLead(s.db.QueryRow(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1 AND client_id = $2`,
		id, clientID,
	))
}

func (s *LeadStore) ListByClient(ctx context.Context, clientID int64) ([]domain.Lead, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE client_id = $1
		 ORDER BY created_at DESC, id DESC`,
		clientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []domain.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

// Update replaces every mutable field of the lead identified by l.ID and
// l.ClientID.
func (s *LeadStore) Update(ctx context.Context, l *domain.Lead) error {
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	err := s.db.QueryRow(ctx,
		`UPDATE leads
		 SET name = $1, email = $2, phone = $3, status = $4, source = $5, budget = $6, notes = $7, updated_at = now()
		 WHERE id = $8 AND client_id = $9
		 RETURNING created_at, updated_at`,
		l.Name, l.Email, l.Phone, l.Status, l.Source, l.Budget, l.Notes, l.ID, l.ClientID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *LeadStore) UpdateStatus(ctx context.Context, id int64, clientID int64, status domain.LeadStatus) (*domain.Lead, error) {
	return scanLead(s.db.QueryRow(ctx,
		`UPDATE leads SET status = $1, updated_at = now()
		 WHERE id = $2 AND client_id = $3
		 RETURNING `+leadColumns,
		status, id, clientID,
	))
}

func (s *LeadStore) Delete(ctx context.Context, id int64, clientID int64) (bool, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM leads WHERE id = $1 AND client_id = $2`,
		id, clientID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *LeadStore) Stats(ctx context.Context, clientID int64) (*domain.LeadStats, error) {
	st := &domain.LeadStats{}
	err := s.db.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'new'),
			COUNT(*) FILTER (WHERE status = 'contacted'),
			COUNT(*) FILTER (WHERE status = 'qualified'),
			COUNT(*) FILTER (WHERE status = 'converted'),
			COUNT(*) FILTER (WHERE status = 'lost')
		 FROM leads WHERE client_id = $1`,
		clientID,
	).Scan(&st.Total, &st.New, &st.Contacted, &st.Qualified, &st.Converted, &st.Lost)
	if err != nil {
		return nil, err
	}
	st.ComputeConversionRate()
	return st, nil
}
