package store

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TenantStore struct {
	db DBTX
}

func NewTenantStore(db DBTX) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO tenants (name, email, password_hash, company) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		t.Name, t.Email, t.PasswordHash, t.Company,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// GetByEmail returns the full record including the password hash.
func (s *TenantStore) GetByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, company, created_at
		 FROM tenants WHERE email = $1`,
		email,
	).Scan(&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.Company, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

// GetByID never loads the password hash.
func (s *TenantStore) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, company, created_at
		 FROM tenants WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Name, &t.Email, &t.Company, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}
