package domain

import (
	"context"
)

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByEmail(ctx context.Context, email string) (*Tenant, error)
	GetByID(ctx context.Context, id int64) (*Tenant, error)
}

// LeadStore persists leads. Every mutating method filters on both the lead
// id and the owning client id.
type LeadStore interface {
	Create(ctx context.Context, l *Lead) error
	GetByID(ctx context.Context, id int64, clientID int64) (*Lead, error)
	ListByClient(ctx context.Context, clientID int64) ([]Lead, error)
	Update(ctx context.Context, l *Lead) error
	UpdateStatus(ctx context.Context, id int64, clientID int64, status LeadStatus) (*Lead, error)
	Delete(ctx context.Context, id int64, clientID int64) (bool, error)
	Stats(ctx context.Context, clientID int64) (*LeadStats, error)
}

// ActivityStore is append-only.
type ActivityStore interface {
	Append(ctx context.Context, a *Activity) error
	ListByLead(ctx context.Context, leadID int64) ([]Activity, error)
}

// Transactor runs fn with lead and activity stores bound to a single
// transaction. The transaction commits only if fn returns nil.
type Transactor interface {
	InTx(ctx context.Context, fn func(leads LeadStore, activities ActivityStore) error) error
}
