// Package storetest provides in-memory implementations of the domain store
// interfaces for tests.
package storetest

import (
	"context"
	"sort"
	"time"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/store"
)

// DB is an in-memory stand-in for the tenants, leads and lead_activities
// relations. Its Transactor snapshots lead and activity state and restores
// it when the transaction function fails. It is not safe for concurrent use.
type DB struct {
	Leads      map[int64]domain.Lead
	Activities []domain.Activity
	// FailAppend, when set, is returned by every activity append.
	FailAppend error

	tenants  *TenantStore
	nextLead int64
	nextAct  int64
	clock    time.Time
}

func NewDB() *DB {
	return &DB{
		Leads:   make(map[int64]domain.Lead),
		tenants: NewTenantStore(),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (db *DB) LeadStore() *LeadStore         { return &LeadStore{db: db} }
func (db *DB) ActivityStore() *ActivityStore { return &ActivityStore{db: db} }
func (db *DB) Transactor() *Transactor       { return &Transactor{db: db} }
func (db *DB) TenantStore() *TenantStore     { return db.tenants }

func (db *DB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

// ActivitiesFor returns a lead's activities in insertion order.
func (db *DB) ActivitiesFor(leadID int64) []domain.Activity {
	var out []domain.Activity
	for _, a := range db.Activities {
		if a.LeadID == leadID {
			out = append(out, a)
		}
	}
	return out
}

type LeadStore struct{ db *DB }

var (
	_ domain.LeadStore     = (*LeadStore)(nil)
	_ domain.ActivityStore = (*ActivityStore)(nil)
	_ domain.Transactor    = (*Transactor)(nil)
	_ domain.TenantStore   = (*TenantStore)(nil)
)

func (s *LeadStore) Create(ctx context.Context, l *domain.Lead) error {
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	s.db.nextLead++
	l.ID = s.db.nextLead
	now := s.db.tick()
	l.CreatedAt, l.UpdatedAt = now, now
	s.db.Leads[l.ID] = *l
	return nil
}

func (s *LeadStore) GetByID(ctx context.Context, id int64, clientID int64) (*domain.Lead, error) {
	l, ok := s.db.Leads[id]
	if !ok || l.ClientID != clientID {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (s *LeadStore) ListByClient(ctx context.Context, clientID int64) ([]domain.Lead, error) {
	out := []domain.Lead{}
	for _, l := range s.db.Leads {
		if l.ClientID == clientID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *LeadStore) Update(ctx context.Context, l *domain.Lead) error {
	current, ok := s.db.Leads[l.ID]
	if !ok || current.ClientID != l.ClientID {
		return store.ErrNotFound
	}
	if l.Status == "" {
		l.Status = domain.LeadStatusNew
	}
	l.CreatedAt = current.CreatedAt
	l.UpdatedAt = s.db.tick()
	s.db.Leads[l.ID] = *l
	return nil
}

func (s *LeadStore) UpdateStatus(ctx context.Context, id int64, clientID int64, status domain.LeadStatus) (*domain.Lead, error) {
	l, ok := s.db.Leads[id]
	if !ok || l.ClientID != clientID {
		return nil, store.ErrNotFound
	}
	l.Status = status
	l.UpdatedAt = s.db.tick()
	s.db.Leads[id] = l
	return &l, nil
}

func (s *LeadStore) Delete(ctx context.Context, id int64, clientID int64) (bool, error) {
	l, ok := s.db.Leads[id]
	if !ok || l.ClientID != clientID {
		return false, nil
	}
	delete(s.db.Leads, id)
	kept := s.db.Activities[:0]
	for _, a := range s.db.Activities {
		if a.LeadID != id {
			kept = append(kept, a)
		}
	}
	s.db.Activities = kept
	return true, nil
}

func (s *LeadStore) Stats(ctx context.Context, clientID int64) (*domain.LeadStats, error) {
	st := &domain.LeadStats{}
	for _, l := range s.db.Leads {
		if l.ClientID != clientID {
			continue
		}
		st.Total++
		switch l.Status {
		case domain.LeadStatusNew:
			st.New++
		case domain.LeadStatusContacted:
			st.Contacted++
		case domain.LeadStatusQualified:
			st.Qualified++
		case domain.LeadStatusConverted:
			st.Converted++
		case domain.LeadStatusLost:
			st.Lost++
		}
	}
	st.ComputeConversionRate()
	return st, nil
}

type ActivityStore struct{ db *DB }

func (s *ActivityStore) Append(ctx context.Context, a *domain.Activity) error {
	if s.db.FailAppend != nil {
		return s.db.FailAppend
	}
	s.db.nextAct++
	a.ID = s.db.nextAct
	a.CreatedAt = s.db.tick()
	s.db.Activities = append(s.db.Activities, *a)
	return nil
}

func (s *ActivityStore) ListByLead(ctx context.Context, leadID int64) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for i := len(s.db.Activities) - 1; i >= 0; i-- {
		if s.db.Activities[i].LeadID == leadID {
			out = append(out, s.db.Activities[i])
		}
	}
	return out, nil
}

type Transactor struct{ db *DB }

func (t *Transactor) InTx(ctx context.Context, fn func(leads domain.LeadStore, activities domain.ActivityStore) error) error {
	leads := make(map[int64]domain.Lead, len(t.db.Leads))
	for k, v := range t.db.Leads {
		leads[k] = v
	}
	activities := append([]domain.Activity(nil), t.db.Activities...)
	nextLead, nextAct := t.db.nextLead, t.db.nextAct

	if err := fn(&LeadStore{db: t.db}, &ActivityStore{db: t.db}); err != nil {
		t.db.Leads = leads
		t.db.Activities = activities
		t.db.nextLead, t.db.nextAct = nextLead, nextAct
		return err
	}
	return nil
}

type TenantStore struct {
	tenants map[int64]*domain.Tenant
	nextID  int64
}

func NewTenantStore() *TenantStore {
	return &TenantStore{tenants: make(map[int64]*domain.Tenant)}
}

func (m *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	for _, existing := range m.tenants {
		if existing.Email == t.Email {
			return store.ErrConflict
		}
	}
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now()
	cp := *t
	m.tenants[t.ID] = &cp
	return nil
}

func (m *TenantStore) GetByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	for _, t := range m.tenants {
		if t.Email == email {
			cp := *t
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

// Stored returns the persisted record, password hash included.
func (m *TenantStore) Stored(id int64) (*domain.Tenant, bool) {
	t, ok := m.tenants[id]
	return t, ok
}

func (m *TenantStore) Len() int {
	return len(m.tenants)
}

func (m *TenantStore) GetByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	cp.PasswordHash = ""
	return &cp, nil
}
