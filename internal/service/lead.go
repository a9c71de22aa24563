package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/metrics"
	"github.com/Harshitk-cp/leaddesk/internal/store"
	"go.uber.org/zap"
)

var (
	ErrLeadNotFound     = errors.New("lead not found")
	ErrLeadNameRequired = errors.New("name is required")
	ErrStatusRequired   = errors.New("status is required")
	ErrInvalidStatus    = errors.New("status must be one of new, contacted, qualified, converted, lost")
)

// LeadService owns the lead lifecycle rules: ownership checks, status
// transitions and the activity audit trail. Every write that touches both a
// lead and its activities runs in one transaction.
type LeadService struct {
	leads      domain.LeadStore
	activities domain.ActivityStore
	tx         domain.Transactor
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewLeadService(leads domain.LeadStore, activities domain.ActivityStore, tx domain.Transactor, m *metrics.Metrics, logger *zap.Logger) *LeadService {
	return &LeadService{
		leads:      leads,
		activities: activities,
		tx:         tx,
		metrics:    m,
		logger:     logger,
	}
}

func (s *LeadService) List(ctx context.Context, clientID int64) ([]domain.Lead, error) {
	return s.leads.ListByClient(ctx, clientID)
}

func (s *LeadService) Stats(ctx context.Context, clientID int64) (*domain.LeadStats, error) {
	return s.leads.Stats(ctx, clientID)
}

func (s *LeadService) Create(ctx context.Context, clientID int64, fields domain.LeadFields) (*domain.Lead, error) {
	if err := validateFields(&fields); err != nil {
		return nil, err
	}

	lead := newLead(clientID, fields)
	err := s.tx.InTx(ctx, func(leads domain.LeadStore, activities domain.ActivityStore) error {
		if err := leads.Create(ctx, lead); err != nil {
			return err
		}
		return s.appendActivity(ctx, activities, lead.ID, domain.ActivityKindCreated, domain.LeadCreatedDescription)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLeadOperation("create")
	s.logger.Debug("lead created", zap.Int64("tenant_id", clientID), zap.Int64("lead_id", lead.ID))
	return lead, nil
}

// Update replaces the lead's mutable fields. A status_change activity is
// written only when the persisted status differs from the previous one.
func (s *LeadService) Update(ctx context.Context, id, clientID int64, fields domain.LeadFields) (*domain.Lead, error) {
	if err := validateFields(&fields); err != nil {
		return nil, err
	}

	lead := newLead(clientID, fields)
	lead.ID = id
	err := s.tx.InTx(ctx, func(leads domain.LeadStore, activities domain.ActivityStore) error {
		current, err := leads.GetByID(ctx, id, clientID)
		if err != nil {
			return err
		}
		if err := leads.Update(ctx, lead); err != nil {
			return err
		}
		if current.Status == lead.Status {
			return nil
		}
		return s.appendActivity(ctx, activities, id, domain.ActivityKindStatusChange,
			domain.StatusChangeDescription(current.Status, lead.Status))
	})
	if err != nil {
		return nil, notFound(err)
	}

	s.metrics.RecordLeadOperation("update")
	return lead, nil
}

// ChangeStatus sets a new status and always records the transition, even
// when the status is unchanged.
func (s *LeadService) ChangeStatus(ctx context.Context, id, clientID int64, status string) (*domain.Lead, error) {
	if status == "" {
		return nil, ErrStatusRequired
	}
	if !domain.ValidLeadStatus(status) {
		return nil, ErrInvalidStatus
	}
	next := domain.LeadStatus(status)

	var updated *domain.Lead
	err := s.tx.InTx(ctx, func(leads domain.LeadStore, activities domain.ActivityStore) error {
		current, err := leads.GetByID(ctx, id, clientID)
		if err != nil {
			return err
		}
		updated, err = leads.UpdateStatus(ctx, id, clientID, next)
		if err != nil {
			return err
		}
		return s.appendActivity(ctx, activities, id, domain.ActivityKindStatusChange,
			domain.StatusChangeDescription(current.Status, updated.Status))
	})
	if err != nil {
		return nil, notFound(err)
	}

	s.metrics.RecordLeadOperation("change_status")
	s.logger.Debug("lead status changed",
		zap.Int64("tenant_id", clientID),
		zap.Int64("lead_id", id),
		zap.String("status", string(next)),
	)
	return updated, nil
}

func (s *LeadService) Delete(ctx context.Context, id, clientID int64) error {
	removed, err := s.leads.Delete(ctx, id, clientID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrLeadNotFound
	}
	s.metrics.RecordLeadOperation("delete")
	return nil
}

func (s *LeadService) GetDetail(ctx context.Context, id, clientID int64) (*domain.LeadDetail, error) {
	lead, err := s.leads.GetByID(ctx, id, clientID)
	if err != nil {
		return nil, notFound(err)
	}
	activities, err := s.activities.ListByLead(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.LeadDetail{Lead: *lead, Activities: activities}, nil
}

// AddActivity appends a manual entry to an owned lead and returns the lead's
// full activity list, newest first. kind defaults to "note".
func (s *LeadService) AddActivity(ctx context.Context, id, clientID int64, kind, description string) ([]domain.Activity, error) {
	if strings.TrimSpace(kind) == "" {
		kind = domain.ActivityKindNote
	}

	var list []domain.Activity
	err := s.tx.InTx(ctx, func(leads domain.LeadStore, activities domain.ActivityStore) error {
		if _, err := leads.GetByID(ctx, id, clientID); err != nil {
			return err
		}
		if err := s.appendActivity(ctx, activities, id, kind, description); err != nil {
			return err
		}
		var err error
		list, err = activities.ListByLead(ctx, id)
		return err
	})
	if err != nil {
		return nil, notFound(err)
	}
	return list, nil
}

func (s *LeadService) appendActivity(ctx context.Context, activities domain.ActivityStore, leadID int64, kind, description string) error {
	a := &domain.Activity{LeadID: leadID, Kind: kind, Description: description}
	if err := activities.Append(ctx, a); err != nil {
		return err
	}
	s.metrics.RecordActivity(kind)
	return nil
}

func validateFields(f *domain.LeadFields) error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrLeadNameRequired
	}
	if f.Status == "" {
		f.Status = domain.LeadStatusNew
		return nil
	}
	if !domain.ValidLeadStatus(string(f.Status)) {
		return ErrInvalidStatus
	}
	return nil
}

func newLead(clientID int64, f domain.LeadFields) *domain.Lead {
	return &domain.Lead{
		ClientID: clientID,
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		Status:   f.Status,
		Source:   f.Source,
		Budget:   f.Budget,
		Notes:    f.Notes,
	}
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrLeadNotFound
	}
	return err
}
