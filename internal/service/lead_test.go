package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/Harshitk-cp/leaddesk/internal/metrics"
	"github.com/Harshitk-cp/leaddesk/internal/store/storetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	tenantA int64 = 1
	tenantB int64 = 2
)

func setupLeadTest() (*LeadService, *storetest.DB) {
	db := storetest.NewDB()
	svc := NewLeadService(
		db.LeadStore(),
		db.ActivityStore(),
		db.Transactor(),
		metrics.New(prometheus.NewRegistry()),
		zap.NewNop(),
	)
	return svc, db
}

func mustCreate(t *testing.T, svc *LeadService, clientID int64, fields domain.LeadFields) *domain.Lead {
	t.Helper()
	lead, err := svc.Create(context.Background(), clientID, fields)
	require.NoError(t, err)
	return lead
}

func TestLeadService_Create(t *testing.T) {
	svc, db := setupLeadTest()

	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Jane Doe"})

	assert.NotZero(t, lead.ID)
	assert.Equal(t, tenantA, lead.ClientID)
	assert.Equal(t, domain.LeadStatusNew, lead.Status)
	assert.Equal(t, "", lead.Email)

	acts := db.ActivitiesFor(lead.ID)
	require.Len(t, acts, 1)
	assert.Equal(t, domain.ActivityKindCreated, acts[0].Kind)
	assert.Equal(t, "Lead created", acts[0].Description)
}

func TestLeadService_Create_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields domain.LeadFields
		want   error
	}{
		{"missing name", domain.LeadFields{Email: "a@b.c"}, ErrLeadNameRequired},
		{"blank name", domain.LeadFields{Name: "   "}, ErrLeadNameRequired},
		{"unknown status", domain.LeadFields{Name: "X", Status: "won"}, ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := setupLeadTest()
			_, err := svc.Create(context.Background(), tenantA, tt.fields)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, db.Leads)
			assert.Empty(t, db.Activities)
		})
	}
}

func TestLeadService_Create_ExplicitStatus(t *testing.T) {
	svc, _ := setupLeadTest()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Q", Status: domain.LeadStatusQualified})
	assert.Equal(t, domain.LeadStatusQualified, lead.Status)
}

func TestLeadService_Create_RollsBackWhenAuditFails(t *testing.T) {
	svc, db := setupLeadTest()
	db.FailAppend = errors.New("disk full")

	_, err := svc.Create(context.Background(), tenantA, domain.LeadFields{Name: "Jane Doe"})
	require.Error(t, err)
	assert.Empty(t, db.Leads, "lead must not exist without its created activity")
	assert.Empty(t, db.Activities)
}

func TestLeadService_Update_StatusChangeLogged(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Jane Doe"})

	updated, err := svc.Update(ctx, lead.ID, tenantA, domain.LeadFields{
		Name:   "Jane Doe",
		Status: domain.LeadStatusQualified,
		Notes:  "warm",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusQualified, updated.Status)
	assert.Equal(t, "warm", updated.Notes)

	acts := db.ActivitiesFor(lead.ID)
	require.Len(t, acts, 2)
	assert.Equal(t, domain.ActivityKindStatusChange, acts[1].Kind)
	assert.Equal(t, "Status changed from new to qualified", acts[1].Description)
}

func TestLeadService_Update_SameStatusNotLogged(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Jane Doe", Status: domain.LeadStatusContacted})

	_, err := svc.Update(ctx, lead.ID, tenantA, domain.LeadFields{
		Name:   "Jane D.",
		Phone:  "+1 555",
		Status: domain.LeadStatusContacted,
	})
	require.NoError(t, err)
	assert.Len(t, db.ActivitiesFor(lead.ID), 1)
	assert.Equal(t, "Jane D.", db.Leads[lead.ID].Name)
}

func TestLeadService_Update_OmittedStatusResetsToNew(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Jane Doe"})

	updated, err := svc.Update(ctx, lead.ID, tenantA, domain.LeadFields{Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusNew, updated.Status)
	assert.Len(t, db.ActivitiesFor(lead.ID), 1, "new to new is not a transition")

	_, err = svc.ChangeStatus(ctx, lead.ID, tenantA, "lost")
	require.NoError(t, err)
	_, err = svc.Update(ctx, lead.ID, tenantA, domain.LeadFields{Name: "Jane Doe"})
	require.NoError(t, err)

	acts := db.ActivitiesFor(lead.ID)
	require.Len(t, acts, 3)
	assert.Equal(t, "Status changed from lost to new", acts[2].Description)
}

func TestLeadService_Update_Validation(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Jane Doe"})

	_, err := svc.Update(ctx, lead.ID, tenantA, domain.LeadFields{Status: domain.LeadStatusLost})
	assert.ErrorIs(t, err, ErrLeadNameRequired)

	_, err = svc.Update(ctx, lead.ID, tenantA, domain.LeadFields{Name: "Jane", Status: "undefined"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Equal(t, "Jane Doe", db.Leads[lead.ID].Name)
	assert.Equal(t, domain.LeadStatusNew, db.Leads[lead.ID].Status)
	assert.Len(t, db.Activities, 1)
}

func TestLeadService_ChangeStatus(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "John Smith"})

	updated, err := svc.ChangeStatus(ctx, lead.ID, tenantA, "contacted")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, updated.Status)
	assert.Equal(t, "John Smith", updated.Name)

	acts := db.ActivitiesFor(lead.ID)
	require.Len(t, acts, 2)
	assert.Equal(t, "Status changed from new to contacted", acts[1].Description)
}

func TestLeadService_ChangeStatus_SameStatusStillLogged(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "John Smith"})

	_, err := svc.ChangeStatus(ctx, lead.ID, tenantA, "new")
	require.NoError(t, err)

	acts := db.ActivitiesFor(lead.ID)
	require.Len(t, acts, 2)
	assert.Equal(t, domain.ActivityKindStatusChange, acts[1].Kind)
	assert.Equal(t, "Status changed from new to new", acts[1].Description)
}

func TestLeadService_ChangeStatus_Validation(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "John Smith"})

	_, err := svc.ChangeStatus(ctx, lead.ID, tenantA, "")
	assert.ErrorIs(t, err, ErrStatusRequired)

	_, err = svc.ChangeStatus(ctx, lead.ID, tenantA, "won")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	assert.Len(t, db.Activities, 1)
}

func TestLeadService_OwnershipIsolation(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Private", Status: domain.LeadStatusQualified})

	ops := map[string]func() error{
		"get detail": func() error {
			_, err := svc.GetDetail(ctx, lead.ID, tenantB)
			return err
		},
		"update": func() error {
			_, err := svc.Update(ctx, lead.ID, tenantB, domain.LeadFields{Name: "Stolen"})
			return err
		},
		"change status": func() error {
			_, err := svc.ChangeStatus(ctx, lead.ID, tenantB, "lost")
			return err
		},
		"add activity": func() error {
			_, err := svc.AddActivity(ctx, lead.ID, tenantB, "note", "peek")
			return err
		},
		"delete": func() error {
			return svc.Delete(ctx, lead.ID, tenantB)
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, op(), ErrLeadNotFound)
		})
	}

	stored := db.Leads[lead.ID]
	assert.Equal(t, "Private", stored.Name)
	assert.Equal(t, domain.LeadStatusQualified, stored.Status)
	assert.Len(t, db.Activities, 1)

	list, err := svc.List(ctx, tenantB)
	require.NoError(t, err)
	assert.Empty(t, list)

	stats, err := svc.Stats(ctx, tenantB)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestLeadService_Delete(t *testing.T) {
	svc, db := setupLeadTest()
	ctx := context.Background()
	keep := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Keep"})
	drop := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Drop"})

	assert.ErrorIs(t, svc.Delete(ctx, 9999, tenantA), ErrLeadNotFound)
	assert.Len(t, db.Leads, 2)

	require.NoError(t, svc.Delete(ctx, drop.ID, tenantA))
	assert.Len(t, db.Leads, 1)
	_, ok := db.Leads[keep.ID]
	assert.True(t, ok)

	assert.ErrorIs(t, svc.Delete(ctx, drop.ID, tenantA), ErrLeadNotFound)
}

func TestLeadService_GetDetail(t *testing.T) {
	svc, _ := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "John Smith"})
	_, err := svc.ChangeStatus(ctx, lead.ID, tenantA, "contacted")
	require.NoError(t, err)

	detail, err := svc.GetDetail(ctx, lead.ID, tenantA)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, detail.Status)
	require.Len(t, detail.Activities, 2)
	assert.Equal(t, domain.ActivityKindStatusChange, detail.Activities[0].Kind)
	assert.Equal(t, domain.ActivityKindCreated, detail.Activities[1].Kind)

	_, err = svc.GetDetail(ctx, 9999, tenantA)
	assert.ErrorIs(t, err, ErrLeadNotFound)
}

func TestLeadService_AddActivity(t *testing.T) {
	svc, _ := setupLeadTest()
	ctx := context.Background()
	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "John Smith"})

	list, err := svc.AddActivity(ctx, lead.ID, tenantA, "", "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.ActivityKindNote, list[0].Kind)
	assert.Equal(t, "", list[0].Description)

	list, err = svc.AddActivity(ctx, lead.ID, tenantA, "call", "Left voicemail")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "call", list[0].Kind)
	assert.Equal(t, "Left voicemail", list[0].Description)
	assert.Equal(t, domain.ActivityKindCreated, list[2].Kind)
}

func TestLeadService_StatsConsistency(t *testing.T) {
	svc, _ := setupLeadTest()
	ctx := context.Background()

	for _, st := range []domain.LeadStatus{"new", "new", "contacted", "qualified", "converted", "lost"} {
		mustCreate(t, svc, tenantA, domain.LeadFields{Name: "L", Status: st})
	}
	mustCreate(t, svc, tenantB, domain.LeadFields{Name: "Other"})

	stats, err := svc.Stats(ctx, tenantA)
	require.NoError(t, err)
	list, err := svc.List(ctx, tenantA)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, stats.Total, stats.New+stats.Contacted+stats.Qualified+stats.Converted+stats.Lost)
	assert.Equal(t, len(list), stats.Total)
	assert.Equal(t, 2, stats.New)
	assert.Equal(t, 16.7, stats.ConversionRate)
}

func TestLeadService_ListNewestFirst(t *testing.T) {
	svc, _ := setupLeadTest()
	first := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "First"})
	second := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "Second"})

	list, err := svc.List(context.Background(), tenantA)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestLeadService_EndToEnd(t *testing.T) {
	svc, _ := setupLeadTest()
	ctx := context.Background()

	lead := mustCreate(t, svc, tenantA, domain.LeadFields{Name: "John Smith"})
	assert.Equal(t, domain.LeadStatusNew, lead.Status)

	detail, err := svc.GetDetail(ctx, lead.ID, tenantA)
	require.NoError(t, err)
	require.Len(t, detail.Activities, 1)
	assert.Equal(t, domain.ActivityKindCreated, detail.Activities[0].Kind)

	updated, err := svc.ChangeStatus(ctx, lead.ID, tenantA, "contacted")
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStatusContacted, updated.Status)

	detail, err = svc.GetDetail(ctx, lead.ID, tenantA)
	require.NoError(t, err)
	require.Len(t, detail.Activities, 2)
	assert.Equal(t, domain.ActivityKindStatusChange, detail.Activities[0].Kind)
	assert.Equal(t, "Status changed from new to contacted", detail.Activities[0].Description)

	stats, err := svc.Stats(ctx, tenantA)
	require.NoError(t, err)
	assert.Equal(t, domain.LeadStats{Total: 1, Contacted: 1}, *stats)
}
