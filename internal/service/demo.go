package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
)

// DemoAccount is the client created by SeedDemo.
var DemoAccount = RegisterInput{
	Name:     "Financial Advisor Demo",
	Email:    "demo@financialadvisor.com",
	Password: "demo123",
	Company:  "Demo Financial Services",
}

var demoLeads = []domain.LeadFields{
	{
		Name:   "John Smith",
		Email:  "john.smith@example.com",
		Phone:  "+1 (555) 123-4567",
		Status: domain.LeadStatusNew,
		Source: "Website Contact Form",
		Budget: "$250,000 - $500,000",
		Notes:  "Interested in retirement planning and investment management.",
	},
	{
		Name:   "Sarah Johnson",
		Email:  "sarah.j@example.com",
		Phone:  "+1 (555) 234-5678",
		Status: domain.LeadStatusContacted,
		Source: "Referral",
		Budget: "$100,000 - $250,000",
		Notes:  "Looking for wealth management services. Has existing portfolio.",
	},
	{
		Name:   "Michael Brown",
		Email:  "mbrown@example.com",
		Phone:  "+1 (555) 345-6789",
		Status: domain.LeadStatusQualified,
		Source: "LinkedIn",
		Budget: "$500,000+",
		Notes:  "Business owner seeking comprehensive financial planning.",
	},
	{
		Name:   "Emily Davis",
		Email:  "emily.davis@example.com",
		Phone:  "+1 (555) 456-7890",
		Status: domain.LeadStatusConverted,
		Source: "Google Ads",
		Budget: "$75,000 - $100,000",
		Notes:  "Signed up for retirement planning package.",
	},
	{
		Name:   "Robert Wilson",
		Email:  "r.wilson@example.com",
		Phone:  "+1 (555) 567-8901",
		Status: domain.LeadStatusNew,
		Source: "Facebook",
		Budget: "$50,000 - $75,000",
		Notes:  "First-time investor, needs guidance on starting portfolio.",
	},
}

// SeedResult describes what SeedDemo did.
type SeedResult struct {
	Created bool
	Tenant  *domain.Tenant
	Leads   int
}

// SeedDemo registers DemoAccount and gives it a handful of sample leads.
// When the demo email is already registered nothing is written.
func SeedDemo(ctx context.Context, tenants *TenantService, leads *LeadService) (*SeedResult, error) {
	tenant, err := tenants.Register(ctx, DemoAccount)
	if errors.Is(err, ErrEmailTaken) {
		return &SeedResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("register demo client: %w", err)
	}

	res := &SeedResult{Created: true, Tenant: tenant}
	for _, f := range demoLeads {
		if _, err := leads.Create(ctx, tenant.ID, f); err != nil {
			return res, fmt.Errorf("create demo lead %q: %w", f.Name, err)
		}
		res.Leads++
	}
	return res, nil
}
