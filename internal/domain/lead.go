package domain

import (
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// LeadStatuses lists every status in typical progression order.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusLost,
}

func ValidLeadStatus(s string) bool {
	switch LeadStatus(s) {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID        int64      `json:"id"`
	ClientID  int64      `json:"client_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Status    LeadStatus `json:"status"`
	Source    string     `json:"source"`
	Budget    string     `json:"budget"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LeadFields holds the mutable attributes of a lead. An empty Status means
// the caller did not supply one.
type LeadFields struct {
	Name   string
	Email  string
	Phone  string
	Status LeadStatus
	Source string
	Budget string
	Notes  string
}

// LeadDetail is a lead together with its activity trail, newest first.
type LeadDetail struct {
	Lead
	Activities []Activity `json:"activities"`
}

// LeadStats are per-status lead counts for a single tenant.
type LeadStats struct {
	Total          int     `json:"total"`
	New            int     `json:"new"`
	Contacted      int     `json:"contacted"`
	Qualified      int     `json:"qualified"`
	Converted      int     `json:"converted"`
	Lost           int     `json:"lost"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ComputeConversionRate sets ConversionRate as the converted percentage of
// total, rounded to one decimal place.
func (s *LeadStats) ComputeConversionRate() {
	if s.Total == 0 {
		s.ConversionRate = 0
		return
	}
	rate := float64(s.Converted) / float64(s.Total) * 100
	s.ConversionRate = float64(int64(rate*10+0.5)) / 10
}
