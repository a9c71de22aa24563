package domain

import (
	"fmt"
	"time"
)

const (
	ActivityKindCreated      = "created"
	ActivityKindStatusChange = "status_change"
	ActivityKindNote         = "note"
)

const LeadCreatedDescription = "Lead created"

// Activity is an immutable audit entry attached to a lead.
type Activity struct {
	ID          int64     `json:"id"`
	LeadID      int64     `json:"lead_id"`
	Kind        string    `json:"activity_type"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func StatusChangeDescription(from, to LeadStatus) string {
	return fmt.Sprintf("Status changed from %s to %s", from, to)
}
