package dto

import (
	"encoding/json"
	"time"

	"centrebooks/internal/domain/audit"
)

// AuditEntryResponse is one change in a record's history.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	UserID    string          `json:"userId,omitempty"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromAuditEntries converts a history listing.
func FromAuditEntries(entries []audit.Entry) ItemsResponse[AuditEntryResponse] {
	out := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = AuditEntryResponse{
			ID:        e.ID.String(),
			Action:    string(e.Action),
			UserID:    e.UserID,
			Changes:   e.Changes,
			CreatedAt: e.CreatedAt,
		}
	}
	return ItemsResponse[AuditEntryResponse]{Items: out}
}
