package models

import "time"

// Audit actions recorded by the gateway for admin mutations.
const (
	AuditActionCreate        = "CREATE"
	AuditActionUpdate        = "UPDATE"
	AuditActionDelete        = "DELETE"
	AuditActionMappingCreate = "MAPPING_CREATE"
	AuditActionMappingUpdate = "MAPPING_UPDATE"
	AuditActionMappingDelete = "MAPPING_DELETE"
)

// AuditEntry is a gateway-local record of an admin mutation that was
// forwarded upstream. It captures who asked for what, not what the
// upstream ultimately stored.
type AuditEntry struct {
	ID         string    `db:"id" json:"id"`
	Actor      string    `db:"actor" json:"actor"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *int64    `db:"resource_id" json:"resource_id,omitempty"`
	Payload    []byte    `db:"payload" json:"payload,omitempty"`
	Outcome    string    `db:"outcome" json:"outcome"`
	RequestID  string    `db:"request_id" json:"request_id,omitempty"`
	IP         string    `db:"ip" json:"ip,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter captures filtering criteria for listing audit entries.
type AuditFilter struct {
	Actor    string
	Action   string
	Resource string
	Page     int
	PageSize int
}
