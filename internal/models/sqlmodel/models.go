package sqlmodel

import (
	"gorm.io/gorm"
)

// GateAuditEntry defines the table gate_audit_entries, one row per issuance or
// verification decision. Rows are written best-effort; a failed write never
// changes the decision.
type GateAuditEntry struct {
	gorm.Model
	ID              int64
	Event           string `gorm:"type:ENUM('ISSUANCE', 'VERIFICATION') NOT NULL"`
	ViewerAddress   string `gorm:"type:VARCHAR(64)"`
	CreatorAddress  string `gorm:"type:VARCHAR(64) NOT NULL"`
	ContractAddress string `gorm:"type:VARCHAR(64) NOT NULL"`
	TokenID         string `gorm:"type:VARCHAR(128) NOT NULL"`
	Chain           int    `gorm:"not null"`
	Allowed         bool   `gorm:"not null"`
	Reason          string `gorm:"type:VARCHAR(32)"`
}

// Revocation defines the table revocations, the denylist consulted during
// verification. A row revokes every outstanding key for one gating context,
// identified by the SHA-256 of its canonical serialization.
type Revocation struct {
	gorm.Model
	ContextHash string `gorm:"type:CHAR(64) NOT NULL;uniqueIndex"`
	Reason      string `gorm:"type:VARCHAR(255)"`
}

// Custom table name for GateAuditEntry.
func (GateAuditEntry) TableName() string {
	return "gate_audit_entries"
}

// Custom table name for Revocation.
func (Revocation) TableName() string {
	return "revocations"
}
