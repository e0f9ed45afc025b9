package db

import (
	"github.com/creativeplatform/tokengate/internal/models/sqlmodel"
	"github.com/creativeplatform/tokengate/internal/utils/idutils"
	"github.com/creativeplatform/tokengate/pkg/models/gate"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Audit event kinds.
const (
	AuditEventIssuance     = "ISSUANCE"
	AuditEventVerification = "VERIFICATION"
)

// SaveGateAuditEntryToLocalDB writes one decision record to the
// gate_audit_entries table.
func SaveGateAuditEntryToLocalDB(event string, viewerAddress string, ctx *gate.Context, decision *gate.Decision, db *gorm.DB) error {
	id, err := idutils.GenerateSnowflakeId()
	if err != nil {
		return err
	}

	entry := &sqlmodel.GateAuditEntry{
		ID:              id,
		Event:           event,
		ViewerAddress:   viewerAddress,
		CreatorAddress:  ctx.CreatorAddress,
		ContractAddress: ctx.ContractAddress,
		TokenID:         ctx.TokenID,
		Chain:           ctx.Chain,
		Allowed:         decision.Allowed,
		Reason:          decision.Reason,
	}

	dbResult := db.Create(entry)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "failed to save the audit entry to the database")
	}

	return nil
}
