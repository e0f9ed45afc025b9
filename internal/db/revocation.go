package db

import (
	"github.com/creativeplatform/tokengate/internal/models/sqlmodel"
	"github.com/creativeplatform/tokengate/pkg/errorcode"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRevocationToLocalDB places a gating context on the denylist. Writing the
// same context hash twice updates the reason instead of failing.
func SaveRevocationToLocalDB(contextHash string, reason string, db *gorm.DB) error {
	revocation := &sqlmodel.Revocation{
		ContextHash: contextHash,
		Reason:      reason,
	}

	dbResult := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "context_hash"}},
		UpdateAll: true,
	}).Create(revocation)
	if dbResult.Error != nil {
		return errors.Wrap(dbResult.Error, "failed to save the revocation to the database")
	}

	return nil
}

// GetRevocationFromLocalDB reads the denylist entry for a context hash.
// Returns `errorcode.ErrorNotFound` when the context is not revoked.
func GetRevocationFromLocalDB(contextHash string, db *gorm.DB) (*sqlmodel.Revocation, error) {
	var revocation sqlmodel.Revocation
	dbResult := db.Where("context_hash = ?", contextHash).Take(&revocation)
	if dbResult.Error != nil {
		if errors.Cause(dbResult.Error) == gorm.ErrRecordNotFound {
			return nil, errorcode.ErrorNotFound
		} else {
			return nil, errors.Wrap(dbResult.Error, "failed to read the revocation from the database")
		}
	}

	return &revocation, nil
}
