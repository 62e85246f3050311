package scope

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrgScope returns a GORM scope that restricts a query to one organization.
// Every tenant-owned table carries an org_id column; repositories apply this
// scope on every query so a missing tenancy filter cannot leak rows across
// organizations.
//
// Usage:
//
//	db.Scopes(scope.OrgScope(orgID)).Find(&buckets)
func OrgScope(orgID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("org_id = ?", orgID)
	}
}
