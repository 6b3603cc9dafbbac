// Package scope derives an access scope from an authenticated principal's
// role attributes and exposes the query filter each scope implies. A scope
// is resolved once per request and passed explicitly to every store call so
// list, single-item fetch and aggregation operations can never disagree
// about visibility.
package scope

import (
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
)

// Identity is the authenticated principal's role/organization attributes
// for the current request. Pure data; produced from the loaded user record.
type Identity struct {
	UserID           uint64
	Role             models.GlobalRole
	OrganizationID   *uint64
	OrganizationRole *models.OrganizationRole
}

// FromUser builds an Identity from a loaded user record.
func FromUser(u *models.User) Identity {
	return Identity{
		UserID:           u.ID,
		Role:             u.Role,
		OrganizationID:   u.OrganizationID,
		OrganizationRole: u.OrganizationRole,
	}
}

// Kind tags the four mutually exclusive access scopes.
type Kind string

const (
	// Unrestricted sees every task across all organizations.
	Unrestricted Kind = "unrestricted"
	// OrganizationWide sees every task in the principal's organization.
	OrganizationWide Kind = "organization_wide"
	// SelfWithinOrganization sees only tasks in the principal's organization
	// that are assigned to the principal.
	SelfWithinOrganization Kind = "self_within_organization"
	// None matches no tasks at all.
	None Kind = "none"
)

// Scope is the resolved access level plus the parameters its filter needs.
type Scope struct {
	Kind           Kind
	UserID         uint64
	OrganizationID uint64
}

// Resolve maps an identity to its scope. The global role is checked first:
// a superadmin resolves to Unrestricted even if organization fields are
// somehow set on the record.
func Resolve(id Identity) Scope {
	if id.Role == models.GlobalRoleSuperAdmin {
		return Scope{Kind: Unrestricted, UserID: id.UserID}
	}

	if id.Role == models.GlobalRoleUser && id.OrganizationID != nil && id.OrganizationRole != nil {
		switch *id.OrganizationRole {
		case models.OrgRoleAdmin:
			return Scope{Kind: OrganizationWide, UserID: id.UserID, OrganizationID: *id.OrganizationID}
		case models.OrgRoleMember:
			return Scope{Kind: SelfWithinOrganization, UserID: id.UserID, OrganizationID: *id.OrganizationID}
		}
	}

	return Scope{Kind: None, UserID: id.UserID}
}

// TaskFilter is a GORM scope restricting a task query to what the access
// scope allows. Usable with db.Scopes(s.TaskFilter).
func (s Scope) TaskFilter(db *gorm.DB) *gorm.DB {
	switch s.Kind {
	case Unrestricted:
		return db
	case OrganizationWide:
		return db.Where("tasks.organization_id = ?", s.OrganizationID)
	case SelfWithinOrganization:
		return db.Where("tasks.organization_id = ?", s.OrganizationID).
			Scopes(AssignedTo(s.UserID))
	default:
		return db.Where("1 = 0")
	}
}

// UserFilter restricts a user query to accounts visible under the scope:
// everyone for Unrestricted, same-organization users otherwise, nothing
// for principals without an organization.
func (s Scope) UserFilter(db *gorm.DB) *gorm.DB {
	switch s.Kind {
	case Unrestricted:
		return db
	case OrganizationWide, SelfWithinOrganization:
		return db.Where("users.organization_id = ?", s.OrganizationID)
	default:
		return db.Where("1 = 0")
	}
}

// AssignedTo is a GORM scope matching tasks assigned to the given user,
// with no organization constraint. Used both by SelfWithinOrganization and
// by the personal dashboard, which ignores rank entirely.
func AssignedTo(userID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.TaskAssignment{}).
			Select("1").
			Where("task_assignments.task_id = tasks.id").
			Where("task_assignments.user_id = ?", userID)
		return db.Where("EXISTS (?)", sub)
	}
}
