package models

import (
	"time"

	"gorm.io/gorm"
)

type GlobalRole string

const (
	GlobalRoleSuperAdmin GlobalRole = "superadmin"
	GlobalRoleUser       GlobalRole = "user"
)

type OrganizationRole string

const (
	OrgRoleAdmin  OrganizationRole = "admin"
	OrgRoleMember OrganizationRole = "member"
)

type User struct {
	ID               uint64            `gorm:"primarykey" json:"id"`
	Name             string            `gorm:"type:varchar(255);not null" json:"name"`
	Email            string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string            `gorm:"type:varchar(255);not null" json:"-"`
	ProfileImageURL  string            `gorm:"type:varchar(512)" json:"profile_image_url"`
	Role             GlobalRole        `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	OrganizationID   *uint64           `gorm:"index" json:"organization_id"`
	OrganizationRole *OrganizationRole `gorm:"type:varchar(20)" json:"organization_role"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relations
	Organization *Organization    `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedTasks []Task           `gorm:"foreignKey:CreatedByID" json:"-"`
	Assignments  []TaskAssignment `gorm:"foreignKey:UserID" json:"-"`
}

// IsSuperAdmin reports whether the user holds the global superadmin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == GlobalRoleSuperAdmin
}

// IsOrgAdmin reports whether the user is an admin of their organization.
func (u *User) IsOrgAdmin() bool {
	return u.Role == GlobalRoleUser && u.OrganizationRole != nil && *u.OrganizationRole == OrgRoleAdmin
}

// IsOrgMember reports whether the user is a plain member of their organization.
func (u *User) IsOrgMember() bool {
	return u.Role == GlobalRoleUser && u.OrganizationRole != nil && *u.OrganizationRole == OrgRoleMember
}

// HasAdminRank reports whether the user holds elevated task authorization:
// either global superadmin or organization admin.
func (u *User) HasAdminRank() bool {
	return u.IsSuperAdmin() || u.IsOrgAdmin()
}
