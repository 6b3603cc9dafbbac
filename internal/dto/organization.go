package dto

import (
	"time"

	"github.com/clearcove/task-tracker-api/internal/models"
)

// OrganizationDTO represents an organization in API responses
type OrganizationDTO struct {
	ID         uint64    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrganizationDetailDTO represents an organization with its member list
type OrganizationDetailDTO struct {
	OrganizationDTO
	Members []ProfileDTO `json:"members"`
}

// ToOrganizationDTO converts an organization model to DTO. The invite code
// is only included for organization admins.
func ToOrganizationDTO(org models.Organization, includeInviteCode bool) OrganizationDTO {
	dto := OrganizationDTO{
		ID:        org.ID,
		Name:      org.Name,
		CreatedAt: org.CreatedAt,
	}
	if includeInviteCode {
		dto.InviteCode = org.InviteCode
	}
	return dto
}

// ToOrganizationDetailDTO converts an organization and its members to DTO
func ToOrganizationDetailDTO(org models.Organization, members []models.User, includeInviteCode bool) OrganizationDetailDTO {
	return OrganizationDetailDTO{
		OrganizationDTO: ToOrganizationDTO(org, includeInviteCode),
		Members:         ToProfileDTOs(members),
	}
}
