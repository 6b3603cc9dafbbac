package dto

import (
	"time"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/services"
)

// ProfileDTO represents the authenticated user's full profile
type ProfileDTO struct {
	ID               uint64                   `json:"id"`
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	ProfileImageURL  string                   `json:"profile_image_url,omitempty"`
	Role             models.GlobalRole        `json:"role"`
	OrganizationID   *uint64                  `json:"organization_id,omitempty"`
	OrganizationRole *models.OrganizationRole `json:"organization_role,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
}

// AuthResponse represents a successful register or login
type AuthResponse struct {
	Token string     `json:"token"`
	User  ProfileDTO `json:"user"`
}

// MemberTaskCountsDTO carries assigned-task totals for a member listing
type MemberTaskCountsDTO struct {
	PendingTasks    int64 `json:"pendingTasks"`
	InProgressTasks int64 `json:"inProgressTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
}

// MemberDTO represents an organization member with their task workload
type MemberDTO struct {
	ProfileDTO
	MemberTaskCountsDTO
}

// ToProfileDTO converts a user model to the full profile DTO
func ToProfileDTO(user models.User) ProfileDTO {
	return ProfileDTO{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		ProfileImageURL:  user.ProfileImageURL,
		Role:             user.Role,
		OrganizationID:   user.OrganizationID,
		OrganizationRole: user.OrganizationRole,
		CreatedAt:        user.CreatedAt,
	}
}

// ToProfileDTOs converts a slice of user models
func ToProfileDTOs(users []models.User) []ProfileDTO {
	dtos := make([]ProfileDTO, len(users))
	for i, user := range users {
		dtos[i] = ToProfileDTO(user)
	}
	return dtos
}

// ToMemberDTO converts a member with counts to DTO
func ToMemberDTO(member services.MemberWithTaskCounts) MemberDTO {
	return MemberDTO{
		ProfileDTO: ToProfileDTO(member.User),
		MemberTaskCountsDTO: MemberTaskCountsDTO{
			PendingTasks:    member.Counts.Pending,
			InProgressTasks: member.Counts.InProgress,
			CompletedTasks:  member.Counts.Completed,
		},
	}
}

// ToMemberDTOs converts a slice of members with counts
func ToMemberDTOs(members []services.MemberWithTaskCounts) []MemberDTO {
	dtos := make([]MemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToMemberDTO(member)
	}
	return dtos
}
