package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/utils"
)

var (
	ErrOrgNameRequired       = errors.New("organization name is required")
	ErrInviteCodeRequired    = errors.New("invite code is required")
	ErrInviteCodeNotFound    = errors.New("invite code not found")
	ErrAlreadyInOrganization = errors.New("user already belongs to an organization")
	ErrOrgNotFound           = errors.New("organization not found")
	ErrFailedToCreateOrg     = errors.New("failed to create organization")
)

// OrganizationService handles organization creation, joining and lookup.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// Create makes a new organization and promotes the actor to its admin. The
// actor must have no organization yet; superadmins never hold one.
func (s *OrganizationService) Create(actor *models.User, name string) (*models.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrOrgNameRequired
	}
	if actor.OrganizationID != nil || actor.IsSuperAdmin() {
		return nil, ErrAlreadyInOrganization
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrFailedToCreateOrg
	}

	org := &models.Organization{
		Name:       name,
		InviteCode: inviteCode,
	}
	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	adminRole := models.OrgRoleAdmin
	actor.OrganizationID = &org.ID
	actor.OrganizationRole = &adminRole
	if err := s.userRepo.Update(actor); err != nil {
		return nil, fmt.Errorf("failed to promote creator to organization admin: %w", err)
	}

	return org, nil
}

// Join adds the actor to the organization matching the invite code, as a
// member. Fails for actors who already belong to an organization and for
// superadmins.
func (s *OrganizationService) Join(actor *models.User, inviteCode string) (*models.Organization, error) {
	if strings.TrimSpace(inviteCode) == "" {
		return nil, ErrInviteCodeRequired
	}

	org, err := s.orgRepo.FindByInviteCode(inviteCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}

	if actor.OrganizationID != nil || actor.IsSuperAdmin() {
		return nil, ErrAlreadyInOrganization
	}

	memberRole := models.OrgRoleMember
	actor.OrganizationID = &org.ID
	actor.OrganizationRole = &memberRole
	if err := s.userRepo.Update(actor); err != nil {
		return nil, fmt.Errorf("failed to add user to organization: %w", err)
	}

	return org, nil
}

// Details returns the actor's organization.
func (s *OrganizationService) Details(actor *models.User) (*models.Organization, error) {
	if actor.OrganizationID == nil {
		return nil, ErrOrgNotFound
	}

	org, err := s.orgRepo.FindByID(*actor.OrganizationID, "Members")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("failed to fetch organization: %w", err)
	}
	return org, nil
}
