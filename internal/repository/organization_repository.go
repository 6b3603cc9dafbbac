package repository

import (
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository.
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository.
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// Create creates a new organization.
func (r *GormOrganizationRepository) Create(org *models.Organization) error {
	return r.db.Create(org).Error
}

// FindByID finds an organization by ID, preloading the given relations.
func (r *GormOrganizationRepository) FindByID(id uint64, preload ...string) (*models.Organization, error) {
	query := r.db
	for _, relation := range preload {
		query = query.Preload(relation)
	}

	var org models.Organization
	if err := query.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByInviteCode finds an organization by invite code.
func (r *GormOrganizationRepository) FindByInviteCode(code string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("invite_code = ?", code).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization.
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}
