package repository

import (
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/scope"
)

// GormUserRepository is a GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user.
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID.
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users visible under the scope.
func (r *GormUserRepository) List(sc scope.Scope) ([]models.User, error) {
	var users []models.User
	if err := r.db.Model(&models.User{}).Scopes(sc.UserFilter).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByOrganization returns the users of an organization.
func (r *GormUserRepository) ListByOrganization(organizationID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("organization_id = ?", organizationID).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user.
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}
