package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
)

// AuthServiceTestSuite defines the test suite for AuthService
type AuthServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AuthService
}

// SetupTest runs before each test
func (suite *AuthServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Organization{})
	suite.Require().NoError(err)

	suite.service = NewAuthService(repository.NewUserRepository(suite.db), "let-me-in")
}

// TearDownTest runs after each test
func (suite *AuthServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	user, err := suite.service.Register(RegisterInput{
		Name:     "Alice",
		Email:    "  Alice@Example.COM ",
		Password: "password123",
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "alice@example.com", user.Email)
	assert.Equal(suite.T(), models.GlobalRoleUser, user.Role)
	assert.Nil(suite.T(), user.OrganizationID)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
}

func (suite *AuthServiceTestSuite) TestRegister_AdminInviteTokenElevates() {
	user, err := suite.service.Register(RegisterInput{
		Name:             "Root",
		Email:            "root@example.com",
		Password:         "password123",
		AdminInviteToken: "let-me-in",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.GlobalRoleSuperAdmin, user.Role)
}

func (suite *AuthServiceTestSuite) TestRegister_WrongInviteTokenStaysUser() {
	user, err := suite.service.Register(RegisterInput{
		Name:             "Mallory",
		Email:            "mallory@example.com",
		Password:         "password123",
		AdminInviteToken: "guess",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.GlobalRoleUser, user.Role)
}

func (suite *AuthServiceTestSuite) TestRegister_EmailTaken() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Register(RegisterInput{
		Name:     "Other Alice",
		Email:    "ALICE@example.com",
		Password: "password123",
	})
	assert.ErrorIs(suite.T(), err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestRegister_PasswordTooShort() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})
	assert.ErrorIs(suite.T(), err, ErrPasswordTooShort)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	user, err := suite.service.Login(LoginInput{Email: "alice@example.com", Password: "password123"})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "Alice", user.Name)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	_, err := suite.service.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	_, err = suite.service.Login(LoginInput{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	_, err := suite.service.Login(LoginInput{Email: "ghost@example.com", Password: "password123"})
	assert.ErrorIs(suite.T(), err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestUpdateProfile_PartialUpdate() {
	user, err := suite.service.Register(RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	suite.Require().NoError(err)

	updated, err := suite.service.UpdateProfile(user, UpdateProfileInput{
		ProfileImageURL: "https://img.test/alice.png",
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "Alice", updated.Name)
	assert.Equal(suite.T(), "https://img.test/alice.png", updated.ProfileImageURL)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("password123")))
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
