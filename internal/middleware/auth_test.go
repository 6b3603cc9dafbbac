package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clearcove/task-tracker-api/internal/constants"
	"github.com/clearcove/task-tracker-api/internal/models"
	"github.com/clearcove/task-tracker-api/internal/repository"
	"github.com/clearcove/task-tracker-api/internal/utils"
)

const testSecret = "test-secret"

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Organization{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.Close()
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAuth(testSecret, repository.NewUserRepository(db)), func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r, db
}

func createUser(t *testing.T, db *gorm.DB, role models.GlobalRole) *models.User {
	t.Helper()
	user := &models.User{
		Name:         "Test User",
		Email:        "user@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r, db := setupRouter(t)
	user := createUser(t, db, models.GlobalRoleUser)

	token, err := utils.GenerateToken(user.ID, testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user@example.com")
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	r, db := setupRouter(t)
	user := createUser(t, db, models.GlobalRoleUser)

	token, err := utils.GenerateToken(user.ID, "other-secret")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	r, _ := setupRouter(t)

	token, err := utils.GenerateToken(9999, testSecret)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireSuperAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(user *models.User) int {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("GET", "/admin", nil)
		c.Set(constants.ContextKeyUser, user)
		RequireSuperAdmin()(c)
		if c.IsAborted() {
			return w.Code
		}
		return http.StatusOK
	}

	assert.Equal(t, http.StatusOK, run(&models.User{Role: models.GlobalRoleSuperAdmin}))
	assert.Equal(t, http.StatusForbidden, run(&models.User{Role: models.GlobalRoleUser}))
}
