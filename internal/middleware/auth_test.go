package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/model"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestAuth(db *gorm.DB) *Auth {
	return NewAuth(db, config.JWTConfig{Secret: "test-secret", Expiry: time.Hour})
}

func protectedRouter(auth *Auth, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{auth.Authenticate()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedAdmin(t *testing.T, db *gorm.DB, superAdmin bool) *model.Admin {
	t.Helper()
	admin := &model.Admin{
		Name:         "Auth Admin",
		Email:        "auth@example.com",
		Password:     "irrelevant",
		Status:       model.StatusActive,
		IsSuperAdmin: superAdmin,
	}
	require.NoError(t, db.Create(admin).Error)
	return admin
}

func TestAuthenticateMissingToken(t *testing.T) {
	auth := newTestAuth(newAuthTestDB(t))
	r := protectedRouter(auth)

	w := doRequest(r, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	auth := newTestAuth(newAuthTestDB(t))
	r := protectedRouter(auth)

	w := doRequest(r, "not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateValidAdmin(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)

	w := doRequest(protectedRouter(auth), token)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthenticateDeactivatedAdmin(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)
	require.NoError(t, db.Model(admin).Update("status", model.StatusInactive).Error)

	w := doRequest(protectedRouter(auth), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateDeletedAdmin(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)
	require.NoError(t, db.Delete(admin).Error)

	w := doRequest(protectedRouter(auth), token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "account no longer exists", body.Message)
}

func TestAuthenticateStoreFailureIsServerError(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)
	require.NoError(t, db.Migrator().DropTable(&model.Admin{}))

	w := doRequest(protectedRouter(auth), token)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestSuperAdminBypassesPermissionCheck(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, true)
	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)

	r := protectedRouter(auth, auth.RequirePermission(model.ModuleUsers, model.ActionDelete))
	w := doRequest(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDirectPermissionGrants(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	perm := &model.Permission{Name: "Read users", Module: model.ModuleUsers, Action: model.ActionRead}
	require.NoError(t, db.Create(perm).Error)
	require.NoError(t, db.Model(admin).Association("Permissions").Append(perm))

	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)

	r := protectedRouter(auth, auth.RequirePermission(model.ModuleUsers, model.ActionRead))
	assert.Equal(t, http.StatusOK, doRequest(r, token).Code)

	denied := protectedRouter(auth, auth.RequirePermission(model.ModuleUsers, model.ActionDelete))
	assert.Equal(t, http.StatusForbidden, doRequest(denied, token).Code)
}

func TestRolePermissionGrants(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	perm := &model.Permission{Name: "Update properties", Module: model.ModuleProperties, Action: model.ActionUpdate}
	require.NoError(t, db.Create(perm).Error)
	role := &model.Role{Name: "Property Manager", IsActive: true}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	require.NoError(t, db.Model(admin).Association("Roles").Append(role))

	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)

	r := protectedRouter(auth, auth.RequirePermission(model.ModuleProperties, model.ActionUpdate))
	assert.Equal(t, http.StatusOK, doRequest(r, token).Code)
}

func TestInactiveRoleIsSkipped(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	perm := &model.Permission{Name: "Update properties", Module: model.ModuleProperties, Action: model.ActionUpdate}
	require.NoError(t, db.Create(perm).Error)
	role := &model.Role{Name: "Disabled Role", IsActive: true}
	require.NoError(t, db.Create(role).Error)
	require.NoError(t, db.Model(role).Association("Permissions").Append(perm))
	require.NoError(t, db.Model(admin).Association("Roles").Append(role))
	require.NoError(t, db.Model(role).Update("is_active", false).Error)

	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)

	r := protectedRouter(auth, auth.RequirePermission(model.ModuleProperties, model.ActionUpdate))
	w := doRequest(r, token)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body response.Body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Access denied. update permission required for properties module.", body.Message)
}

func TestRevocationAppliesImmediately(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	admin := seedAdmin(t, db, false)
	perm := &model.Permission{Name: "Read users", Module: model.ModuleUsers, Action: model.ActionRead}
	require.NoError(t, db.Create(perm).Error)
	require.NoError(t, db.Model(admin).Association("Permissions").Append(perm))

	token, err := auth.GenerateToken(admin.ID, PrincipalAdmin)
	require.NoError(t, err)

	r := protectedRouter(auth, auth.RequirePermission(model.ModuleUsers, model.ActionRead))
	assert.Equal(t, http.StatusOK, doRequest(r, token).Code)

	// Same token, permission revoked between requests.
	require.NoError(t, db.Model(admin).Association("Permissions").Clear())
	assert.Equal(t, http.StatusForbidden, doRequest(r, token).Code)
}

func TestUserTokenRejectedByAdminOnly(t *testing.T) {
	db := newAuthTestDB(t)
	auth := newTestAuth(db)
	user := &model.User{
		Name:     "Visitor",
		Email:    "visitor@example.com",
		Phone:    "9999999999",
		Password: "irrelevant",
		Status:   model.StatusActive,
		UserType: model.UserTypeTenant,
	}
	require.NoError(t, db.Create(user).Error)
	token, err := auth.GenerateToken(user.ID, PrincipalUser)
	require.NoError(t, err)

	r := protectedRouter(auth, auth.AdminOnly())
	w := doRequest(r, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
