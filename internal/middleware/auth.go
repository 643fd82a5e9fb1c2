package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend/internal/config"
	"backend/internal/model"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principal kinds carried in the token "type" claim.
const (
	PrincipalAdmin = "admin"
	PrincipalUser  = "user"
)

// Context keys set by Authenticate.
const (
	CtxAdmin    = "auth_admin"
	CtxUser     = "auth_user"
	CtxAuthType = "auth_type"
)

// Auth bundles the token parsing and permission checks. Permission lookups
// always hit the database so that role or permission revocations take effect
// on the very next request.
type Auth struct {
	db  *gorm.DB
	jwt config.JWTConfig
}

func NewAuth(db *gorm.DB, jwtCfg config.JWTConfig) *Auth {
	return &Auth{db: db, jwt: jwtCfg}
}

// GenerateToken issues an HS256 token for an admin or end-user principal.
func (a *Auth) GenerateToken(id uuid.UUID, principalType string) (string, error) {
	claims := jwt.MapClaims{
		"id":   id.String(),
		"type": principalType,
		"exp":  time.Now().Add(a.jwt.Expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.jwt.Secret))
}

func (a *Auth) parseToken(tokenString string) (uuid.UUID, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(a.jwt.Secret), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, "", errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", errors.New("invalid token claims")
	}
	rawID, _ := claims["id"].(string)
	principalType, _ := claims["type"].(string)
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", errors.New("invalid token subject")
	}
	return id, principalType, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// errStoreFailure marks a principal or grant lookup that failed for a reason
// other than a missing row. It surfaces as a 500, never as a denial.
var errStoreFailure = errors.New("Internal server error")

func (a *Auth) resolve(c *gin.Context, id uuid.UUID, principalType string) error {
	switch principalType {
	case PrincipalAdmin:
		var admin model.Admin
		if err := a.db.WithContext(c.Request.Context()).
			Preload("Roles.Permissions").
			Preload("Permissions").
			First(&admin, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("account no longer exists")
			}
			return errStoreFailure
		}
		if admin.Status != model.StatusActive {
			return errors.New("account is deactivated")
		}
		c.Set(CtxAdmin, &admin)
		c.Set(CtxAuthType, PrincipalAdmin)
	case PrincipalUser:
		var user model.User
		if err := a.db.WithContext(c.Request.Context()).
			First(&user, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("account no longer exists")
			}
			return errStoreFailure
		}
		if user.IsBlocked {
			return errors.New("account is blocked")
		}
		if user.Status != model.StatusActive {
			return errors.New("account is deactivated")
		}
		c.Set(CtxUser, &user)
		c.Set(CtxAuthType, PrincipalUser)
	default:
		return errors.New("unknown principal type")
	}
	return nil
}

// Authenticate validates the bearer token and loads the live principal row.
func (a *Auth) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Body{Success: false, Message: "Not authorized to access this route"})
			return
		}
		id, principalType, err := a.parseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.Body{Success: false, Message: err.Error()})
			return
		}
		if err := a.resolve(c, id, principalType); err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, errStoreFailure) {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status,
				response.Body{Success: false, Message: err.Error()})
			return
		}
		c.Next()
	}
}

// OptionalAuthenticate loads the principal when a valid token is present and
// proceeds anonymously otherwise.
func (a *Auth) OptionalAuthenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok {
			if id, principalType, err := a.parseToken(tokenString); err == nil {
				_ = a.resolve(c, id, principalType)
			}
		}
		c.Next()
	}
}

// AdminOnly rejects requests whose principal is not a backend admin.
func (a *Auth) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := AdminFromContext(c); !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Body{Success: false, Message: "Admin access required"})
			return
		}
		c.Next()
	}
}

// SuperAdminOnly rejects any non-super-admin principal.
func (a *Auth) SuperAdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := AdminFromContext(c)
		if !ok || !admin.IsSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Body{Success: false, Message: "Super admin access required"})
			return
		}
		c.Next()
	}
}

// RequirePermission authorizes an admin for one module action. The checks run
// in a fixed order: super admin bypass, then direct permissions, then each
// attached role's permissions in stored order.
func (a *Auth) RequirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := AdminFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.Body{Success: false, Message: "Admin access required"})
			return
		}
		if admin.IsSuperAdmin {
			c.Next()
			return
		}

		// Re-read grants so that revocations apply immediately.
		var fresh model.Admin
		if err := a.db.WithContext(c.Request.Context()).
			Preload("Roles.Permissions").
			Preload("Permissions").
			First(&fresh, "id = ?", admin.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusForbidden,
					response.Body{Success: false, Message: "Admin access required"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				response.Body{Success: false, Message: errStoreFailure.Error()})
			return
		}

		for _, p := range fresh.Permissions {
			if p.Matches(module, action) {
				c.Next()
				return
			}
		}
		for _, role := range fresh.Roles {
			if !role.IsActive {
				continue
			}
			for _, p := range role.Permissions {
				if p.Matches(module, action) {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Body{
			Success: false,
			Message: fmt.Sprintf("Access denied. %s permission required for %s module.", action, module),
		})
	}
}

// AdminFromContext returns the authenticated admin, if any.
func AdminFromContext(c *gin.Context) (*model.Admin, bool) {
	v, ok := c.Get(CtxAdmin)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*model.Admin)
	return admin, ok
}

// UserFromContext returns the authenticated end user, if any.
func UserFromContext(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
