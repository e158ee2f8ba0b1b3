package middleware

import (
	"errors"
	"net/http"

	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	TenantIDKey     = "tenant_id"
	UserIDKey       = "user_id"
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"
)

var errNoTenant = errors.New("tenant not found in context")

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled accepts X-Tenant-ID and X-User-ID when no JWT claims are
	// present. Only enable it when JWT is disabled.
	HeaderEnabled bool
	SkipPaths     []string
	Logger        *zap.Logger
}

// DefaultTenantConfig returns the tenant configuration used by the router
func DefaultTenantConfig(headerEnabled bool) TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: headerEnabled,
		SkipPaths:     []string{"/health", "/metrics", "/api/v1/health"},
	}
}

// TenantMiddleware resolves the acting tenant and user. JWT claims win over
// headers. A request without a tenant is rejected.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if skipPath(c.Request.URL.Path, cfg.SkipPaths) {
			c.Next()
			return
		}

		tenantID, userID, source := c.GetString(JWTTenantIDKey), c.GetString(JWTUserIDKey), "jwt"
		if tenantID == "" && cfg.HeaderEnabled {
			tenantID, userID, source = c.GetHeader(TenantHeaderKey), c.GetHeader(UserHeaderKey), "header"
		}

		if tenantID == "" {
			rejectTenant(c, "Tenant identification required")
			return
		}
		if _, err := uuid.Parse(tenantID); err != nil {
			rejectTenant(c, "Invalid tenant ID format")
			return
		}
		if userID != "" {
			if _, err := uuid.Parse(userID); err != nil {
				rejectTenant(c, "Invalid user ID format")
				return
			}
		}

		c.Set(TenantIDKey, tenantID)
		ctx := logger.WithTenantID(c.Request.Context(), tenantID)
		if userID != "" {
			c.Set(UserIDKey, userID)
			ctx = logger.WithUserID(ctx, userID)
		}
		c.Request = c.Request.WithContext(ctx)

		log.Debug("Tenant identified", zap.String("tenant_id", tenantID), zap.String("source", source))
		c.Next()
	}
}

func rejectTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestIDOf(c)))
}

// GetTenantID returns the resolved tenant id string
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID returns the resolved tenant
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, errNoTenant
	}
	return uuid.Parse(tenantID)
}

// GetUserUUID returns the acting user, nil when the caller is anonymous
func GetUserUUID(c *gin.Context) *uuid.UUID {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		return nil
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil
	}
	return &id
}
