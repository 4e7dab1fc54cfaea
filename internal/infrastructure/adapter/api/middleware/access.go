package middleware

import (
	"strings"

	coreport "github.com/amirhossein-jamali/migrate-views/internal/domain/port/core"
	"github.com/amirhossein-jamali/migrate-views/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
)

const (
	accessKey = "access"
	roleKey   = "role"

	// AnonymousRole is assumed when the role header is missing
	AnonymousRole = "anonymous"
)

// Access resolves the caller's role header to the permissions configured for that role.
// Unknown roles get no permissions.
func Access(cfg config.AccessConfig) gin.HandlerFunc {
	header := cfg.RoleHeader
	if header == "" {
		header = "X-Role"
	}

	sets := make(map[string]coreport.PermissionSet, len(cfg.Roles))
	for role, permissions := range cfg.Roles {
		sets[strings.ToLower(role)] = coreport.NewPermissionSet(permissions...)
	}

	return func(c *gin.Context) {
		role := strings.ToLower(strings.TrimSpace(c.GetHeader(header)))
		if role == "" {
			role = AnonymousRole
		}

		permissions, ok := sets[role]
		if !ok {
			permissions = coreport.NewPermissionSet()
		}

		c.Set(roleKey, role)
		c.Set(accessKey, permissions)
		c.Next()
	}
}

// AccessFrom returns the permissions resolved for the request; none when Access did not run
func AccessFrom(c *gin.Context) coreport.AccessChecker {
	if value, ok := c.Get(accessKey); ok {
		if checker, ok := value.(coreport.AccessChecker); ok {
			return checker
		}
	}
	return coreport.NewPermissionSet()
}
