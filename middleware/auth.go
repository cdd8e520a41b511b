package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"velora/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
)

const (
	authCachePrefix = "auth-token:"
	authCacheTTL    = time.Hour
)

// JWTAuthMiddleware validates the bearer token and stores the actor's id and
// role on the request context. allowedRoles of zero length admits any role.
// Verified tokens are cached in Redis keyed by their hash so repeat requests
// skip signature verification; an unavailable cache degrades to a miss.
func JWTAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, cached := lookupCachedToken(c.Request.Context(), tokenString)
		if !cached {
			var err error
			subject, role, err = utils.ExtractIDFromToken(tokenString)
			if err != nil || subject == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Insufficient authorization",
				})
				return
			}
			cacheVerifiedToken(c.Request.Context(), tokenString, subject, role)
		}

		if len(allowedRoles) > 0 && !contains(allowedRoles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Set("actorID", subject)
		c.Set("actorRole", role)
		c.Next()
	}
}

// ActorID returns the authenticated actor's id set by JWTAuthMiddleware.
func ActorID(c *gin.Context) string {
	return c.GetString("actorID")
}

// ActorRole returns the authenticated actor's role.
func ActorRole(c *gin.Context) string {
	return c.GetString("actorRole")
}

// lookupCachedToken returns the subject and role stored for a previously
// verified token. Any cache problem counts as a miss.
func lookupCachedToken(ctx context.Context, tokenString string) (subject, role string, ok bool) {
	cache := utils.CacheClient
	if cache == nil {
		return "", "", false
	}
	val, err := cache.Get(ctx, authCachePrefix+utils.HashToken(tokenString)).Result()
	if err != nil {
		if err != redis.Nil {
			utils.GetLogger().Warn("auth cache lookup failed, verifying token", zap.Error(err))
		}
		return "", "", false
	}
	parts := strings.SplitN(val, "|", 2)
	if len(parts) != 2 || parts[0] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func cacheVerifiedToken(ctx context.Context, tokenString, subject, role string) {
	cache := utils.CacheClient
	if cache == nil {
		return
	}
	key := authCachePrefix + utils.HashToken(tokenString)
	if err := cache.Set(ctx, key, subject+"|"+role, authCacheTTL).Err(); err != nil {
		utils.GetLogger().Warn("failed to cache verified token", zap.Error(err))
	}
}

func contains(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
