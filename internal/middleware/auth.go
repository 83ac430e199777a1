package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/saivarshithnaidu/village-connect-backend/internal/constants"
	"github.com/saivarshithnaidu/village-connect-backend/internal/database"
	apierrors "github.com/saivarshithnaidu/village-connect-backend/internal/errors"
	"github.com/saivarshithnaidu/village-connect-backend/internal/models"
	"github.com/saivarshithnaidu/village-connect-backend/internal/utils"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func resolveUser(tokenUtil *utils.TokenUtil, token string) (*models.User, bool) {
	claims, err := tokenUtil.ValidateToken(token)
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := database.GetDB().First(&user, claims.UserID).Error; err != nil {
		return nil, false
	}
	return &user, true
}

// RequireAuth verifies the bearer token and attaches the resolved user to the
// request context.
func RequireAuth(tokenUtil *utils.TokenUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthorized(c, "Missing or malformed authorization header")
			c.Abort()
			return
		}

		user, ok := resolveUser(tokenUtil, token)
		if !ok {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present and proceeds
// anonymously otherwise. Used by public read endpoints that personalize
// output.
func OptionalAuth(tokenUtil *utils.TokenUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, ok := resolveUser(tokenUtil, token); ok {
				c.Set(constants.ContextKeyUser, user)
				c.Set(constants.ContextKeyUserID, user.ID)
			}
		}
		c.Next()
	}
}

// RequireRole rejects callers whose role is outside the allowed set. Must run
// after RequireAuth.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range allowed {
			if user.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetCurrentUser retrieves the authenticated user from the context. The second
// return is false for anonymous requests.
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
