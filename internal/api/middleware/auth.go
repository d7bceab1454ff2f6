package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/auth"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const userContextKey = "currentUser"

// AuthMiddleware is a stateless verification pipeline, re-run on every
// request: extract the bearer credential, decode it, resolve the user, check
// the active flag. No session state survives between requests.
type AuthMiddleware struct {
	tokens *auth.TokenService
	users  *services.UserService
	cfg    *config.Configuration
	logger *zap.Logger
}

func NewAuthMiddleware(tokens *auth.TokenService, users *services.UserService, cfg *config.Configuration, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
		cfg:    cfg,
		logger: logger.With(zap.String("middleware", "auth")),
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(am.cfg.Security.HeaderKey)
		if header == "" {
			abortWith(c, http.StatusUnauthorized, "authentication required")
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || parts[0] != am.cfg.Security.TokenPrefix {
			abortWith(c, http.StatusUnauthorized, "malformed authorization header")
			return
		}

		userID, err := am.tokens.DecodeToken(parts[1])
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWith(c, http.StatusUnauthorized, "token has expired")
				return
			}
			abortWith(c, http.StatusUnauthorized, "invalid token")
			return
		}

		user, err := am.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if !user.IsActive {
			abortWith(c, http.StatusForbidden, "account deactivated")
			return
		}

		c.Set(userContextKey, user)
		c.Set("userID", user.ID)
		c.Next()
	}
}

// RequireUserTypes gates a route on a fixed allow-list of user type names.
// Must run after RequireAuth.
func (am *AuthMiddleware) RequireUserTypes(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWith(c, http.StatusUnauthorized, "authentication required")
			return
		}

		for _, name := range allowed {
			if user.UserType.Name == name {
				c.Next()
				return
			}
		}

		am.logger.Debug("User type not allowed",
			zap.String("user_type", user.UserType.Name),
			zap.Strings("allowed", allowed))
		abortWith(c, http.StatusForbidden, "you are not authorized to perform this action")
	}
}

// CurrentUser returns the authenticated user stashed by RequireAuth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": true, "message": message})
}
