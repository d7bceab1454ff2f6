package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/auth"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/services"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type authTestEnv struct {
	engine *gin.Engine
	tokens *auth.TokenService
	users  *services.UserService
	cfg    *config.Configuration
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{
		Security: config.SecurityConfig{
			SecretKey:        "test-secret",
			JWTAlgorithm:     "HS256",
			TokenPrefix:      "Token",
			HeaderKey:        "Authorization",
			JWTExpire:        time.Hour,
			ResetTokenExpire: 15 * time.Minute,
		},
		UserTypes: config.UserTypeConfig{
			Superuser:    "superuser",
			Commissioner: "commissioner",
			Regular:      "regular",
			Verifier:     "verifier",
		},
	}

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.SeedUserTypes(database, cfg))

	log := zap.NewNop()
	tokens := auth.NewTokenService(cfg)
	users := services.NewUserService(database, cfg, log, metrics.NewMetricsCollector())
	am := NewAuthMiddleware(tokens, users, cfg, log)

	engine := gin.New()
	protected := engine.Group("/", am.RequireAuth())
	protected.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": CurrentUser(c).ID})
	})
	commissionerOnly := engine.Group("/", am.RequireAuth(), am.RequireUserTypes(cfg.UserTypes.Commissioner))
	commissionerOnly.GET("/attest_area", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return &authTestEnv{engine: engine, tokens: tokens, users: users, cfg: cfg}
}

func (env *authTestEnv) request(t *testing.T, path, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(env.cfg.Security.HeaderKey, header)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func (env *authTestEnv) registerUser(t *testing.T, email, userType string) string {
	t.Helper()
	user, err := env.users.Register(context.Background(), services.RegisterInput{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		Password:     "pw123456",
		UserTypeName: userType,
	})
	require.NoError(t, err)
	return user.ID
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	env := newAuthTestEnv(t)
	w := env.request(t, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	env := newAuthTestEnv(t)

	for _, header := range []string{"justonetoken", "Token a b c", "Bearer sometoken"} {
		w := env.request(t, "/whoami", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuth_InvalidAndExpiredTokens(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.request(t, "/whoami", "Token garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	userID := env.registerUser(t, "expired@example.com", "")
	expired, err := env.tokens.IssueTokenWithTTL(userID, -time.Second)
	require.NoError(t, err)
	w = env.request(t, "/whoami", "Token "+expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	env := newAuthTestEnv(t)

	token, err := env.tokens.IssueToken("ghost-user-id")
	require.NoError(t, err)
	w := env.request(t, "/whoami", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	env := newAuthTestEnv(t)

	userID := env.registerUser(t, "ok@example.com", "")
	token, err := env.tokens.IssueToken(userID)
	require.NoError(t, err)

	w := env.request(t, "/whoami", "Token "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID)
}

func TestRequireAuth_InactiveUser(t *testing.T) {
	env := newAuthTestEnv(t)

	userID := env.registerUser(t, "inactive@example.com", "")
	_, err := env.users.Deactivate(context.Background(), userID)
	require.NoError(t, err)

	token, err := env.tokens.IssueToken(userID)
	require.NoError(t, err)
	w := env.request(t, "/whoami", "Token "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireUserTypes(t *testing.T) {
	env := newAuthTestEnv(t)

	regularID := env.registerUser(t, "regular@example.com", "")
	commissionerID := env.registerUser(t, "comm@example.com", "commissioner")

	regularToken, err := env.tokens.IssueToken(regularID)
	require.NoError(t, err)
	w := env.request(t, "/attest_area", "Token "+regularToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	commissionerToken, err := env.tokens.IssueToken(commissionerID)
	require.NoError(t, err)
	w = env.request(t, "/attest_area", "Token "+commissionerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
