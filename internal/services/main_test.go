package services

import (
	"testing"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/pkg/metrics"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Configuration {
	return &config.Configuration{
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
}

// newTestDB opens a private in-memory database with the same schema and error
// translation the production postgres setup uses.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrate(database))
	require.NoError(t, db.SeedUserTypes(database, testConfig()))
	return database
}

func newTestServices(t *testing.T) (*UserService, *UserTypeService, *DocumentService, *AttestationService) {
	t.Helper()

	database := newTestDB(t)
	cfg := testConfig()
	log := zap.NewNop()
	collector := metrics.NewMetricsCollector()

	return NewUserService(database, cfg, log, collector),
		NewUserTypeService(database, cfg, log),
		NewDocumentService(database, log, collector),
		NewAttestationService(database, log)
}
