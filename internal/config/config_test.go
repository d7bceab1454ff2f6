package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Configuration {
	return &Configuration{
		Security: SecurityConfig{
			SecretKey:    "secret",
			JWTAlgorithm: "HS256",
		},
		UserTypes: UserTypeConfig{
			Superuser:    "superuser",
			Commissioner: "commissioner",
			Regular:      "regular",
			Verifier:     "verifier",
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_EmptySecret(t *testing.T) {
	cfg := validConfig()
	cfg.Security.SecretKey = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_UnsupportedAlgorithm(t *testing.T) {
	cfg := validConfig()
	cfg.Security.JWTAlgorithm = "none"
	assert.Error(t, cfg.Validate())
}

func TestValidate_DefaultUserTypes(t *testing.T) {
	cfg := validConfig()
	cfg.UserTypes.Verifier = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.UserTypes.Verifier = "regular"
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "Token", cfg.Security.TokenPrefix)
	assert.Equal(t, "Authorization", cfg.Security.HeaderKey)
	assert.Equal(t, 60*time.Minute, cfg.Security.JWTExpire)
	assert.ElementsMatch(t,
		[]string{"superuser", "commissioner", "regular", "verifier"},
		cfg.UserTypes.Defaults())
}
