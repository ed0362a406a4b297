package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDevWithoutGatewayCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.App.Env)
	assert.Equal(t, 4, cfg.ETax.Workers)
}

func TestLoadFailsWithoutJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadProdRequiresGatewayCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ETAX_TSP_BASE_URL", "")
	t.Setenv("ETAX_TSP_TOKEN_URL", "")
	t.Setenv("ETAX_TSP_CLIENT_ID", "")
	t.Setenv("ETAX_TSP_CLIENT_SECRET", "")
	t.Setenv("ETAX_GENPDF_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ETAX_TSP_CLIENT_ID")
}

func TestLoadProdWithGatewayCredentials(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ETAX_TSP_BASE_URL", "https://gw.example.com")
	t.Setenv("ETAX_TSP_TOKEN_URL", "https://gw.example.com/oauth/token")
	t.Setenv("ETAX_TSP_CLIENT_ID", "client")
	t.Setenv("ETAX_TSP_CLIENT_SECRET", "secret")
	t.Setenv("ETAX_GENPDF_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://gw.example.com", cfg.ETax.TSPBaseURL)
}

func TestDSNEncodesPassword(t *testing.T) {
	db := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "p@ss/word",
		DBName:   "etax",
		SSLMode:  "disable",
	}
	dsn := db.DSN()
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestConnectionStringPrefersDatabaseURL(t *testing.T) {
	db := DBConfig{DatabaseURL: "postgres://u:p@h:5432/db"}
	assert.Equal(t, "postgres://u:p@h:5432/db", db.ConnectionString())
}
