package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "refugio-api", cfg.App.Name)
	assert.Equal(t, StoragePostgres, cfg.DB.Driver)
	assert.Equal(t, 5*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.False(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, []string{"admin", "supervisor"}, cfg.Shelter.OverflowRoles)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnvComoStrings(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "Memory")
	v.Set("DB_PORT", "6543")
	v.Set("DB_LOCK_TIMEOUT_MS", "250")
	v.Set("DB_MIGRATE_ON_START", "true")
	v.Set("SHELTER_OVERFLOW_ROLES", " admin , , vet ")
	v.Set("METRICS_ENABLED", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.DB.Driver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.DB.LockTimeout)
	assert.True(t, cfg.DB.MigrateOnStart)
	assert.Equal(t, []string{"admin", "vet"}, cfg.Shelter.OverflowRoles)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "sqlite")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "refugio", Password: "p@ss:w/rd", DBName: "refugio", SSLMode: "disable"}
	assert.Equal(t, "postgres://refugio:p%40ss%3Aw%2Frd@db:5432/refugio?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}

func TestShelterConfig_CanOverflow(t *testing.T) {
	c := ShelterConfig{OverflowRoles: []string{"admin", "supervisor"}}
	assert.True(t, c.CanOverflow("Admin"))
	assert.True(t, c.CanOverflow("supervisor"))
	assert.False(t, c.CanOverflow("volunteer"))
	assert.False(t, c.CanOverflow(""))
}
