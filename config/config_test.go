package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "SESSION_STORE", "SESSION_LIFETIME", "KAFKA_BROKERS", "BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionLifetime)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, defaultSQLiteDSN, cfg.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SESSION_LIFETIME", "2h")
	t.Setenv("BCRYPT_COST", "4")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, 4, cfg.BcryptCost)
}

func TestDSN_MySQLFromParts(t *testing.T) {
	cfg := Config{DBDriver: "mysql", DBHost: "db", DBPort: "3306", DBUser: "app", DBPassword: "pw", DBName: "mealmatch"}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "app:pw@tcp(db:3306)/mealmatch")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestOpenDB_UnsupportedDriver(t *testing.T) {
	_, err := OpenDB(Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpenDB_InMemoryMigrates(t *testing.T) {
	db, err := OpenDB(Config{DBDriver: "sqlite", DBDSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "restaurants", "menu_items", "orders", "order_items"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
