package config

import (
	"fmt"
	"strings"

	"mealmatch/models"

	"github.com/glebarez/sqlite"
	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLiteDSN = "mealmatch.db?_pragma=foreign_keys(1)"

// DSN returns the connection string for the configured driver. For mysql an
// empty DB_DSN is assembled from the DB_* parts.
func (c Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case "mysql":
		mc := mysqldriver.NewConfig()
		mc.User = c.DBUser
		mc.Passwd = c.DBPassword
		mc.Net = "tcp"
		mc.Addr = c.DBHost + ":" + c.DBPort
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN()
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
	}
	return defaultSQLiteDSN
}

func dialector(c Config) (gorm.Dialector, error) {
	switch c.DBDriver {
	case "sqlite", "":
		return sqlite.Open(c.DSN()), nil
	case "mysql":
		return mysql.Open(c.DSN()), nil
	case "postgres":
		return postgres.Open(c.DSN()), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}

// OpenDB connects with the configured driver. An in-memory SQLite database is
// pinned to one connection, since every new connection would see an empty
// database.
func OpenDB(c Config) (*gorm.DB, error) {
	d, err := dialector(c)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(d, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.DBDriver, err)
	}
	if (c.DBDriver == "sqlite" || c.DBDriver == "") && strings.Contains(c.DSN(), ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
