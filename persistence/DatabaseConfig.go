package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// Enabled reports whether a database has been configured at all.
func (c *DatabaseConfig) Enabled() bool {
	return c != nil && c.DriverType != ""
}

// ParseDatabaseConfigFromEnv reads DB_DRIVER_TYPE and DB_DRIVER_ARGS.
// Both empty means no database.
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driverType := strings.TrimSpace(os.Getenv("DB_DRIVER_TYPE"))
	driverArgs := strings.TrimSpace(os.Getenv("DB_DRIVER_ARGS"))
	if driverType == "" && driverArgs == "" {
		return &DatabaseConfig{}, nil
	}
	if driverType == "" {
		driverType = "mysql"
	}
	if driverType != "mysql" {
		return nil, fmt.Errorf("unsupported database driver '%s'", driverType)
	}
	if driverArgs == "" {
		return nil, errors.New("DB_DRIVER_ARGS is required when DB_DRIVER_TYPE is set")
	}
	return &DatabaseConfig{DriverType: driverType, DriverArgs: driverArgs}, nil
}

// PrepareMysqlDatabase creates the database named in driverArgs when it does not exist yet.
func PrepareMysqlDatabase(driverArgs string) error {
	cfg, err := mysql.ParseDSN(driverArgs)
	if err != nil {
		return err
	}
	databaseName := cfg.DBName
	if databaseName == "" {
		return errors.New("database name is missing in driver args")
	}
	cfg.DBName = ""

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS `" + databaseName + "` DEFAULT CHARACTER SET utf8mb4")
	if err != nil {
		return err
	}
	logrus.Infof("database %s is ready", databaseName)
	return nil
}
