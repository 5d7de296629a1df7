package persistence

import (
	"os"
	"testing"

	. "github.com/onsi/gomega"
)

func TestParseDatabaseConfigFromEnv(t *testing.T) {
	RegisterTestingT(t)

	restore := func() {
		os.Unsetenv("DB_DRIVER_TYPE")
		os.Unsetenv("DB_DRIVER_ARGS")
	}

	t.Run("should disable database when nothing is set", func(t *testing.T) {
		restore()
		c, err := ParseDatabaseConfigFromEnv()
		Expect(err).To(BeNil())
		Expect(c.Enabled()).To(BeFalse())
	})

	t.Run("should default driver type to mysql", func(t *testing.T) {
		defer restore()
		os.Setenv("DB_DRIVER_ARGS", "root:root@(127.0.0.1:3306)/autobay")
		c, err := ParseDatabaseConfigFromEnv()
		Expect(err).To(BeNil())
		Expect(*c).To(Equal(DatabaseConfig{DriverType: "mysql", DriverArgs: "root:root@(127.0.0.1:3306)/autobay"}))
		Expect(c.Enabled()).To(BeTrue())
	})

	t.Run("should reject unsupported drivers and missing args", func(t *testing.T) {
		defer restore()
		os.Setenv("DB_DRIVER_TYPE", "sqlite3")
		os.Setenv("DB_DRIVER_ARGS", "/tmp/x.db")
		_, err := ParseDatabaseConfigFromEnv()
		Expect(err).To(MatchError("unsupported database driver 'sqlite3'"))

		os.Setenv("DB_DRIVER_TYPE", "mysql")
		os.Unsetenv("DB_DRIVER_ARGS")
		_, err = ParseDatabaseConfigFromEnv()
		Expect(err).To(MatchError("DB_DRIVER_ARGS is required when DB_DRIVER_TYPE is set"))
	})
}

func TestPrepareMysqlDatabase(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should fail without database name", func(t *testing.T) {
		Expect(PrepareMysqlDatabase("root:root@(127.0.0.1:3306)/")).To(MatchError("database name is missing in driver args"))
	})
}
