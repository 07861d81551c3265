// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/saulo-duarte/learnhub-lambda/internal/auth"
)

const JWTSecret = "test-secret-for-package-tests-only"

// NewDB opens a private in-memory SQLite database and migrates models into it.
func NewDB(t *testing.T, models ...interface{}) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models...))
	return db
}

// InitAuth configures JWT signing and a cheap bcrypt cost for tests.
func InitAuth(t *testing.T) {
	t.Helper()
	os.Setenv("JWT_SECRET", JWTSecret)
	os.Setenv("BCRYPT_COST", "4")
	auth.Init()
}
