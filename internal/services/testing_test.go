package services

import (
	"fmt"
	"testing"

	"signup-api/internal/config"
	"signup-api/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// setupTestDB points the package globals at an in-memory SQLite database with
// the schema migrated and the plan catalog seeded.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.SeedPlans(db))

	prevDB := database.DB
	prevConfig := config.AppConfig
	database.DB = db
	config.AppConfig = &config.Config{
		VATRate:        20,
		Currency:       "GBP",
		CurrencySymbol: "£",
		CouponCode:     "GOLD_DISCOUNT_2026",
		CouponLabel:    "67% OFF",
	}

	t.Cleanup(func() {
		database.DB = prevDB
		config.AppConfig = prevConfig
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
}
