// Package testsupport opens throwaway SQLite databases seeded with storefront rows.
package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/angelmondragon/tvshop-backend/pkg/db"
	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenDB returns a migrated in-memory database private to the test.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()
	return open(t, "file:tvshop_"+uuid.NewString()+"?mode=memory&cache=shared")
}

// OpenFileDB returns a migrated file-backed database that tolerates concurrent writers.
func OpenFileDB(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tvshop.db")
	return open(t, "file:"+path+"?_busy_timeout=10000&_txlock=immediate&_journal_mode=WAL")
}

// Client wraps conn in the shared transaction runner.
func Client(conn *gorm.DB) *db.Client {
	return db.NewFromConn(conn)
}

func open(t testing.TB, dsn string) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// SeedTelevision inserts a television (creating its brand on demand) and, when
// quantity is non-negative, its stock entry.
func SeedTelevision(t testing.TB, conn *gorm.DB, brand, model, price string, quantity int) models.Television {
	t.Helper()

	var b models.Brand
	if err := conn.Where(models.Brand{Name: brand}).FirstOrCreate(&b).Error; err != nil {
		t.Fatalf("seed brand: %v", err)
	}

	tv := models.Television{
		BrandID:      b.ID,
		Model:        model,
		ReleasedYear: 2024,
		ScreenSize:   55,
		RefreshRate:  120,
		Smart:        true,
		Price:        decimal.RequireFromString(price),
	}
	if err := conn.Create(&tv).Error; err != nil {
		t.Fatalf("seed television: %v", err)
	}
	tv.Brand = b

	if quantity >= 0 {
		if err := conn.Create(&models.StockEntry{TelevisionID: tv.ID, Quantity: quantity}).Error; err != nil {
			t.Fatalf("seed stock: %v", err)
		}
	}
	return tv
}

// StockOf returns the stored quantity for tvID, failing the test when absent.
func StockOf(t testing.TB, conn *gorm.DB, tvID int64) int {
	t.Helper()
	var entry models.StockEntry
	if err := conn.Where("television_id = ?", tvID).First(&entry).Error; err != nil {
		t.Fatalf("load stock for %d: %v", tvID, err)
	}
	return entry.Quantity
}

// Count returns the number of rows of model.
func Count(t testing.TB, conn *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := conn.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
