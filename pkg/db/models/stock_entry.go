package models

import "time"

// StockEntry holds the sellable quantity for one television.
type StockEntry struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TelevisionID int64     `gorm:"column:television_id;not null;uniqueIndex"`
	Quantity     int       `gorm:"column:quantity;not null;check:chk_stock_entries_quantity,quantity >= 0"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
