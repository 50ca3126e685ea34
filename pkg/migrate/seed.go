package migrate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
)

// SeedTelevision describes one catalog row plus its opening stock.
type SeedTelevision struct {
	Brand        string
	Model        string
	ReleasedYear int
	ScreenSize   int
	RefreshRate  int
	Smart        bool
	Price        string
	Stock        int
}

// SeedReport counts what a seed run actually inserted.
type SeedReport struct {
	Brands      int
	Televisions int
	StockRows   int
}

// DevCatalog is the small catalog loaded by `migrate -cmd=seed`.
var DevCatalog = []SeedTelevision{
	{Brand: "Samsung", Model: "QE55Q80C", ReleasedYear: 2023, ScreenSize: 55, RefreshRate: 120, Smart: true, Price: "899.00", Stock: 12},
	{Brand: "Samsung", Model: "UE43CU7172", ReleasedYear: 2023, ScreenSize: 43, RefreshRate: 60, Smart: true, Price: "329.99", Stock: 25},
	{Brand: "LG", Model: "OLED65C3", ReleasedYear: 2023, ScreenSize: 65, RefreshRate: 120, Smart: true, Price: "1799.00", Stock: 4},
	{Brand: "Sony", Model: "KD-50X75WL", ReleasedYear: 2022, ScreenSize: 50, RefreshRate: 60, Smart: true, Price: "549.00", Stock: 8},
	{Brand: "Philips", Model: "32PHS5507", ReleasedYear: 2021, ScreenSize: 32, RefreshRate: 60, Smart: false, Price: "179.50", Stock: 0},
}

// SeedCatalog loads rows into an already-migrated database in one transaction.
// Existing brands and televisions (matched by brand and model) are reused and
// existing stock entries keep their quantity, so the seed can be rerun.
func SeedCatalog(ctx context.Context, conn *gorm.DB, rows []SeedTelevision) (SeedReport, error) {
	var report SeedReport
	if conn == nil {
		return report, fmt.Errorf("db is required")
	}

	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		brands := map[string]int64{}
		for _, row := range rows {
			price, err := decimal.NewFromString(row.Price)
			if err != nil {
				return fmt.Errorf("price of %s %s: %w", row.Brand, row.Model, err)
			}
			if row.Stock < 0 {
				return fmt.Errorf("stock of %s %s must not be negative", row.Brand, row.Model)
			}

			brandID, ok := brands[row.Brand]
			if !ok {
				brand := models.Brand{Name: row.Brand}
				created, err := findOrCreate(tx, &brand, "name = ?", row.Brand)
				if err != nil {
					return fmt.Errorf("seed brand %s: %w", row.Brand, err)
				}
				if created {
					report.Brands++
				}
				brandID = brand.ID
				brands[row.Brand] = brandID
			}

			tv := models.Television{
				BrandID:      brandID,
				Model:        row.Model,
				ReleasedYear: row.ReleasedYear,
				ScreenSize:   row.ScreenSize,
				RefreshRate:  row.RefreshRate,
				Smart:        row.Smart,
				Price:        price,
			}
			created, err := findOrCreate(tx, &tv, "brand_id = ? AND model = ?", brandID, row.Model)
			if err != nil {
				return fmt.Errorf("seed television %s %s: %w", row.Brand, row.Model, err)
			}
			if created {
				report.Televisions++
			}

			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "television_id"}},
				DoNothing: true,
			}).Create(&models.StockEntry{TelevisionID: tv.ID, Quantity: row.Stock})
			if res.Error != nil {
				return fmt.Errorf("seed stock for %s %s: %w", row.Brand, row.Model, res.Error)
			}
			report.StockRows += int(res.RowsAffected)
		}
		return nil
	})
	return report, err
}

// findOrCreate loads the first row matching query into dest, inserting dest
// as given when nothing matches.
func findOrCreate(tx *gorm.DB, dest any, query string, args ...any) (bool, error) {
	res := tx.Where(query, args...).Limit(1).Find(dest)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	if err := tx.Create(dest).Error; err != nil {
		return false, err
	}
	return true, nil
}
