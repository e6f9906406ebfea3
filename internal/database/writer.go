package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"housemetrics/server/internal/models"
)

// propertyRow maps a merged property onto the properties table for the
// append-only write path.
type propertyRow struct {
	RowID           uint     `gorm:"column:row_id;primaryKey;autoIncrement"`
	ID              string   `gorm:"column:id"`
	Address         string   `gorm:"column:address"`
	City            string   `gorm:"column:city"`
	State           string   `gorm:"column:state"`
	ZipCode         string   `gorm:"column:zip_code"`
	SaleDate        *string  `gorm:"column:sale_date"`
	SalePrice       *int     `gorm:"column:sale_price"`
	Bedrooms        *int     `gorm:"column:bedrooms"`
	Bathrooms       *float64 `gorm:"column:bathrooms"`
	SquareFootage   *int     `gorm:"column:square_footage"`
	YearBuilt       *int     `gorm:"column:year_built"`
	LandValue       *int     `gorm:"column:land_value"`
	BldgValue       *int     `gorm:"column:bldg_value"`
	GarageSqft      *int     `gorm:"column:garage_sqft"`
	Zestimate       *int     `gorm:"column:zestimate"`
	DataSource      string   `gorm:"column:data_source"`
	FairPrice       *int     `gorm:"column:fair_price"`
	ComparableCount *int     `gorm:"column:comparable_count"`
}

func (propertyRow) TableName() string { return "properties" }

type trendRow struct {
	RowID          uint    `gorm:"column:row_id;primaryKey;autoIncrement"`
	ZipCode        string  `gorm:"column:zip_code"`
	Date           string  `gorm:"column:date"`
	DataSource     string  `gorm:"column:data_source"`
	AvgPrice       int     `gorm:"column:avg_price"`
	MedianPrice    int     `gorm:"column:median_price"`
	PricePerSqft   float64 `gorm:"column:price_per_sqft"`
	InventoryCount int     `gorm:"column:inventory_count"`
	SalesCount     int     `gorm:"column:sales_count"`
}

func (trendRow) TableName() string { return "market_trends" }

// OpenGorm opens the same sqlite file for the transactional write path.
func OpenGorm(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database for writing: %w", err)
	}
	return db, nil
}

// AppendProperties bulk-appends merged properties inside the given
// transaction.
func AppendProperties(tx *gorm.DB, properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}

	rows := make([]propertyRow, len(properties))
	for i, p := range properties {
		row := propertyRow{
			ID:            p.ID,
			Address:       p.Address,
			City:          p.City,
			State:         p.State,
			ZipCode:       p.ZipCode,
			SalePrice:     p.SalePrice,
			Bedrooms:      p.Bedrooms,
			Bathrooms:     p.Bathrooms,
			SquareFootage: p.SquareFootage,
			YearBuilt:     p.YearBuilt,
			LandValue:     p.LandValue,
			BldgValue:     p.BldgValue,
			GarageSqft:    p.GarageSqft,
			Zestimate:     p.Zestimate,
			DataSource:    p.DataSource,
		}
		if p.SaleDate != nil {
			date := p.SaleDate.Format("2006-01-02")
			row.SaleDate = &date
		}
		rows[i] = row
	}

	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert properties: %w", err)
	}
	return nil
}

// AppendTrends bulk-appends trend records inside the given transaction.
func AppendTrends(tx *gorm.DB, trends []models.MarketTrend) error {
	if len(trends) == 0 {
		return nil
	}

	rows := make([]trendRow, len(trends))
	for i, t := range trends {
		rows[i] = trendRow{
			ZipCode:        t.ZipCode,
			Date:           t.Date.Format("2006-01-02"),
			DataSource:     t.DataSource,
			AvgPrice:       t.AvgPrice,
			MedianPrice:    t.MedianPrice,
			PricePerSqft:   t.PricePerSqft,
			InventoryCount: t.InventoryCount,
			SalesCount:     t.SalesCount,
		}
	}

	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert market trends: %w", err)
	}
	return nil
}
