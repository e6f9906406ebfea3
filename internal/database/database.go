package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"gonum.org/v1/gonum/stat"

	"housemetrics/server/internal/models"
	"housemetrics/server/internal/stats"
)

// ErrNotFound is returned when a property id does not exist in the store.
var ErrNotFound = errors.New("property not found")

const defaultSearchLimit = 50

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Ping() error {
	var one int
	return d.db.QueryRow("SELECT 1").Scan(&one)
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

// SearchProperties runs a filtered, parameterized search. Each present
// filter is ANDed in; results order by sale price then estimate, both
// descending with nulls last, capped at the requested limit.
func (d *Database) SearchProperties(req models.PropertySearchRequest) ([]models.PropertyResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := sq.Select(
		"id", "address", "city", "zip_code",
		"bedrooms", "bathrooms", "square_footage", "year_built",
		"sale_price", "zestimate", "fair_price", "comparable_count",
	).From("properties")

	if req.MinPrice != nil {
		q = q.Where(sq.Or{sq.GtOrEq{"sale_price": *req.MinPrice}, sq.GtOrEq{"zestimate": *req.MinPrice}})
	}
	if req.MaxPrice != nil {
		q = q.Where(sq.Or{sq.LtOrEq{"sale_price": *req.MaxPrice}, sq.LtOrEq{"zestimate": *req.MaxPrice}})
	}
	if req.MinBedrooms != nil {
		q = q.Where(sq.GtOrEq{"bedrooms": *req.MinBedrooms})
	}
	if req.MaxBedrooms != nil {
		q = q.Where(sq.LtOrEq{"bedrooms": *req.MaxBedrooms})
	}
	if req.MinBathrooms != nil {
		q = q.Where(sq.GtOrEq{"bathrooms": *req.MinBathrooms})
	}
	if req.MaxBathrooms != nil {
		q = q.Where(sq.LtOrEq{"bathrooms": *req.MaxBathrooms})
	}
	if req.MinSqft != nil {
		q = q.Where(sq.GtOrEq{"square_footage": *req.MinSqft})
	}
	if req.MaxSqft != nil {
		q = q.Where(sq.LtOrEq{"square_footage": *req.MaxSqft})
	}
	if len(req.Cities) > 0 {
		q = q.Where(sq.Eq{"city": req.Cities})
	}
	if len(req.ZipCodes) > 0 {
		q = q.Where(sq.Eq{"zip_code": req.ZipCodes})
	}

	q = q.OrderBy("sale_price DESC NULLS LAST", "zestimate DESC NULLS LAST").
		Limit(uint64(limit))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search properties: %w", err)
	}
	defer rows.Close()

	var results []models.PropertyResponse
	for rows.Next() {
		resp, err := scanPropertyResponse(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}
	return results, rows.Err()
}

// GetProperty returns the detail row for one property id.
func (d *Database) GetProperty(id string) (*models.PropertyResponse, error) {
	row := d.db.QueryRow(`
        SELECT id, address, city, zip_code,
               bedrooms, bathrooms, square_footage, year_built,
               sale_price, zestimate, fair_price, comparable_count
        FROM properties
        WHERE id = ?
        LIMIT 1
    `, id)

	resp, err := scanPropertyResponse(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanPropertyResponse(row scannable) (*models.PropertyResponse, error) {
	var resp models.PropertyResponse
	var address sql.NullString
	var bedrooms, sqft, yearBuilt, salePrice, zestimate, fairPrice, comparables sql.NullInt64
	var bathrooms sql.NullFloat64

	err := row.Scan(
		&resp.ID,
		&address,
		&resp.City,
		&resp.ZipCode,
		&bedrooms,
		&bathrooms,
		&sqft,
		&yearBuilt,
		&salePrice,
		&zestimate,
		&fairPrice,
		&comparables,
	)
	if err != nil {
		return nil, err
	}

	if address.Valid && address.String != "" {
		resp.Address = address.String
	} else {
		resp.Address = "Address not available"
	}
	resp.Bedrooms = nullableInt(bedrooms)
	resp.SquareFootage = nullableInt(sqft)
	resp.YearBuilt = nullableInt(yearBuilt)
	resp.SalePrice = nullableInt(salePrice)
	resp.Zestimate = nullableInt(zestimate)
	resp.FairPrice = nullableInt(fairPrice)
	resp.ComparableCount = nullableInt(comparables)
	if bathrooms.Valid {
		resp.Bathrooms = &bathrooms.Float64
	}

	// Price deviation against the externally computed fair price, only when
	// both sides are present.
	if resp.SalePrice != nil && resp.FairPrice != nil {
		diff := *resp.SalePrice - *resp.FairPrice
		pct := float64(diff) / float64(*resp.FairPrice) * 100
		resp.PriceDifference = &diff
		resp.PriceDifferencePct = &pct
	}

	return &resp, nil
}

// GetMarketTrends returns trend rows inside the lookback window, optionally
// filtered to one zip code.
func (d *Database) GetMarketTrends(zipCode string, days int, now time.Time) ([]models.MarketTrendResponse, error) {
	query := `
        SELECT zip_code, date, avg_price, median_price, price_per_sqft,
               inventory_count, sales_count
        FROM market_trends
        WHERE date >= ?
    `
	args := []interface{}{now.AddDate(0, 0, -days).Format("2006-01-02")}

	if zipCode != "" {
		query += " AND zip_code = ?"
		args = append(args, zipCode)
	}
	query += " ORDER BY zip_code, date DESC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query market trends: %w", err)
	}
	defer rows.Close()

	var trends []models.MarketTrendResponse
	for rows.Next() {
		var t models.MarketTrendResponse
		if err := rows.Scan(
			&t.ZipCode, &t.Date, &t.AvgPrice, &t.MedianPrice,
			&t.PricePerSqft, &t.InventoryCount, &t.SalesCount,
		); err != nil {
			return nil, err
		}
		trends = append(trends, t)
	}
	return trends, rows.Err()
}

// GetMarketSummary aggregates estimate-backed rows across the whole store.
func (d *Database) GetMarketSummary() (*models.MarketSummaryResponse, error) {
	rows, err := d.db.Query(`
        SELECT zestimate FROM properties WHERE zestimate IS NOT NULL
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query market summary: %w", err)
	}
	defer rows.Close()

	var estimates []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		estimates = append(estimates, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var active int
	err = d.db.QueryRow(
		"SELECT COUNT(*) FROM properties WHERE data_source = ?",
		models.SourceRentcast,
	).Scan(&active)
	if err != nil {
		return nil, err
	}

	summary := &models.MarketSummaryResponse{
		TotalProperties: len(estimates),
		ActiveListings:  active,
		PriceRange:      "N/A",
	}
	if len(estimates) > 0 {
		sort.Float64s(estimates)
		summary.AvgPrice = stat.Mean(estimates, nil)
		summary.MedianPrice = stats.Median(estimates)
		summary.PriceRange = fmt.Sprintf("$%.0f - $%.0f", estimates[0], estimates[len(estimates)-1])
	}
	return summary, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
