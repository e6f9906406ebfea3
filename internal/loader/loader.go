package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/models"
)

// saleDateLayout matches the county extract's US-format dates, e.g. 6/25/2021.
const saleDateLayout = "1/2/2006"

// Summary holds observational metadata about a load. It is logged and
// otherwise unused downstream.
type Summary struct {
	Count            int
	MinDate          time.Time
	MaxDate          time.Time
	TotalSalesVolume int
	AvgSalePrice     int
}

// Loader parses county sales extracts into normalized transactions.
type Loader struct {
	logger *logrus.Logger
}

func NewLoader(logger *logrus.Logger) *Loader {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Loader{logger: logger}
}

// LoadFile reads the sales extract at path, keeping transactions from the
// five years trailing now.
func (l *Loader) LoadFile(path string, now time.Time) ([]models.Transaction, *Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open sales extract: %w", err)
	}
	defer f.Close()

	return l.Load(f, now)
}

// Load parses a sales extract. Malformed price or date values fail the load
// outright; there is no silent coercion for those columns.
func (l *Loader) Load(r io.Reader, now time.Time) ([]models.Transaction, *Summary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeColumn(name)] = i
	}
	for _, required := range []string{"sale_price", "sale_date"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("sales extract missing column %q", required)
		}
	}

	cutoff := now.AddDate(0, 0, -5*365)

	var transactions []models.Transaction
	summary := &Summary{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++

		price, err := ParsePrice(field(record, cols, "sale_price"))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", line, err)
		}
		saleDate, err := ParseSaleDate(field(record, cols, "sale_date"))
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", line, err)
		}

		if saleDate.Before(cutoff) {
			continue
		}

		t := models.Transaction{
			ParcelNumber:       field(record, cols, "parcel_nb"),
			Address:            field(record, cols, "property_address"),
			City:               field(record, cols, "city"),
			ZipCode:            field(record, cols, "zip_code"),
			SaleDate:           saleDate,
			SalePrice:          price,
			Bedrooms:           optionalInt(field(record, cols, "bedrooms")),
			FullBaths:          optionalInt(field(record, cols, "full_baths")),
			ThreeQtrBaths:      optionalInt(field(record, cols, "three_qtr_baths")),
			HalfBaths:          optionalInt(field(record, cols, "half_baths")),
			AboveGroundSqft:    optionalInt(field(record, cols, "above_ground_sqft")),
			FinishedBsmtSqft:   optionalInt(field(record, cols, "finished_bsmt_sqft")),
			UnfinishedBsmtSqft: optionalInt(field(record, cols, "unfinished_bsmt_sqft")),
			GarageSqft:         optionalInt(field(record, cols, "garage_sqft")),
			YearBuilt:          optionalInt(field(record, cols, "year_built")),
			LandValue:          optionalInt(field(record, cols, "land_value")),
			BldgValue:          optionalInt(field(record, cols, "bldg_value")),
		}
		transactions = append(transactions, t)

		summary.TotalSalesVolume += price
		if summary.MinDate.IsZero() || saleDate.Before(summary.MinDate) {
			summary.MinDate = saleDate
		}
		if saleDate.After(summary.MaxDate) {
			summary.MaxDate = saleDate
		}
	}

	summary.Count = len(transactions)
	if summary.Count > 0 {
		summary.AvgSalePrice = summary.TotalSalesVolume / summary.Count
	}

	l.logger.WithFields(logrus.Fields{
		"num_records":        summary.Count,
		"date_range":         fmt.Sprintf("%s to %s", summary.MinDate.Format("2006-01-02"), summary.MaxDate.Format("2006-01-02")),
		"total_sales_volume": summary.TotalSalesVolume,
		"avg_sale_price":     summary.AvgSalePrice,
	}).Info("Loaded county transactions")

	return transactions, summary, nil
}

// ParsePrice converts a currency-formatted value ("$1,234,567") to an integer.
func ParsePrice(s string) (int, error) {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "$", ""), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty sale price")
	}
	price, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("invalid sale price %q: %w", s, err)
	}
	return price, nil
}

// ParseSaleDate converts a month/day/year value to a calendar date.
func ParseSaleDate(s string) (time.Time, error) {
	t, err := time.Parse(saleDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sale date %q: %w", s, err)
	}
	return t, nil
}

// normalizeColumn lower-cases a header name and replaces spaces with
// underscores, so "Sale Price" and "sale_price" address the same column.
func normalizeColumn(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

func field(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// optionalInt parses numeric columns that may be blank or dirty; anything
// unparseable is treated as missing.
func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			i := int(f)
			return &i
		}
		return nil
	}
	return &v
}
