package merge

import (
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/models"
	"housemetrics/server/internal/stats"
)

// Summary holds observational metadata about a merge run.
type Summary struct {
	TotalProperties   int
	CountyProperties  int
	ListingProperties int
	MinPrice          int
	MaxPrice          int
	AvgPrice          int
}

// Merger unifies county transactions and external listings into the
// canonical property schema.
type Merger struct {
	logger *logrus.Logger
}

func NewMerger(logger *logrus.Logger) *Merger {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Merger{logger: logger}
}

// Merge combines both sources, derives computed fields, drops incomplete
// rows and removes price outliers by the IQR rule over the current batch.
// Either input may be empty. Insertion order is preserved, transactions
// first.
func (m *Merger) Merge(transactions []models.Transaction, listings []models.Listing) ([]models.Property, *Summary) {
	combined := make([]models.Property, 0, len(transactions)+len(listings))
	for _, t := range transactions {
		combined = append(combined, fromTransaction(t))
	}
	for _, l := range listings {
		combined = append(combined, fromListing(l))
	}

	// Rows without sale price, bedrooms or bathrooms cannot be used for
	// trends or training.
	cleaned := combined[:0]
	for _, p := range combined {
		if p.SalePrice == nil || p.Bedrooms == nil || p.Bathrooms == nil {
			continue
		}
		cleaned = append(cleaned, p)
	}

	filtered := filterPriceOutliers(cleaned)

	summary := &Summary{
		TotalProperties:   len(filtered),
		CountyProperties:  len(transactions),
		ListingProperties: len(listings),
	}
	for i, p := range filtered {
		price := *p.SalePrice
		summary.AvgPrice += price
		if i == 0 || price < summary.MinPrice {
			summary.MinPrice = price
		}
		if price > summary.MaxPrice {
			summary.MaxPrice = price
		}
	}
	if summary.TotalProperties > 0 {
		summary.AvgPrice /= summary.TotalProperties
	}

	m.logger.WithFields(logrus.Fields{
		"total_properties":   summary.TotalProperties,
		"county_properties":  summary.CountyProperties,
		"listing_properties": summary.ListingProperties,
		"min_price":          summary.MinPrice,
		"max_price":          summary.MaxPrice,
		"avg_price":          summary.AvgPrice,
	}).Info("Processed merged properties")

	return filtered, summary
}

func fromTransaction(t models.Transaction) models.Property {
	saleDate := t.SaleDate
	salePrice := t.SalePrice
	return models.Property{
		ID:            t.ParcelNumber,
		Address:       t.Address,
		City:          t.City,
		ZipCode:       t.ZipCode,
		SaleDate:      &saleDate,
		SalePrice:     &salePrice,
		Bedrooms:      t.Bedrooms,
		Bathrooms:     Bathrooms(t.FullBaths, t.ThreeQtrBaths, t.HalfBaths),
		SquareFootage: TotalSquareFootage(t.AboveGroundSqft, t.FinishedBsmtSqft),
		YearBuilt:     t.YearBuilt,
		LandValue:     t.LandValue,
		BldgValue:     t.BldgValue,
		GarageSqft:    t.GarageSqft,
		DataSource:    models.SourceBoulderCounty,
	}
}

func fromListing(l models.Listing) models.Property {
	return models.Property{
		ID:            l.ID,
		Address:       l.FormattedAddress,
		City:          l.City,
		State:         l.State,
		ZipCode:       l.ZipCode,
		SalePrice:     l.LastSalePrice,
		Bedrooms:      l.Bedrooms,
		Bathrooms:     l.Bathrooms,
		SquareFootage: l.SquareFootage,
		YearBuilt:     l.YearBuilt,
		Zestimate:     l.Zestimate,
		DataSource:    models.SourceRentcast,
	}
}

// Bathrooms computes the weighted bathroom count, full + 0.75*threeQtr +
// 0.5*half. A missing sub-count makes the total unknown.
func Bathrooms(full, threeQtr, half *int) *float64 {
	if full == nil || threeQtr == nil || half == nil {
		return nil
	}
	total := float64(*full) + float64(*threeQtr)*0.75 + float64(*half)*0.5
	return &total
}

// TotalSquareFootage is above-ground plus finished basement area.
func TotalSquareFootage(aboveGround, finishedBsmt *int) *int {
	if aboveGround == nil || finishedBsmt == nil {
		return nil
	}
	total := *aboveGround + *finishedBsmt
	return &total
}

// filterPriceOutliers drops rows whose sale price falls outside
// [Q1-1.5*IQR, Q3+1.5*IQR] of the current batch. The bounds are
// data-dependent per run.
func filterPriceOutliers(properties []models.Property) []models.Property {
	if len(properties) == 0 {
		return properties
	}

	prices := make([]float64, len(properties))
	for i, p := range properties {
		prices[i] = float64(*p.SalePrice)
	}
	sort.Float64s(prices)

	q1 := stats.Quantile(0.25, prices)
	q3 := stats.Quantile(0.75, prices)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	kept := properties[:0]
	for _, p := range properties {
		price := float64(*p.SalePrice)
		if price >= lower && price <= upper {
			kept = append(kept, p)
		}
	}
	return kept
}
