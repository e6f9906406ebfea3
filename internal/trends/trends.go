package trends

import (
	"math"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"housemetrics/server/internal/models"
	"housemetrics/server/internal/stats"
)

// minGroupSize is the smallest zip-code group worth aggregating; smaller
// groups are skipped as an insufficient sample.
const minGroupSize = 5

// Aggregator computes per-zip-code market trend records.
type Aggregator struct {
	logger *logrus.Logger
}

func NewAggregator(logger *logrus.Logger) *Aggregator {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups properties by zip code and emits one trend record per
// qualifying group, dated at the run date. Rows without a zip code are
// excluded before grouping. Empty input yields an empty result.
func (a *Aggregator) Aggregate(properties []models.Property, now time.Time) []models.MarketTrend {
	if len(properties) == 0 {
		a.logger.Warn("No properties to calculate market trends")
		return nil
	}

	groups := make(map[string][]models.Property)
	var order []string
	for _, p := range properties {
		if p.ZipCode == "" {
			continue
		}
		if _, seen := groups[p.ZipCode]; !seen {
			order = append(order, p.ZipCode)
		}
		groups[p.ZipCode] = append(groups[p.ZipCode], p)
	}

	var trends []models.MarketTrend
	for _, zipCode := range order {
		group := groups[zipCode]
		if len(group) < minGroupSize {
			continue
		}

		prices := make([]float64, len(group))
		var priceSum, sqftSum float64
		for i, p := range group {
			prices[i] = float64(*p.SalePrice)
			priceSum += prices[i]
			if p.SquareFootage != nil {
				sqftSum += float64(*p.SquareFootage)
			}
		}
		sort.Float64s(prices)

		// Price per sqft is a ratio of sums: larger properties weigh in
		// proportionally, rather than averaging per-row ratios.
		trends = append(trends, models.MarketTrend{
			ZipCode:        zipCode,
			Date:           now,
			DataSource:     models.SourceCombined,
			AvgPrice:       int(priceSum / float64(len(group))),
			MedianPrice:    int(stats.Median(prices)),
			PricePerSqft:   priceSum / sqftSum,
			InventoryCount: len(group),
			SalesCount:     len(group),
		})
	}

	a.logger.WithFields(logrus.Fields{
		"num_zip_codes": len(trends),
	}).Info("Calculated market trends")

	return trends
}

// Mean is exposed for summary logging of aggregated trends.
func Mean(trends []models.MarketTrend) float64 {
	if len(trends) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, t := range trends {
		sum += float64(t.AvgPrice)
	}
	return sum / float64(len(trends))
}
