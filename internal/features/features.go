package features

import (
	"math"
	"sort"

	"housemetrics/server/internal/models"
	"housemetrics/server/internal/stats"
)

// Raw feature columns selected from the merged schema.
var rawColumns = []string{
	"bedrooms", "bathrooms", "square_footage", "year_built",
	"land_value", "bldg_value", "garage_sqft",
}

// Engineered columns derived from the raw ones and the target.
var engineeredColumns = []string{
	"price_per_sqft", "total_bathrooms", "age",
	"land_to_building_ratio", "total_sqft",
}

// Names returns the ordered feature-name list used for training.
func Names() []string {
	names := make([]string, 0, len(rawColumns)+len(engineeredColumns))
	names = append(names, rawColumns...)
	names = append(names, engineeredColumns...)
	return names
}

// Set is an engineered training set: one row of X per usable property,
// ordered by Columns, with the sale price as target.
type Set struct {
	Columns []string
	X       [][]float64
	Y       []float64
}

// Engineer builds the training set from merged properties. Missing raw
// values are imputed with the per-column median of this batch; rows with a
// missing target are dropped after imputation. The five engineered features
// are computed against the current batch and year.
func Engineer(properties []models.Property, year int) *Set {
	raw := make([][]float64, len(properties))
	for i, p := range properties {
		raw[i] = []float64{
			floatOrNaN(intToFloat(p.Bedrooms)),
			floatOrNaN(p.Bathrooms),
			floatOrNaN(intToFloat(p.SquareFootage)),
			floatOrNaN(intToFloat(p.YearBuilt)),
			floatOrNaN(intToFloat(p.LandValue)),
			floatOrNaN(intToFloat(p.BldgValue)),
			floatOrNaN(intToFloat(p.GarageSqft)),
		}
	}

	// Column medians are computed over the full batch, before rows with a
	// missing target are dropped.
	ImputeMedians(raw)

	set := &Set{Columns: Names()}
	for i, p := range properties {
		if p.SalePrice == nil {
			continue
		}
		target := float64(*p.SalePrice)
		set.X = append(set.X, engineerRow(raw[i], target, year))
		set.Y = append(set.Y, target)
	}
	return set
}

// engineerRow appends the derived features to a raw seven-value row.
// Positions follow rawColumns: bedrooms, bathrooms, square_footage,
// year_built, land_value, bldg_value, garage_sqft.
func engineerRow(raw []float64, target float64, year int) []float64 {
	row := make([]float64, 0, len(raw)+len(engineeredColumns))
	row = append(row, raw...)
	row = append(row,
		target/raw[2],        // price_per_sqft
		raw[1],               // total_bathrooms
		float64(year)-raw[3], // age
		raw[4]/(raw[5]+1),    // land_to_building_ratio
		raw[2]+raw[6],        // total_sqft
	)
	return row
}

// SingleRow builds one feature row for an ad hoc prediction from raw
// characteristics. The sale price is unknown, so price_per_sqft is zero by
// construction.
func SingleRow(req models.PropertyPredictionRequest, year int) map[string]float64 {
	landValue := float64(intOrZero(req.LandValue))
	bldgValue := float64(intOrZero(req.BldgValue))
	garageSqft := float64(intOrZero(req.GarageSqft))

	return map[string]float64{
		"bedrooms":               float64(req.Bedrooms),
		"bathrooms":              req.Bathrooms,
		"square_footage":         float64(req.SquareFootage),
		"year_built":             float64(req.YearBuilt),
		"land_value":             landValue,
		"bldg_value":             bldgValue,
		"garage_sqft":            garageSqft,
		"price_per_sqft":         0,
		"total_bathrooms":        req.Bathrooms,
		"age":                    float64(year - req.YearBuilt),
		"land_to_building_ratio": landValue / (bldgValue + 1),
		"total_sqft":             float64(req.SquareFootage) + garageSqft,
	}
}

// ImputeMedians replaces NaN entries with the per-column median of the
// non-missing values. A column with no observed values stays NaN.
func ImputeMedians(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	for col := 0; col < len(rows[0]); col++ {
		var observed []float64
		for _, row := range rows {
			if !math.IsNaN(row[col]) {
				observed = append(observed, row[col])
			}
		}
		if len(observed) == 0 {
			continue
		}
		sort.Float64s(observed)
		median := stats.Median(observed)
		for _, row := range rows {
			if math.IsNaN(row[col]) {
				row[col] = median
			}
		}
	}
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
