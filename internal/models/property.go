package models

import "time"

// Data source tags attached to merged property records.
const (
	SourceBoulderCounty = "boulder_county"
	SourceRentcast      = "rentcast"
	SourceCombined      = "combined"
)

// Transaction is one row of the county sales extract after parsing.
type Transaction struct {
	ParcelNumber       string    `json:"parcel_nb"`
	Address            string    `json:"property_address"`
	City               string    `json:"city"`
	ZipCode            string    `json:"zip_code"`
	SaleDate           time.Time `json:"sale_date"`
	SalePrice          int       `json:"sale_price"`
	Bedrooms           *int      `json:"bedrooms"`
	FullBaths          *int      `json:"full_baths"`
	ThreeQtrBaths      *int      `json:"three_qtr_baths"`
	HalfBaths          *int      `json:"half_baths"`
	AboveGroundSqft    *int      `json:"above_ground_sqft"`
	FinishedBsmtSqft   *int      `json:"finished_bsmt_sqft"`
	UnfinishedBsmtSqft *int      `json:"unfinished_bsmt_sqft"`
	GarageSqft         *int      `json:"garage_sqft"`
	YearBuilt          *int      `json:"year_built"`
	LandValue          *int      `json:"land_value"`
	BldgValue          *int      `json:"bldg_value"`
}

// Listing is one active listing as returned by the RentCast API.
// Fields are partially populated depending on what the API knows.
type Listing struct {
	ID               string   `json:"id"`
	FormattedAddress string   `json:"formattedAddress"`
	AddressLine1     string   `json:"addressLine1"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	ZipCode          string   `json:"zipCode"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *float64 `json:"bathrooms"`
	SquareFootage    *int     `json:"squareFootage"`
	YearBuilt        *int     `json:"yearBuilt"`
	Zestimate        *int     `json:"zestimate"`
	LastSalePrice    *int     `json:"lastSalePrice"`
	LastSaleDate     string   `json:"lastSaleDate"`
}

// Property is the canonical merged record persisted to the store.
type Property struct {
	ID            string     `json:"id"`
	Address       string     `json:"address"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	ZipCode       string     `json:"zip_code"`
	SaleDate      *time.Time `json:"sale_date"`
	SalePrice     *int       `json:"sale_price"`
	Bedrooms      *int       `json:"bedrooms"`
	Bathrooms     *float64   `json:"bathrooms"`
	SquareFootage *int       `json:"square_footage"`
	YearBuilt     *int       `json:"year_built"`
	LandValue     *int       `json:"land_value"`
	BldgValue     *int       `json:"bldg_value"`
	GarageSqft    *int       `json:"garage_sqft"`
	Zestimate     *int       `json:"zestimate"`
	DataSource    string     `json:"data_source"`
}

// MarketTrend is one per-zip aggregate row, appended per pipeline run.
type MarketTrend struct {
	ZipCode        string    `json:"zip_code"`
	Date           time.Time `json:"date"`
	DataSource     string    `json:"data_source"`
	AvgPrice       int       `json:"avg_price"`
	MedianPrice    int       `json:"median_price"`
	PricePerSqft   float64   `json:"price_per_sqft"`
	InventoryCount int       `json:"inventory_count"`
	SalesCount     int       `json:"sales_count"`
}
