package models

// PropertySearchRequest carries the optional search filters. Any nil filter
// is left out of the generated query.
type PropertySearchRequest struct {
	MinPrice     *int     `json:"min_price"`
	MaxPrice     *int     `json:"max_price"`
	MinBedrooms  *int     `json:"min_bedrooms"`
	MaxBedrooms  *int     `json:"max_bedrooms"`
	MinBathrooms *float64 `json:"min_bathrooms"`
	MaxBathrooms *float64 `json:"max_bathrooms"`
	MinSqft      *int     `json:"min_sqft"`
	MaxSqft      *int     `json:"max_sqft"`
	Cities       []string `json:"cities"`
	ZipCodes     []string `json:"zip_codes"`
	Limit        int      `json:"limit"`
}

// PropertyPredictionRequest carries the raw characteristics for an ad hoc
// price prediction.
type PropertyPredictionRequest struct {
	Bedrooms      int     `json:"bedrooms" binding:"required"`
	Bathrooms     float64 `json:"bathrooms" binding:"required"`
	SquareFootage int     `json:"square_footage" binding:"required"`
	YearBuilt     int     `json:"year_built" binding:"required"`
	LandValue     *int    `json:"land_value"`
	BldgValue     *int    `json:"bldg_value"`
	GarageSqft    *int    `json:"garage_sqft"`
}

type PropertyResponse struct {
	ID                 string   `json:"id"`
	Address            string   `json:"address"`
	City               string   `json:"city"`
	ZipCode            string   `json:"zip_code"`
	Bedrooms           *int     `json:"bedrooms"`
	Bathrooms          *float64 `json:"bathrooms"`
	SquareFootage      *int     `json:"square_footage"`
	YearBuilt          *int     `json:"year_built"`
	SalePrice          *int     `json:"sale_price"`
	Zestimate          *int     `json:"zestimate"`
	FairPrice          *int     `json:"fair_price"`
	ComparableCount    *int     `json:"comparable_count"`
	PriceDifference    *int     `json:"price_difference"`
	PriceDifferencePct *float64 `json:"price_difference_percent"`
}

type PredictionResponse struct {
	PredictedPrice int      `json:"predicted_price"`
	Confidence     float64  `json:"confidence"`
	FeaturesUsed   []string `json:"features_used"`
	ModelType      string   `json:"model_type"`
}

type MarketTrendResponse struct {
	ZipCode        string  `json:"zip_code"`
	Date           string  `json:"date"`
	AvgPrice       int     `json:"avg_price"`
	MedianPrice    int     `json:"median_price"`
	PricePerSqft   float64 `json:"price_per_sqft"`
	InventoryCount int     `json:"inventory_count"`
	SalesCount     int     `json:"sales_count"`
}

type MarketSummaryResponse struct {
	TotalProperties int     `json:"total_properties"`
	AvgPrice        float64 `json:"avg_price"`
	MedianPrice     float64 `json:"median_price"`
	PriceRange      string  `json:"price_range"`
	ActiveListings  int     `json:"active_listings"`
}
