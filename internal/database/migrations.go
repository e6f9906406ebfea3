package database

import "fmt"

// RunMigrations creates the schema. All statements are idempotent.
func (d *Database) RunMigrations() error {
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			row_id INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			address TEXT,
			city TEXT,
			state TEXT,
			zip_code TEXT,
			sale_date TEXT,
			sale_price INTEGER,
			bedrooms INTEGER,
			bathrooms REAL,
			square_footage INTEGER,
			year_built INTEGER,
			land_value INTEGER,
			bldg_value INTEGER,
			garage_sqft INTEGER,
			zestimate INTEGER,
			data_source TEXT,
			fair_price INTEGER,
			comparable_count INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create properties table: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_trends (
			row_id INTEGER PRIMARY KEY AUTOINCREMENT,
			zip_code TEXT NOT NULL,
			date TEXT NOT NULL,
			data_source TEXT,
			avg_price INTEGER,
			median_price INTEGER,
			price_per_sqft REAL,
			inventory_count INTEGER,
			sales_count INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create market_trends table: %w", err)
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_id
		ON properties(id);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_properties_zip_city
		ON properties(zip_code, city);
	`)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_market_trends_zip_date
		ON market_trends(zip_code, date);
	`)
	if err != nil {
		return err
	}

	return nil
}
