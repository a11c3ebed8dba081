package domain

// Business is one row of the businesses table. Loaded once per run and
// immutable afterwards.
type Business struct {
	ID          string
	Name        string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Phone       *string
	Categories  []string
	Rating      float64 // historical star rating, 1.0-5.0 in 0.5 steps
	ReviewCount int     // historical review count reported by the provider
	Price       *string
	Lat, Lon    *float64 // may be missing; such rows are excluded from the map
	URL         *string
}

// HasCoords reports whether the business can be placed on the map.
func (b Business) HasCoords() bool { return b.Lat != nil && b.Lon != nil }
