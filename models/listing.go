package models

// ListingRecord is one qualifying property extracted from a results page.
// A record only exists if its normalized price met the configured threshold;
// sub-threshold listings are dropped at extraction time.
type ListingRecord struct {
	Address    string   `json:"address"`
	Price      string   `json:"price"`
	PriceValue float64  `json:"price_value"`
	Status     string   `json:"status"`
	Beds       *int     `json:"beds"`
	Baths      *float64 `json:"baths"`
	SqFt       *int     `json:"sqft"`
	Agent      string   `json:"agent"`
	Agency     string   `json:"agency"`

	// Description is kept in memory for downstream sinks but is not part
	// of the output dataset schema.
	Description string `json:"-"`
}

// DefaultStatus is used when a listing carries no status text at all.
const DefaultStatus = "Not Listed For Sale"

// StatusEstimated marks prices prefixed with the "Est" token.
const StatusEstimated = "Estimated Price"
