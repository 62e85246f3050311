package availability

import "github.com/google/uuid"

// TaxLine reports one applied (or informational inclusive) tax
type TaxLine struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Inclusive bool    `json:"inclusive"`
}

// NightlyRate is the priced selling rate for one night of a result
type NightlyRate struct {
	Date       string    `json:"date"`
	Price      float64   `json:"price"`
	SupplierID uuid.UUID `json:"supplier_id"`
}

// Result is one sellable candidate for the full requested window
type Result struct {
	ProductID    uuid.UUID     `json:"product_id"`
	VariantID    uuid.UUID     `json:"variant_id"`
	ProductName  string        `json:"product_name"`
	VariantName  string        `json:"variant_name"`
	ProductType  string        `json:"product_type"`
	Destination  string        `json:"destination"`
	Currency     string        `json:"currency"`
	Nights       int           `json:"nights"`
	MinAvailable int           `json:"min_available"`
	NightlyRates []NightlyRate `json:"nightly_rates"`
	RoomTotal    float64       `json:"room_total"`
	TaxTotal     float64       `json:"tax_total"`
	Taxes        []TaxLine     `json:"taxes"`
	Total        float64       `json:"total"`
}

// SearchResponse wraps results with the echo of the searched window
type SearchResponse struct {
	CheckIn  string   `json:"check_in"`
	CheckOut string   `json:"check_out"`
	Results  []Result `json:"results"`
}
