package catalog

type ProductDetailResponse struct {
	Product  Product          `json:"product"`
	Variants []ProductVariant `json:"variants"`
	Taxes    []ProductTax     `json:"taxes"`
}

type PaginatedProducts struct {
	Products   []Product `json:"products"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}
