package dto

type ProductFilters struct {
	CategoryID  string
	SearchQuery string // Name or description
	SortBy      string // name, stock, sell_price, created_at
	SortOrder   string // asc, desc
}
