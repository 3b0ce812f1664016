package dto

type CategoryFilters struct {
	Name string // Exact match, empty means all
}
