package dto

import "github.com/fekuna/omnipos-retail-service/internal/model"

type LedgerFilters struct {
	Range     model.DateRange // created_at for items, date for revenue
	ProductID string
}
