package dto

import "github.com/fekuna/omnipos-retail-service/internal/model"

type OrderFilters struct {
	Range  model.DateRange // On created_at
	Status model.OrderStatus
}
