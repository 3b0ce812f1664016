package server

import (
	"net/http"

	"github.com/fekuna/omnipos-retail-service/internal/export"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	orderdto "github.com/fekuna/omnipos-retail-service/internal/order/dto"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"go.uber.org/zap"
)

type exportHandler struct {
	orders    order.UseCase
	products  product.UseCase
	formatter *money.Formatter
	logger    logger.ZapLogger
}

func (h *exportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	orders, err := h.orders.ListOrders(ctx, &orderdto.OrderFilters{Range: window})
	if err != nil {
		h.logger.Error("failed to list orders for export", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	products, err := h.products.ListProducts(ctx, nil)
	if err != nil {
		h.logger.Error("failed to list products for export", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := export.WriteCSV(w, export.OrderColumns(h.formatter), export.FlattenOrders(orders, products)); err != nil {
		h.logger.Error("failed to write orders export", zap.Error(err))
	}
}
