package server

import (
	"context"
	"net/http"

	"github.com/fekuna/omnipos-retail-service/internal/insight"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/gorilla/mux"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

type Deps struct {
	Schema    *graphql.Schema
	Insights  *insight.Service // Nil when no completion endpoint is configured
	Orders    order.UseCase
	Products  product.UseCase
	Formatter *money.Formatter
	Logger    logger.ZapLogger
	// Ping reports storage health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// NewRouter mounts every HTTP route. Only /healthz is reachable anonymously.
func NewRouter(deps Deps) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", healthz(deps.Ping)).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	api.Use(authenticate)
	api.Handle("/graphql", &relay.Handler{Schema: deps.Schema}).Methods(http.MethodPost)
	api.Handle("/insights/stream", &insightHandler{svc: deps.Insights, logger: deps.Logger}).Methods(http.MethodGet)
	api.Handle("/export/orders.csv", &exportHandler{
		orders:    deps.Orders,
		products:  deps.Products,
		formatter: deps.Formatter,
		logger:    deps.Logger,
	}).Methods(http.MethodGet)

	return withRecover(deps.Logger, withLogging(deps.Logger, r))
}

func healthz(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"degraded"}`))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
