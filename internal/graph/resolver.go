package graph

import (
	_ "embed"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/category"
	"github.com/fekuna/omnipos-retail-service/internal/i18n"
	"github.com/fekuna/omnipos-retail-service/internal/ledger"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	"github.com/fekuna/omnipos-retail-service/internal/order"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	"github.com/fekuna/omnipos-retail-service/internal/product"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/pkg/errors"
)

//go:embed schema.graphql
var schemaSDL string

// Deps are the usecases behind the gateway.
type Deps struct {
	Categories category.UseCase
	Products   product.UseCase
	Orders     order.UseCase
	Ledger     ledger.UseCase
	Reports    report.UseCase
	POS        *pos.Service
	Formatter  *money.Formatter
	Translator *i18n.Translator
	Logger     logger.ZapLogger
}

// Resolver serves both Query and Mutation.
type Resolver struct {
	categories category.UseCase
	products   product.UseCase
	orders     order.UseCase
	ledger     ledger.UseCase
	reports    report.UseCase
	pos        *pos.Service
	formatter  *money.Formatter
	translator *i18n.Translator
	logger     logger.ZapLogger
}

func NewSchema(deps Deps) (*graphql.Schema, error) {
	r := &Resolver{
		categories: deps.Categories,
		products:   deps.Products,
		orders:     deps.Orders,
		ledger:     deps.Ledger,
		reports:    deps.Reports,
		pos:        deps.POS,
		formatter:  deps.Formatter,
		translator: deps.Translator,
		logger:     deps.Logger,
	}
	schema, err := graphql.ParseSchema(schemaSDL, r, graphql.MaxParallelism(10))
	if err != nil {
		return nil, errors.Wrap(err, "parse graphql schema")
	}
	return schema, nil
}

func toTime(t *graphql.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func window(start, end *graphql.Time) model.DateRange {
	return model.DateRange{Start: toTime(start), End: toTime(end)}
}

func str(id *graphql.ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}

func ids(in []graphql.ID) []string {
	out := make([]string, len(in))
	for i, id := range in {
		out[i] = string(id)
	}
	return out
}
