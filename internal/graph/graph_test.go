package graph_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	categoryusecase "github.com/fekuna/omnipos-retail-service/internal/category/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/graph"
	"github.com/fekuna/omnipos-retail-service/internal/i18n"
	ledgerusecase "github.com/fekuna/omnipos-retail-service/internal/ledger/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/logger"
	"github.com/fekuna/omnipos-retail-service/internal/memory"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/money"
	orderusecase "github.com/fekuna/omnipos-retail-service/internal/order/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/pos"
	productusecase "github.com/fekuna/omnipos-retail-service/internal/product/usecase"
	reportusecase "github.com/fekuna/omnipos-retail-service/internal/report/usecase"
	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gqlError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions"`
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []gqlError                 `json:"errors"`
}

type harness struct {
	server *httptest.Server
	store  *memory.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := memory.NewStore()
	log := logger.NewNop()
	translator, err := i18n.New("en")
	require.NoError(t, err)

	products := productusecase.NewProductUseCase(s.Products(), s.Categories(), nil, 0, nil, log)
	ledgerUC := ledgerusecase.NewLedgerUseCase(s.Ledger(), nil, nil, log)
	schema, err := graph.NewSchema(graph.Deps{
		Categories: categoryusecase.NewCategoryUseCase(s.Categories(), nil, log),
		Products:   products,
		Orders:     orderusecase.NewOrderUseCase(s.Orders(), s.Products(), nil, nil, log),
		Ledger:     ledgerUC,
		Reports:    reportusecase.NewReportUseCase(s.Ledger(), s.Orders(), s.Products(), s.Categories(), log),
		POS:        pos.NewService(pos.NewRegistry(), products, ledgerUC, log),
		Formatter:  money.NewFormatter("IDR"),
		Translator: translator,
		Logger:     log,
	})
	require.NoError(t, err)

	h := &relay.Handler{Schema: schema}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if user, ok := auth.FromRequest(r); ok {
			ctx = auth.WithUser(ctx, user)
		}
		ctx = i18n.WithLanguage(ctx, r.Header.Get("Accept-Language"))
		h.ServeHTTP(w, r.WithContext(ctx))
	}))
	t.Cleanup(srv.Close)
	return &harness{server: srv, store: s}
}

func (h *harness) do(t *testing.T, role, query string, vars map[string]interface{}) gqlResponse {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, h.server.URL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.HeaderUserID, "u-1")
	req.Header.Set(auth.HeaderRole, role)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	var out gqlResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func (h *harness) seedProduct(t *testing.T, name string, sell int64, stock int) string {
	t.Helper()
	p := model.Product{
		BaseModel: model.BaseModel{ID: uuid.New().String()},
		Name:      name,
		BuyPrice:  decimal.NewFromInt(sell / 2),
		SellPrice: decimal.NewFromInt(sell),
		Stock:     stock,
	}
	require.NoError(t, h.store.Products().Create(context.Background(), &p))
	return p.ID
}

func (h *harness) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := h.store.Products().FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func TestCreateAndListProducts(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, auth.RoleAdmin, `mutation($in: [CategoryInput!]!) { createCategories(input: $in) }`,
		map[string]interface{}{"in": []map[string]interface{}{{"name": "Drinks"}}})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `1`, string(res.Data["createCategories"]))

	res = h.do(t, auth.RoleCashier, `{ categories { id name } }`, nil)
	require.Empty(t, res.Errors)
	var cats []struct{ ID, Name string }
	require.NoError(t, json.Unmarshal(res.Data["categories"], &cats))
	require.Len(t, cats, 1)

	res = h.do(t, auth.RoleAdmin, `mutation($in: [ProductInput!]!) { createProducts(input: $in) }`,
		map[string]interface{}{"in": []map[string]interface{}{{
			"name": "Tea", "buyPrice": "2000", "sellPrice": "3500", "stock": 4, "categoryId": cats[0].ID,
		}}})
	require.Empty(t, res.Errors)

	res = h.do(t, auth.RoleCashier, `query($c: ID) { products(categoryId: $c) { name sellPrice stock category { name } } }`,
		map[string]interface{}{"c": cats[0].ID})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `[{"name":"Tea","sellPrice":"3500","stock":4,"category":{"name":"Drinks"}}]`, string(res.Data["products"]))
}

func TestUnknownProductIsNull(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, auth.RoleCashier, `{ product(id: "nope") { id } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `null`, string(res.Data["product"]))
}

func TestMalformedMoneyRejectsCall(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, auth.RoleAdmin, `mutation($in: [ProductInput!]!) { createProducts(input: $in) }`,
		map[string]interface{}{"in": []map[string]interface{}{
			{"name": "A", "buyPrice": "1", "sellPrice": "2", "stock": 0},
			{"name": "B", "buyPrice": "abc", "sellPrice": "2", "stock": 0},
		}})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "BAD_USER_INPUT", res.Errors[0].Extensions["code"])

	products, err := h.store.Products().FindAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestRecordItemsSoldIsAtomic(t *testing.T) {
	h := newHarness(t)
	a := h.seedProduct(t, "A", 1000, 5)
	b := h.seedProduct(t, "B", 1000, 1)

	res := h.do(t, auth.RoleCashier, `mutation($in: [StockLineInput!]!) { recordItemsSold(input: $in) }`,
		map[string]interface{}{"in": []map[string]interface{}{
			{"productId": a, "quantity": 2},
			{"productId": b, "quantity": 3},
		}})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Errors[0].Extensions["code"])
	assert.Equal(t, 5, h.stock(t, a))
	assert.Equal(t, 1, h.stock(t, b))

	sold, err := h.store.Ledger().ListItemsSold(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, sold)
}

func TestBulkDeleteReportsElements(t *testing.T) {
	h := newHarness(t)
	a := h.seedProduct(t, "A", 1000, 0)

	res := h.do(t, auth.RoleAdmin, `mutation($ids: [ID!]!) { deleteProducts(ids: $ids) }`,
		map[string]interface{}{"ids": []string{a, uuid.New().String()}})
	require.Len(t, res.Errors, 1)
	ext := res.Errors[0].Extensions
	assert.Equal(t, "NOT_FOUND", ext["code"])
	assert.EqualValues(t, 1, ext["affected"])

	elements, ok := ext["elements"].([]interface{})
	require.True(t, ok)
	require.Len(t, elements, 1)
	assert.EqualValues(t, 1, elements[0].(map[string]interface{})["index"])

	p, err := h.store.Products().FindByID(context.Background(), a)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestMarkOrderAsReceivedTwice(t *testing.T) {
	h := newHarness(t)
	a := h.seedProduct(t, "A", 1000, 10)

	res := h.do(t, auth.RoleAdmin, `mutation($in: [OrderInput!]!) { createOrders(input: $in) }`,
		map[string]interface{}{"in": []map[string]interface{}{{
			"items": []map[string]interface{}{{"productId": a, "quantity": 3, "price": "400"}},
		}}})
	require.Empty(t, res.Errors)

	orders, err := h.store.Orders().FindAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	id := orders[0].ID
	stockBefore := h.stock(t, a)

	const mark = `mutation($id: ID!) { markOrderAsReceived(orderId: $id) { status totalAmount } }`
	for i := 0; i < 2; i++ {
		res = h.do(t, auth.RoleAdmin, mark, map[string]interface{}{"id": id})
		require.Empty(t, res.Errors)
		assert.JSONEq(t, `{"status":"RECEIVED","totalAmount":"1200"}`, string(res.Data["markOrderAsReceived"]))
	}
	assert.Equal(t, stockBefore, h.stock(t, a))

	res = h.do(t, auth.RoleAdmin, `mutation($id: ID!) { updateOrders(input: [{id: $id, status: PENDING}]) { id } }`,
		map[string]interface{}{"id": id})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "BAD_USER_INPUT", res.Errors[0].Extensions["code"])
}

func TestCashierCannotWriteCatalog(t *testing.T) {
	h := newHarness(t)

	res := h.do(t, auth.RoleCashier, `mutation { createCategories(input: [{name: "X"}]) }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "FORBIDDEN", res.Errors[0].Extensions["code"])
}

func TestCartFlow(t *testing.T) {
	h := newHarness(t)
	a := h.seedProduct(t, "Kopi", 15000, 2)
	empty := h.seedProduct(t, "Teh", 5000, 0)

	const sel = `mutation($p: ID!) { cartSelect(terminalId: "t1", productId: $p) { notice cart { subtotal lines { name quantity } } } }`
	res := h.do(t, auth.RoleCashier, sel, map[string]interface{}{"p": a})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"notice":null,"cart":{"subtotal":"15000","lines":[{"name":"Kopi","quantity":1}]}}`, string(res.Data["cartSelect"]))

	res = h.do(t, auth.RoleCashier, sel, map[string]interface{}{"p": empty})
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"notice":"Teh is out of stock","cart":{"subtotal":"15000","lines":[{"name":"Kopi","quantity":1}]}}`, string(res.Data["cartSelect"]))

	res = h.do(t, auth.RoleCashier, `mutation { cartSetAmountPaid(terminalId: "t1", amount: "20000") { changeDue canCheckout } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"changeDue":"5000","canCheckout":true}`, string(res.Data["cartSetAmountPaid"]))

	res = h.do(t, auth.RoleCashier, `mutation { checkout(terminalId: "t1") { total totalFormatted sold { quantity } } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"total":"15000","totalFormatted":"IDR 15,000","sold":[{"quantity":1}]}`, string(res.Data["checkout"]))
	assert.Equal(t, 1, h.stock(t, a))

	res = h.do(t, auth.RoleCashier, `mutation { checkout(terminalId: "t1") { total } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "BAD_USER_INPUT", res.Errors[0].Extensions["code"])
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	a := h.seedProduct(t, "A", 1000, 10)

	res := h.do(t, auth.RoleCashier, `mutation($in: [StockLineInput!]!) { recordItemsSold(input: $in) }`,
		map[string]interface{}{"in": []map[string]interface{}{{"productId": a, "quantity": 4}}})
	require.Empty(t, res.Errors)

	res = h.do(t, auth.RoleCashier, `{ dashboard { unitsSold bestSellers { name units } lowStock { name stock } } }`, nil)
	require.Empty(t, res.Errors)
	assert.JSONEq(t, `{"unitsSold":4,"bestSellers":[{"name":"A","units":4}],"lowStock":[{"name":"A","stock":6}]}`, string(res.Data["dashboard"]))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", graph.Code(errors.Wrap(model.ErrOrderNotFound, "x")))
	assert.Equal(t, "OUT_OF_STOCK", graph.Code(&pos.OutOfStockError{}))
	assert.Equal(t, "INTERNAL", graph.Code(errors.New("boom")))
}
