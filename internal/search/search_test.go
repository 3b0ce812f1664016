package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeES struct {
	mu       sync.Mutex
	requests map[string][]byte
}

func newFakeES(t *testing.T) (*httptest.Server, *fakeES) {
	t.Helper()
	f := &fakeES{requests: map[string][]byte{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests[r.Method+" "+r.URL.Path] = body
		f.mu.Unlock()

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/":
			_, _ = w.Write([]byte(`{"version":{"number":"8.19.0"},"tagline":"You Know, for Search"}`))
		case r.URL.Path == "/products/_search":
			_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_id":"p-2"},{"_id":"p-1"}]}}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
		default:
			_, _ = w.Write([]byte(`{"acknowledged":true}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, f
}

func (f *fakeES) body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[key]
}

func TestProductIndex(t *testing.T) {
	srv, fake := newFakeES(t)
	ctx := context.Background()

	client, err := NewClient(&Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	idx, err := NewProductIndex(ctx, client)
	require.NoError(t, err)
	assert.JSONEq(t, productMapping, string(fake.body("PUT /products")))

	t.Run("index", func(t *testing.T) {
		desc := "arabica"
		p := &model.Product{BaseModel: model.BaseModel{ID: "p-1", UpdatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, Name: "Kopi", Description: &desc}
		require.NoError(t, idx.IndexProduct(ctx, p))

		var doc productDocument
		require.NoError(t, json.Unmarshal(fake.body("PUT /products/_doc/p-1"), &doc))
		assert.Equal(t, "Kopi", doc.Name)
		assert.Equal(t, "arabica", doc.Description)
		assert.Equal(t, "2024-03-01T00:00:00Z", doc.UpdatedAt)
	})

	t.Run("search keeps relevance order", func(t *testing.T) {
		ids, err := idx.SearchProducts(ctx, "kopi", "cat-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"p-2", "p-1"}, ids)
		assert.Contains(t, string(fake.body("POST /products/_search")), `"category_id":"cat-1"`)
	})

	t.Run("delete of a missing document", func(t *testing.T) {
		assert.NoError(t, idx.DeleteProduct(ctx, "gone"))
	})
}
