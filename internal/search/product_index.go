package search

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

const ProductIndexName = "products"

const productMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category_id": { "type": "keyword" },
			"updated_at": { "type": "date" }
		}
	}
}`

type productDocument struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	UpdatedAt   string  `json:"updated_at"`
}

// ProductIndex keeps searchable product text in elasticsearch. Stock and prices
// are never read back from the index.
type ProductIndex struct {
	client *Client
}

func NewProductIndex(ctx context.Context, client *Client) (*ProductIndex, error) {
	if err := client.CreateIndex(ctx, ProductIndexName, productMapping); err != nil {
		return nil, err
	}
	return &ProductIndex{client: client}, nil
}

func (i *ProductIndex) IndexProduct(ctx context.Context, p *model.Product) error {
	doc := productDocument{
		Name:       p.Name,
		CategoryID: p.CategoryID,
		UpdatedAt:  p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	return i.client.Index(ctx, ProductIndexName, p.ID, doc)
}

func (i *ProductIndex) DeleteProduct(ctx context.Context, id string) error {
	return i.client.Delete(ctx, ProductIndexName, id)
}

// SearchProducts returns matching product ids, best match first.
func (i *ProductIndex) SearchProducts(ctx context.Context, text, categoryID string) ([]string, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":     text,
				"fields":    []string{"name^3", "description"},
				"fuzziness": "AUTO",
			},
		},
	}
	filter := []map[string]interface{}{}
	if categoryID != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category_id": categoryID},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
		"_source": false,
		"size":    100,
	}

	res, err := i.client.Search(ctx, ProductIndexName, q)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
