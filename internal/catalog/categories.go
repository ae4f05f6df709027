// internal/catalog/categories.go
package catalog

import (
	"context"
	"net/http"
	"net/url"

	"github.com/javajoker/commodity-admin/internal/models"
)

func (c *Client) ListCategory1(ctx context.Context) ([]models.Category1, error) {
	data, op, err := c.getList(ctx, models.CategoryLevel1.Path())
	if err != nil {
		return nil, err
	}
	return decodeList[models.Category1](op, data)
}

func (c *Client) ListCategory2(ctx context.Context) ([]models.Category2, error) {
	data, op, err := c.getList(ctx, models.CategoryLevel2.Path())
	if err != nil {
		return nil, err
	}
	return decodeList[models.Category2](op, data)
}

func (c *Client) ListCategory3(ctx context.Context) ([]models.Category3, error) {
	data, op, err := c.getList(ctx, models.CategoryLevel3.Path())
	if err != nil {
		return nil, err
	}
	return decodeList[models.Category3](op, data)
}

func (c *Client) CreateCategory(ctx context.Context, level models.CategoryLevel, input models.CategoryInput) error {
	body := map[string]string{"label": input.Label}
	if level >= models.CategoryLevel2 {
		body["cat1"] = input.Cat1
	}
	if level == models.CategoryLevel3 {
		body["cat2"] = input.Cat2
	}
	return c.doJSON(ctx, http.MethodPost, level.Path(), nil, body, nil)
}

// PatchCategory sends a partial update, e.g. {isEnabled:false} or {cat1:"..."}.
func (c *Client) PatchCategory(ctx context.Context, level models.CategoryLevel, id string, patch models.CategoryPatch) error {
	return c.doJSON(ctx, http.MethodPut, level.Path(), url.Values{"id": []string{id}}, patch, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, level models.CategoryLevel, id string) error {
	return c.doJSON(ctx, http.MethodDelete, level.Path(), url.Values{"id": []string{id}}, nil, nil)
}
