// internal/catalog/brands.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/javajoker/commodity-admin/internal/models"
)

func (c *Client) ListBrands(ctx context.Context) ([]models.Brand, error) {
	data, op, err := c.getList(ctx, "/getBrands")
	if err != nil {
		return nil, err
	}
	return decodeList[models.Brand](op, data)
}

// AddBrand creates a brand and returns it with its new id.
func (c *Client) AddBrand(ctx context.Context, label string) (*models.Brand, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/addBrand", nil,
		bytes.NewReader(mustJSON(map[string]string{"label": label})), "application/json")
	if err != nil {
		return nil, err
	}
	_, data, err := c.send(req)
	if err != nil {
		return nil, err
	}

	// Either {success, data:{...}} or the brand document itself.
	var env envelope[*models.Brand]
	if err := json.Unmarshal(data, &env); err == nil && env.Data != nil && env.Data.ID != "" {
		return env.Data, nil
	}
	var brand models.Brand
	if err := json.Unmarshal(data, &brand); err != nil || brand.ID == "" {
		return nil, fmt.Errorf("POST /addBrand: response carried no brand id")
	}
	return &brand, nil
}

func mustJSON(v interface{}) []byte {
	buf, _ := json.Marshal(v)
	return buf
}
