// internal/catalog/products.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/javajoker/commodity-admin/internal/models"
)

// CSVFormField is the multipart field the ingestion endpoint reads.
const CSVFormField = "csvFile"

type ListQuery struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	SortBy string `json:"sortby"`
}

type SaveResult struct {
	Success    bool            `json:"success"`
	NewProduct *models.Product `json:"newProduct,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// CreatedSlug is the slug of a newly created product, if the service sent one.
func (r *SaveResult) CreatedSlug() string {
	if r == nil || r.NewProduct == nil {
		return ""
	}
	return r.NewProduct.Slug
}

// ListCommodities fetches one page. query.Page is one-based.
func (c *Client) ListCommodities(ctx context.Context, query ListQuery) (*models.CommodityPage, error) {
	var page models.CommodityPage
	if err := c.doJSON(ctx, http.MethodPost, "/getCommodities", nil, query, &page); err != nil {
		return nil, err
	}

	if page.Commodities == nil {
		page.Commodities = []models.Product{}
		page.Pagination = models.CommodityPagination{TotalCommodities: 0, TotalPages: 1, CurrentPage: 1}
	}
	return &page, nil
}

func (c *Client) GetCommodity(ctx context.Context, slug string) (*models.Product, error) {
	var products []models.Product
	query := url.Values{"slug": []string{slug}}
	if err := c.doJSON(ctx, http.MethodGet, "/getCommodity", query, nil, &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("commodity %q: %w", slug, ErrNotFound)
	}
	return &products[0], nil
}

func (c *Client) AddCommodity(ctx context.Context, payload models.CommodityPayload) (*SaveResult, error) {
	payload.ID = ""
	return c.save(ctx, "/addCommodity", payload)
}

func (c *Client) UpdateCommodity(ctx context.Context, payload models.CommodityPayload) (*SaveResult, error) {
	if payload.ID == "" {
		return nil, fmt.Errorf("update commodity: missing id")
	}
	return c.save(ctx, "/updateCommodity", payload)
}

// save posts a commodity payload. A 2xx answer without an explicit
// "success": false counts as success.
func (c *Client) save(ctx context.Context, path string, payload models.CommodityPayload) (*SaveResult, error) {
	var raw struct {
		Success    *bool           `json:"success"`
		NewProduct *models.Product `json:"newProduct"`
		Message    string          `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, path, nil, payload, &raw); err != nil {
		return nil, err
	}
	return &SaveResult{
		Success:    raw.NewProduct != nil || raw.Success == nil || *raw.Success,
		NewProduct: raw.NewProduct,
		Message:    raw.Message,
	}, nil
}

func (c *Client) DeleteCommodities(ctx context.Context, ids []string) error {
	var result struct {
		Success bool `json:"success"`
	}
	body := map[string][]string{"productIds": ids}
	if err := c.doJSON(ctx, http.MethodDelete, "/deleteCommodities", nil, body, &result); err != nil {
		return err
	}
	if !result.Success {
		return &APIError{Status: http.StatusOK, Message: GenericErrorMessage, Operation: "DELETE /deleteCommodities"}
	}
	return nil
}

func (c *Client) DeleteAllCommodities(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/deleteAllCommodities", nil, nil, nil)
}

// UploadCSV streams a CSV file as multipart form data and returns the number
// of rows the service inserted.
func (c *Client) UploadCSV(ctx context.Context, filename string, r io.Reader) (int, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(CSVFormField, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return 0, fmt.Errorf("failed to copy csv: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload-csv", nil, &buf, mw.FormDataContentType())
	if err != nil {
		return 0, err
	}
	_, data, err := c.send(req)
	if err != nil {
		return 0, err
	}

	var result struct {
		Inserted json.Number `json:"inserted"`
		Error    string      `json:"error"`
	}
	if err := decodeInto("POST /upload-csv", data, &result); err != nil {
		return 0, err
	}
	if result.Error != "" {
		return 0, &APIError{Status: http.StatusOK, Message: result.Error, FromBody: true, Operation: "POST /upload-csv"}
	}
	inserted, _ := result.Inserted.Int64()
	return int(inserted), nil
}
