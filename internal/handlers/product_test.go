package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tvanngo/clothes-shop/internal/events"
	"github.com/tvanngo/clothes-shop/internal/models"
)

func newProductHandler(t *testing.T) *ProductHandler {
	return &ProductHandler{DB: newTestDB(t), Producer: &events.Producer{}}
}

func seedProducts(t *testing.T, h *ProductHandler, n int, category string) {
	t.Helper()

	for i := 0; i < n; i++ {
		p := models.Product{
			Name:        fmt.Sprintf("%s item %d", category, i),
			Description: "seeded",
			Price:       float64(100 + i),
			Category:    category,
		}
		require.NoError(t, h.DB.Create(&p).Error)
	}
}

type productListResponse struct {
	Data []models.Product `json:"data"`
	Meta struct {
		Page       int   `json:"page"`
		Size       int   `json:"size"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
		HasPrev    bool  `json:"has_prev"`
		HasNext    bool  `json:"has_next"`
	} `json:"meta"`
}

func TestListProductsPagination(t *testing.T) {
	h := newProductHandler(t)
	seedProducts(t, h, 12, "shirts")

	rec, c := jsonRequest(t, http.MethodGet, "/products?page=2&size=5", nil)
	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp productListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	require.Equal(t, 2, resp.Meta.Page)
	require.Equal(t, int64(12), resp.Meta.Total)
	require.Equal(t, int64(3), resp.Meta.TotalPages)
	require.True(t, resp.Meta.HasPrev)
	require.True(t, resp.Meta.HasNext)
}

func TestListProductsCategoryFilter(t *testing.T) {
	h := newProductHandler(t)
	seedProducts(t, h, 3, "shirts")
	seedProducts(t, h, 2, "shoes")

	rec, c := jsonRequest(t, http.MethodGet, "/products?category=shoes", nil)
	require.NoError(t, h.List(c))

	var resp productListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, int64(2), resp.Meta.Total)
	for _, p := range resp.Data {
		require.Equal(t, "shoes", p.Category)
	}
}

func TestGetProductNotFound(t *testing.T) {
	h := newProductHandler(t)

	_, c := jsonRequest(t, http.MethodGet, "/products/9999", nil)
	c.SetParamNames("id")
	c.SetParamValues("9999")

	err := h.Get(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestCreateProductRoundTrip(t *testing.T) {
	h := newProductHandler(t)

	rec, c := jsonRequest(t, http.MethodPost, "/products", map[string]any{
		"name":        "Linen Shirt",
		"description": "Summer weight",
		"price":       450000,
		"category":    "shirts",
		"colors":      []string{"white", "navy"},
		"sizes":       []string{"M", "L"},
	})
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	require.Equal(t, []string{"white", "navy"}, created.Colors)

	var stored models.Product
	require.NoError(t, h.DB.First(&stored, created.ID).Error)
	require.Equal(t, "Linen Shirt", stored.Name)
	require.Equal(t, []string{"M", "L"}, stored.Sizes)
}

func TestUpdateProductNotFound(t *testing.T) {
	h := newProductHandler(t)

	_, c := jsonRequest(t, http.MethodPut, "/products/9999", map[string]any{"name": "x", "price": 1})
	c.SetParamNames("id")
	c.SetParamValues("9999")

	err := h.Update(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestDeleteProduct(t *testing.T) {
	h := newProductHandler(t)
	seedProducts(t, h, 1, "shirts")

	rec, c := jsonRequest(t, http.MethodDelete, "/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	require.NoError(t, h.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}
