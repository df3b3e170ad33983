package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/storefront/internal/catalog"
	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/model"
)

// CatalogServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type CatalogServiceInterface interface {
	Search(ctx context.Context, keyword *string) ([]model.Product, error)
	Delete(ctx context.Context, productID string) (*model.Product, error)
	Create(ctx context.Context, in catalog.CreateProductInput) (*model.Product, error)
}

// ProductHandler は商品関連のHTTPハンドラー。
type ProductHandler struct {
	service CatalogServiceInterface
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{service: service}
}

// createProductRequest は商品登録のリクエストボディ。
type createProductRequest struct {
	Name     string         `json:"name"`
	Price    *float64       `json:"price"`
	Image    string         `json:"image"`
	Category model.Category `json:"category"`
}

// Search は商品名でカタログを検索する。トークン不要。
// GET /api/customer/products/search/{keyword}
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	raw, err := urlParam(r, "keyword")
	if err != nil {
		middleware.WriteErrorResponse(w, r, model.NewServerError(err))
		return
	}

	var keyword *string
	if v, ok := pathValue(raw); ok {
		keyword = &v
	}

	products, err := h.service.Search(r.Context(), keyword)
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, products)
}

// Delete は商品を削除し、削除したレコードを返す。
// DELETE /api/admin/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, deleted)
}

// Create は商品を登録する。
// POST /api/admin/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteText(w, http.StatusBadRequest, model.MsgMissingRequiredFields)
		return
	}

	created, err := h.service.Create(r.Context(), catalog.CreateProductInput{
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Category: req.Category,
	})
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, created)
}
