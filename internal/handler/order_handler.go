package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/order"
)

// OrderServiceInterface は注文ハンドラーが必要とするサービスインターフェース。
type OrderServiceInterface interface {
	Checkout(ctx context.Context, in order.CheckoutInput) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status string) (*model.Order, error)
	Get(ctx context.Context, orderID string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error)
}

// OrderHandler は注文関連のHTTPハンドラー。
type OrderHandler struct {
	service OrderServiceInterface
}

// NewOrderHandler はOrderHandlerを生成する。
func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

// checkoutRequest はチェックアウトのリクエストボディ。
type checkoutRequest struct {
	Total    *float64                `json:"total"`
	Items    []model.OrderItem       `json:"items"`
	Customer *model.CustomerSnapshot `json:"customer"`
}

// statusRequest はステータス更新のリクエストボディ。
type statusRequest struct {
	Status string `json:"status"`
}

// Checkout は注文を作成する。
// POST /api/customer/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteText(w, http.StatusBadRequest, model.MsgMissingRequiredFields)
		return
	}

	created, err := h.service.Checkout(r.Context(), order.CheckoutInput{
		Total:    req.Total,
		Items:    req.Items,
		Customer: req.Customer,
	})
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, created)
}

// UpdateStatus は注文ステータスを更新する。
// PUT /api/admin/orders/status/{id}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteText(w, http.StatusBadRequest, model.MsgStatusRequired)
		return
	}

	updated, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}

// GetOrder は注文を1件返す。
// GET /api/admin/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, found)
}

// ListCustomerOrders は顧客の注文一覧を新しい順に返す。
// GET /api/customer/orders/customer/{cid}
func (h *OrderHandler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListByCustomer(r.Context(), chi.URLParam(r, "cid"))
	if err != nil {
		middleware.WriteErrorResponse(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, orders)
}
