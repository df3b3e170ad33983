package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/storefront/internal/customer"
	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/model"
)

// CustomerServiceInterface は顧客ハンドラーが必要とするサービスインターフェース。
type CustomerServiceInterface interface {
	UpdateProfile(ctx context.Context, customerID string, in customer.ProfileInput) (*model.Customer, error)
}

// CustomerHandler は顧客プロフィールのHTTPハンドラー。
type CustomerHandler struct {
	service CustomerServiceInterface
}

// NewCustomerHandler はCustomerHandlerを生成する。
func NewCustomerHandler(service CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{service: service}
}

// profileRequest はプロフィール更新のリクエストボディ。
// _idが含まれていても読み取らない。
type profileRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

// UpdateProfile は顧客プロフィールを更新する。
// PUT /api/customer/customers/{id}
//
// 既存クライアントとの互換のため、他のルートとはエラー形式が異なる。
// 400はメッセージをJSON文字列で返し、404はボディを返さない。
func (h *CustomerHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, model.MsgAllFieldsRequired)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), chi.URLParam(r, "id"), customer.ProfileInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		switch model.KindOf(err) {
		case model.KindValidation:
			middleware.WriteJSON(w, http.StatusBadRequest, model.MsgAllFieldsRequired)
		case model.KindNotFound:
			w.WriteHeader(http.StatusNotFound)
		default:
			middleware.WriteErrorResponse(w, r, err)
		}
		return
	}

	middleware.WriteJSON(w, http.StatusOK, updated)
}
