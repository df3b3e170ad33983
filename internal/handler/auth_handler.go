package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/storefront/internal/auth"
	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/model"
)

// AuthServiceInterface はログインハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*auth.LoginResult, error)
}

// AuthHandler はログインのHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse はログイン結果。成功・失敗とも同じ形式で返す。
type loginResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Token    string          `json:"token,omitempty"`
	Customer *model.Customer `json:"customer,omitempty"`
}

// Login はユーザー名とパスワードを検証し、トークンを返す。
// POST /api/customer/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		middleware.WriteJSON(w, http.StatusBadRequest, loginResponse{Message: model.MsgMissingRequiredFields})
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		kind := model.KindOf(err)
		if kind == model.KindServer {
			middleware.WriteInternalServerError(w, r, err)
			return
		}
		msg := model.MsgIncorrectCredentials
		if kind == model.KindValidation {
			msg = model.MsgMissingRequiredFields
		}
		middleware.WriteJSON(w, middleware.StatusForKind(kind), loginResponse{Message: msg})
		return
	}

	middleware.WriteJSON(w, http.StatusOK, loginResponse{
		Success:  true,
		Message:  "Authentication successful",
		Token:    result.Token,
		Customer: result.Customer,
	})
}
