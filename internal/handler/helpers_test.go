package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/storefront/internal/auth"
	"github.com/hitoshi/storefront/internal/catalog"
	"github.com/hitoshi/storefront/internal/customer"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/order"
)

// --- モック定義 ---

type mockOrderService struct {
	checkoutFn       func(ctx context.Context, in order.CheckoutInput) (*model.Order, error)
	updateStatusFn   func(ctx context.Context, orderID, status string) (*model.Order, error)
	getFn            func(ctx context.Context, orderID string) (*model.Order, error)
	listByCustomerFn func(ctx context.Context, customerID string) ([]model.Order, error)
}

func (m *mockOrderService) Checkout(ctx context.Context, in order.CheckoutInput) (*model.Order, error) {
	if m.checkoutFn != nil {
		return m.checkoutFn(ctx, in)
	}
	return nil, errors.New("not configured")
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, orderID, status)
	}
	return nil, errors.New("not configured")
}

func (m *mockOrderService) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if m.getFn != nil {
		return m.getFn(ctx, orderID)
	}
	return nil, errors.New("not configured")
}

func (m *mockOrderService) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if m.listByCustomerFn != nil {
		return m.listByCustomerFn(ctx, customerID)
	}
	return nil, errors.New("not configured")
}

type mockCatalogService struct {
	searchFn func(ctx context.Context, keyword *string) ([]model.Product, error)
	deleteFn func(ctx context.Context, productID string) (*model.Product, error)
	createFn func(ctx context.Context, in catalog.CreateProductInput) (*model.Product, error)
}

func (m *mockCatalogService) Search(ctx context.Context, keyword *string) ([]model.Product, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, keyword)
	}
	return nil, errors.New("not configured")
}

func (m *mockCatalogService) Delete(ctx context.Context, productID string) (*model.Product, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, productID)
	}
	return nil, errors.New("not configured")
}

func (m *mockCatalogService) Create(ctx context.Context, in catalog.CreateProductInput) (*model.Product, error) {
	if m.createFn != nil {
		return m.createFn(ctx, in)
	}
	return nil, errors.New("not configured")
}

type mockCustomerService struct {
	updateProfileFn func(ctx context.Context, customerID string, in customer.ProfileInput) (*model.Customer, error)
}

func (m *mockCustomerService) UpdateProfile(ctx context.Context, customerID string, in customer.ProfileInput) (*model.Customer, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, customerID, in)
	}
	return nil, errors.New("not configured")
}

type mockAuthService struct {
	loginFn func(ctx context.Context, username, password string) (*auth.LoginResult, error)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*auth.LoginResult, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, username, password)
	}
	return nil, errors.New("not configured")
}

// stubVerifier は "valid-token" のみを受け付ける。
type stubVerifier struct{}

func (stubVerifier) Verify(tokenString string) (string, error) {
	if tokenString == testToken {
		return "user-1", nil
	}
	return "", model.NewAuthenticationError(model.MsgTokenInvalid, nil)
}

const testToken = "valid-token"

// newTestRouter はモックを差し込んだルーターを返す。未指定のサービスは空のモックになる。
func newTestRouter(deps RouterDeps) http.Handler {
	if deps.TokenVerifier == nil {
		deps.TokenVerifier = stubVerifier{}
	}
	if deps.AuthService == nil {
		deps.AuthService = &mockAuthService{}
	}
	if deps.CatalogService == nil {
		deps.CatalogService = &mockCatalogService{}
	}
	if deps.CustomerService == nil {
		deps.CustomerService = &mockCustomerService{}
	}
	if deps.OrderService == nil {
		deps.OrderService = &mockOrderService{}
	}
	if deps.CORSAllowedOrigin == "" {
		deps.CORSAllowedOrigin = "http://localhost:3000"
	}
	return NewRouter(&deps)
}

// doRequest はリクエストを実行し、レスポンスとボディ文字列を返す。
// withToken=trueの場合はx-access-tokenヘッダーを付与する。
func doRequest(t *testing.T, h http.Handler, method, path, body string, withToken bool) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		req.Header.Set("x-access-token", testToken)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

// doRequestWithHeader は任意のヘッダーを1つ付与してリクエストを実行する。
func doRequestWithHeader(t *testing.T, h http.Handler, method, path, header, value string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(header, value)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}
