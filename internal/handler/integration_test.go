package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/storefront/internal/auth"
	"github.com/hitoshi/storefront/internal/catalog"
	"github.com/hitoshi/storefront/internal/customer"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/order"
	"github.com/hitoshi/storefront/internal/repository/memory"
	"github.com/hitoshi/storefront/internal/token"
)

const seededCustomerID = "8d1f6a2e-52a4-4c57-9d0c-9a3c8e1f0b11"

// storefrontServer はインメモリリポジトリと実サービスで構成したテストサーバー。
type storefrontServer struct {
	srv      *httptest.Server
	products *memory.ProductRepository
}

func newStorefrontServer(t *testing.T) *storefrontServer {
	t.Helper()

	tokens, err := token.NewService(token.Config{Secret: []byte("integration-secret"), TTL: time.Hour})
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}

	customers := memory.NewCustomerRepository()
	hash, err := customer.HashPassword("secret", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if err := customers.Add(model.Customer{
		ID: seededCustomerID, Username: "alice", Password: hash,
		Name: "Alice", Phone: "000", Email: "alice@example.com", Active: 1,
	}); err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}

	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()

	router := NewRouter(&RouterDeps{
		TokenVerifier:     tokens,
		CORSAllowedOrigin: "http://localhost:3000",
		AuthService:       auth.NewService(tokens, customers),
		CatalogService:    catalog.NewService(products, nil),
		CustomerService:   customer.NewService(customers, bcrypt.MinCost),
		OrderService:      order.NewService(orders, nil, nil),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &storefrontServer{srv: srv, products: products}
}

func (s *storefrontServer) call(t *testing.T, method, path, body, accessToken string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("x-access-token", accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func (s *storefrontServer) login(t *testing.T) string {
	t.Helper()

	status, body := s.call(t, http.MethodPost, "/api/customer/login", `{"username":"alice","password":"secret"}`, "")
	if status != http.StatusOK {
		t.Fatalf("login status = %d body = %s", status, body)
	}
	var res loginBody
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatalf("failed to decode login: %v", err)
	}
	if res.Token == "" {
		t.Fatal("login returned empty token")
	}
	return res.Token
}

func TestIntegration_CheckoutFlow(t *testing.T) {
	s := newStorefrontServer(t)

	status, _ := s.call(t, http.MethodPost, "/api/customer/checkout", `{"total":10,"items":[{"product":{"name":"Tea","price":5},"quantity":2}]}`, "")
	if status != http.StatusUnauthorized {
		t.Fatalf("checkout without token = %d, want 401", status)
	}

	accessToken := s.login(t)

	status, body := s.call(t, http.MethodPost, "/api/customer/checkout",
		`{"total":10,"items":[{"product":{"name":"Tea","price":5},"quantity":2}],"customer":{"_id":"`+seededCustomerID+`","username":"alice"}}`,
		accessToken)
	if status != http.StatusOK {
		t.Fatalf("checkout status = %d body = %s", status, body)
	}
	var created model.Order
	if err := json.Unmarshal([]byte(body), &created); err != nil {
		t.Fatalf("failed to decode order: %v", err)
	}
	if created.Status != model.StatusPending || created.Total != 10 || len(created.Items) != 1 {
		t.Errorf("created = %+v", created)
	}

	status, body = s.call(t, http.MethodPut, "/api/admin/orders/status/"+created.ID, `{"status":"SHIPPED"}`, accessToken)
	if status != http.StatusOK {
		t.Fatalf("status update = %d body = %s", status, body)
	}

	status, body = s.call(t, http.MethodGet, "/api/admin/orders/"+created.ID, "", accessToken)
	if status != http.StatusOK {
		t.Fatalf("get order = %d body = %s", status, body)
	}
	var fetched model.Order
	if err := json.Unmarshal([]byte(body), &fetched); err != nil {
		t.Fatalf("failed to decode order: %v", err)
	}
	if fetched.Status != "SHIPPED" || fetched.CDate != created.CDate || fetched.Total != created.Total {
		t.Errorf("fetched = %+v, want status SHIPPED with other fields unchanged", fetched)
	}

	status, body = s.call(t, http.MethodGet, "/api/customer/orders/customer/"+seededCustomerID, "", accessToken)
	if status != http.StatusOK {
		t.Fatalf("list orders = %d body = %s", status, body)
	}
	var listed []model.Order
	if err := json.Unmarshal([]byte(body), &listed); err != nil {
		t.Fatalf("failed to decode orders: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Errorf("listed = %+v", listed)
	}

	status, body = s.call(t, http.MethodGet, "/api/admin/orders/"+model.NewID(), "", accessToken)
	if status != http.StatusNotFound || body != "Order not found" {
		t.Errorf("unknown order: status = %d body = %q", status, body)
	}

	status, body = s.call(t, http.MethodGet, "/api/admin/orders/not-an-id", "", accessToken)
	if status != http.StatusInternalServerError || body != "Server error" {
		t.Errorf("malformed order id: status = %d body = %q", status, body)
	}
}

func TestIntegration_CatalogFlow(t *testing.T) {
	s := newStorefrontServer(t)
	accessToken := s.login(t)

	status, body := s.call(t, http.MethodPost, "/api/admin/products", `{"name":"Green Tea","price":3.5,"category":{"name":"Drinks"}}`, accessToken)
	if status != http.StatusCreated {
		t.Fatalf("create product = %d body = %s", status, body)
	}
	var product model.Product
	if err := json.Unmarshal([]byte(body), &product); err != nil {
		t.Fatalf("failed to decode product: %v", err)
	}

	status, body = s.call(t, http.MethodGet, "/api/customer/products/search/TEA", "", "")
	if status != http.StatusOK {
		t.Fatalf("search = %d body = %s", status, body)
	}
	var found []model.Product
	if err := json.Unmarshal([]byte(body), &found); err != nil {
		t.Fatalf("failed to decode products: %v", err)
	}
	if len(found) != 1 || found[0].ID != product.ID {
		t.Errorf("found = %+v", found)
	}

	status, _ = s.call(t, http.MethodDelete, "/api/admin/products/"+product.ID, "", accessToken)
	if status != http.StatusOK {
		t.Fatalf("delete = %d", status)
	}

	status, body = s.call(t, http.MethodDelete, "/api/admin/products/"+product.ID, "", accessToken)
	if status != http.StatusNotFound || body != "Product not found" {
		t.Errorf("second delete: status = %d body = %q", status, body)
	}

	found, err := s.products.SearchByName(context.Background(), "tea")
	if err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
	if len(found) != 0 {
		t.Errorf("product still stored after delete: %+v", found)
	}
}

func TestIntegration_SearchEscapedKeywords(t *testing.T) {
	s := newStorefrontServer(t)
	accessToken := s.login(t)

	for _, name := range []string{"Men's Shoes", "Test Product", "Test Product Deluxe", "Café Latte"} {
		status, body := s.call(t, http.MethodPost, "/api/admin/products", `{"name":"`+name+`","price":1}`, accessToken)
		if status != http.StatusCreated {
			t.Fatalf("create %q = %d body = %s", name, status, body)
		}
	}

	tests := []struct {
		keyword string
		want    int
	}{
		{keyword: "test%20product", want: 2},
		{keyword: "Men's%20Shoes", want: 1},
		{keyword: "men%27s", want: 1},
		{keyword: "caf%c3%a9", want: 1},
		{keyword: "Caf%C3%A9", want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			status, body := s.call(t, http.MethodGet, "/api/customer/products/search/"+tt.keyword, "", "")
			if status != http.StatusOK {
				t.Fatalf("search = %d body = %s", status, body)
			}
			var found []model.Product
			if err := json.Unmarshal([]byte(body), &found); err != nil {
				t.Fatalf("failed to decode products: %v", err)
			}
			if len(found) != tt.want {
				t.Errorf("found %d products, want %d: %+v", len(found), tt.want, found)
			}
		})
	}
}

func TestIntegration_ProfileUpdateAndRelogin(t *testing.T) {
	s := newStorefrontServer(t)
	accessToken := s.login(t)

	status, body := s.call(t, http.MethodPut, "/api/customer/customers/"+seededCustomerID, `{"username":"alice"}`, accessToken)
	if status != http.StatusBadRequest || body != "\"All fields are required\"\n" {
		t.Errorf("partial update: status = %d body = %q", status, body)
	}

	status, body = s.call(t, http.MethodPut, "/api/customer/customers/"+seededCustomerID,
		`{"username":"alice","password":"changed","name":"Alice B","phone":"111","email":"b@example.com"}`, accessToken)
	if status != http.StatusOK {
		t.Fatalf("update = %d body = %s", status, body)
	}
	if strings.Contains(body, "changed") || strings.Contains(body, "password") {
		t.Errorf("response leaks password: %s", body)
	}

	status, _ = s.call(t, http.MethodPost, "/api/customer/login", `{"username":"alice","password":"secret"}`, "")
	if status != http.StatusUnauthorized {
		t.Errorf("login with old password = %d, want 401", status)
	}
	status, _ = s.call(t, http.MethodPost, "/api/customer/login", `{"username":"alice","password":"changed"}`, "")
	if status != http.StatusOK {
		t.Errorf("login with new password = %d, want 200", status)
	}

	status, body = s.call(t, http.MethodPut, "/api/customer/customers/"+model.NewID(),
		`{"username":"bob","password":"x","name":"Bob","phone":"1","email":"bob@example.com"}`, accessToken)
	if status != http.StatusNotFound || body != "" {
		t.Errorf("unknown customer: status = %d body = %q", status, body)
	}
}
