// Package handler はHTTPルーティングとハンドラーを提供する。
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/middleware"
	"github.com/hitoshi/storefront/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           metrics.MetricsCollector
	MetricsHandler    http.Handler
	Pinger            repository.Pinger

	// サービス
	AuthService     AuthServiceInterface
	CatalogService  CatalogServiceInterface
	CustomerService CustomerServiceInterface
	OrderService    OrderServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Metrics → Logging → SecurityHeaders → CORS → [TokenMiddleware → RateLimit(General)]
//
// 商品検索、ログイン、/health、/metricsはトークン不要。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mc := deps.Metrics
	if mc == nil {
		mc = metrics.Nop{}
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewMetricsMiddleware(mc))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	productHandler := NewProductHandler(deps.CatalogService)
	customerHandler := NewCustomerHandler(deps.CustomerService)
	orderHandler := NewOrderHandler(deps.OrderService)

	// --- トークン不要のルート ---
	r.Get("/health", NewHealthHandler(deps.Pinger))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	r.Get("/api/customer/products/search/{keyword}", productHandler.Search)
	r.Post("/api/customer/login", authHandler.Login)

	// --- トークンが必要なルート ---
	// ミドルウェアスタック: Token → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenMiddleware(deps.TokenVerifier))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		checkout := r.With()
		if deps.RateLimiter != nil {
			checkout = r.With(deps.RateLimiter.CheckoutMiddleware())
		}
		checkout.Post("/api/customer/checkout", orderHandler.Checkout)

		r.Put("/api/customer/customers/{id}", customerHandler.UpdateProfile)
		r.Get("/api/customer/orders/customer/{cid}", orderHandler.ListCustomerOrders)

		// 管理者向けルート。トークンはロールを持たないため、顧客向けと同じ検証のみ。
		r.Post("/api/admin/products", productHandler.Create)
		r.Delete("/api/admin/products/{id}", productHandler.Delete)
		r.Put("/api/admin/orders/status/{id}", orderHandler.UpdateStatus)
		r.Get("/api/admin/orders/{id}", orderHandler.GetOrder)
	})

	return r
}
