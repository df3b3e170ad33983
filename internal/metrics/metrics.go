// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とHTTPミドルウェアから利用する。
type MetricsCollector interface {
	RecordOrderCreated(total float64)
	RecordOrderStatusUpdated(status string)
	RecordProductDeleted()
	RecordProductSearch(results int)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	ordersCreated   prometheus.Counter
	orderRevenue    prometheus.Counter
	statusUpdates   *prometheus.CounterVec
	productsDeleted prometheus.Counter
	searches        prometheus.Counter
	searchResults   prometheus.Histogram
	httpStatus      *prometheus.CounterVec
	requestLatency  prometheus.Histogram
}

var _ MetricsCollector = (*Collector)(nil)

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_created_total",
			Help: "チェックアウトで作成された注文の合計数",
		}),
		orderRevenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_order_total_amount",
			Help: "作成された注文の合計金額",
		}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_status_updates_total",
			Help: "ステータス別の注文ステータス更新数",
		}, []string{"status"}),
		productsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_products_deleted_total",
			Help: "削除された商品の合計数",
		}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_product_searches_total",
			Help: "商品検索の実行回数",
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_product_search_results",
			Help:    "商品検索1回あたりのヒット件数",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.ordersCreated,
		c.orderRevenue,
		c.statusUpdates,
		c.productsDeleted,
		c.searches,
		c.searchResults,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordOrderCreated は注文作成を記録する。
func (c *Collector) RecordOrderCreated(total float64) {
	c.ordersCreated.Inc()
	if total > 0 {
		c.orderRevenue.Add(total)
	}
}

// RecordOrderStatusUpdated はステータス更新を記録する。
// ステータスは任意文字列のため、ラベルのカーディナリティは運用で抑える前提。
func (c *Collector) RecordOrderStatusUpdated(status string) {
	c.statusUpdates.WithLabelValues(status).Inc()
}

// RecordProductDeleted は商品削除を記録する。
func (c *Collector) RecordProductDeleted() {
	c.productsDeleted.Inc()
}

// RecordProductSearch は商品検索とヒット件数を記録する。
func (c *Collector) RecordProductSearch(results int) {
	c.searches.Inc()
	c.searchResults.Observe(float64(results))
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理時間を記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Nop は何も記録しないMetricsCollector。メトリクス未設定時とテストで使う。
type Nop struct{}

func (Nop) RecordOrderCreated(float64) {}
func (Nop) RecordOrderStatusUpdated(string) {}
func (Nop) RecordProductDeleted() {}
func (Nop) RecordProductSearch(int) {}
func (Nop) RecordHTTPStatus(int) {}
func (Nop) RecordRequestLatency(time.Duration) {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
