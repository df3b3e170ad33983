// Package order はチェックアウトと注文ステータス管理を提供する。
package order

import (
	"context"
	"log/slog"

	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// EventPublisher は注文イベントの発行インターフェース。
type EventPublisher interface {
	OrderCreated(ctx context.Context, order *model.Order) error
	OrderStatusUpdated(ctx context.Context, order *model.Order) error
}

// CheckoutInput はチェックアウトの入力。
// Totalは呼び出し側が計算した値をそのまま記録する。nilは欠落を表す。
type CheckoutInput struct {
	Total    *float64
	Items    []model.OrderItem
	Customer *model.CustomerSnapshot
}

// Service は注文のサービス層。
type Service struct {
	repo      repository.OrderRepository
	publisher EventPublisher
	metrics   metrics.MetricsCollector
}

// NewService はServiceを生成する。publisherがnilの場合はイベントを発行しない。
func NewService(repo repository.OrderRepository, publisher EventPublisher, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Service{repo: repo, publisher: publisher, metrics: mc}
}

// Checkout は新しい注文をPENDINGで作成する。
// TotalまたはItemsが欠けている場合、数量が正でない明細がある場合は
// 永続化を行わずにバリデーションエラーを返す。
func (s *Service) Checkout(ctx context.Context, in CheckoutInput) (*model.Order, error) {
	if in.Total == nil || len(in.Items) == 0 {
		return nil, model.NewValidationError(model.MsgMissingRequiredFields)
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, model.NewValidationError(model.MsgMissingRequiredFields)
		}
	}

	var customer model.CustomerSnapshot
	if in.Customer != nil {
		customer = *in.Customer
	}

	order := model.NewOrder(*in.Total, in.Items, customer)
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, model.NewServerError(err)
	}

	slog.Info("注文を作成しました",
		slog.String("order_id", order.ID),
		slog.String("customer_id", order.Customer.ID),
		slog.Int("items", len(order.Items)),
	)
	s.metrics.RecordOrderCreated(order.Total)

	if s.publisher != nil {
		if err := s.publisher.OrderCreated(ctx, order); err != nil {
			slog.Warn("注文作成イベントの発行に失敗しました",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return order, nil
}

// UpdateStatus は注文のステータスのみを置き換え、更新後の注文を返す。
// ステータスの遷移は検証せず、空でない任意の値を記録する。
func (s *Service) UpdateStatus(ctx context.Context, orderID string, status string) (*model.Order, error) {
	parsed, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if !model.IsWellFormedID(orderID) {
		return nil, model.NewMalformedIDError(orderID)
	}

	order, err := s.repo.UpdateStatus(ctx, orderID, parsed)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if order == nil {
		return nil, model.NewNotFoundError(model.MsgOrderNotFound)
	}

	slog.Info("注文ステータスを更新しました",
		slog.String("order_id", order.ID),
		slog.String("status", string(order.Status)),
	)
	s.metrics.RecordOrderStatusUpdated(string(order.Status))

	if s.publisher != nil {
		if err := s.publisher.OrderStatusUpdated(ctx, order); err != nil {
			slog.Warn("ステータス更新イベントの発行に失敗しました",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	return order, nil
}

// Get は指定IDの注文を返す。
func (s *Service) Get(ctx context.Context, orderID string) (*model.Order, error) {
	if !model.IsWellFormedID(orderID) {
		return nil, model.NewMalformedIDError(orderID)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if order == nil {
		return nil, model.NewNotFoundError(model.MsgOrderNotFound)
	}
	return order, nil
}

// ListByCustomer は顧客スナップショットのIDが一致する注文を新しい順に返す。
func (s *Service) ListByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	if !model.IsWellFormedID(customerID) {
		return nil, model.NewMalformedIDError(customerID)
	}

	orders, err := s.repo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}
