package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// OrderRepository はrepository.OrderRepositoryのインメモリ実装。
type OrderRepository struct {
	mu    sync.RWMutex
	items map[string]model.Order
}

var _ repository.OrderRepository = (*OrderRepository)(nil)

// NewOrderRepository は空の注文リポジトリを生成する。
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{items: make(map[string]model.Order)}
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *OrderRepository) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

// ListByCustomerID は顧客の注文を新しい順に返す。
func (r *OrderRepository) ListByCustomerID(_ context.Context, customerID string) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]model.Order, 0)
	for _, o := range r.items {
		if o.Customer.ID == customerID {
			result = append(result, *cloneOrder(o))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CDate != result[j].CDate {
			return result[i].CDate > result[j].CDate
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Create は注文を保存する。明細は複製して保持する。
func (r *OrderRepository) Create(_ context.Context, order *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return ErrDuplicateID
	}
	r.items[order.ID] = *cloneOrder(*order)
	return nil
}

// UpdateStatus はステータスのみを書き換え、更新後の注文を返す。見つからない場合はnilを返す。
func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	r.items[id] = o
	return cloneOrder(o), nil
}

func cloneOrder(o model.Order) *model.Order {
	o.Items = model.CloneItems(o.Items)
	return &o
}
