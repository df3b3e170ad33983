package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// ProductRepository はrepository.ProductRepositoryのインメモリ実装。
type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]model.Product
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository は空の商品リポジトリを生成する。
func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[string]model.Product)}
}

// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *ProductRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SearchByName は商品名の部分一致検索（大文字小文字を区別しない）を行う。
func (r *ProductRepository) SearchByName(_ context.Context, keyword string) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(keyword)
	result := make([]model.Product, 0)
	for _, p := range r.items {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			result = append(result, p)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CDate != result[j].CDate {
			return result[i].CDate < result[j].CDate
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Create は商品を保存する。
func (r *ProductRepository) Create(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return ErrDuplicateID
	}
	r.items[product.ID] = *product
	return nil
}

// DeleteByID は商品を削除し、削除前のレコードを返す。見つからない場合はnilを返す。
func (r *ProductRepository) DeleteByID(_ context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	delete(r.items, id)
	return &p, nil
}
