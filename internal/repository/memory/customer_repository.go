package memory

import (
	"context"
	"sync"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// CustomerRepository はrepository.CustomerRepositoryのインメモリ実装。
type CustomerRepository struct {
	mu    sync.RWMutex
	items map[string]model.Customer
}

var _ repository.CustomerRepository = (*CustomerRepository)(nil)

// NewCustomerRepository は空の顧客リポジトリを生成する。
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{items: make(map[string]model.Customer)}
}

// Add は顧客を登録する。顧客の登録APIは持たないため、テストとローカル実行の初期データ投入に使う。
func (r *CustomerRepository) Add(customer model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[customer.ID]; exists {
		return ErrDuplicateID
	}
	if r.usernameTakenLocked(customer.Username, customer.ID) {
		return ErrDuplicateUsername
	}
	r.items[customer.ID] = customer
	return nil
}

// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
func (r *CustomerRepository) FindByID(_ context.Context, id string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// FindByUsername はユーザー名で顧客を検索する。見つからない場合はnilを返す。
func (r *CustomerRepository) FindByUsername(_ context.Context, username string) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.items {
		if c.Username == username {
			found := c
			return &found, nil
		}
	}
	return nil, nil
}

// UpdateProfile はプロフィールの5項目のみを書き換える。見つからない場合はnilを返す。
func (r *CustomerRepository) UpdateProfile(_ context.Context, id string, profile repository.ProfileUpdate) (*model.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	if r.usernameTakenLocked(profile.Username, id) {
		return nil, ErrDuplicateUsername
	}

	c.Username = profile.Username
	c.Password = profile.PasswordHash
	c.Name = profile.Name
	c.Phone = profile.Phone
	c.Email = profile.Email
	r.items[id] = c
	return &c, nil
}

// UpdateToken は発行済みトークンを記録する。対象が存在しない場合は何もしない。
func (r *CustomerRepository) UpdateToken(_ context.Context, id string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return nil
	}
	c.Token = token
	r.items[id] = c
	return nil
}

func (r *CustomerRepository) usernameTakenLocked(username, exceptID string) bool {
	for id, c := range r.items {
		if id != exceptID && c.Username == username {
			return true
		}
	}
	return false
}
