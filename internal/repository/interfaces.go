// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/storefront/internal/model"
)

// 更新系の各メソッドは1回のSQL文（INSERT / UPDATE ... RETURNING / DELETE ... RETURNING）で完結する。
// 同一レコードへの同時更新は後勝ちとなり、バージョン検査は行わない。

// ProductRepository は商品データの永続化インターフェース。
type ProductRepository interface {
	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// SearchByName は商品名に対する大文字小文字を区別しない部分一致検索を行う。
	// 一致なしの場合は空スライスを返す。結果はcdate昇順。
	SearchByName(ctx context.Context, keyword string) ([]model.Product, error)

	// Create は商品を作成する。
	Create(ctx context.Context, product *model.Product) error

	// DeleteByID は指定IDの商品を物理削除し、削除前のレコードを返す。
	// 見つからない場合はnilを返す。
	DeleteByID(ctx context.Context, id string) (*model.Product, error)
}

// CustomerRepository は顧客データの永続化インターフェース。
type CustomerRepository interface {
	// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Customer, error)

	// FindByUsername はユーザー名で顧客を検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Customer, error)

	// UpdateProfile はusername、password、name、phone、emailのみを更新し、更新後の顧客を返す。
	// IDは更新対象に含まない。見つからない場合はnilを返す。
	UpdateProfile(ctx context.Context, id string, profile ProfileUpdate) (*model.Customer, error)

	// UpdateToken は発行済みトークンを記録する。
	UpdateToken(ctx context.Context, id string, token string) error
}

// ProfileUpdate はプロフィール更新で書き換える列の値。
// PasswordHashはハッシュ化済みの値を渡すこと。
type ProfileUpdate struct {
	Username     string
	PasswordHash string
	Name         string
	Phone        string
	Email        string
}

// OrderRepository は注文データの永続化インターフェース。
type OrderRepository interface {
	// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// ListByCustomerID は顧客スナップショットのIDが一致する注文をcdate降順で返す。
	ListByCustomerID(ctx context.Context, customerID string) ([]model.Order, error)

	// Create は注文を作成する。
	Create(ctx context.Context, order *model.Order) error

	// UpdateStatus はステータスのみを更新し、更新後の注文を返す。
	// 見つからない場合はnilを返す。
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
}

// Pinger はヘルスチェック用のインターフェース。*sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}
