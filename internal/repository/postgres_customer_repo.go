package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/storefront/internal/model"
)

const customerColumns = `id, username, password, name, phone, email, active, token`

// PostgresCustomerRepo はPostgreSQLを使用した顧客リポジトリ。
type PostgresCustomerRepo struct {
	db *sql.DB
}

// NewPostgresCustomerRepo はPostgresCustomerRepoを生成する。
func NewPostgresCustomerRepo(db *sql.DB) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{db: db}
}

// FindByID は指定IDの顧客を取得する。見つからない場合はnilを返す。
func (r *PostgresCustomerRepo) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// FindByUsername はユーザー名で顧客を検索する。見つからない場合はnilを返す。
func (r *PostgresCustomerRepo) FindByUsername(ctx context.Context, username string) (*model.Customer, error) {
	return r.findOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE username = $1`, username)
}

// UpdateProfile はプロフィール5項目のみを更新する。id列はSET句に含めない。
func (r *PostgresCustomerRepo) UpdateProfile(ctx context.Context, id string, profile ProfileUpdate) (*model.Customer, error) {
	customer, err := r.findOne(ctx,
		`UPDATE customers
		 SET username = $2, password = $3, name = $4, phone = $5, email = $6
		 WHERE id = $1
		 RETURNING `+customerColumns,
		id, profile.Username, profile.PasswordHash, profile.Name, profile.Phone, profile.Email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer profile: %w", err)
	}
	return customer, nil
}

// UpdateToken は発行済みトークンを記録する。
func (r *PostgresCustomerRepo) UpdateToken(ctx context.Context, id string, token string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE customers SET token = $2 WHERE id = $1`,
		id, token,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer token: %w", err)
	}
	return nil
}

func (r *PostgresCustomerRepo) findOne(ctx context.Context, query string, args ...any) (*model.Customer, error) {
	c := &model.Customer{}
	var token sql.NullString

	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.Username, &c.Password, &c.Name, &c.Phone, &c.Email, &c.Active, &token,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	c.Token = token.String
	return c, nil
}

// compile-time interface check
var _ CustomerRepository = (*PostgresCustomerRepo)(nil)
