package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/hitoshi/storefront/internal/model"
)

const orderColumns = `id, cdate, total, status, customer, items`

// PostgresOrderRepo はPostgreSQLを使用した注文リポジトリ。
// 顧客と明細はスナップショットとしてJSONB列に保存する。
type PostgresOrderRepo struct {
	db *sql.DB
}

// NewPostgresOrderRepo はPostgresOrderRepoを生成する。
func NewPostgresOrderRepo(db *sql.DB) *PostgresOrderRepo {
	return &PostgresOrderRepo{db: db}
}

// FindByID は指定IDの注文を取得する。見つからない場合はnilを返す。
func (r *PostgresOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`,
		id,
	)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return order, nil
}

// ListByCustomerID は顧客の注文をcdate降順で返す。
func (r *PostgresOrderRepo) ListByCustomerID(ctx context.Context, customerID string) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE customer_id = $1
		 ORDER BY cdate DESC, id DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, nil
}

// Create は注文を作成する。
func (r *PostgresOrderRepo) Create(ctx context.Context, order *model.Order) error {
	customerJSON, err := json.Marshal(order.Customer)
	if err != nil {
		return fmt.Errorf("failed to encode customer snapshot: %w", err)
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO orders (id, cdate, total, status, customer_id, customer, items)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.CDate, order.Total, string(order.Status),
		order.Customer.ID, customerJSON, itemsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// UpdateStatus はステータスのみを1回のUPDATEで更新し、更新後の注文を返す。
func (r *PostgresOrderRepo) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE orders SET status = $2 WHERE id = $1 RETURNING `+orderColumns,
		id, string(status),
	)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return order, nil
}

func scanOrder(s rowScanner) (*model.Order, error) {
	o := &model.Order{}
	var status string
	var customerJSON, itemsJSON []byte

	if err := s.Scan(&o.ID, &o.CDate, &o.Total, &status, &customerJSON, &itemsJSON); err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)

	if err := json.Unmarshal(customerJSON, &o.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer snapshot: %w", err)
	}
	if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	if o.Items == nil {
		o.Items = []model.OrderItem{}
	}

	return o, nil
}

// compile-time interface check
var _ OrderRepository = (*PostgresOrderRepo)(nil)
