package model

import (
	"strings"
)

// OrderStatus は注文ステータス。
// 値の集合は固定しない。システムが自ら設定するのは作成時のStatusPendingのみ。
type OrderStatus string

// StatusPending はチェックアウト直後の注文ステータス。
const StatusPending OrderStatus = "PENDING"

// ParseOrderStatus は境界で受け取った文字列をOrderStatusに変換する。
// 空文字（空白のみを含む）の場合はバリデーションエラーを返す。
// 大文字小文字は変換せず、受け取った値をそのまま記録する。
func ParseOrderStatus(s string) (OrderStatus, error) {
	if strings.TrimSpace(s) == "" {
		return "", NewValidationError(MsgStatusRequired)
	}
	return OrderStatus(s), nil
}

// ProductSnapshot は注文時点の商品情報の値コピー。
type ProductSnapshot struct {
	ID    string  `json:"_id,omitempty"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderItem は注文明細。商品は参照ではなくスナップショットで保持する。
type OrderItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// Order は注文を表す。
// ID・CDateは作成後不変。作成後に変更されるのはStatusのみ。
// Totalは呼び出し側から受け取った値で、明細からは再計算しない。
type Order struct {
	ID       string           `json:"_id"`
	CDate    int64            `json:"cdate"`
	Total    float64          `json:"total"`
	Status   OrderStatus      `json:"status"`
	Customer CustomerSnapshot `json:"customer"`
	Items    []OrderItem      `json:"items"`
}

// NewOrder はチェックアウト用の新規注文を生成する。
// itemsはコピーして保持するため、呼び出し側が後でスライスを変更しても影響しない。
func NewOrder(total float64, items []OrderItem, customer CustomerSnapshot) *Order {
	return &Order{
		ID:       NewID(),
		CDate:    NowMillis(),
		Total:    total,
		Status:   StatusPending,
		Customer: customer,
		Items:    CloneItems(items),
	}
}

// CloneItems は注文明細のスライスを複製する。nilの場合は空スライスを返す。
func CloneItems(items []OrderItem) []OrderItem {
	cloned := make([]OrderItem, len(items))
	copy(cloned, items)
	return cloned
}
