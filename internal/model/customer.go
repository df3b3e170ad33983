package model

// Customer は購入者のプロフィールを表す。
// IDは作成後に変化しない。Passwordはハッシュ値で、JSONには出力しない。
type Customer struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Active   int    `json:"active"`
	Token    string `json:"token,omitempty"`
}

// IsActive は有効な顧客かどうかを返す。
func (c *Customer) IsActive() bool {
	return c.Active == 1
}

// Snapshot は注文に埋め込むための顧客情報のコピーを返す。
// パスワードとトークンはコピーしない。
func (c *Customer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{
		ID:       c.ID,
		Username: c.Username,
		Name:     c.Name,
		Phone:    c.Phone,
		Email:    c.Email,
		Active:   c.Active,
	}
}

// CustomerSnapshot は注文作成時点の顧客情報の値コピー。
// 後からプロフィールが更新されても過去の注文には影響しない。
type CustomerSnapshot struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Active   int    `json:"active"`
}
