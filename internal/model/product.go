package model

// Category は商品カテゴリ。商品に非正規化して埋め込まれ、独自のライフサイクルを持たない。
type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Product はカタログ上の商品を表す。
// CDateは作成日時（エポックミリ秒）。削除は物理削除。
type Product struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    float64  `json:"price"`
	Image    string   `json:"image"`
	CDate    int64    `json:"cdate"`
	Category Category `json:"category"`
}

// Snapshot は注文明細に埋め込むための商品情報のコピーを返す。
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ID: p.ID, Name: p.Name, Price: p.Price}
}
