package model

import (
	"time"

	"github.com/google/uuid"
)

// NewID は新しい識別子（UUID文字列）を生成する。
func NewID() string {
	return uuid.NewString()
}

// IsWellFormedID は識別子が永続化層のキー形式（UUID）を満たすかを判定する。
// 形式を満たすことはレコードが存在することを意味しない。
func IsWellFormedID(id string) bool {
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// NowMillis は現在時刻をエポックミリ秒で返す。
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
