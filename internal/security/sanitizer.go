// Package security は外部入力の無害化を提供する。
//
// 管理画面から登録される商品名・カテゴリ名・画像URLは、
// 顧客向け画面にそのまま表示されるため保存前にマークアップを除去する。
package security

import (
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はプレーンテキスト項目からHTMLを除去する。
// bluemondayのポリシーはスレッドセーフなので、1インスタンスを共有してよい。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はすべてのタグを除去するTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Text はタグを除去し、前後の空白を取り除いたプレーンテキストを返す。
// bluemondayがエスケープした実体参照は元の文字に戻す（"Tea & Coffee" は変化しない）。
func (s *TextSanitizer) Text(raw string) string {
	stripped := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(stripped))
}

// ImageURL は画像URLを検証し、安全な値のみを返す。
// http/httpsの絶対URLと、スキームなしの相対パスのみ許可する。
// javascript: や data: などそれ以外は空文字列にする。
func (s *TextSanitizer) ImageURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return ""
		}
	case "":
		if u.Host != "" || strings.ContainsAny(trimmed, "<>\"'") {
			return ""
		}
	default:
		return ""
	}
	return u.String()
}
