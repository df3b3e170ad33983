package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes はリクエストボディの上限。
const maxBodyBytes = 1 << 20

// decodeJSONBody はリクエストボディをdstにデコードする。
// 空ボディはエラーにせず、dstをゼロ値のまま返す（必須項目の検証はサービス層で行う）。
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// pathValue はURLパスの値を返す。JavaScriptクライアントが未定義値を埋め込んだ
// "null" と "undefined" は値なしとして扱う。
func pathValue(raw string) (string, bool) {
	switch raw {
	case "", "null", "undefined":
		return "", false
	default:
		return raw, true
	}
}

// urlParam はchiのURLパラメータをデコード済みの値で返す。
// r.URL.RawPathが設定されているとchiはエスケープされたままのセグメントを返す。
func urlParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}
