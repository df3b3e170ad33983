package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/storefront/internal/model"
)

// GateFailureBody は認証失敗時のJSONボディ。既存クライアントの形式に合わせる。
type GateFailureBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusForKind はエラー分類に対応するHTTPステータスを返す。
func StatusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.KindAuthentication:
		return http.StatusUnauthorized
	case model.KindValidation:
		return http.StatusBadRequest
	case model.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteText はtext/plainでメッセージを書き込む。
func WriteText(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	if message != "" {
		w.Write([]byte(message))
	}
}

// WriteJSON は値をJSONで書き込む。
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// WriteGateFailure は401とGateFailureBodyを書き込む。
func WriteGateFailure(w http.ResponseWriter, message string) {
	WriteJSON(w, http.StatusUnauthorized, GateFailureBody{Success: false, Message: message})
}

// WriteErrorResponse はエラーを分類に応じたステータスとtext/plainのメッセージで書き込む。
// サーバーエラーは原因をログに記録し、利用者には "Server error" のみを返す。
func WriteErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	kind := model.KindOf(err)
	if kind == model.KindServer {
		WriteInternalServerError(w, r, err)
		return
	}

	var apiErr *model.APIError
	errors.As(err, &apiErr)
	WriteText(w, StatusForKind(kind), apiErr.Message)
}

// WriteInternalServerError は500 "Server error" を書き込み、原因をログに記録する。
func WriteInternalServerError(w http.ResponseWriter, r *http.Request, cause error) {
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	}
	if cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	slog.Error("request failed", attrs...)

	WriteText(w, http.StatusInternalServerError, model.MsgServerError)
}
