// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/storefront/internal/model"
)

// AccessTokenHeader はWebクライアントがトークンを送るヘッダー名。
const AccessTokenHeader = "x-access-token"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// TokenVerifier はトークン検証に必要なインターフェース。*token.Serviceが満たす。
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

// NewTokenMiddleware はアクセストークンを検証するミドルウェアを返す。
// トークンはx-access-tokenヘッダー、なければAuthorization: Bearerから読み取る。
// 未指定・不正の場合は401とJSONボディを返し、後続のハンドラーを呼ばない。
// 検証済みユーザーIDをリクエストコンテキストに注入する。
//
// トークンはロールを持たないため、管理者向けと顧客向けのルートを区別しない。
func NewTokenMiddleware(verifier TokenVerifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := extractToken(r)
			if raw == "" {
				WriteGateFailure(w, model.MsgTokenNotSupplied)
				return
			}

			userID, err := verifier.Verify(raw)
			if err != nil {
				slog.Debug("token rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				WriteGateFailure(w, model.MsgTokenInvalid)
				return
			}

			ctx := ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken はリクエストからトークン文字列を取り出す。
func extractToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(AccessTokenHeader)); v != "" {
		return v
	}

	authz := r.Header.Get("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}

// UserIDFromContext はリクエストコンテキストからユーザーIDを取得する。
// トークンミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// ロギングミドルウェアの内側で呼ばれた場合はアクセスログにも反映される。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	if info, ok := ctx.Value(requestInfoContextKey).(*requestInfo); ok {
		info.userID = userID
	}
	return context.WithValue(ctx, userIDContextKey, userID)
}
