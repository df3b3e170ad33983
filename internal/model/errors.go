// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// ErrorKind はエラーの分類を表す。
// HTTP層はこの分類のみを見てステータスコードを決定する。
type ErrorKind string

const (
	// KindAuthentication はトークン未指定・不正を表す（401）。
	KindAuthentication ErrorKind = "authentication"
	// KindValidation は必須項目の欠落など入力不備を表す（400）。
	KindValidation ErrorKind = "validation"
	// KindNotFound は形式の正しいIDに対応するレコードが存在しないことを表す（404）。
	KindNotFound ErrorKind = "not_found"
	// KindServer は不正な形式のID、永続化層の障害、その他の想定外エラーを表す（500）。
	KindServer ErrorKind = "server"
)

// 利用者に返す固定メッセージ。既存クライアントが文字列一致で判定しているため変更しないこと。
const (
	MsgMissingRequiredFields = "Bad request, missing required fields"
	MsgStatusRequired        = "Status is required"
	MsgAllFieldsRequired     = "All fields are required"
	MsgOrderNotFound         = "Order not found"
	MsgProductNotFound       = "Product not found"
	MsgServerError           = "Server error"
	MsgTokenNotSupplied      = "Auth token is not supplied"
	MsgTokenInvalid          = "Token is not valid"
	MsgIncorrectCredentials  = "Incorrect username or password"
)

// APIError は分類付きのエラーを表す。
// Messageは利用者に返す文言、Errは原因（ログにのみ出力する）。
type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap は原因エラーを返す。
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewValidationError は入力不備エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

// NewNotFoundError はレコード未検出エラーを生成する。
// messageは空でもよい（プロフィール更新の404は空ボディを返す）。
func NewNotFoundError(message string) *APIError {
	return &APIError{Kind: KindNotFound, Message: message}
}

// NewServerError はサーバーエラーを生成する。causeはログ出力用に保持する。
func NewServerError(cause error) *APIError {
	return &APIError{Kind: KindServer, Message: MsgServerError, Err: cause}
}

// NewAuthenticationError は認証エラーを生成する。
func NewAuthenticationError(message string, cause error) *APIError {
	return &APIError{Kind: KindAuthentication, Message: message, Err: cause}
}

// NewMalformedIDError は形式不正なIDに対するサーバーエラーを生成する。
// 不正なIDによる検索は「見つからない」ではなく障害として扱う。
func NewMalformedIDError(id string) *APIError {
	return NewServerError(fmt.Errorf("malformed identifier: %q", id))
}

// KindOf はエラーの分類を返す。APIErrorでないエラーはKindServerとみなす。
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// IsKind はエラーが指定した分類かどうかを判定する。
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
