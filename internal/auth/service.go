// Package auth は顧客のログインとトークン発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/storefront/internal/customer"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// TokenIssuer はアクセストークンを発行するインターフェース。
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// LoginResult はログイン成功時の結果。
type LoginResult struct {
	Token    string
	Customer *model.Customer
}

// Service はログインに関するビジネスロジックを提供する。
type Service struct {
	issuer       TokenIssuer
	customerRepo repository.CustomerRepository
}

// NewService はServiceを生成する。
func NewService(issuer TokenIssuer, customerRepo repository.CustomerRepository) *Service {
	return &Service{
		issuer:       issuer,
		customerRepo: customerRepo,
	}
}

// Login はユーザー名とパスワードを検証し、トークンを発行する。
// 発行したトークンは顧客レコードにも記録する。
// 無効化された顧客（active = 0）はパスワードが正しくてもログインできない。
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, model.NewValidationError(model.MsgMissingRequiredFields)
	}

	// 1. 顧客を検索
	c, err := s.customerRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, model.NewServerError(fmt.Errorf("failed to find customer: %w", err))
	}
	if c == nil || !c.IsActive() {
		return nil, model.NewAuthenticationError(model.MsgIncorrectCredentials, nil)
	}

	// 2. パスワードを照合
	ok, err := customer.PasswordMatches(c.Password, password)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if !ok {
		slog.Info("login rejected", slog.String("customer_id", c.ID))
		return nil, model.NewAuthenticationError(model.MsgIncorrectCredentials, nil)
	}

	// 3. トークンを発行して記録
	token, err := s.issuer.Issue(c.ID)
	if err != nil {
		return nil, model.NewServerError(fmt.Errorf("failed to issue token: %w", err))
	}
	if err := s.customerRepo.UpdateToken(ctx, c.ID, token); err != nil {
		return nil, model.NewServerError(err)
	}
	c.Token = token

	slog.Info("customer logged in", slog.String("customer_id", c.ID))
	return &LoginResult{Token: token, Customer: c}, nil
}
