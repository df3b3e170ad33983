// Package token はアクセストークン（JWT）の発行と検証を提供する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/storefront/internal/model"
)

// Config はトークンサービスの設定。
// Secretは起動時に設定から注入する。パッケージ変数には保持しない。
type Config struct {
	Secret []byte
	// TTL はトークンの有効期間。0の場合はexpクレームを付与しない。
	TTL    time.Duration
	Issuer string
}

// Service はユーザーIDに紐づくトークンを発行・検証する。
// 失効リストは持たず、署名と有効期限のみで検証する。
type Service struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewService はServiceを生成する。
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	return &Service{
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// Issue はuserIDをsubjectとして埋め込んだHS256署名のトークンを発行する。
func (s *Service) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required to issue a token")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  userID,
		IssuedAt: jwt.NewNumericDate(now),
		Issuer:   s.issuer,
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、埋め込まれたユーザーIDを返す。
// 未指定・形式不正・署名不一致・期限切れ・subject欠落の場合は認証エラーを返す。
func (s *Service) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", model.NewAuthenticationError(model.MsgTokenNotSupplied, nil)
	}

	claims := &jwt.RegisteredClaims{}
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(s.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, parserOpts...)
	if err != nil {
		return "", model.NewAuthenticationError(model.MsgTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", model.NewAuthenticationError(model.MsgTokenInvalid, errors.New("token has no subject"))
	}

	return claims.Subject, nil
}
