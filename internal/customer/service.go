// Package customer は顧客プロフィールの参照と更新を提供する。
package customer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
)

// ProfileInput はプロフィール更新の入力。nilは項目の欠落を表す。
type ProfileInput struct {
	Username *string
	Password *string
	Name     *string
	Phone    *string
	Email    *string
}

// complete は5項目すべてが指定され、空白以外の値を持つかを返す。
func (in ProfileInput) complete() bool {
	for _, v := range []*string{in.Username, in.Password, in.Name, in.Phone, in.Email} {
		if v == nil || strings.TrimSpace(*v) == "" {
			return false
		}
	}
	return true
}

// Service は顧客プロフィールのサービス層。
type Service struct {
	repo       repository.CustomerRepository
	bcryptCost int
}

// NewService はServiceを生成する。bcryptCostが0の場合は既定のコストを使う。
func NewService(repo repository.CustomerRepository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Get は指定IDの顧客を返す。
func (s *Service) Get(ctx context.Context, customerID string) (*model.Customer, error) {
	if !model.IsWellFormedID(customerID) {
		return nil, model.NewMalformedIDError(customerID)
	}

	c, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if c == nil {
		return nil, model.NewNotFoundError("")
	}
	return c, nil
}

// UpdateProfile はusername、password、name、phone、emailを置き換え、更新後の顧客を返す。
// 5項目のいずれかが欠けていればバリデーションエラー。IDは変更しない。
// 対象が存在しない場合はメッセージ空のNotFoundエラーを返す。
func (s *Service) UpdateProfile(ctx context.Context, customerID string, in ProfileInput) (*model.Customer, error) {
	if !in.complete() {
		return nil, model.NewValidationError(model.MsgAllFieldsRequired)
	}
	if !model.IsWellFormedID(customerID) {
		return nil, model.NewMalformedIDError(customerID)
	}

	hash, err := HashPassword(*in.Password, s.bcryptCost)
	if err != nil {
		return nil, model.NewServerError(err)
	}

	updated, err := s.repo.UpdateProfile(ctx, customerID, repository.ProfileUpdate{
		Username:     *in.Username,
		PasswordHash: hash,
		Name:         *in.Name,
		Phone:        *in.Phone,
		Email:        *in.Email,
	})
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if updated == nil {
		return nil, model.NewNotFoundError("")
	}

	slog.Info("顧客プロフィールを更新しました",
		slog.String("customer_id", updated.ID),
	)
	return updated, nil
}
