// Package catalog は商品カタログの検索・登録・削除を提供する。
package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hitoshi/storefront/internal/metrics"
	"github.com/hitoshi/storefront/internal/model"
	"github.com/hitoshi/storefront/internal/repository"
	"github.com/hitoshi/storefront/internal/security"
)

// CreateProductInput は商品登録の入力。
type CreateProductInput struct {
	Name     string
	Price    *float64
	Image    string
	Category model.Category
}

// Service は商品カタログのサービス層。
type Service struct {
	repo      repository.ProductRepository
	metrics   metrics.MetricsCollector
	sanitizer *security.TextSanitizer
}

// NewService はServiceを生成する。mcがnilの場合はメトリクスを記録しない。
func NewService(repo repository.ProductRepository, mc metrics.MetricsCollector) *Service {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Service{repo: repo, metrics: mc, sanitizer: security.NewTextSanitizer()}
}

// Search は商品名にkeywordを含む商品を返す（大文字小文字を区別しない）。
// keywordがnil（未指定）の場合はサーバーエラー。空文字は全件一致となる。
// 一致なしの場合は空スライスを返す。
func (s *Service) Search(ctx context.Context, keyword *string) ([]model.Product, error) {
	if keyword == nil {
		return nil, model.NewServerError(errors.New("search keyword is absent"))
	}

	products, err := s.repo.SearchByName(ctx, *keyword)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if products == nil {
		products = []model.Product{}
	}

	s.metrics.RecordProductSearch(len(products))
	return products, nil
}

// Get は指定IDの商品を返す。
func (s *Service) Get(ctx context.Context, productID string) (*model.Product, error) {
	if !model.IsWellFormedID(productID) {
		return nil, model.NewMalformedIDError(productID)
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if product == nil {
		return nil, model.NewNotFoundError(model.MsgProductNotFound)
	}
	return product, nil
}

// Delete は商品を物理削除し、削除したレコードを返す。
// 存在確認と削除は1回のDELETE ... RETURNINGで行う。
func (s *Service) Delete(ctx context.Context, productID string) (*model.Product, error) {
	if !model.IsWellFormedID(productID) {
		return nil, model.NewMalformedIDError(productID)
	}

	product, err := s.repo.DeleteByID(ctx, productID)
	if err != nil {
		return nil, model.NewServerError(err)
	}
	if product == nil {
		return nil, model.NewNotFoundError(model.MsgProductNotFound)
	}

	slog.Info("商品を削除しました",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	s.metrics.RecordProductDeleted()
	return product, nil
}

// Create は商品を登録する。名前と価格（0以上）が必須。
// カテゴリIDが未指定の場合は新しく採番する。
func (s *Service) Create(ctx context.Context, in CreateProductInput) (*model.Product, error) {
	// マークアップを除去した結果が空になる名前も未入力として扱う
	name := s.sanitizer.Text(in.Name)
	if name == "" || in.Price == nil || *in.Price < 0 {
		return nil, model.NewValidationError(model.MsgMissingRequiredFields)
	}

	category := in.Category
	category.Name = s.sanitizer.Text(category.Name)
	if category.ID == "" {
		category.ID = model.NewID()
	}

	product := &model.Product{
		ID:       model.NewID(),
		Name:     name,
		Price:    *in.Price,
		Image:    s.sanitizer.ImageURL(in.Image),
		CDate:    model.NowMillis(),
		Category: category,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, model.NewServerError(err)
	}

	slog.Info("商品を登録しました",
		slog.String("product_id", product.ID),
		slog.String("name", product.Name),
	)
	return product, nil
}
