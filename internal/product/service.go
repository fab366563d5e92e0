// Package product は商品管理のドメインロジックを提供する。
package product

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/smartdeals/internal/model"
	"github.com/hitoshi/smartdeals/internal/repository"
)

// latestProductsLimit は最新商品一覧の取得件数。
const latestProductsLimit = 6

// CreateInput は商品作成の入力を表す。
type CreateInput struct {
	OwnerEmail  string
	Name        string
	Price       float64
	Category    string
	Description string
	ImageURL    string
}

// validate は必須フィールドと価格を検証する。
func (in CreateInput) validate() error {
	if in.OwnerEmail == "" {
		return model.NewMissingFieldError("owner_email")
	}
	if in.Name == "" {
		return model.NewMissingFieldError("name")
	}
	if in.Price <= 0 {
		return model.NewInvalidPriceError()
	}
	return nil
}

// Service は商品管理のサービス層。
type Service struct {
	productRepo repository.ProductRepository
}

// NewService はServiceを生成する。
func NewService(productRepo repository.ProductRepository) *Service {
	return &Service{productRepo: productRepo}
}

// Create は商品を作成して返す。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	newProduct := &model.Product{
		OwnerEmail:  input.OwnerEmail,
		Name:        input.Name,
		Price:       input.Price,
		Category:    input.Category,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		CreatedAt:   time.Now(),
	}

	id, err := s.productRepo.Insert(ctx, newProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	newProduct.ID = id

	return newProduct, nil
}

// List は商品一覧を返す。ownerEmailが空の場合は全件を返す。
func (s *Service) List(ctx context.Context, ownerEmail string) ([]model.Product, error) {
	return s.productRepo.ListByOwner(ctx, ownerEmail)
}

// Latest はcreated_at降順で最新の商品を最大6件返す。
func (s *Service) Latest(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.ListLatest(ctx, latestProductsLimit)
}

// Get は指定IDの商品を返す。見つからない場合はnilを返す。
// IDの形式が不正な場合はINVALID_IDエラーを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.NewInvalidIDError(id)
	}

	return s.productRepo.FindByID(ctx, objectID)
}

// Update はnameとpriceのみを部分更新する。nilフィールドは変更しない。
// ホワイトリスト外のフィールドは呼び出し側で何を渡しても更新されない。
func (s *Service) Update(ctx context.Context, id string, name *string, price *float64) (matched, modified int64, err error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, 0, model.NewInvalidIDError(id)
	}

	if price != nil && *price <= 0 {
		return 0, 0, model.NewInvalidPriceError()
	}

	return s.productRepo.UpdateNameAndPrice(ctx, objectID, name, price)
}

// Delete は指定IDの商品を削除し、削除件数を返す。
// 存在しないIDの場合は削除件数0を返す（エラーにはしない）。
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, model.NewInvalidIDError(id)
	}

	return s.productRepo.DeleteByID(ctx, objectID)
}
