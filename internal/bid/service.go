// Package bid は入札管理のドメインロジックを提供する。
package bid

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/smartdeals/internal/model"
	"github.com/hitoshi/smartdeals/internal/repository"
)

// CreateInput は入札作成の入力を表す。
type CreateInput struct {
	ProductID  string
	BuyerEmail string
	BuyerName  string
	BidPrice   float64
}

// validate は必須フィールドと入札価格を検証する。
func (in CreateInput) validate() error {
	if in.ProductID == "" {
		return model.NewMissingFieldError("product_id")
	}
	if in.BuyerEmail == "" {
		return model.NewMissingFieldError("buyer_email")
	}
	if in.BidPrice <= 0 {
		return model.NewInvalidPriceError()
	}
	return nil
}

// Service は入札管理のサービス層。
type Service struct {
	bidRepo repository.BidRepository
}

// NewService はServiceを生成する。
func NewService(bidRepo repository.BidRepository) *Service {
	return &Service{bidRepo: bidRepo}
}

// Create は入札を作成して返す。
// 商品の存在チェックは行わない（参照整合性は強制しない）。
func (s *Service) Create(ctx context.Context, input CreateInput) (*model.Bid, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	productID, err := primitive.ObjectIDFromHex(input.ProductID)
	if err != nil {
		return nil, model.NewInvalidIDError(input.ProductID)
	}

	newBid := &model.Bid{
		ProductID:  productID,
		BuyerEmail: input.BuyerEmail,
		BuyerName:  input.BuyerName,
		BidPrice:   input.BidPrice,
		CreatedAt:  time.Now(),
	}

	id, err := s.bidRepo.Insert(ctx, newBid)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bid: %w", err)
	}
	newBid.ID = id

	return newBid, nil
}

// ListByBuyer は入札一覧を返す。buyerEmailが空の場合は全件を返す。
func (s *Service) ListByBuyer(ctx context.Context, buyerEmail string) ([]model.Bid, error) {
	return s.bidRepo.ListByBuyer(ctx, buyerEmail)
}

// ListByProduct は指定商品への入札一覧をbid_price降順で返す。
// 商品IDの形式が不正な場合はINVALID_IDエラーを返す。
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]model.Bid, error) {
	objectID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, model.NewInvalidIDError(productID)
	}

	return s.bidRepo.ListByProduct(ctx, objectID)
}

// Delete は指定IDの入札を削除し、削除件数を返す。
// 存在しないIDの場合は削除件数0を返す（エラーにはしない）。
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, model.NewInvalidIDError(id)
	}

	return s.bidRepo.DeleteByID(ctx, objectID)
}
