package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hitoshi/smartdeals/internal/model"
)

// MongoBidRepo はMongoDBを使用した入札リポジトリ。
type MongoBidRepo struct {
	col *mongo.Collection
}

// NewMongoBidRepo はMongoBidRepoを生成する。
func NewMongoBidRepo(db *mongo.Database) *MongoBidRepo {
	return &MongoBidRepo{col: db.Collection("bids")}
}

// Insert は入札を作成し、採番された識別子を返す。
func (r *MongoBidRepo) Insert(ctx context.Context, bid *model.Bid) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, bid)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert bid: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type: %T", res.InsertedID)
	}

	return id, nil
}

// ListByBuyer は入札一覧を返す。buyerEmailが空の場合は全件を返す。
func (r *MongoBidRepo) ListByBuyer(ctx context.Context, buyerEmail string) ([]model.Bid, error) {
	filter := bson.M{}
	if buyerEmail != "" {
		filter["buyer_email"] = buyerEmail
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}

	bids := []model.Bid{}
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, fmt.Errorf("failed to decode bids: %w", err)
	}

	return bids, nil
}

// ListByProduct は指定商品への入札一覧をbid_price降順で返す。
func (r *MongoBidRepo) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]model.Bid, error) {
	opts := options.Find().SetSort(bson.D{{Key: "bid_price", Value: -1}})

	cursor, err := r.col.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids by product: %w", err)
	}

	bids := []model.Bid{}
	if err := cursor.All(ctx, &bids); err != nil {
		return nil, fmt.Errorf("failed to decode bids: %w", err)
	}

	return bids, nil
}

// DeleteByID は指定IDの入札を削除し、削除件数を返す。
func (r *MongoBidRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bid: %w", err)
	}

	return res.DeletedCount, nil
}

// compile-time interface check
var _ BidRepository = (*MongoBidRepo)(nil)
