package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes はアプリケーションが前提とするインデックスを作成する。
// 既存のインデックスと同一定義の場合は何もしない（冪等）。
//
// - users.email: 一意制約。登録時の事前存在チェックの競合をストア側でも防ぐ。
// - products.created_at: 最新商品一覧のソート用。
// - bids.product_id + bid_price: 商品ごとの入札一覧（価格降順）用。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	_, err = db.Collection("products").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create products.created_at index: %w", err)
	}

	_, err = db.Collection("bids").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "bid_price", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create bids index: %w", err)
	}

	return nil
}
