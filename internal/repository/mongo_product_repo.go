package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hitoshi/smartdeals/internal/model"
)

// MongoProductRepo はMongoDBを使用した商品リポジトリ。
type MongoProductRepo struct {
	col *mongo.Collection
}

// NewMongoProductRepo はMongoProductRepoを生成する。
func NewMongoProductRepo(db *mongo.Database) *MongoProductRepo {
	return &MongoProductRepo{col: db.Collection("products")}
}

// Insert は商品を作成し、採番された識別子を返す。
func (r *MongoProductRepo) Insert(ctx context.Context, product *model.Product) (primitive.ObjectID, error) {
	res, err := r.col.InsertOne(ctx, product)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to insert product: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted ID type: %T", res.InsertedID)
	}

	return id, nil
}

// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
func (r *MongoProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	product := &model.Product{}
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// ListByOwner は商品一覧を返す。ownerEmailが空の場合は全件を返す。
func (r *MongoProductRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]model.Product, error) {
	filter := bson.M{}
	if ownerEmail != "" {
		filter["owner_email"] = ownerEmail
	}

	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// ListLatest はcreated_at降順で最大limit件の商品を返す。
func (r *MongoProductRepo) ListLatest(ctx context.Context, limit int64) ([]model.Product, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest products: %w", err)
	}

	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// UpdateNameAndPrice はnameとpriceのみを部分更新する。
// nilフィールドは変更しない。ホワイトリスト外のフィールドは更新対象にならない。
func (r *MongoProductRepo) UpdateNameAndPrice(ctx context.Context, id primitive.ObjectID, name *string, price *float64) (int64, int64, error) {
	set := bson.M{}
	if name != nil {
		set["name"] = *name
	}
	if price != nil {
		set["price"] = *price
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to update product: %w", err)
	}

	return res.MatchedCount, res.ModifiedCount, nil
}

// DeleteByID は指定IDの商品を削除し、削除件数を返す。
func (r *MongoProductRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("failed to delete product: %w", err)
	}

	return res.DeletedCount, nil
}

// compile-time interface check
var _ ProductRepository = (*MongoProductRepo)(nil)
