// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hitoshi/smartdeals/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByEmail は指定emailのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成し、採番された識別子を返す。
	Create(ctx context.Context, user *model.User) (primitive.ObjectID, error)
}

// ProductRepository は商品データの永続化インターフェース。
// 各操作は単一のストア呼び出しであり、個々にアトミックである。
type ProductRepository interface {
	// Insert は商品を作成し、採番された識別子を返す。
	Insert(ctx context.Context, product *model.Product) (primitive.ObjectID, error)

	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)

	// ListByOwner は商品一覧を返す。ownerEmailが空の場合は全件を返す。
	ListByOwner(ctx context.Context, ownerEmail string) ([]model.Product, error)

	// ListLatest はcreated_at降順で最大limit件の商品を返す。
	ListLatest(ctx context.Context, limit int64) ([]model.Product, error)

	// UpdateNameAndPrice はnameとpriceのみを部分更新する。
	// nilフィールドは変更しない。マッチ件数と更新件数を返す。
	UpdateNameAndPrice(ctx context.Context, id primitive.ObjectID, name *string, price *float64) (matched, modified int64, err error)

	// DeleteByID は指定IDの商品を削除し、削除件数を返す。
	// 存在しないIDの場合は削除件数0を返す（エラーにはしない）。
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// BidRepository は入札データの永続化インターフェース。
type BidRepository interface {
	// Insert は入札を作成し、採番された識別子を返す。
	Insert(ctx context.Context, bid *model.Bid) (primitive.ObjectID, error)

	// ListByBuyer は入札一覧を返す。buyerEmailが空の場合は全件を返す。
	ListByBuyer(ctx context.Context, buyerEmail string) ([]model.Bid, error)

	// ListByProduct は指定商品への入札一覧をbid_price降順で返す。
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]model.Bid, error)

	// DeleteByID は指定IDの入札を削除し、削除件数を返す。
	// 存在しないIDの場合は削除件数0を返す（エラーにはしない）。
	DeleteByID(ctx context.Context, id primitive.ObjectID) (int64, error)
}
