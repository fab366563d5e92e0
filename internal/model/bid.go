package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bid は商品への入札を表す。
// ProductIDはproductsコレクションへの参照だが、参照整合性は強制しない
// （商品削除時のカスケード削除や外部キー相当のチェックは行わない）。
type Bid struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID  primitive.ObjectID `bson:"product_id" json:"product_id"`
	BuyerEmail string             `bson:"buyer_email" json:"buyer_email"`
	BuyerName  string             `bson:"buyer_name,omitempty" json:"buyer_name,omitempty"`
	BidPrice   float64            `bson:"bid_price" json:"bid_price"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
