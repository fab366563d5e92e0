package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product は出品された商品を表す。
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerEmail  string             `bson:"owner_email" json:"owner_email"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
