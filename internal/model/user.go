package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User はサービス利用ユーザーを表す。
// Emailはusersコレクション内で一意であり、登録時の事前存在チェックで保証する。
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	PhotoURL  string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
