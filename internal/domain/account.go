package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Consumer struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"fullName"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Cart         []CartLine         `bson:"cart" json:"cart"`
	CartVersion  int64              `bson:"cart_version" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// CartLine is one entry of a consumer's cart. Lines are unique by
// product: adding an already-present product increments Quantity.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// ResolvedCartLine is a cart line joined against the catalog. Product
// is nil when the referenced product has been deleted since the line
// was added; callers decide whether to filter or show it unavailable.
type ResolvedCartLine struct {
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Product   *Product           `json:"product"`
}

type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}
