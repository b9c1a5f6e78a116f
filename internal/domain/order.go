package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Credit Card"
	PaymentOnline PaymentMethod = "Online Payment"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product at purchase time. It is frozen
// on creation: later catalog edits or deletions never touch it.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	ImageURL  string             `bson:"image_url" json:"imageUrl"`
}

type Address struct {
	FullName   string `bson:"full_name" json:"fullName"`
	Phone      string `bson:"phone" json:"phone"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConsumerEmail string             `bson:"consumer_email" json:"consumerEmail"`
	ConsumerName  string             `bson:"consumer_name" json:"consumerName"`
	Products      []OrderItem        `bson:"products" json:"products"`
	Address       Address            `bson:"address" json:"address"`
	PaymentMethod PaymentMethod      `bson:"payment_method" json:"paymentMethod"`
	Total         float64            `bson:"total" json:"total"`
	Status        OrderStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
}
