package model

import "time"

// StatusNew is the status every order starts with.
const StatusNew = "noua"

type Category struct {
	ID       string   `bson:"id" json:"id"`
	Name     string   `bson:"name" json:"name"`
	Features []string `bson:"features,omitempty" json:"features,omitempty"`
}

type StockLocation struct {
	Location string `bson:"location" json:"location"`
	Count    int    `bson:"count" json:"count"`
}

type Inventory struct {
	Total     int             `bson:"total" json:"total"`
	Locations []StockLocation `bson:"locations,omitempty" json:"locations,omitempty"`
}

type Product struct {
	ID          string     `bson:"_id" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Slug        string     `bson:"slug" json:"slug"`
	Price       float64    `bson:"price" json:"price"`
	Description string     `bson:"description" json:"description"`
	Category    *Category  `bson:"category,omitempty" json:"category,omitempty"`
	Inventory   *Inventory `bson:"inventory,omitempty" json:"inventory,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
	CreatedBy   string     `bson:"createdBy" json:"createdBy"`
}

// ProductPatch is an explicit partial update: nil means "leave unchanged".
type ProductPatch struct {
	Name        *string    `json:"name"`
	Price       *float64   `json:"price"`
	Description *string    `json:"description"`
	Category    *Category  `json:"category"`
	Inventory   *Inventory `json:"inventory"`
}

// ProductSnapshot is the slice of product data frozen into an order line.
type ProductSnapshot struct {
	Name  string  `bson:"name" json:"name"`
	Slug  string  `bson:"slug" json:"slug"`
	Price float64 `bson:"price" json:"price"`
}

// OrderLine captures price and product data at purchase time; later edits
// to the product never touch it.
type OrderLine struct {
	ProductID       string          `bson:"productId" json:"productId"`
	Quantity        int             `bson:"quantity" json:"quantity"`
	PriceAtPurchase float64         `bson:"priceAtPurchase" json:"priceAtPurchase"`
	Product         ProductSnapshot `bson:"product" json:"product"`
}

type Order struct {
	ID         string      `bson:"_id" json:"id"`
	UserID     string      `bson:"userId" json:"userId"`
	UserEmail  string      `bson:"userEmail" json:"userEmail"`
	Status     string      `bson:"status" json:"status"`
	Products   []OrderLine `bson:"products" json:"products"`
	TotalItems int         `bson:"totalItems" json:"totalItems"`
	TotalPrice float64     `bson:"totalPrice" json:"totalPrice"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time   `bson:"updatedAt" json:"updatedAt"`
}
