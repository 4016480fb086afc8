package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// AddOnItem is a sub-product nested inside a parent product, stocked independently.
type AddOnItem struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Price        float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	CountInStock int                `bson:"countInStock" json:"countInStock" validate:"min=0"`
	InStock      bool               `bson:"inStock" json:"inStock"`
}

type Product struct {
	ID           primitive.ObjectID `json:"productId,omitempty" bson:"_id,omitempty"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Brand        string             `bson:"brand" json:"brand"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price" validate:"required,gt=0"`
	Category     string             `bson:"category" json:"category"`
	Images       []string           `bson:"images" json:"images"`
	CountInStock int                `bson:"countInStock" json:"countInStock" validate:"min=0"`
	InStock      bool               `bson:"inStock" json:"inStock"`
	AddOnItems   []AddOnItem        `bson:"addOnItems,omitempty" json:"addOnItems,omitempty"`
}
