package controllers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sheshri07/Sheshri/configs"
	"github.com/Sheshri07/Sheshri/models"
	"github.com/Sheshri07/Sheshri/responses"
)

var productCollection *mongo.Collection = configs.GetCollection(configs.DB, "products")

var validate = validator.New()

func GetAllProducts(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit < 1 {
		limit = 10
	}
	skip := (page - 1) * limit

	filter := bson.M{}
	if category := c.Query("category"); category != "" {
		filter["category"] = category
	}

	totalProducts, err := productCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error counting products",
		})
	}

	findOptions := options.Find()
	findOptions.SetSkip(skip)
	findOptions.SetLimit(limit)

	var products []models.Product
	cursor, err := productCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching products",
		})
	}
	if err = cursor.All(ctx, &products); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error parsing products",
		})
	}

	totalPages := (totalProducts + limit - 1) / limit

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Fetched products",
		Result: &fiber.Map{
			"currentPage":   page,
			"totalPages":    totalPages,
			"totalProducts": totalProducts,
			"products":      products,
		},
	})
}

func GetProductById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productObjectID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
		})
	}

	var product models.Product
	err = productCollection.FindOne(ctx, bson.M{"_id": productObjectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Product not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching product",
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Product fetched successfully",
		Result:  &fiber.Map{"product": product},
	})
}

// AddProduct is admin only.
func AddProduct(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Error parsing product data",
		})
	}
	if err := validate.Struct(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	for i := range product.AddOnItems {
		if product.AddOnItems[i].ID.IsZero() {
			product.AddOnItems[i].ID = primitive.NewObjectID()
		}
	}

	result, err := productCollection.InsertOne(ctx, product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error inserting product",
		})
	}
	product.ID = result.InsertedID.(primitive.ObjectID)

	return c.Status(fiber.StatusCreated).JSON(responses.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Product added successfully",
		Result:  &fiber.Map{"product": product},
	})
}

// AddAddOnItem nests a new independently stocked sub-product. Admin only.
func AddAddOnItem(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	productObjectID, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid product ID format",
		})
	}

	var addOn models.AddOnItem
	if err := c.BodyParser(&addOn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Error parsing add-on data",
		})
	}
	if err := validate.Struct(&addOn); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}
	addOn.ID = primitive.NewObjectID()

	result, err := productCollection.UpdateOne(ctx,
		bson.M{"_id": productObjectID},
		bson.M{"$push": bson.M{"addOnItems": addOn}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error adding add-on item",
		})
	}
	if result.MatchedCount == 0 {
		return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Product not found",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(responses.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Add-on item added successfully",
		Result:  &fiber.Map{"addOnItem": addOn},
	})
}

type SetStockFlagRequest struct {
	ItemID  string `json:"itemId" validate:"required"`
	InStock *bool  `json:"inStock" validate:"required"`
}

// SetStockFlag flips the externally managed inStock boolean. The ledger never
// touches it, so this is the only place it changes. Admin only.
func SetStockFlag(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var flagReq SetStockFlagRequest
	if err := c.BodyParser(&flagReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validate.Struct(&flagReq); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	itemObjectID, err := primitive.ObjectIDFromHex(flagReq.ItemID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid item ID format",
		})
	}

	// Primary product first, add-on sub-document second.
	result, err := productCollection.UpdateOne(ctx,
		bson.M{"_id": itemObjectID},
		bson.M{"$set": bson.M{"inStock": *flagReq.InStock}})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error updating stock flag",
		})
	}
	if result.MatchedCount == 0 {
		result, err = productCollection.UpdateOne(ctx,
			bson.M{"addOnItems._id": itemObjectID},
			bson.M{"$set": bson.M{"addOnItems.$.inStock": *flagReq.InStock}})
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(responses.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Error updating stock flag",
			})
		}
		if result.MatchedCount == 0 {
			return c.Status(fiber.StatusNotFound).JSON(responses.ApiResponse{
				Status:  fiber.StatusNotFound,
				Message: "Item not found",
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(responses.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Stock flag updated",
		Result:  &fiber.Map{"itemId": flagReq.ItemID, "inStock": *flagReq.InStock},
	})
}
