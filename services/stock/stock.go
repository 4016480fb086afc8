package stock

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sheshri07/Sheshri/models"
)

var (
	ErrNotFound          = errors.New("stock: item not found")
	ErrInsufficientStock = errors.New("stock: insufficient stock")
)

// Collection is the subset of *mongo.Collection the ledger needs.
type Collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// Ledger adjusts per-item available quantity over the products collection.
// Items resolve first as primary products, then as add-on sub-documents.
// The inStock flag is managed elsewhere and never touched here.
type Ledger struct {
	products Collection
}

func NewLedger(products Collection) *Ledger {
	return &Ledger{products: products}
}

// Availability is the catalog snapshot used for order-time checks.
type Availability struct {
	Name         string
	Image        string
	Price        float64
	CountInStock int
	InStock      bool
}

// Available resolves an item id against the catalog and returns its
// current stock snapshot.
func (l *Ledger) Available(ctx context.Context, itemID primitive.ObjectID) (*Availability, error) {
	var product models.Product

	err := l.products.FindOne(ctx, bson.M{"_id": itemID}).Decode(&product)
	if err == nil {
		av := &Availability{
			Name:         product.Name,
			Price:        product.Price,
			CountInStock: product.CountInStock,
			InStock:      product.InStock,
		}
		if len(product.Images) > 0 {
			av.Image = product.Images[0]
		}
		return av, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	err = l.products.FindOne(ctx, bson.M{"addOnItems._id": itemID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	for _, addOn := range product.AddOnItems {
		if addOn.ID == itemID {
			return &Availability{
				Name:         addOn.Name,
				Image:        addOn.Image,
				Price:        addOn.Price,
				CountInStock: addOn.CountInStock,
				InStock:      addOn.InStock,
			}, nil
		}
	}
	return nil, ErrNotFound
}

// Line is one requested order line.
type Line struct {
	ItemID   primitive.ObjectID
	Quantity int
}

// LineSnapshot is a checked line enriched with its catalog snapshot.
type LineSnapshot struct {
	ItemID   primitive.ObjectID
	Name     string
	Image    string
	Price    float64
	Quantity int
}

// LineCheckError reports which line failed a pre-order check and why.
type LineCheckError struct {
	ItemID primitive.ObjectID
	Name   string
	Err    error
}

func (e *LineCheckError) Error() string {
	return fmt.Sprintf("line %s: %v", e.ItemID.Hex(), e.Err)
}

func (e *LineCheckError) Unwrap() error {
	return e.Err
}

// CheckLines verifies sufficiency for a whole order before anything is
// written. Quantities are summed per item id, so duplicate lines for the
// same item are checked against their combined total rather than each
// passing independently against the same snapshot.
func (l *Ledger) CheckLines(ctx context.Context, lines []Line) ([]LineSnapshot, error) {
	required := make(map[primitive.ObjectID]int)
	cached := make(map[primitive.ObjectID]*Availability)
	snapshots := make([]LineSnapshot, 0, len(lines))

	for _, line := range lines {
		availability, ok := cached[line.ItemID]
		if !ok {
			var err error
			availability, err = l.Available(ctx, line.ItemID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return nil, &LineCheckError{ItemID: line.ItemID, Err: ErrNotFound}
				}
				return nil, err
			}
			cached[line.ItemID] = availability
		}

		required[line.ItemID] += line.Quantity
		if !availability.InStock || availability.CountInStock < required[line.ItemID] {
			return nil, &LineCheckError{
				ItemID: line.ItemID,
				Name:   availability.Name,
				Err:    ErrInsufficientStock,
			}
		}

		snapshots = append(snapshots, LineSnapshot{
			ItemID:   line.ItemID,
			Name:     availability.Name,
			Image:    availability.Image,
			Price:    availability.Price,
			Quantity: line.Quantity,
		})
	}
	return snapshots, nil
}

// Reserve decrements countInStock by qty and returns the remaining count.
// The sufficiency check lives in the update filter, so the decrement can
// never push the count negative even under concurrent reservations.
func (l *Ledger) Reserve(ctx context.Context, itemID primitive.ObjectID, qty int) (int, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := l.products.FindOneAndUpdate(ctx,
		bson.M{"_id": itemID, "countInStock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"countInStock": -qty}},
		after,
	).Decode(&product)
	if err == nil {
		return product.CountInStock, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	err = l.products.FindOneAndUpdate(ctx,
		bson.M{"addOnItems": bson.M{"$elemMatch": bson.M{
			"_id":          itemID,
			"countInStock": bson.M{"$gte": qty},
		}}},
		bson.M{"$inc": bson.M{"addOnItems.$.countInStock": -qty}},
		after,
	).Decode(&product)
	if err == nil {
		for _, addOn := range product.AddOnItems {
			if addOn.ID == itemID {
				return addOn.CountInStock, nil
			}
		}
		return 0, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	// Neither filter matched: tell insufficient stock apart from a bad id.
	if _, availErr := l.Available(ctx, itemID); availErr != nil {
		return 0, availErr
	}
	return 0, ErrInsufficientStock
}

// Restore increments countInStock by qty. Unknown ids are a silent no-op so
// that cancellations of orders holding deleted catalog entries still succeed.
func (l *Ledger) Restore(ctx context.Context, itemID primitive.ObjectID, qty int) error {
	res, err := l.products.UpdateOne(ctx,
		bson.M{"_id": itemID},
		bson.M{"$inc": bson.M{"countInStock": qty}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	_, err = l.products.UpdateOne(ctx,
		bson.M{"addOnItems._id": itemID},
		bson.M{"$inc": bson.M{"addOnItems.$.countInStock": qty}},
	)
	return err
}
