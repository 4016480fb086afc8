package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sheshri07/Sheshri/models"
)

// fakeProducts interprets exactly the filter shapes the ledger issues,
// backed by an in-memory product slice.
type fakeProducts struct {
	products []*models.Product
}

func noDocument() *mongo.SingleResult {
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (f *fakeProducts) byID(id primitive.ObjectID) *models.Product {
	for _, p := range f.products {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (f *fakeProducts) byAddOn(id primitive.ObjectID) (*models.Product, *models.AddOnItem) {
	for _, p := range f.products {
		for i := range p.AddOnItems {
			if p.AddOnItems[i].ID == id {
				return p, &p.AddOnItems[i]
			}
		}
	}
	return nil, nil
}

func (f *fakeProducts) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	m := filter.(bson.M)
	if id, ok := m["_id"].(primitive.ObjectID); ok {
		if p := f.byID(id); p != nil {
			return mongo.NewSingleResultFromDocument(p, nil, nil)
		}
		return noDocument()
	}
	if id, ok := m["addOnItems._id"].(primitive.ObjectID); ok {
		if p, _ := f.byAddOn(id); p != nil {
			return mongo.NewSingleResultFromDocument(p, nil, nil)
		}
	}
	return noDocument()
}

func (f *fakeProducts) FindOneAndUpdate(_ context.Context, filter interface{}, update interface{}, _ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	m := filter.(bson.M)
	inc := update.(bson.M)["$inc"].(bson.M)

	if id, ok := m["_id"].(primitive.ObjectID); ok {
		qty := m["countInStock"].(bson.M)["$gte"].(int)
		p := f.byID(id)
		if p == nil || p.CountInStock < qty {
			return noDocument()
		}
		p.CountInStock += inc["countInStock"].(int)
		return mongo.NewSingleResultFromDocument(p, nil, nil)
	}

	elem := m["addOnItems"].(bson.M)["$elemMatch"].(bson.M)
	id := elem["_id"].(primitive.ObjectID)
	qty := elem["countInStock"].(bson.M)["$gte"].(int)
	p, addOn := f.byAddOn(id)
	if p == nil || addOn.CountInStock < qty {
		return noDocument()
	}
	addOn.CountInStock += inc["addOnItems.$.countInStock"].(int)
	return mongo.NewSingleResultFromDocument(p, nil, nil)
}

func (f *fakeProducts) UpdateOne(_ context.Context, filter interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	m := filter.(bson.M)
	inc := update.(bson.M)["$inc"].(bson.M)

	if id, ok := m["_id"].(primitive.ObjectID); ok {
		if p := f.byID(id); p != nil {
			p.CountInStock += inc["countInStock"].(int)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
		return &mongo.UpdateResult{}, nil
	}
	if id, ok := m["addOnItems._id"].(primitive.ObjectID); ok {
		if _, addOn := f.byAddOn(id); addOn != nil {
			addOn.CountInStock += inc["addOnItems.$.countInStock"].(int)
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func TestReservePrimaryProduct(t *testing.T) {
	productID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, Name: "Sneaker", Price: 49.0, CountInStock: 5, InStock: true},
	}}
	ledger := NewLedger(fake)

	remaining, err := ledger.Reserve(context.Background(), productID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, remaining)
	assert.Equal(t, 3, fake.products[0].CountInStock)
}

func TestReserveResolvesPrimaryBeforeAddOn(t *testing.T) {
	sharedID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: sharedID, Name: "Primary", CountInStock: 10, InStock: true},
		{ID: primitive.NewObjectID(), Name: "Parent", CountInStock: 10, AddOnItems: []models.AddOnItem{
			{ID: sharedID, Name: "AddOn", CountInStock: 10, InStock: true},
		}},
	}}
	ledger := NewLedger(fake)

	_, err := ledger.Reserve(context.Background(), sharedID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, fake.products[0].CountInStock, "primary product takes the decrement")
	assert.Equal(t, 10, fake.products[1].AddOnItems[0].CountInStock, "add-on untouched")
}

func TestReserveAddOnItem(t *testing.T) {
	addOnID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: primitive.NewObjectID(), Name: "Parent", CountInStock: 2, AddOnItems: []models.AddOnItem{
			{ID: addOnID, Name: "Laces", Price: 5, CountInStock: 8, InStock: true},
		}},
	}}
	ledger := NewLedger(fake)

	remaining, err := ledger.Reserve(context.Background(), addOnID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
	assert.Equal(t, 2, fake.products[0].CountInStock, "parent stock untouched")
}

func TestReserveInsufficientStock(t *testing.T) {
	productID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, Name: "Sneaker", CountInStock: 1, InStock: true},
	}}
	ledger := NewLedger(fake)

	_, err := ledger.Reserve(context.Background(), productID, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 1, fake.products[0].CountInStock, "failed reserve must not mutate")
}

func TestReserveUnknownItem(t *testing.T) {
	ledger := NewLedger(&fakeProducts{})
	_, err := ledger.Reserve(context.Background(), primitive.NewObjectID(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRestorePrimaryAndAddOn(t *testing.T) {
	productID := primitive.NewObjectID()
	addOnID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, CountInStock: 3},
		{ID: primitive.NewObjectID(), CountInStock: 0, AddOnItems: []models.AddOnItem{
			{ID: addOnID, CountInStock: 1},
		}},
	}}
	ledger := NewLedger(fake)

	require.NoError(t, ledger.Restore(context.Background(), productID, 2))
	assert.Equal(t, 5, fake.products[0].CountInStock)

	require.NoError(t, ledger.Restore(context.Background(), addOnID, 4))
	assert.Equal(t, 5, fake.products[1].AddOnItems[0].CountInStock)
}

func TestRestoreUnknownItemIsNoOp(t *testing.T) {
	fake := &fakeProducts{products: []*models.Product{
		{ID: primitive.NewObjectID(), CountInStock: 3},
	}}
	ledger := NewLedger(fake)

	err := ledger.Restore(context.Background(), primitive.NewObjectID(), 2)
	assert.NoError(t, err, "restoring a deleted catalog entry must not fail")
	assert.Equal(t, 3, fake.products[0].CountInStock)
}

func TestCheckLinesSnapshots(t *testing.T) {
	productID := primitive.NewObjectID()
	addOnID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, Name: "Sneaker", Price: 49, CountInStock: 5, InStock: true, Images: []string{"a.jpg"}},
		{ID: primitive.NewObjectID(), Name: "Parent", AddOnItems: []models.AddOnItem{
			{ID: addOnID, Name: "Laces", Price: 5, Image: "laces.jpg", CountInStock: 4, InStock: true},
		}},
	}}
	ledger := NewLedger(fake)

	snapshots, err := ledger.CheckLines(context.Background(), []Line{
		{ItemID: productID, Quantity: 2},
		{ItemID: addOnID, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "Sneaker", snapshots[0].Name)
	assert.Equal(t, 2, snapshots[0].Quantity)
	assert.Equal(t, "Laces", snapshots[1].Name)
	assert.Equal(t, 5.0, snapshots[1].Price)
	assert.Equal(t, 5, fake.products[0].CountInStock, "checking must not mutate stock")
}

func TestCheckLinesSumsDuplicateItems(t *testing.T) {
	productID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, Name: "Sneaker", CountInStock: 5, InStock: true},
	}}
	ledger := NewLedger(fake)

	// Each line alone fits within stock, but together they exceed it.
	_, err := ledger.CheckLines(context.Background(), []Line{
		{ItemID: productID, Quantity: 3},
		{ItemID: productID, Quantity: 3},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var lineErr *LineCheckError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, productID, lineErr.ItemID)
	assert.Equal(t, "Sneaker", lineErr.Name)
	assert.Equal(t, 5, fake.products[0].CountInStock, "failed check must not mutate")

	// Duplicate lines that fit within stock in total still pass, each
	// keeping its own quantity.
	snapshots, err := ledger.CheckLines(context.Background(), []Line{
		{ItemID: productID, Quantity: 2},
		{ItemID: productID, Quantity: 3},
	})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, 2, snapshots[0].Quantity)
	assert.Equal(t, 3, snapshots[1].Quantity)
}

func TestCheckLinesRejectsUnknownAndOutOfStock(t *testing.T) {
	productID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, Name: "Sneaker", CountInStock: 5, InStock: false},
	}}
	ledger := NewLedger(fake)

	_, err := ledger.CheckLines(context.Background(), []Line{
		{ItemID: primitive.NewObjectID(), Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ledger.CheckLines(context.Background(), []Line{
		{ItemID: productID, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock, "inStock=false blocks ordering regardless of count")
}

func TestAvailableSnapshot(t *testing.T) {
	productID := primitive.NewObjectID()
	addOnID := primitive.NewObjectID()
	fake := &fakeProducts{products: []*models.Product{
		{ID: productID, Name: "Sneaker", Price: 49, CountInStock: 5, InStock: true, Images: []string{"a.jpg", "b.jpg"}},
		{ID: primitive.NewObjectID(), Name: "Parent", AddOnItems: []models.AddOnItem{
			{ID: addOnID, Name: "Laces", Price: 5, Image: "laces.jpg", CountInStock: 0, InStock: false},
		}},
	}}
	ledger := NewLedger(fake)

	av, err := ledger.Available(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, "Sneaker", av.Name)
	assert.Equal(t, "a.jpg", av.Image)
	assert.Equal(t, 5, av.CountInStock)
	assert.True(t, av.InStock)

	av, err = ledger.Available(context.Background(), addOnID)
	require.NoError(t, err)
	assert.Equal(t, "Laces", av.Name)
	assert.Equal(t, 0, av.CountInStock)
	assert.False(t, av.InStock)

	_, err = ledger.Available(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}
