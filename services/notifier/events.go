package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Sheshri07/Sheshri/models"
)

// Topics published by the order and payment controllers. The dispatcher is
// the only subscriber; routing through the bus keeps controllers free of
// fan-out concerns.
const (
	topicOrderPlaced     = "order:placed"
	topicOrderCancelled  = "order:cancelled"
	topicLowStock        = "order:low_stock"
	topicReturnRequested = "order:return_requested"
	topicPaymentSuccess  = "payment:success"
)

const dispatchTimeout = 10 * time.Second

var bus = EventBus.New()

// Init wires the dispatcher onto the event bus. Publishing before Init is a
// no-op, which keeps component tests independent of the database.
func Init(d *Dispatcher) {
	_ = bus.Subscribe(topicOrderPlaced, d.handleOrderPlaced)
	_ = bus.Subscribe(topicOrderCancelled, d.handleOrderCancelled)
	_ = bus.Subscribe(topicLowStock, d.handleLowStock)
	_ = bus.Subscribe(topicReturnRequested, d.handleReturnRequested)
	_ = bus.Subscribe(topicPaymentSuccess, d.handlePaymentSuccess)
}

// OrderPlaced announces a confirmed new order to the owner and to admins.
// For online payments this fires on payment confirmation, not on creation.
func OrderPlaced(order models.Order) {
	bus.Publish(topicOrderPlaced, order)
}

func OrderCancelled(order models.Order) {
	bus.Publish(topicOrderCancelled, order)
}

// LowStock announces that a reserve left the item at or below the threshold.
func LowStock(itemName string, itemID primitive.ObjectID, remaining int) {
	bus.Publish(topicLowStock, itemName, itemID, remaining)
}

func ReturnRequested(order models.Order) {
	bus.Publish(topicReturnRequested, order)
}

func PaymentSuccess(order models.Order) {
	bus.Publish(topicPaymentSuccess, order)
}

func (d *Dispatcher) handleOrderPlaced(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	orderID := order.ID
	link := "/orders/" + orderID.Hex()

	d.NotifyUser(ctx, order.UserID, Note{
		Title:   "Order placed",
		Message: fmt.Sprintf("Your order #%s has been placed successfully.", orderID.Hex()),
		Type:    models.NotificationTypeOrder,
		Link:    link,
		OrderID: &orderID,
	})
	d.NotifyAdmins(ctx, models.OrderAlerts, Note{
		Title:   "New order received",
		Message: fmt.Sprintf("Order #%s for %.2f was placed.", orderID.Hex(), order.TotalPrice),
		Type:    models.NotificationTypeOrder,
		Link:    link,
		OrderID: &orderID,
	})
}

func (d *Dispatcher) handleOrderCancelled(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	orderID := order.ID
	link := "/orders/" + orderID.Hex()

	d.NotifyUser(ctx, order.UserID, Note{
		Title:   "Order cancelled",
		Message: fmt.Sprintf("Your order #%s has been cancelled.", orderID.Hex()),
		Type:    models.NotificationTypeOrder,
		Link:    link,
		OrderID: &orderID,
	})
	d.NotifyAdmins(ctx, models.OrderAlerts, Note{
		Title:   "Order cancelled",
		Message: fmt.Sprintf("Order #%s was cancelled.", orderID.Hex()),
		Type:    models.NotificationTypeOrder,
		Link:    link,
		OrderID: &orderID,
	})
}

func (d *Dispatcher) handleLowStock(itemName string, itemID primitive.ObjectID, remaining int) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	d.NotifyAdmins(ctx, models.LowStockAlerts, Note{
		Title:   "Low stock alert",
		Message: fmt.Sprintf("%q is down to %d units.", itemName, remaining),
		Type:    models.NotificationTypeStock,
		Link:    "/products/" + itemID.Hex(),
	})
}

func (d *Dispatcher) handleReturnRequested(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	orderID := order.ID
	d.NotifyAdmins(ctx, models.CustomerAlerts, Note{
		Title:   "Return requested",
		Message: fmt.Sprintf("A return was requested for order #%s.", orderID.Hex()),
		Type:    models.NotificationTypeReturn,
		Link:    "/orders/" + orderID.Hex(),
		OrderID: &orderID,
	})
}

func (d *Dispatcher) handlePaymentSuccess(order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	orderID := order.ID
	d.NotifyUser(ctx, order.UserID, Note{
		Title:   "Payment received",
		Message: fmt.Sprintf("Payment for order #%s was received successfully.", orderID.Hex()),
		Type:    models.NotificationTypePayment,
		Link:    "/orders/" + orderID.Hex(),
		OrderID: &orderID,
	})
}
