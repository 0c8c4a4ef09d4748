package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/shophub/internal/events"
	"github.com/georgemunganga/shophub/internal/modules/cart"
)

const currency = "USD"

var ErrEmptyCart = errors.New("cart is empty")

// Service defines the demo checkout.
type Service interface {
	// Quote returns the cart with shipping and grand total.
	Quote(ctx context.Context, sessionID string) (Quote, error)
	// PlaceOrder charges the demo gateway, empties the cart and returns the order.
	PlaceOrder(ctx context.Context, sessionID string) (*Order, error)
}

type service struct {
	cart      cart.Service
	gateway   Gateway
	publisher events.Publisher
	topic     string
	log       logrus.FieldLogger
}

// NewService creates a checkout service. Orders are announced on topic.
func NewService(carts cart.Service, gateway Gateway, publisher events.Publisher, topic string, log logrus.FieldLogger) Service {
	if topic == "" {
		topic = OrderPlacedTopic
	}
	return &service{
		cart:      carts,
		gateway:   gateway,
		publisher: publisher,
		topic:     topic,
		log:       log.WithField("module", "checkout"),
	}
}

func (s *service) Quote(ctx context.Context, sessionID string) (Quote, error) {
	view, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return Quote{}, err
	}
	return Quote{View: view, Empty: len(view.Items) == 0}, nil
}

func (s *service) PlaceOrder(ctx context.Context, sessionID string) (*Order, error) {
	var o *Order
	var items int
	// the cart is held until the charge settles
	err := s.cart.Checkout(ctx, sessionID, func(view cart.View) error {
		if len(view.Items) == 0 {
			return ErrEmptyCart
		}
		order := &Order{
			Number:    generateOrderNumber(),
			SessionID: sessionID,
			Items:     view.Items,
			Subtotal:  view.Subtotal,
			Shipping:  view.Shipping,
			Total:     view.GrandTotal,
			Currency:  currency,
		}
		receipt, err := s.gateway.Charge(ctx, ChargeRequest{OrderNumber: order.Number, Amount: order.Total, Currency: order.Currency})
		if err != nil {
			return fmt.Errorf("charge order %s: %w", order.Number, err)
		}
		order.ProviderRef = receipt.ProviderRef
		order.PlacedAt = time.Now().UTC()
		o, items = order, view.ItemCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, s.topic, o.Number, o); err != nil {
		s.log.WithError(err).WithField("order", o.Number).Error("could not publish order event")
	}
	s.log.WithFields(logrus.Fields{
		"order":   o.Number,
		"session": sessionID,
		"total":   o.Total,
		"items":   items,
	}).Info("order placed")
	return o, nil
}

func generateOrderNumber() string {
	date := time.Now().UTC().Format("20060102")
	suffix := strings.ToUpper(uuid.New().String()[:8])
	return fmt.Sprintf("ORD-%s-%s", date, suffix)
}
