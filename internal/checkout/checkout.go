// Package checkout turns the cart into an order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrProfileIncomplete    = errors.New("profile incomplete")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoSession            = errors.New("checkout requires a logged-in user")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// DefaultCODFee is the cash-on-delivery surcharge.
var DefaultCODFee = decimal.NewFromInt(5)

// ProfileIncompleteError lists the contact and address fields that are
// blank. It matches ErrProfileIncomplete under errors.Is.
type ProfileIncompleteError struct {
	Missing []string
}

func (e *ProfileIncompleteError) Error() string {
	return fmt.Sprintf("%v: missing %s", ErrProfileIncomplete, strings.Join(e.Missing, ", "))
}

func (e *ProfileIncompleteError) Is(target error) bool {
	return target == ErrProfileIncomplete
}

// Cart is the part of the cart the orchestrator needs.
type Cart interface {
	Items() []models.CartItem
	Clear(ctx context.Context)
}

// Ledger records placed orders.
type Ledger interface {
	Append(ctx context.Context, order models.Order) error
}

// Request carries the contact details entered at checkout. They may differ
// from the stored profile.
type Request struct {
	User          *models.User
	Name          string
	Phone         string
	Address       models.Address
	PaymentMethod models.PaymentMethod
}

// RequestFromProfile fills a request from the user's saved profile.
func RequestFromProfile(user *models.User, method models.PaymentMethod) Request {
	req := Request{User: user, PaymentMethod: method}
	if user == nil {
		return req
	}
	req.Name = user.Name
	req.Phone = user.Phone
	if user.Address != nil {
		req.Address = *user.Address
	}
	return req
}

func (r Request) missing() []string {
	fields := []struct {
		name, value string
	}{
		{"name", r.Name},
		{"phone", r.Phone},
		{"street", r.Address.Street},
		{"city", r.Address.City},
		{"state", r.Address.State},
		{"pincode", r.Address.Pincode},
	}

	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

type Orchestrator struct {
	ledger Ledger
	codFee decimal.Decimal
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// New builds an orchestrator that appends to ledger and charges codFee on
// cash-on-delivery orders.
func New(ledger Ledger, codFee decimal.Decimal, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		ledger: ledger,
		codFee: codFee,
		logger: logger.Named("checkout"),
		now:    time.Now,
		newID:  models.NewID,
	}
}

// Total is the order total for items paid with method.
func (o *Orchestrator) Total(items []models.CartItem, method models.PaymentMethod) decimal.Decimal {
	total := models.SumItems(items)
	if method == models.PaymentCOD {
		total = total.Add(o.codFee)
	}
	return total
}

// Checkout validates req, records a pending order built from a snapshot of
// the cart, then empties the cart. The cart is left as it was on any
// error.
func (o *Orchestrator) Checkout(ctx context.Context, cart Cart, req Request) (*models.Order, error) {
	if req.User == nil {
		return nil, ErrNoSession
	}
	if missing := req.missing(); len(missing) > 0 {
		return nil, &ProfileIncompleteError{Missing: missing}
	}
	if !req.PaymentMethod.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	items := cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		ID:            o.newID(),
		UserID:        req.User.ID,
		Items:         models.CloneItems(items),
		Total:         o.Total(items, req.PaymentMethod),
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		CreatedAt:     o.now(),
		Address:       req.Address,
	}

	// Order first, then cart.
	if err := o.ledger.Append(ctx, order); err != nil {
		return nil, fmt.Errorf("record order: %w", err)
	}
	cart.Clear(ctx)

	o.logger.Info("checkout complete",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("items", len(order.Items)))

	placed := order.Clone()
	return &placed, nil
}
