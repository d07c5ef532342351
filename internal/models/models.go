package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Store payloads carry prices as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Category string

const (
	CategoryLaptops     Category = "laptops"
	CategoryHeadphones  Category = "headphones"
	CategoryAccessories Category = "accessories"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryLaptops, CategoryHeadphones, CategoryAccessories:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCOD
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Address   *Address  `json:"address,omitempty"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	if u.Address != nil {
		addr := *u.Address
		u.Address = &addr
	}
	return u
}

type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Discount      *int             `json:"discount,omitempty"`
	Category      Category         `json:"category"`
	Image         string           `json:"image"`
	Rating        float64          `json:"rating"`
	Reviews       int              `json:"reviews"`
	InStock       bool             `json:"inStock"`
	Description   string           `json:"description"`
}

func (p Product) Clone() Product {
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}
	if p.Discount != nil {
		d := *p.Discount
		p.Discount = &d
	}
	return p
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CloneItems deep-copies a list of cart items.
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	out := make([]CartItem, len(items))
	for i, item := range items {
		out[i] = CartItem{Product: item.Product.Clone(), Quantity: item.Quantity}
	}
	return out
}

// SumItems is Σ price×quantity over items.
func SumItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Items         []CartItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	DeliveryDate  string          `json:"deliveryDate,omitempty"`
	Address       Address         `json:"address"`
}

func (o Order) Clone() Order {
	o.Items = CloneItems(o.Items)
	return o
}

// DeliveryDateLayout is the calendar-day format of Order.DeliveryDate.
const DeliveryDateLayout = "2006-01-02"
