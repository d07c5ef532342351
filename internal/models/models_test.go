package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// roundTrip checks that decoding v's JSON and encoding it again gives the
// same bytes, and returns the decoded value.
func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()

	first, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded T
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	second, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("Marshal decoded: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("Round trip changed value:\n first: %s\nsecond: %s", first, second)
	}
	return decoded
}

func sampleProduct() Product {
	op := decimal.NewFromInt(449)
	discount := 11
	return Product{
		ID:            "4",
		Name:          "Sony WH-1000XM5",
		Price:         decimal.RequireFromString("399.99"),
		OriginalPrice: &op,
		Discount:      &discount,
		Category:      CategoryHeadphones,
		Rating:        4.6,
		InStock:       true,
	}
}

func TestUserRoundTrip(t *testing.T) {
	u := User{
		ID:        "u1",
		Email:     "jane@example.com",
		Password:  "secret",
		Name:      "Jane",
		Phone:     "555-0100",
		Address:   &Address{Street: "1 Main", City: "Pune", State: "MH", Pincode: "411001"},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	got := roundTrip(t, u)
	if got.Address == nil || *got.Address != *u.Address {
		t.Errorf("Expected address %+v, got %+v", u.Address, got.Address)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("Expected createdAt %v, got %v", u.CreatedAt, got.CreatedAt)
	}
}

func TestCartRoundTrip(t *testing.T) {
	items := []CartItem{{Product: sampleProduct(), Quantity: 2}}

	got := roundTrip(t, items)
	if len(got) != 1 || got[0].Quantity != 2 {
		t.Fatalf("Expected one item with quantity 2, got %+v", got)
	}
	if !got[0].Product.Price.Equal(items[0].Product.Price) {
		t.Errorf("Expected price %s, got %s", items[0].Product.Price, got[0].Product.Price)
	}
}

func TestOrderRoundTrip(t *testing.T) {
	o := Order{
		ID:            "o1",
		UserID:        "u1",
		Items:         []CartItem{{Product: sampleProduct(), Quantity: 1}},
		Total:         decimal.RequireFromString("404.99"),
		PaymentMethod: PaymentCOD,
		Status:        OrderStatusShipped,
		CreatedAt:     time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
		DeliveryDate:  "2026-05-14",
		Address:       Address{Street: "1 Main", City: "Pune", State: "MH", Pincode: "411001"},
	}

	got := roundTrip(t, o)
	if got.Status != OrderStatusShipped || got.DeliveryDate != "2026-05-14" {
		t.Errorf("Expected shipped with delivery date, got %s %q", got.Status, got.DeliveryDate)
	}
	if !got.Total.Equal(o.Total) {
		t.Errorf("Expected total %s, got %s", o.Total, got.Total)
	}
}

func TestPricesEncodeAsNumbers(t *testing.T) {
	data, err := json.Marshal(sampleProduct())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"price":399.99`) {
		t.Errorf("Expected unquoted price, got %s", data)
	}

	var p Product
	if err := json.Unmarshal([]byte(`{"id":"1","price":"12.5"}`), &p); err != nil {
		t.Fatalf("Quoted price should still decode: %v", err)
	}
	if !p.Price.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Expected 12.5, got %s", p.Price)
	}
}

func TestCloneItemsIsDeep(t *testing.T) {
	items := []CartItem{{Product: sampleProduct(), Quantity: 1}}

	cp := CloneItems(items)
	*cp[0].Product.Discount = 50
	cp[0].Quantity = 7

	if *items[0].Product.Discount != 11 || items[0].Quantity != 1 {
		t.Errorf("Clone shares state with the original: %+v", items[0])
	}
	if CloneItems(nil) != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestSumItems(t *testing.T) {
	items := []CartItem{
		{Product: Product{ID: "a", Price: decimal.NewFromInt(100)}, Quantity: 2},
		{Product: Product{ID: "b", Price: decimal.NewFromInt(50)}, Quantity: 1},
	}
	if got := SumItems(items); !got.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected 250, got %s", got)
	}
	if !SumItems(nil).IsZero() {
		t.Error("Empty sum should be zero")
	}
}

func TestStatusTransitions(t *testing.T) {
	all := []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	allowed := map[[2]OrderStatus]bool{
		{OrderStatusPending, OrderStatusConfirmed}:   true,
		{OrderStatusPending, OrderStatusCancelled}:   true,
		{OrderStatusConfirmed, OrderStatusShipped}:   true,
		{OrderStatusConfirmed, OrderStatusCancelled}: true,
		{OrderStatusShipped, OrderStatusDelivered}:   true,
		{OrderStatusShipped, OrderStatusCancelled}:   true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]OrderStatus{from, to}]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}

	for _, s := range all {
		if s.Terminal() != (s == OrderStatusDelivered || s == OrderStatusCancelled) {
			t.Errorf("Unexpected Terminal() for %s", s)
		}
	}
	if OrderStatus("lost").Valid() {
		t.Error("Unknown status should be invalid")
	}
}

func TestProfilePatch(t *testing.T) {
	u := User{ID: "u1", Email: "jane@example.com", Password: "pw", Name: "Jane"}
	if !(ProfilePatch{}).Empty() {
		t.Error("Zero patch should be empty")
	}

	phone := "555"
	addr := Address{City: "Pune"}
	got := ProfilePatch{Phone: &phone, Address: &addr}.Apply(u)

	if got.Name != "Jane" || got.Phone != "555" || got.Address.City != "Pune" {
		t.Errorf("Unexpected patched user %+v", got)
	}
	if got.Email != u.Email || got.Password != u.Password || got.ID != u.ID {
		t.Error("Patch must not touch identity fields")
	}

	addr.City = "Mumbai"
	if got.Address.City != "Pune" {
		t.Error("Patched address should be a copy")
	}
}

func TestProductPatch(t *testing.T) {
	p := sampleProduct()
	name := "Sony XM5"
	cat := CategoryAccessories

	got := ProductPatch{Name: &name, Category: &cat}.Apply(p)
	if got.Name != name || got.Category != cat {
		t.Errorf("Unexpected patched product %+v", got)
	}
	if !got.Price.Equal(p.Price) || *got.Discount != 11 {
		t.Error("Unpatched fields should be unchanged")
	}
}
