package models

import "github.com/shopspring/decimal"

// ProfilePatch lists the user fields that may change after registration.
// Nil fields are left alone.
type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *Address
}

func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil
}

func (p ProfilePatch) Apply(u User) User {
	u = u.Clone()
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		addr := *p.Address
		u.Address = &addr
	}
	return u
}

// ProductPatch lists the product fields an administrator may edit.
type ProductPatch struct {
	Name          *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Discount      *int
	Category      *Category
	Image         *string
	InStock       *bool
	Description   *string
}

func (p ProductPatch) Apply(prod Product) Product {
	prod = prod.Clone()
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		prod.OriginalPrice = &op
	}
	if p.Discount != nil {
		d := *p.Discount
		prod.Discount = &d
	}
	if p.Category != nil {
		prod.Category = *p.Category
	}
	if p.Image != nil {
		prod.Image = *p.Image
	}
	if p.InStock != nil {
		prod.InStock = *p.InStock
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	return prod
}
