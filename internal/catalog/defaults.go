package catalog

import (
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

const imageQuery = "?auto=compress&cs=tinysrgb&w=500"

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pricePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

// Defaults returns the bundled product list shown until an administrator
// edits the catalog.
func Defaults() []models.Product {
	return []models.Product{
		{
			ID:            "1",
			Name:          `MacBook Pro 16" M3 Max`,
			Price:         price(2499),
			OriginalPrice: pricePtr(2799),
			Discount:      intPtr(11),
			Category:      models.CategoryLaptops,
			Image:         "https://images.pexels.com/photos/812264/pexels-photo-812264.jpeg" + imageQuery,
			Rating:        4.8,
			InStock:       true,
			Description:   "Powerful MacBook Pro with M3 Max chip for professional workflows",
		},
		{
			ID:            "2",
			Name:          "Dell XPS 13 Plus",
			Price:         price(1299),
			OriginalPrice: pricePtr(1499),
			Discount:      intPtr(13),
			Category:      models.CategoryLaptops,
			Image:         "https://images.pexels.com/photos/18105/pexels-photo.jpg" + imageQuery,
			Rating:        4.5,
			InStock:       true,
			Description:   "Ultra-thin laptop with premium design and performance",
		},
		{
			ID:          "3",
			Name:        "Gaming Laptop ASUS ROG",
			Price:       price(1899),
			Category:    models.CategoryLaptops,
			Image:       "https://images.pexels.com/photos/777001/pexels-photo-777001.jpeg" + imageQuery,
			Rating:      4.7,
			InStock:     true,
			Description: "High-performance gaming laptop with RGB lighting",
		},
		{
			ID:            "4",
			Name:          "Sony WH-1000XM5",
			Price:         price(399),
			OriginalPrice: pricePtr(449),
			Discount:      intPtr(11),
			Category:      models.CategoryHeadphones,
			Image:         "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg" + imageQuery,
			Rating:        4.6,
			InStock:       true,
			Description:   "Premium wireless noise-canceling headphones",
		},
		{
			ID:          "5",
			Name:        "AirPods Pro 2nd Gen",
			Price:       price(249),
			Category:    models.CategoryHeadphones,
			Image:       "https://images.pexels.com/photos/8867482/pexels-photo-8867482.jpeg" + imageQuery,
			Rating:      4.4,
			InStock:     true,
			Description: "Advanced wireless earbuds with active noise cancellation",
		},
		{
			ID:            "6",
			Name:          "Wireless Mouse Pro",
			Price:         price(79),
			OriginalPrice: pricePtr(99),
			Discount:      intPtr(20),
			Category:      models.CategoryAccessories,
			Image:         "https://images.pexels.com/photos/2115256/pexels-photo-2115256.jpeg" + imageQuery,
			Rating:        4.2,
			InStock:       true,
			Description:   "Ergonomic wireless mouse with precision tracking",
		},
		{
			ID:          "7",
			Name:        "Mechanical Keyboard RGB",
			Price:       price(159),
			Category:    models.CategoryAccessories,
			Image:       "https://images.pexels.com/photos/1772123/pexels-photo-1772123.jpeg" + imageQuery,
			Rating:      4.5,
			InStock:     true,
			Description: "Premium mechanical keyboard with RGB backlighting",
		},
		{
			ID:          "8",
			Name:        "USB-C Hub 7-in-1",
			Price:       price(49),
			Category:    models.CategoryAccessories,
			Image:       "https://images.pexels.com/photos/163100/circuit-circuit-board-resistor-computer-163100.jpeg" + imageQuery,
			Rating:      4.3,
			InStock:     true,
			Description: "Versatile USB-C hub with multiple ports and fast charging",
		},
	}
}
