package catalog

import (
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
)

type Product struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Price            money.Amount `json:"price"`
	ShortDescription string       `json:"short_description,omitempty"`
	Usage            string       `json:"usage,omitempty"`
	Warnings         string       `json:"warnings,omitempty"`
	Image            string       `json:"image,omitempty"` // relative path, e.g. /api/static/products/x.jpg
}

// Summary is the product view embedded in a priced cart line.
type Summary struct {
	ID               int64        `json:"id"`
	Name             string       `json:"name"`
	Slug             string       `json:"slug"`
	Price            money.Amount `json:"price"`
	Image            string       `json:"image,omitempty"`
	ShortDescription string       `json:"short_description,omitempty"`
}

func (p Product) Summary() Summary {
	return Summary{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		Price:            p.Price,
		Image:            p.Image,
		ShortDescription: p.ShortDescription,
	}
}
