package catalog

import (
	"errors"
	"strings"

	"ministore/core/utils"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrOutOfStock = errors.New("product out of stock")
)

type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryElectronics Category = "electronics"
	CategoryBooks       Category = "books"
)

func (c Category) Valid() bool {
	return c == CategoryClothing || c == CategoryElectronics || c == CategoryBooks
}

type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Rating      float64  `json:"rating"`
	Stock       int      `json:"stock"`
}

// Draft is the admin input for a new product. A nil Stock defaults to 10.
type Draft struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	Category    Category `json:"category"`
	Rating      float64  `json:"rating"`
	Stock       *int     `json:"stock"`
}

const defaultStock = 10

// Validate reports field-level problems of a product.
func (p Product) Validate() error {
	errs := utils.ValidationErrors{}
	errs.Add("name", utils.ValidateRequired("Name", p.Name))
	if p.Price < 0 {
		errs.Add("price", &utils.FieldError{Code: "price.negative", Message: "Price must not be negative."})
	}
	if !p.Category.Valid() {
		errs.Add("category", &utils.FieldError{Code: "category.invalid", Message: "Category must be clothing, electronics or books."})
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs.Add("rating", &utils.FieldError{Code: "rating.range", Message: "Rating must be between 0 and 5."})
	}
	if p.Stock < 0 {
		errs.Add("stock", &utils.FieldError{Code: "stock.negative", Message: "Stock must not be negative."})
	}
	return errs.Err()
}

func normalize(p Product) Product {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Image = strings.TrimSpace(p.Image)
	p.Category = Category(strings.ToLower(strings.TrimSpace(string(p.Category))))
	p.Rating = clipRating(p.Rating)
	return p
}

// clipRating keeps ratings inside [0, 5].
func clipRating(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > maxRating:
		return maxRating
	}
	return r
}
