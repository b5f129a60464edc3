package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidInput = errors.New("invalid product input")

var (
	minPrice = decimal.NewFromInt(1)
	maxPrice = decimal.NewFromInt(100000)
)

type Input struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
}

// Validate menormalkan (trim) sekaligus cek batasan field.
func (in *Input) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if len(in.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", ErrInvalidInput)
	}
	if len(in.Name) > 120 {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}
	if len(in.Description) > 2000 {
		return fmt.Errorf("%w: description is too long", ErrInvalidInput)
	}
	if in.Price.LessThan(minPrice) {
		return fmt.Errorf("%w: price must be at least $1", ErrInvalidInput)
	}
	if in.Price.GreaterThan(maxPrice) {
		return fmt.Errorf("%w: price is too high", ErrInvalidInput)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.Category)
	}
	return nil
}
