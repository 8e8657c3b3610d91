package repo

import (
	"errors"

	"gorm.io/gorm"
)

// ErrStockConflict is returned when the conditional stock decrement touches
// zero rows, meaning the remaining stock no longer covers the request.
var ErrStockConflict = errors.New("stock conflict")

// ErrCartEmpty is returned by CheckoutCart when the owner has no cart rows.
var ErrCartEmpty = errors.New("cart empty")

type GormRepo struct {
	DB *gorm.DB
}
