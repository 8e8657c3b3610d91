package service

import "errors"

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrEmptyCart  = errors.New("cart is empty")
	ErrConflict   = errors.New("conflict") // 409
)

// InsufficientStockError carries what the caller asked for and what was left,
// so the handler can name the offending product.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Requested uint
	Available uint
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for " + e.Name
}

func IsInsufficientStock(err error) (*InsufficientStockError, bool) {
	var se *InsufficientStockError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
