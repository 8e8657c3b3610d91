package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/models"
)

// StockShortage reports the first cart line whose quantity exceeds the
// available stock. It aborts the checkout before any write happens.
type StockShortage struct {
	ProductID uint
	Name      string
	Requested uint
	Available uint
}

func (e *StockShortage) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// CheckoutCart converts a user's cart rows into a persisted order inside a
// single transaction: validate stock, snapshot the items, create the order,
// decrement stock with the conditional update, clear the cart. Any failure
// rolls the whole thing back. quote maps the computed subtotal to tax and
// shipping fee; nil keeps the zero values already on the order.
func (r *GormRepo) CheckoutCart(ctx context.Context, order *models.Order, quote func(subtotal float64) (tax, fee float64)) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Where("user_id = ?", order.UserID).Order("id ASC").Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrCartEmpty
		}

		// All-or-nothing validation before the first write.
		var subtotal float64
		orderItems := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				return err
			}
			if p.Stock < it.Quantity {
				return &StockShortage{
					ProductID: p.ID,
					Name:      p.Name,
					Requested: it.Quantity,
					Available: p.Stock,
				}
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID: p.ID,
				SellerID:  p.SellerID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  it.Quantity,
			})
			subtotal += p.Price * float64(it.Quantity)
		}

		order.Items = orderItems
		order.Subtotal = subtotal
		if quote != nil {
			order.Tax, order.ShippingFee = quote(subtotal)
		}
		order.Total = order.Subtotal + order.Tax + order.ShippingFee

		if err := tx.Create(order).Error; err != nil {
			return err
		}

		// Second guard on purpose: the read above is not locked, so a
		// competing checkout may have consumed the stock in between. The
		// conditional decrement is what actually prevents oversell.
		for _, it := range items {
			if err := decrementStock(tx, it.ProductID, it.Quantity); err != nil {
				if errors.Is(err, ErrStockConflict) {
					var p models.Product
					if ferr := tx.First(&p, it.ProductID).Error; ferr == nil {
						return &StockShortage{
							ProductID: p.ID,
							Name:      p.Name,
							Requested: it.Quantity,
							Available: p.Stock,
						}
					}
				}
				return err
			}
		}

		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersBySeller returns orders containing at least one item whose
// captured seller matches. Seller scoping uses the snapshot, not the current
// catalog owner.
func (r *GormRepo) ListOrdersBySeller(ctx context.Context, sellerID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("id IN (?)", r.DB.Model(&models.OrderItem{}).
			Select("order_id").
			Where("seller_id = ?", sellerID)).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus persists the new status and payment fields. Items,
// totals and address stay untouched.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":           order.Status,
			"pay_provider":     order.Payment.Provider,
			"pay_reference_id": order.Payment.ReferenceID,
			"pay_paid_at":      order.Payment.PaidAt,
		}).Error
}
