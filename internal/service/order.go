package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/repo"
)

// IdempotencyStore lets a checkout claim a client-supplied key exactly once.
// A nil store disables the guard.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
}

type OrderService struct {
	Repo     *repo.GormRepo
	Pricing  PricingPolicy
	Currency string
	Idem     IdempotencyStore
}

func (s *OrderService) pricing() PricingPolicy {
	if s.Pricing == nil {
		return ZeroPricing{}
	}
	return s.Pricing
}

func (s *OrderService) currency() string {
	if s.Currency == "" {
		return "INR"
	}
	return s.Currency
}

// CreateOrderFromCart turns the owner's cart into a pending order: stock is
// validated and decremented, item name/price/seller are captured, totals are
// computed from the pricing policy, and the cart is cleared — all in one
// transaction, so a failure anywhere leaves nothing behind.
func (s *OrderService) CreateOrderFromCart(ctx context.Context, userID uint, addr *models.Address, idemKey string) (*models.Order, error) {
	if s.Idem != nil && idemKey != "" {
		ok, err := s.Idem.Claim(ctx, fmt.Sprintf("checkout:%d:%s", userID, idemKey))
		if err != nil {
			return nil, fmt.Errorf("idempotency claim: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("duplicate checkout: %w", ErrConflict)
		}
	}

	shipping := models.Address{}
	if addr != nil {
		shipping = *addr
	}

	order := &models.Order{
		UserID:          userID,
		Currency:        s.currency(),
		Status:          models.StatusPending,
		ShippingAddress: shipping,
		CreatedAt:       time.Now().Unix(),
	}

	if err := s.Repo.CheckoutCart(ctx, order, s.pricing().Quote); err != nil {
		var shortage *repo.StockShortage
		switch {
		case errors.Is(err, repo.ErrCartEmpty):
			return nil, ErrEmptyCart
		case errors.As(err, &shortage):
			return nil, &InsufficientStockError{
				ProductID: shortage.ProductID,
				Name:      shortage.Name,
				Requested: shortage.Requested,
				Available: shortage.Available,
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("cart references a missing product: %w", ErrNotFound)
		default:
			return nil, err
		}
	}

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID uint) ([]models.Order, error) {
	return s.Repo.ListOrdersBySeller(ctx, sellerID)
}

func (s *OrderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListAllOrders(ctx)
}

// UpdateStatus enforces the forward-only lifecycle. Moving to paid stamps the
// payment when the order has none yet.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, next models.Status) (*models.Order, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, ErrValidation)
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if !models.CanTransition(order.Status, next) {
		return nil, fmt.Errorf("cannot move order from %s to %s: %w", order.Status, next, ErrConflict)
	}

	order.Status = next
	if next == models.StatusPaid && order.Payment.ReferenceID == "" {
		now := time.Now().UTC()
		order.Payment = models.Payment{
			Provider:    "manual",
			ReferenceID: uuid.NewString(),
			PaidAt:      &now,
		}
	}

	if err := s.Repo.UpdateOrderStatus(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}
