package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

// AddItem accumulates quantity when the product is already in the cart. The
// product must exist; stock is not checked here, it is authoritative only at
// checkout.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity uint) ([]models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
		}
		return nil, err
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}

	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) SetQuantity(ctx context.Context, userID, productID uint, quantity uint) ([]models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	if err := s.Repo.SetCartQuantity(ctx, userID, productID, quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item not in cart: %w", ErrNotFound)
		}
		return nil, err
	}

	return s.Repo.GetCart(ctx, userID)
}

// RemoveItem is idempotent: removing an absent product is not an error.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) ([]models.CartItem, error) {
	if err := s.Repo.RemoveFromCart(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.Repo.GetCart(ctx, userID)
}

// Clear is idempotent; clearing a missing cart is a no-op.
func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}
