package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/verdora/plantmarket/internal/models"
	"github.com/verdora/plantmarket/internal/repo"
	"github.com/verdora/plantmarket/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

func (s *CatalogService) CreateProduct(ctx context.Context, sellerID uint, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name required: %w", ErrValidation)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}

	prod := models.Product{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		Stock:       req.Stock,
	}
	return s.Repo.CreateProduct(ctx, &prod)
}

// PatchProduct applies the non-nil fields. Only the owning seller or an admin
// may edit.
func (s *CatalogService) PatchProduct(ctx context.Context, callerID uint, callerRole string, id uint, req transport.PatchProductRequest) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("price must be >= 0: %w", ErrValidation)
	}

	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SellerID != callerID && callerRole != "admin" {
		return nil, fmt.Errorf("not the product owner: %w", ErrConflict)
	}

	return s.Repo.PatchProduct(ctx, req, id)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, callerID uint, callerRole string, id uint) error {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if existing.SellerID != callerID && callerRole != "admin" {
		return fmt.Errorf("not the product owner: %w", ErrConflict)
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
