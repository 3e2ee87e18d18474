package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/repository"
	"gorm.io/gorm"
)

// CatalogService exposes the read-only reference data the planning screens
// need: suppliers, registry users and the collection mode codes.
type CatalogService struct {
	supplierRepo *repository.SupplierRepository
	userRepo     *repository.UserRepository
}

func NewCatalogService(supplierRepo *repository.SupplierRepository, userRepo *repository.UserRepository) *CatalogService {
	return &CatalogService{supplierRepo: supplierRepo, userRepo: userRepo}
}

func (s *CatalogService) GetSupplier(ctx context.Context, id uint) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading supplier: %w", err)
	}
	return supplier, nil
}

func (s *CatalogService) ListSuppliers(ctx context.Context, activeOnly bool) ([]domain.Supplier, error) {
	suppliers, err := s.supplierRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *CatalogService) ListUsers(ctx context.Context, role *domain.UserRole) ([]domain.User, error) {
	var (
		users []domain.User
		err   error
	)
	if role != nil {
		users, err = s.userRepo.ListByRole(ctx, *role)
	} else {
		users, err = s.userRepo.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// ListCollectionModes returns the two operating modes with the resource kind
// each one requires
func (s *CatalogService) ListCollectionModes(_ context.Context) []domain.CollectionModeDTO {
	return []domain.CollectionModeDTO{
		{Code: domain.ModeInstore, Name: domain.ModeInstore.DisplayName(), RequiredResource: "coordinator"},
		{Code: domain.ModeRegular, Name: domain.ModeRegular.DisplayName(), RequiredResource: "driver"},
	}
}
