package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService keeps standing orders in step with field work. An order marks
// that a supplier / marketer pair has work open; the session engine drives its
// status and nothing else writes it.
type OrderService struct {
	orderRepo *repository.OrderRepository
	logger    *zap.Logger
}

func NewOrderService(orderRepo *repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{orderRepo: orderRepo, logger: logger}
}

// EnsureOrder returns the active order for the pair, creating a pending one
// when none exists. The second return reports whether a new order was created.
func (s *OrderService) EnsureOrder(ctx context.Context, req *domain.EnsureOrderRequest) (*domain.StandingOrder, bool, error) {
	existing, err := s.orderRepo.GetActiveByPair(ctx, req.SupplierID, req.MarketerID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("looking up active order: %w", err)
	}

	order := &domain.StandingOrder{
		SupplierID:      req.SupplierID,
		MarketerID:      req.MarketerID,
		Status:          domain.OrderStatusPending,
		AdditionalNotes: req.AdditionalNotes,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, false, fmt.Errorf("creating standing order: %w", err)
	}

	s.logger.Info("standing order created",
		zap.Uint("order_id", order.ID),
		zap.Uint("supplier_id", req.SupplierID))

	return order, true, nil
}

// MarkOnProcess moves the pair's active order to onprocess, creating one on
// the fly when a session starts without a prior order.
func (s *OrderService) MarkOnProcess(ctx context.Context, supplierID uint, marketerID *uint) error {
	order, err := s.orderRepo.GetActiveByPair(ctx, supplierID, marketerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		order = &domain.StandingOrder{
			SupplierID: supplierID,
			MarketerID: marketerID,
			Status:     domain.OrderStatusOnProcess,
		}
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("creating order for open session: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up active order: %w", err)
	}

	if order.Status == domain.OrderStatusOnProcess {
		return nil
	}
	order.Status = domain.OrderStatusOnProcess
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("updating order %d: %w", order.ID, err)
	}
	return nil
}

// MarkTerminal closes the pair's active order with the session's terminal
// status, appending the closing comment to the order notes. A missing active
// order is not an error; there is simply nothing to close.
func (s *OrderService) MarkTerminal(ctx context.Context, supplierID uint, marketerID *uint, status domain.OrderStatus, comment string) error {
	if status != domain.OrderStatusCompleted && status != domain.OrderStatusCancelled {
		return fmt.Errorf("status %s is not terminal: %w", status, ErrInvalidInput)
	}

	order, err := s.orderRepo.GetActiveByPair(ctx, supplierID, marketerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up active order: %w", err)
	}

	order.Status = status
	if comment != "" {
		if order.AdditionalNotes != "" {
			order.AdditionalNotes = strings.TrimSpace(order.AdditionalNotes) + "\n" + comment
		} else {
			order.AdditionalNotes = comment
		}
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("closing order %d: %w", order.ID, err)
	}
	return nil
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*domain.StandingOrder, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading order: %w", err)
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, status *domain.OrderStatus) ([]domain.StandingOrder, error) {
	orders, err := s.orderRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return orders, nil
}
