package handler

import (
	"encoding/json"
	"net/http"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/mapper"
	"github.com/andemamma/collection-api/internal/service"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// @Summary Ensure a standing order
// @Description Return the active order for the supplier/marketer pair, creating a pending one when none exists
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body domain.EnsureOrderRequest true "Order"
// @Success 200 {object} domain.StandingOrderDTO
// @Success 201 {object} domain.StandingOrderDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /orders [post]
func (h *OrderHandler) Ensure(w http.ResponseWriter, r *http.Request) {
	var req domain.EnsureOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	order, created, err := h.orderService.EnsureOrder(r.Context(), &req)
	if err != nil {
		h.logger.Error("ensure order failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, mapper.ToStandingOrderDTO(order))
}

// @Summary List standing orders
// @Tags Orders
// @Produce json
// @Param status query string false "Filter by status (pending, onprocess, completed, cancelled)"
// @Success 200 {array} domain.StandingOrderDTO
// @Security BearerAuth
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		parsed := domain.OrderStatus(s)
		if !parsed.IsValid() {
			respondWithError(w, http.StatusBadRequest, "unknown status "+s)
			return
		}
		status = &parsed
	}

	orders, err := h.orderService.List(r.Context(), status)
	if err != nil {
		h.logger.Error("order list failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToStandingOrderDTOs(orders))
}

// @Summary Get a standing order
// @Tags Orders
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} domain.StandingOrderDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.orderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToStandingOrderDTO(order))
}
