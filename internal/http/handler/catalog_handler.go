package handler

import (
	"net/http"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/mapper"
	"github.com/andemamma/collection-api/internal/service"
	"go.uber.org/zap"
)

// CatalogHandler serves the read-only reference data screens
type CatalogHandler struct {
	catalogService *service.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// @Summary List suppliers
// @Tags Catalog
// @Produce json
// @Param includeInactive query bool false "Include inactive suppliers"
// @Success 200 {array} domain.SupplierDTO
// @Security BearerAuth
// @Router /suppliers [get]
func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("includeInactive") != "true"

	suppliers, err := h.catalogService.ListSuppliers(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("supplier list failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSupplierDTOs(suppliers))
}

// @Summary Get a supplier
// @Tags Catalog
// @Produce json
// @Param id path int true "Supplier ID"
// @Success 200 {object} domain.SupplierDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /suppliers/{id} [get]
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	supplier, err := h.catalogService.GetSupplier(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSupplierDTO(supplier))
}

// @Summary List registry users
// @Tags Catalog
// @Produce json
// @Param role query string false "Filter by role (coordinator, driver, marketer, planner, admin)"
// @Success 200 {array} domain.UserDTO
// @Security BearerAuth
// @Router /users [get]
func (h *CatalogHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role *domain.UserRole
	if s := r.URL.Query().Get("role"); s != "" {
		parsed := domain.UserRole(s)
		role = &parsed
	}

	users, err := h.catalogService.ListUsers(r.Context(), role)
	if err != nil {
		h.logger.Error("user list failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToUserDTOs(users))
}

// @Summary List collection modes
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.CollectionModeDTO
// @Security BearerAuth
// @Router /collection-modes [get]
func (h *CatalogHandler) ListCollectionModes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.catalogService.ListCollectionModes(r.Context()))
}
