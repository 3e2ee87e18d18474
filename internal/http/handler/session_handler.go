package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/mapper"
	"github.com/andemamma/collection-api/internal/repository"
	"github.com/andemamma/collection-api/internal/service"
	"go.uber.org/zap"
)

type SessionHandler struct {
	sessionService *service.SessionService
	logger         *zap.Logger
}

func NewSessionHandler(sessionService *service.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

// @Summary Open a collection session
// @Description Open a session against a supplier. Sessions start in onprocess; an unknown coordinator is dropped with a warning rather than failing the request.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body domain.CreateSessionRequest true "Session"
// @Success 201 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.sessionService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("session creation failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToSessionDTO(session))
}

// @Summary List collection sessions
// @Description List sessions. Without a date range the window defaults to the current and previous calendar month.
// @Tags Sessions
// @Produce json
// @Param status query string false "Filter by status (scheduled, onprocess, completed, cancelled)"
// @Param supplierId query int false "Filter by supplier"
// @Param from query string false "Estimated start from (YYYY-MM-DD)"
// @Param to query string false "Estimated start to (YYYY-MM-DD)"
// @Success 200 {array} domain.SessionDTO
// @Security BearerAuth
// @Router /sessions [get]
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := repository.SessionFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.SessionStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "unknown status "+s)
			return
		}
		filters.Status = &status
	}
	if sid := r.URL.Query().Get("supplierId"); sid != "" {
		id, err := strconv.ParseUint(sid, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "supplierId must be numeric")
			return
		}
		supplierID := uint(id)
		filters.SupplierID = &supplierID
	}
	if f := r.URL.Query().Get("from"); f != "" {
		t, err := time.ParseInLocation("2006-01-02", f, time.UTC)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "from must be a YYYY-MM-DD date")
			return
		}
		filters.From = &t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.UTC)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "to must be a YYYY-MM-DD date")
			return
		}
		filters.To = &t
	}

	sessions, err := h.sessionService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("session list failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSessionDTOs(sessions))
}

// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} domain.SessionDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessionService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSessionDTO(session))
}

// @Summary Update a session
// @Description Partial update. Completing a session computes its performance once; terminal sessions reject further status changes. Supplying version enables the optimistic concurrency check.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body domain.UpdateSessionRequest true "Patch"
// @Success 200 {object} domain.SessionDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id} [patch]
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.sessionService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSessionDTO(session))
}
