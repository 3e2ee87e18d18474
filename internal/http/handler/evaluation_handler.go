package handler

import (
	"encoding/json"
	"net/http"

	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/mapper"
	"github.com/andemamma/collection-api/internal/service"
	"go.uber.org/zap"
)

type EvaluationHandler struct {
	evalService *service.EvaluationService
	logger      *zap.Logger
}

func NewEvaluationHandler(evalService *service.EvaluationService, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		evalService: evalService,
		logger:      logger,
	}
}

// @Summary Create a cost evaluation
// @Description Attach the cost worksheet to a completed session. One worksheet per session.
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path int true "Session ID"
// @Param request body domain.CostEvaluationRequest true "Worksheet"
// @Success 201 {object} domain.CostEvaluationDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/evaluation [post]
func (h *EvaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.CostEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	eval, err := h.evalService.Create(r.Context(), sessionID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToCostEvaluationDTO(eval))
}

// @Summary Get a session's cost evaluation
// @Tags Evaluations
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} domain.CostEvaluationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /sessions/{id}/evaluation [get]
func (h *EvaluationHandler) GetBySession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	eval, err := h.evalService.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToCostEvaluationDTO(eval))
}

// @Summary Delete a cost evaluation
// @Tags Evaluations
// @Param id path int true "Evaluation ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.evalService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
