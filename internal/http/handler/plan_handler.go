package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/andemamma/collection-api/internal/auth"
	"github.com/andemamma/collection-api/internal/domain"
	"github.com/andemamma/collection-api/internal/mapper"
	"github.com/andemamma/collection-api/internal/service"
	"go.uber.org/zap"
)

type PlanHandler struct {
	planService *service.PlanService
	logger      *zap.Logger
}

func NewPlanHandler(planService *service.PlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// @Summary Submit weekly plans
// @Description Submit a batch of weekly plan entries. The batch is transactional: any invalid entry rejects the whole submission.
// @Tags WeeklyPlans
// @Accept json
// @Produce json
// @Param request body domain.SubmitPlansRequest true "Plan batch"
// @Success 201 {object} domain.SubmitPlansResponse
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /weekly-plans [post]
func (h *PlanHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitPlansRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	if req.SubmittedBy == "" {
		if userCtx, ok := auth.FromContext(r.Context()); ok {
			req.SubmittedBy = userCtx.DisplayName
		}
	}

	resp, err := h.planService.SubmitPlans(r.Context(), &req)
	if err != nil {
		if resp != nil {
			// Validation failure naming the offending entry
			status := http.StatusUnprocessableEntity
			if errors.Is(err, service.ErrDuplicateSlot) || errors.Is(err, service.ErrVersionConflict) {
				status = http.StatusConflict
			}
			respondJSON(w, status, resp)
			return
		}
		h.logger.Error("plan submission failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// @Summary List weekly plans
// @Description List plan slots with plan_date inside the inclusive range
// @Tags WeeklyPlans
// @Produce json
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} domain.WeeklyPlanSlotDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Router /weekly-plans [get]
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	start, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("start"), time.UTC)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "start must be a YYYY-MM-DD date")
		return
	}
	end, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("end"), time.UTC)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "end must be a YYYY-MM-DD date")
		return
	}

	slots, err := h.planService.QueryRange(r.Context(), start, end)
	if err != nil {
		h.logger.Error("plan range query failed", zap.Error(err))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToWeeklyPlanSlotDTOs(slots))
}

// @Summary Get a plan slot
// @Tags WeeklyPlans
// @Produce json
// @Param id path int true "Plan slot ID"
// @Success 200 {object} domain.WeeklyPlanSlotDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /weekly-plans/{id} [get]
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	slot, err := h.planService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToWeeklyPlanSlotDTO(slot))
}

// @Summary Record a plan outcome
// @Description Record the terminal outcome of a slot: completed, rejected or not_completed
// @Tags WeeklyPlans
// @Accept json
// @Produce json
// @Param id path int true "Plan slot ID"
// @Param request body domain.PlanOutcomeRequest true "Outcome"
// @Success 200 {object} domain.WeeklyPlanSlotDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /weekly-plans/{id}/outcome [patch]
func (h *PlanHandler) SetOutcome(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.PlanOutcomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	slot, err := h.planService.SetOutcome(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToWeeklyPlanSlotDTO(slot))
}

// @Summary Assign a resource to a plan slot
// @Description Assign the coordinator (instore) or driver (regular) after batch submission
// @Tags WeeklyPlans
// @Accept json
// @Produce json
// @Param id path int true "Plan slot ID"
// @Param request body domain.AssignResourceRequest true "Resource assignment"
// @Success 200 {object} domain.WeeklyPlanSlotDTO
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /weekly-plans/{id}/resource [patch]
func (h *PlanHandler) AssignResource(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req domain.AssignResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slot, err := h.planService.AssignResource(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToWeeklyPlanSlotDTO(slot))
}

// @Summary Delete a draft plan slot
// @Description Delete a slot that is still a draft. Scheduled and concluded slots cannot be deleted.
// @Tags WeeklyPlans
// @Param id path int true "Plan slot ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 422 {object} domain.APIError
// @Security BearerAuth
// @Router /weekly-plans/{id} [delete]
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.planService.DeleteDraft(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
